package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWarmer struct {
	ok    int
	calls atomic.Int32
	mu    sync.Mutex
	last  []string
}

func (w *fakeWarmer) Warm(_ context.Context, symbols []string) int {
	w.calls.Add(1)
	w.mu.Lock()
	w.last = symbols
	w.mu.Unlock()
	return w.ok
}

type fakeAlerter struct {
	mu   sync.Mutex
	msgs []string
}

func (a *fakeAlerter) Broadcast(_ context.Context, text string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.msgs = append(a.msgs, text)
	return nil
}

func TestRunWarmupNow(t *testing.T) {
	w := &fakeWarmer{ok: 2}
	a := &fakeAlerter{}
	s := NewScheduler(context.Background(), w, []string{"AAPL", "MSFT"}, a, nil)

	assert.Equal(t, 2, s.RunWarmupNow())
	assert.Equal(t, []string{"AAPL", "MSFT"}, w.last)
	assert.Empty(t, a.msgs)
}

func TestRunWarmupNow_AlertsWhenAllFail(t *testing.T) {
	a := &fakeAlerter{}
	s := NewScheduler(context.Background(), &fakeWarmer{}, []string{"AAPL"}, a, nil)

	assert.Zero(t, s.RunWarmupNow())
	require.Len(t, a.msgs, 1)
	assert.Contains(t, a.msgs[0], "AAPL")
}

func TestRunWarmupNow_NoSymbols(t *testing.T) {
	w := &fakeWarmer{}
	s := NewScheduler(context.Background(), w, nil, nil, nil)
	assert.Zero(t, s.RunWarmupNow())
	assert.Zero(t, w.calls.Load())
}

func TestRegister(t *testing.T) {
	s := NewScheduler(context.Background(), &fakeWarmer{}, []string{"AAPL"}, nil, nil)
	assert.Error(t, s.Register("not a cron"))
	assert.NoError(t, s.Register("0 */10 * * * *"))
}

func TestCronFiresWarmup(t *testing.T) {
	w := &fakeWarmer{ok: 1}
	s := NewScheduler(context.Background(), w, []string{"AAPL"}, nil, nil)
	require.NoError(t, s.Register("@every 1s"))
	s.Start()
	defer s.Stop()

	assert.Eventually(t, func() bool { return w.calls.Load() >= 1 }, 3*time.Second, 20*time.Millisecond)
}
