package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// maxConcurrentUpdates bounds the handlers running at once. A slow command
// for one chat does not hold up replies to another.
const maxConcurrentUpdates = 8

// CommandHandler turns an incoming message into a reply. An empty reply sends
// nothing.
type CommandHandler func(ctx context.Context, text string) string

// telegramUpdate represents a Telegram update from long polling.
type telegramUpdate struct {
	UpdateID int `json:"update_id"`
	Message  *struct {
		Text string `json:"text"`
		Chat struct {
			ID int64 `json:"id"`
		} `json:"chat"`
	} `json:"message"`
}

// StartPolling begins long-polling for messages. Each update is handled on
// its own goroutine. Blocks until ctx is cancelled and in-flight handlers
// have returned.
func (t *TelegramNotifier) StartPolling(ctx context.Context, handler CommandHandler) {
	var g errgroup.Group
	g.SetLimit(maxConcurrentUpdates)
	defer func() {
		_ = g.Wait()
		t.Logger.Info("telegram polling stopped")
	}()

	offset := 0
	for {
		if ctx.Err() != nil {
			return
		}

		updates, err := t.getUpdates(ctx, offset)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			t.Logger.Warn("polling request failed", zap.Error(err))
			t.wait(ctx)
			continue
		}

		for _, update := range updates {
			offset = update.UpdateID + 1
			if update.Message == nil || strings.TrimSpace(update.Message.Text) == "" {
				continue
			}
			chatID, text := update.Message.Chat.ID, strings.TrimSpace(update.Message.Text)
			g.Go(func() error {
				t.dispatch(ctx, chatID, text, handler)
				return nil
			})
		}
	}
}

func (t *TelegramNotifier) dispatch(ctx context.Context, chatID int64, text string, handler CommandHandler) {
	chat := strconv.FormatInt(chatID, 10)
	t.Logger.Info("received message", zap.String("chat_id", chat), zap.String("text", text))

	reply := handler(ctx, text)
	if reply == "" {
		return
	}
	if err := t.SendWithRetry(ctx, chat, reply, 2); err != nil {
		t.Logger.Error("send reply failed", zap.String("chat_id", chat), zap.Error(err))
	}
}

func (t *TelegramNotifier) getUpdates(ctx context.Context, offset int) ([]telegramUpdate, error) {
	apiURL := fmt.Sprintf("%s?offset=%d&timeout=30", t.endpoint("getUpdates"), offset)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create polling request: %w", err)
	}
	resp, err := t.Client.Do(req)
	if err != nil {
		return nil, err
	}
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("read polling response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("telegram API error: status %d, body: %s", resp.StatusCode, string(body))
	}

	var result struct {
		OK     bool             `json:"ok"`
		Result []telegramUpdate `json:"result"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("decode polling response: %w", err)
	}
	return result.Result, nil
}

func (t *TelegramNotifier) wait(ctx context.Context) {
	timer := time.NewTimer(t.pollWait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
