package assistant

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"StockPulse/internal/model"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	DefaultCallTimeout  = 15 * time.Second
	DefaultChainTimeout = 45 * time.Second

	minRemoteLength = 5
)

// skipTriggers route a message straight to the rule table. These are
// questions the canned replies already answer well.
var skipTriggers = []keyword{
	word("hello"), word("hi"), word("hey"), word("help"),
	phrase("what can you do"), phrase("how to start"), phrase("beginner"),
	phrase("what stock should i buy"), phrase("which stock"), phrase("recommend stock"),
	phrase("should buy"), phrase("good stock to buy"), phrase("best stock"),
}

// Router decides per message between the local rule table and the remote
// model chain. It never fails: every error path ends in a canned reply.
type Router struct {
	providers    []Provider
	rules        *RuleTable
	callTimeout  time.Duration
	chainTimeout time.Duration
	observer     func(model.Turn)
	logger       *zap.Logger
}

// RouterOption configures a Router.
type RouterOption func(*Router)

// WithRules replaces the local rule table.
func WithRules(t *RuleTable) RouterOption {
	return func(r *Router) {
		if t != nil {
			r.rules = t
		}
	}
}

// WithTimeouts bounds each provider call and the whole chain.
func WithTimeouts(call, chain time.Duration) RouterOption {
	return func(r *Router) {
		if call > 0 {
			r.callTimeout = call
		}
		if chain > 0 {
			r.chainTimeout = chain
		}
	}
}

// WithTurnObserver registers a callback invoked after every reply.
func WithTurnObserver(fn func(model.Turn)) RouterOption {
	return func(r *Router) { r.observer = fn }
}

// WithLogger attaches a logger.
func WithLogger(logger *zap.Logger) RouterOption {
	return func(r *Router) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRouter creates a Router over providers, tried in the given order.
func NewRouter(providers []Provider, opts ...RouterOption) *Router {
	r := &Router{
		providers:    providers,
		rules:        DefaultRuleTable(),
		callTimeout:  DefaultCallTimeout,
		chainTimeout: DefaultChainTimeout,
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Providers returns the names of the remote chain in order.
func (r *Router) Providers() []string {
	out := make([]string, len(r.providers))
	for i, p := range r.providers {
		out[i] = p.Name()
	}
	return out
}

// ShouldUseLocal reports whether message skips the remote chain.
func ShouldUseLocal(message string) bool {
	msg := normalize(message)
	return utf8.RuneCountInString(msg) < minRemoteLength || anyIn(msg, skipTriggers...)
}

// Respond answers one message.
func (r *Router) Respond(ctx context.Context, message, stockContext string) (turn model.Turn) {
	start := time.Now()
	turn = model.Turn{
		RequestID:    uuid.NewString(),
		Message:      message,
		StockContext: stockContext,
	}
	log := r.logger.With(zap.String("request_id", turn.RequestID))

	defer func() {
		if p := recover(); p != nil {
			log.Error("assistant panic, using local reply", zap.Any("panic", p))
			turn.Reply, turn.Source = r.rules.Reply(message, stockContext)
			turn.Route = model.RouteLocal
		}
		turn.Duration = time.Since(start)
		if r.observer != nil {
			r.observer(turn)
		}
	}()

	if !ShouldUseLocal(message) {
		if reply, name, ok := r.callChain(ctx, log, SystemPrompt(stockContext), message); ok {
			turn.Reply, turn.Source, turn.Route = reply, name, model.RouteRemote
			log.Info("assistant remote reply", zap.String("model", name), zap.Duration("took", time.Since(start)))
			return turn
		}
	}

	turn.Reply, turn.Source = r.rules.Reply(message, stockContext)
	turn.Route = model.RouteLocal
	log.Info("assistant local reply", zap.String("rule", turn.Source))
	return turn
}

func (r *Router) callChain(ctx context.Context, log *zap.Logger, system, user string) (string, string, bool) {
	if len(r.providers) == 0 {
		return "", "", false
	}
	ctx, cancel := context.WithTimeout(ctx, r.chainTimeout)
	defer cancel()

	for _, p := range r.providers {
		if err := ctx.Err(); err != nil {
			log.Warn("assistant chain out of time", zap.Error(err))
			return "", "", false
		}

		callCtx, cancelCall := context.WithTimeout(ctx, r.callTimeout)
		text, err := p.Complete(callCtx, system, user)
		cancelCall()

		if err == nil && strings.TrimSpace(text) != "" {
			return text, p.Name(), true
		}
		if err == nil {
			err = fmt.Errorf("%s: %w", p.Name(), errEmptyCompletion)
		}
		outcome := p.Classify(err)
		log.Warn("assistant provider failed",
			zap.String("model", p.Name()), zap.Stringer("outcome", outcome), zap.Error(err))
		if outcome == OutcomeAbort {
			return "", "", false
		}
	}
	return "", "", false
}
