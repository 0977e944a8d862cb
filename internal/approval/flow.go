// Package approval implements the interactive consent flow that turns a
// user decision into a trust grant.
package approval

import (
	"context"
	"sync"
	"time"

	"github.com/msalhab/deedbridge/internal/logging"
	"github.com/msalhab/deedbridge/internal/trust"
)

// Decision is an explicit user choice on a consent surface.
type Decision int

const (
	DecisionApproved Decision = iota + 1
	DecisionDenied
)

// Outcome is the terminal state of one approval flow. Exactly one outcome
// resolves each flow; later signals are ignored.
type Outcome int

const (
	Approved Outcome = iota + 1
	Denied
	TimedOut
	Cancelled
)

// Wire reasons reported to the requesting page.
const (
	ReasonApproved        = "approved"
	ReasonAlreadyApproved = "already_approved"
	ReasonDenied          = "user_denied"
	ReasonTimeout         = "timeout"
	ReasonCancelled       = "cancelled"
)

// Fallbacks when the caller omits its self-description.
const (
	defaultAppName = "Unknown application"
	defaultReason  = "No reason provided"
)

// ConsentRequest is what the consent surface shows the user.
type ConsentRequest struct {
	Origin  string
	AppName string
	Reason  string
}

// Prompt is a live consent surface. Decisions delivers at most one explicit
// user choice; Dismissed fires if the surface is closed without one.
type Prompt interface {
	Decisions() <-chan Decision
	Dismissed() <-chan struct{}
	Close()
}

// Prompter opens consent surfaces. The terminal prompter lives in the host
// package; tests supply fakes.
type Prompter interface {
	Present(ctx context.Context, req ConsentRequest) (Prompt, error)
}

// Result is the resolved flow.
type Result struct {
	Outcome   Outcome
	Reason    string
	ExpiresAt time.Time // set only when Outcome is Approved
}

// Flow drives consent prompts and writes grants into the trust store.
// At most one prompt is outstanding per origin; concurrent requests for the
// same origin coalesce onto the first prompt's resolution.
type Flow struct {
	store    *trust.Store
	prompter Prompter
	timeout  time.Duration
	days     int
	logger   logging.Logger

	mu      sync.Mutex
	pending map[string]*pendingApproval
}

type pendingApproval struct {
	done   chan struct{}
	result Result
	err    error
}

func NewFlow(store *trust.Store, prompter Prompter, timeout time.Duration, days int, logger logging.Logger) *Flow {
	return &Flow{
		store:    store,
		prompter: prompter,
		timeout:  timeout,
		days:     days,
		logger:   logger.With("module", "approval_flow"),
		pending:  make(map[string]*pendingApproval),
	}
}

// Request resolves an approval for origin. Already-approved origins resolve
// immediately without a prompt. Otherwise the flow waits for the first of:
// an explicit decision, surface dismissal, the flow timeout, or context
// cancellation.
func (f *Flow) Request(ctx context.Context, origin, appName, reason string) (Result, error) {
	approved, err := f.store.IsApproved(ctx, origin)
	if err != nil {
		return Result{}, err
	}
	if approved {
		return Result{Outcome: Approved, Reason: ReasonAlreadyApproved}, nil
	}

	f.mu.Lock()
	if p, ok := f.pending[origin]; ok {
		// coalesce onto the outstanding prompt, never replace it
		f.mu.Unlock()
		select {
		case <-p.done:
			return p.result, p.err
		case <-ctx.Done():
			return Result{}, ctx.Err()
		}
	}
	p := &pendingApproval{done: make(chan struct{})}
	f.pending[origin] = p
	f.mu.Unlock()

	p.result, p.err = f.decide(ctx, origin, appName, reason)

	f.mu.Lock()
	delete(f.pending, origin)
	f.mu.Unlock()
	close(p.done)

	return p.result, p.err
}

func (f *Flow) decide(ctx context.Context, origin, appName, reason string) (Result, error) {
	if appName == "" {
		appName = defaultAppName
	}
	if reason == "" {
		reason = defaultReason
	}

	prompt, err := f.prompter.Present(ctx, ConsentRequest{Origin: origin, AppName: appName, Reason: reason})
	if err != nil {
		return Result{}, err
	}
	defer prompt.Close()

	timer := time.NewTimer(f.timeout)
	defer timer.Stop()

	// The first signal wins; the single select is what guarantees a flow
	// never resolves twice.
	select {
	case d := <-prompt.Decisions():
		if d == DecisionApproved {
			entry, err := f.store.Approve(ctx, origin, f.days)
			if err != nil {
				return Result{}, err
			}
			f.logger.Info(ctx, "consent granted", "origin", origin, "app", appName)
			return Result{Outcome: Approved, Reason: ReasonApproved, ExpiresAt: entry.ExpiresAt}, nil
		}
		f.logger.Info(ctx, "consent denied", "origin", origin, "app", appName)
		return Result{Outcome: Denied, Reason: ReasonDenied}, nil

	case <-prompt.Dismissed():
		f.logger.Info(ctx, "consent surface dismissed", "origin", origin)
		return Result{Outcome: Cancelled, Reason: ReasonCancelled}, nil

	case <-timer.C:
		f.logger.Info(ctx, "consent timed out", "origin", origin)
		return Result{Outcome: TimedOut, Reason: ReasonTimeout}, nil

	case <-ctx.Done():
		return Result{Outcome: Cancelled, Reason: ReasonCancelled}, nil
	}
}
