package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/msalhab/deedbridge/internal/approval"
	"github.com/msalhab/deedbridge/internal/common"
	"github.com/msalhab/deedbridge/internal/credential"
	"github.com/msalhab/deedbridge/internal/deeds"
	"github.com/msalhab/deedbridge/internal/logging"
	"github.com/msalhab/deedbridge/internal/search"
	"github.com/msalhab/deedbridge/internal/trust"
)

// AuthStatusUnknown is reported on replies that fail before the credential
// is ever consulted.
const AuthStatusUnknown = "unknown"

// Port delivers a reply to exactly one origin. Delivery is asynchronous
// message passing; the dispatcher never broadcasts.
type Port interface {
	Post(ctx context.Context, origin string, message any) error
}

// Exporter persists the canonical artifact of a successful lookup.
type Exporter interface {
	Export(ctx context.Context, requestID string, artifact *Artifact) error
}

// Dispatcher is the protocol state machine over inbound message kinds.
//
// Tier policy: discovery and approval requests are always answered; pings
// and auth-status probes from unapproved origins are dropped with no reply
// at all (the bridge must appear absent to strangers); lookups past the
// approval gate are always answered, with an error reply when invalid.
type Dispatcher struct {
	trust        *trust.Store
	approvals    *approval.Flow
	validator    *search.Validator
	orchestrator *deeds.Orchestrator
	credentials  credential.Provider
	routes       *RouteTable
	exporter     Exporter // optional
	logger       logging.Logger
}

// Config collects the dispatcher's collaborators.
type Config struct {
	Trust        *trust.Store
	Approvals    *approval.Flow
	Validator    *search.Validator
	Orchestrator *deeds.Orchestrator
	Credentials  credential.Provider
	Routes       *RouteTable
	Exporter     Exporter
	Logger       logging.Logger
}

func NewDispatcher(cfg Config) *Dispatcher {
	return &Dispatcher{
		trust:        cfg.Trust,
		approvals:    cfg.Approvals,
		validator:    cfg.Validator,
		orchestrator: cfg.Orchestrator,
		credentials:  cfg.Credentials,
		routes:       cfg.Routes,
		exporter:     cfg.Exporter,
		logger:       cfg.Logger.With("module", "dispatcher"),
	}
}

// Dispatch handles one inbound envelope. Malformed and unknown messages are
// dropped without a reply; everything else follows the tier policy.
func (d *Dispatcher) Dispatch(ctx context.Context, origin string, raw json.RawMessage, port Port) {
	msg, err := DecodeMessage(raw)
	if err != nil {
		var unknown *ErrUnknownTag
		if errors.As(err, &unknown) {
			d.logger.Debug(ctx, "unknown message dropped", "origin", origin, "tag", unknown.Tag)
		} else {
			d.logger.Warn(ctx, "malformed message dropped", "origin", origin, "error", err.Error())
		}
		return
	}

	switch m := msg.(type) {
	case Discover:
		d.post(ctx, port, origin, formatExistsReply())
	case ApprovalRequest:
		d.handleApproval(ctx, origin, m, port)
	case Ping:
		d.handlePing(ctx, origin, port)
	case AuthStatusRequest:
		d.handleAuthStatus(ctx, origin, m, port)
	case LookupRequest:
		d.handleLookup(ctx, origin, m, port)
	}
}

func (d *Dispatcher) handleApproval(ctx context.Context, origin string, msg ApprovalRequest, port Port) {
	result, err := d.approvals.Request(ctx, origin, msg.AppName, msg.Reason)
	if err != nil {
		d.logger.Error(ctx, "approval flow error", "origin", origin, "error", err.Error())
		d.post(ctx, port, origin, &ApprovalReply{
			Type:   TagApprovalResult,
			Reason: "internal_error",
		})
		return
	}

	d.post(ctx, port, origin, formatApprovalReply(result.Outcome == approval.Approved, result.ExpiresAt, result.Reason))
}

func (d *Dispatcher) handlePing(ctx context.Context, origin string, port Port) {
	if !d.gate(ctx, origin) {
		return
	}
	d.post(ctx, port, origin, &Pong{Type: TagPong})
}

func (d *Dispatcher) handleAuthStatus(ctx context.Context, origin string, msg AuthStatusRequest, port Port) {
	if !d.gate(ctx, origin) {
		return
	}

	status, err := d.credentials.Status(ctx)
	if err != nil {
		d.logger.Error(ctx, "credential status error", "origin", origin, "error", err.Error())
		d.post(ctx, port, origin, &AuthStatusReply{
			Type:      TagAuthStatusResult,
			RequestID: msg.RequestID,
			Status:    "error",
			Message:   common.ErrorInternal.Error(),
		})
		return
	}

	d.post(ctx, port, origin, &AuthStatusReply{
		Type:          TagAuthStatusResult,
		RequestID:     msg.RequestID,
		Authenticated: status.Authenticated,
		Status:        status.State,
		Message:       status.Message,
	})
}

func (d *Dispatcher) handleLookup(ctx context.Context, origin string, msg LookupRequest, port Port) {
	requestID := strings.TrimSpace(msg.RequestID)
	routed := requestID != ""
	if routed {
		d.routes.Register(requestID, origin)
	}

	approved, err := d.trust.IsApproved(ctx, origin)
	if err != nil {
		d.logger.Error(ctx, "trust check error", "origin", origin, "error", err.Error())
		d.reply(ctx, port, origin, requestID, routed,
			FormatLookupError(requestID, common.ErrorInternal.Error(), AuthStatusUnknown))
		return
	}
	if !approved {
		d.logger.Info(ctx, "lookup rejected: origin not approved", "origin", origin)
		d.reply(ctx, port, origin, requestID, routed,
			FormatLookupError(requestID, common.ErrNotApproved.Error(), AuthStatusUnknown))
		return
	}

	req, err := d.validator.Validate(&msg.RawRequest)
	if err != nil {
		var verr *search.ValidationError
		message := common.ErrValidation.Error()
		if errors.As(err, &verr) {
			message += ": " + strings.Join(verr.Violations, "; ")
		}
		d.logger.Info(ctx, "lookup rejected: validation failed", "origin", origin, "error", message)
		d.reply(ctx, port, origin, requestID, routed,
			FormatLookupError(requestID, message, AuthStatusUnknown))
		return
	}

	cred, err := d.credentials.Credential(ctx)
	if err != nil {
		d.logger.Error(ctx, "credential lookup error", "origin", origin, "error", err.Error())
		d.reply(ctx, port, origin, requestID, routed,
			FormatLookupError(requestID, common.ErrorInternal.Error(), AuthStatusUnknown))
		return
	}
	if cred == nil {
		status, serr := d.credentials.Status(ctx)
		if serr != nil {
			status = credential.Status{State: credential.StateNotAuthenticated, Message: "portal session unavailable"}
		}
		d.logger.Info(ctx, "lookup rejected: no portal session", "origin", origin)
		d.reply(ctx, port, origin, requestID, routed,
			FormatLookupError(requestID, common.ErrNotAuthenticated.Error()+": "+status.Message, status.State))
		return
	}

	results := d.orchestrator.Fetch(ctx, req, cred.Token)
	reply := FormatLookupReply(requestID, results, credential.StateAuthenticated)

	if d.exporter != nil && reply.Success {
		if err := d.exporter.Export(ctx, requestID, FormatResult(results)); err != nil {
			// export is best-effort; the live reply is unaffected
			d.logger.Warn(ctx, "artifact export failed", "requestId", requestID, "error", err.Error())
		}
	}

	d.logger.Info(ctx, "lookup completed", "origin", origin, "requestId", requestID,
		"requested", reply.Metadata.TotalRequested, "failed", reply.Metadata.TotalFailed)
	d.reply(ctx, port, origin, requestID, routed, reply)
}

// gate implements the silent-drop policy for protected probes: unapproved
// origins never observe a reply, so the bridge appears absent to them. The
// silence is intentional information hiding, not an oversight.
func (d *Dispatcher) gate(ctx context.Context, origin string) bool {
	approved, err := d.trust.IsApproved(ctx, origin)
	if err != nil {
		d.logger.Error(ctx, "trust check error", "origin", origin, "error", err.Error())
		return false
	}
	if !approved {
		d.logger.Debug(ctx, "protected probe silently dropped", "origin", origin)
		return false
	}
	return true
}

// reply targets the response at the origin recorded when the request
// arrived. A registered route that has vanished is an internal error: the
// reply is dropped, never redirected or broadcast.
func (d *Dispatcher) reply(ctx context.Context, port Port, origin, requestID string, routed bool, message any) {
	target := origin
	if routed {
		resolved, ok := d.routes.Resolve(requestID)
		if !ok {
			d.logger.Error(ctx, "reply dropped", "requestId", requestID, "error", common.ErrRouteNotFound.Error())
			return
		}
		target = resolved
	}
	d.post(ctx, port, target, message)
}

func (d *Dispatcher) post(ctx context.Context, port Port, origin string, message any) {
	if err := port.Post(ctx, origin, message); err != nil {
		d.logger.Error(ctx, "reply delivery failed", "origin", origin, "error", err.Error())
	}
}
