// Package bridge implements the message protocol between untrusted page
// origins and the privileged mediator: the tagged message vocabulary, the
// pending-response route table, the canonical response formatter, and the
// dispatcher that ties them to the trust gate.
package bridge

import (
	"github.com/msalhab/deedbridge/internal/search"
)

// Wire tags. Inbound tags classify into three tiers: public (always
// answered), protected-silent (no reply at all for unapproved origins), and
// protected-answered (error-replied once past the approval gate).
const (
	TagDiscover         = "deedbridge_discover"
	TagExists           = "deedbridge_exists"
	TagRequestApproval  = "deedbridge_request_approval"
	TagApprovalResult   = "deedbridge_approval_result"
	TagPing             = "deedbridge_ping"
	TagPong             = "deedbridge_pong"
	TagAuthStatus       = "deedbridge_auth_status"
	TagAuthStatusResult = "deedbridge_auth_status_result"
	TagLookup           = "deedbridge_lookup"
	TagLookupResult     = "deedbridge_lookup_result"
)

// Message is the closed union of inbound message kinds. The dispatcher
// switches exhaustively over it; adding a kind forces a decision at every
// switch point.
type Message interface {
	isMessage()
}

// Discover is the public presence probe.
type Discover struct{}

// ApprovalRequest asks the user to grant the sending origin access.
type ApprovalRequest struct {
	AppName string `json:"appName" mapstructure:"appName"`
	Reason  string `json:"reason" mapstructure:"reason"`
}

// Ping is the protected availability probe. Unapproved origins get no
// answer at all.
type Ping struct{}

// AuthStatusRequest asks whether the portal session is live.
type AuthStatusRequest struct {
	RequestID string `json:"requestId" mapstructure:"requestId"`
}

// LookupRequest carries a raw, not-yet-validated deed lookup.
type LookupRequest struct {
	search.RawRequest `mapstructure:",squash"`
}

func (Discover) isMessage()          {}
func (ApprovalRequest) isMessage()   {}
func (Ping) isMessage()              {}
func (AuthStatusRequest) isMessage() {}
func (LookupRequest) isMessage()     {}
