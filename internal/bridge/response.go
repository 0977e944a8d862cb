package bridge

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/msalhab/deedbridge/internal/common"
	"github.com/msalhab/deedbridge/internal/deeds"
)

// ExistsReply answers a discovery probe.
type ExistsReply struct {
	Type    string `json:"type"`
	Name    string `json:"name"`
	Version string `json:"version"`
}

// ApprovalReply reports the terminal outcome of an approval flow.
type ApprovalReply struct {
	Type      string `json:"type"`
	Approved  bool   `json:"approved"`
	ExpiresAt string `json:"expiresAt,omitempty"`
	Reason    string `json:"reason"`
}

// Pong answers an availability ping from an approved origin.
type Pong struct {
	Type string `json:"type"`
}

// AuthStatusReply describes the portal session.
type AuthStatusReply struct {
	Type          string `json:"type"`
	RequestID     string `json:"requestId"`
	Authenticated bool   `json:"authenticated"`
	Status        string `json:"status"`
	Message       string `json:"message"`
}

// LookupReply is the canonical bridge response for a lookup request.
//
// Invariants: Success == (Metadata.TotalSuccessful > 0) and
// len(Result) == Metadata.TotalSuccessful.
type LookupReply struct {
	Type       string            `json:"type"`
	RequestID  string            `json:"requestId"`
	Success    bool              `json:"success"`
	Result     []json.RawMessage `json:"result"`
	Error      *string           `json:"error"`
	AuthStatus string            `json:"authStatus"`
	Metadata   LookupMetadata    `json:"metadata"`
}

// LookupMetadata summarizes per-item outcomes.
type LookupMetadata struct {
	TotalRequested  int             `json:"totalRequested"`
	TotalSuccessful int             `json:"totalSuccessful"`
	TotalFailed     int             `json:"totalFailed"`
	Failures        []LookupFailure `json:"failures"`
}

// LookupFailure records one failed item.
type LookupFailure struct {
	RecordID string `json:"recordId"`
	Error    string `json:"error"`
}

// Artifact is the exported form of a lookup's successful payloads. Its
// "result" field carries exactly the same name and shape as LookupReply's:
// live responses and exported artifacts must never diverge.
type Artifact struct {
	Result []json.RawMessage `json:"result"`
}

// FormatResult builds the export artifact from a batch: the data of every
// successful item, in batch order.
func FormatResult(results []deeds.Result) *Artifact {
	return &Artifact{Result: successPayloads(results)}
}

// FormatLookupReply builds the full bridge response for a completed batch.
// Error is nil whenever at least one item succeeded; a totally failed batch
// surfaces the single item's error, or a count-prefixed aggregate when more
// than one item failed.
func FormatLookupReply(requestID string, results []deeds.Result, authStatus string) *LookupReply {
	payloads := successPayloads(results)
	failures := collectFailures(results)

	reply := &LookupReply{
		Type:       TagLookupResult,
		RequestID:  requestID,
		Success:    len(payloads) > 0,
		Result:     payloads,
		AuthStatus: authStatus,
		Metadata: LookupMetadata{
			TotalRequested:  len(results),
			TotalSuccessful: len(payloads),
			TotalFailed:     len(failures),
			Failures:        failures,
		},
	}

	if len(payloads) == 0 {
		msg := "no deeds requested"
		switch {
		case len(failures) == 1:
			msg = failures[0].Error
		case len(failures) > 1:
			msg = fmt.Sprintf("%d lookups failed (first: %s)", len(failures), failures[0].Error)
		}
		reply.Error = &msg
	}

	return reply
}

// FormatLookupError builds an error response for failures that never reach
// the orchestrator: authorization, validation, missing credential.
func FormatLookupError(requestID, message, authStatus string) *LookupReply {
	msg := message
	return &LookupReply{
		Type:       TagLookupResult,
		RequestID:  requestID,
		Success:    false,
		Result:     []json.RawMessage{},
		Error:      &msg,
		AuthStatus: authStatus,
	}
}

func formatApprovalReply(approved bool, expiresAt time.Time, reason string) *ApprovalReply {
	reply := &ApprovalReply{
		Type:     TagApprovalResult,
		Approved: approved,
		Reason:   reason,
	}
	if approved && !expiresAt.IsZero() {
		reply.ExpiresAt = expiresAt.UTC().Format(time.RFC3339)
	}
	return reply
}

func formatExistsReply() *ExistsReply {
	return &ExistsReply{
		Type:    TagExists,
		Name:    common.BridgeName,
		Version: common.BridgeVersion,
	}
}

func successPayloads(results []deeds.Result) []json.RawMessage {
	payloads := make([]json.RawMessage, 0, len(results))
	for i := range results {
		if results[i].Success {
			payloads = append(payloads, results[i].Data)
		}
	}
	return payloads
}

func collectFailures(results []deeds.Result) []LookupFailure {
	var failures []LookupFailure
	for i := range results {
		if !results[i].Success {
			failures = append(failures, LookupFailure{
				RecordID: results[i].DeedNumber,
				Error:    results[i].Err,
			})
		}
	}
	return failures
}
