package bridge

import (
	"encoding/json"
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// ErrUnknownTag marks message types outside the vocabulary. The dispatcher
// drops such messages without a reply.
type ErrUnknownTag struct {
	Tag string
}

func (e *ErrUnknownTag) Error() string {
	return fmt.Sprintf("unknown message tag %q", e.Tag)
}

// DecodeMessage turns a raw inbound message into its typed form. Payload
// fields are decoded weakly: pages routinely send numbers where the schema
// says string and vice versa, so the codec absorbs that instead of the
// validator.
func DecodeMessage(raw json.RawMessage) (Message, error) {
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("message decode error: %w", err)
	}

	tag, _ := fields["type"].(string)
	delete(fields, "type")

	switch tag {
	case TagDiscover:
		return Discover{}, nil
	case TagPing:
		return Ping{}, nil
	case TagRequestApproval:
		var msg ApprovalRequest
		if err := decodePayload(fields, &msg); err != nil {
			return nil, err
		}
		return msg, nil
	case TagAuthStatus:
		var msg AuthStatusRequest
		if err := decodePayload(fields, &msg); err != nil {
			return nil, err
		}
		return msg, nil
	case TagLookup:
		var msg LookupRequest
		if err := decodePayload(fields, &msg); err != nil {
			return nil, err
		}
		return msg, nil
	}

	return nil, &ErrUnknownTag{Tag: tag}
}

func decodePayload(fields map[string]any, target any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	if err := decoder.Decode(fields); err != nil {
		return fmt.Errorf("message payload decode error: %w", err)
	}
	return nil
}
