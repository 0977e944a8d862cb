// Package host runs the bridge as a native messaging endpoint: framed JSON
// envelopes on stdin/stdout, consent prompts on the controlling terminal.
package host

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
)

// maxFrameSize caps inbound frames so a broken peer cannot make the host
// allocate unbounded memory.
const maxFrameSize = 4 << 20

var ErrFrameTooLarge = errors.New("frame exceeds size limit")

// Envelope is one framed message. The mediating peer stamps Origin on the
// way in and routes on it on the way out; the host never trusts a page to
// name its own origin.
type Envelope struct {
	Origin  string          `json:"origin"`
	Message json.RawMessage `json:"message"`
}

// FrameConn reads and writes length-prefixed JSON envelopes. Each frame is a
// little-endian uint32 byte length followed by the JSON body. Writes are
// serialized so concurrent handlers never interleave frames.
type FrameConn struct {
	r io.Reader

	wmu sync.Mutex
	w   io.Writer
}

func NewFrameConn(r io.Reader, w io.Writer) *FrameConn {
	return &FrameConn{r: r, w: w}
}

// ReadEnvelope blocks until a full frame arrives. io.EOF is returned
// unwrapped when the peer closes the channel cleanly.
func (c *FrameConn) ReadEnvelope() (*Envelope, error) {
	var length uint32
	if err := binary.Read(c.r, binary.LittleEndian, &length); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("frame header read error: %w", err)
	}
	if length > maxFrameSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrFrameTooLarge, length)
	}

	body := make([]byte, length)
	if _, err := io.ReadFull(c.r, body); err != nil {
		return nil, fmt.Errorf("frame body read error: %w", err)
	}

	env := &Envelope{}
	if err := json.Unmarshal(body, env); err != nil {
		return nil, fmt.Errorf("frame decode error: %w", err)
	}
	return env, nil
}

// Post frames message for origin and writes it out. It implements the
// dispatcher's reply port.
func (c *FrameConn) Post(ctx context.Context, origin string, message any) error {
	raw, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("reply encode error: %w", err)
	}

	body, err := json.Marshal(&Envelope{Origin: origin, Message: raw})
	if err != nil {
		return fmt.Errorf("envelope encode error: %w", err)
	}

	c.wmu.Lock()
	defer c.wmu.Unlock()

	if err := binary.Write(c.w, binary.LittleEndian, uint32(len(body))); err != nil {
		return fmt.Errorf("frame header write error: %w", err)
	}
	if _, err := c.w.Write(body); err != nil {
		return fmt.Errorf("frame body write error: %w", err)
	}
	return nil
}
