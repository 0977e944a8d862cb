package host

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/msalhab/deedbridge/internal/approval"
)

func newPipePrompt(t *testing.T) (*terminalPrompt, *os.File) {
	t.Helper()
	r, w, err := os.Pipe()
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = r.Close()
		_ = w.Close()
	})

	p := &terminalPrompt{
		tty:       r,
		decisions: make(chan approval.Decision, 1),
		dismissed: make(chan struct{}),
	}
	go p.read()
	return p, w
}

func waitDecision(t *testing.T, p *terminalPrompt) approval.Decision {
	t.Helper()
	select {
	case d := <-p.Decisions():
		return d
	case <-time.After(time.Second):
		t.Fatal("no decision")
		return 0
	}
}

func TestTerminalPromptApproves(t *testing.T) {
	p, w := newPipePrompt(t)

	_, err := w.WriteString("y\n")
	require.NoError(t, err)

	require.Equal(t, approval.DecisionApproved, waitDecision(t, p))
}

func TestTerminalPromptApprovesVerbose(t *testing.T) {
	p, w := newPipePrompt(t)

	_, err := w.WriteString("  YES \n")
	require.NoError(t, err)

	require.Equal(t, approval.DecisionApproved, waitDecision(t, p))
}

func TestTerminalPromptDeniesByDefault(t *testing.T) {
	p, w := newPipePrompt(t)

	_, err := w.WriteString("\n")
	require.NoError(t, err)

	require.Equal(t, approval.DecisionDenied, waitDecision(t, p))
}

func TestTerminalPromptDismissOnClose(t *testing.T) {
	p, w := newPipePrompt(t)

	require.NoError(t, w.Close())

	select {
	case <-p.Dismissed():
	case <-time.After(time.Second):
		t.Fatal("no dismissal")
	}
}

func TestPresentFailsWithoutTTY(t *testing.T) {
	orig := openTTY
	defer func() { openTTY = orig }()

	// a pipe is a file but not a terminal
	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer r.Close()
	defer w.Close()
	openTTY = func() (*os.File, error) { return r, nil }

	_, err = NewTerminalPrompter().Present(context.Background(), approval.ConsentRequest{Origin: "https://app.example"})
	require.Error(t, err)
}
