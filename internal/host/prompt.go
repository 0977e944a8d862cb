package host

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/msalhab/deedbridge/internal/approval"
)

// openTTY is a test seam. Stdin carries the message frames, so consent
// prompts must go through the controlling terminal instead.
var openTTY = func() (*os.File, error) {
	return os.OpenFile("/dev/tty", os.O_RDWR, 0)
}

// TerminalPrompter asks for consent on the controlling terminal.
type TerminalPrompter struct{}

func NewTerminalPrompter() *TerminalPrompter {
	return &TerminalPrompter{}
}

func (p *TerminalPrompter) Present(ctx context.Context, req approval.ConsentRequest) (approval.Prompt, error) {
	tty, err := openTTY()
	if err != nil {
		return nil, fmt.Errorf("terminal unavailable: %w", err)
	}
	if !term.IsTerminal(int(tty.Fd())) {
		_ = tty.Close()
		return nil, fmt.Errorf("consent requires an interactive terminal")
	}

	fmt.Fprintf(tty, "\n%q requests access to deed lookups.\n", req.Origin)
	fmt.Fprintf(tty, "Application: %s\nReason: %s\n", req.AppName, req.Reason)
	fmt.Fprint(tty, "Allow? [y/N] ")

	prompt := &terminalPrompt{
		tty:       tty,
		decisions: make(chan approval.Decision, 1),
		dismissed: make(chan struct{}),
	}
	go prompt.read()
	return prompt, nil
}

type terminalPrompt struct {
	tty       *os.File
	decisions chan approval.Decision
	dismissed chan struct{}
}

func (p *terminalPrompt) read() {
	line, err := bufio.NewReader(p.tty).ReadString('\n')
	if err != nil {
		// Close() during timeout also lands here
		close(p.dismissed)
		return
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		p.decisions <- approval.DecisionApproved
	default:
		p.decisions <- approval.DecisionDenied
	}
}

func (p *terminalPrompt) Decisions() <-chan approval.Decision { return p.decisions }
func (p *terminalPrompt) Dismissed() <-chan struct{}          { return p.dismissed }

func (p *terminalPrompt) Close() {
	_ = p.tty.Close()
}
