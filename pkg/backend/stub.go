package backend

import (
	"context"
	"fmt"
	"strings"
)

// Stub is a deterministic offline backend. It echoes the shape of the
// prompt it received, which makes the full pipeline exercisable without
// any model running.
type Stub struct{}

// NewStub creates the offline backend.
func NewStub() *Stub { return &Stub{} }

// Name implements Completer.
func (s *Stub) Name() string { return "stub" }

// Complete implements Completer. The response is a pure function of the
// prompt, so repeated runs over identical input are byte-identical.
func (s *Stub) Complete(_ context.Context, prompt string) (string, error) {
	first := firstLine(prompt)
	if len(first) > 80 {
		first = first[:80] + "..."
	}
	out := fmt.Sprintf("[stub response] received prompt (%d chars)", len(prompt))
	if first != "" {
		out += "\nfirst line: " + first
	}
	return out, nil
}

func firstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			return line
		}
	}
	return ""
}
