package main

import (
	"context"
	"sync"

	"github.com/hilthontt/chessrooms/internal/lobby"
)

// flagPrompter answers from command line flags and asks fallback for
// anything not given. A flag set to "" is an answer, not a gap.
type flagPrompter struct {
	mu       sync.Mutex
	values   map[string]string
	fallback lobby.Prompter
}

func newFlagPrompter(fallback lobby.Prompter) *flagPrompter {
	return &flagPrompter{values: make(map[string]string), fallback: fallback}
}

func (p *flagPrompter) setter(field string) func(string) error {
	return func(v string) error {
		p.mu.Lock()
		defer p.mu.Unlock()
		p.values[field] = v
		return nil
	}
}

func (p *flagPrompter) Prompt(ctx context.Context, pr lobby.Prompt) (string, bool) {
	p.mu.Lock()
	v, ok := p.values[pr.Field.String()]
	p.mu.Unlock()
	if ok {
		return v, true
	}
	return p.fallback.Prompt(ctx, pr)
}
