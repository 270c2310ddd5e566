package prompt

import (
	"context"
	"sync"

	"github.com/hilthontt/chessrooms/internal/lobby"
)

type answer struct {
	value  string
	cancel bool
}

// Script answers prompts from a fixed list, in order. Once the list is
// exhausted every prompt is cancelled.
type Script struct {
	mu      sync.Mutex
	answers []answer
	asked   []lobby.Prompt
}

func Answers(values ...string) *Script {
	s := &Script{}
	for _, v := range values {
		s.answers = append(s.answers, answer{value: v})
	}
	return s
}

// Then queues another answer.
func (s *Script) Then(value string) *Script {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.answers = append(s.answers, answer{value: value})
	return s
}

// ThenCancel queues a cancelled prompt.
func (s *Script) ThenCancel() *Script {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.answers = append(s.answers, answer{cancel: true})
	return s
}

func (s *Script) Prompt(_ context.Context, p lobby.Prompt) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.asked = append(s.asked, p)
	if len(s.answers) == 0 {
		return "", false
	}
	a := s.answers[0]
	s.answers = s.answers[1:]
	if a.cancel {
		return "", false
	}
	return a.value, true
}

// Asked returns the prompts seen so far.
func (s *Script) Asked() []lobby.Prompt {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]lobby.Prompt(nil), s.asked...)
}

// Fields returns the field of every prompt seen so far.
func (s *Script) Fields() []lobby.Field {
	s.mu.Lock()
	defer s.mu.Unlock()
	fields := make([]lobby.Field, 0, len(s.asked))
	for _, p := range s.asked {
		fields = append(fields, p.Field)
	}
	return fields
}
