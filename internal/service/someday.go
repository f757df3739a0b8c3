package service

import (
	"context"
	"fmt"

	"github.com/TWRT/things-taskwarrior/internal/client"
)

// Someday memoizes the "someday" wait date for one run. The provider is
// called at most once, on first use. Not safe for concurrent use.
type Someday struct {
	provider client.SomedayProvider
	resolved bool
	value    string
	err      error
}

func NewSomeday(provider client.SomedayProvider) *Someday {
	return &Someday{provider: provider}
}

func (s *Someday) Value(ctx context.Context) (string, error) {
	if !s.resolved {
		s.value, s.err = s.provider.Someday(ctx)
		if s.err != nil {
			s.err = fmt.Errorf("resolve someday: %w", s.err)
		}
		s.resolved = true
	}
	return s.value, s.err
}
