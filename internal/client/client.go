package client

import "context"

// SomedayProvider returns the date token Taskwarrior resolves "someday" to.
type SomedayProvider interface {
	Someday(ctx context.Context) (string, error)
}
