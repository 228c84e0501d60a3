package agents

import (
	"context"
	"fmt"

	"github.com/MehanazMI/tea-stall-bench/pkg/openrouter"
)

// fakeGenerator returns canned responses in order, recording every request.
type fakeGenerator struct {
	responses []string
	errs      []error
	calls     int
	lastReqs  []openrouter.Request
}

func (f *fakeGenerator) Generate(ctx context.Context, req openrouter.Request) (string, error) {
	idx := f.calls
	f.calls++
	f.lastReqs = append(f.lastReqs, req)
	if idx < len(f.errs) && f.errs[idx] != nil {
		return "", f.errs[idx]
	}
	if idx >= len(f.responses) {
		return "", fmt.Errorf("no response left at call=%d", f.calls)
	}
	return f.responses[idx], nil
}

type fakeSearchProvider struct {
	result string
	err    error
	calls  int
	last   string
}

func (f *fakeSearchProvider) Search(ctx context.Context, query string) (string, error) {
	f.calls++
	f.last = query
	if f.err != nil {
		return "", f.err
	}
	return f.result, nil
}
