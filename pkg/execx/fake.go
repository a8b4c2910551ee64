package execx

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// FakeRunner is an in-memory Runner for tests. Responses are matched by
// command-line prefix; unmatched commands succeed with empty output.
type FakeRunner struct {
	mu        sync.Mutex
	responses []fakeResponse
	missing   map[string]bool
	Calls     []Command
}

type fakeResponse struct {
	prefix string
	out    string
	err    error
}

// NewFakeRunner returns an empty FakeRunner.
func NewFakeRunner() *FakeRunner {
	return &FakeRunner{missing: map[string]bool{}}
}

// Respond registers output (and optionally an error) for any command line
// beginning with prefix. Later registrations win over earlier ones.
func (f *FakeRunner) Respond(prefix, out string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses = append([]fakeResponse{{prefix: prefix, out: out, err: err}}, f.responses...)
}

// MarkMissing makes LookPath fail for name.
func (f *FakeRunner) MarkMissing(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.missing[name] = true
}

// Run records the call and returns the first matching registered response.
func (f *FakeRunner) Run(_ context.Context, _ string, name string, args ...string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	cmd := Command{Name: name, Args: args}
	f.Calls = append(f.Calls, cmd)

	line := cmd.String()
	for _, r := range f.responses {
		if strings.HasPrefix(line, r.prefix) {
			return r.out, r.err
		}
	}
	return "", nil
}

// LookPath fails only for names registered via MarkMissing.
func (f *FakeRunner) LookPath(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.missing[name] {
		return fmt.Errorf("%q not found on PATH", name)
	}
	return nil
}

// CallLines returns every recorded call as a rendered command line, in order.
func (f *FakeRunner) CallLines() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	lines := make([]string, len(f.Calls))
	for i, c := range f.Calls {
		lines[i] = c.String()
	}
	return lines
}

// Called reports whether any recorded call starts with prefix.
func (f *FakeRunner) Called(prefix string) bool {
	for _, line := range f.CallLines() {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}
	return false
}
