package classifier

import (
	"sync"

	"golang.org/x/net/context"
)

// Stub replays a fixed script of results, cycling when exhausted. It
// backs tests and camera-less development environments.
type Stub struct {
	mu     sync.Mutex
	script []StubResult
	pos    int
}

type StubResult struct {
	Scores map[string]float64
	Err    error
}

// NewStub builds a scripted classifier. A nil script produces a
// permanently neutral face.
func NewStub(script []StubResult) *Stub {
	if len(script) == 0 {
		script = []StubResult{{Scores: map[string]float64{"neutral": 0.85}}}
	}
	return &Stub{script: script}
}

func (s *Stub) Scores(_ context.Context, _ []byte) (map[string]float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := s.script[s.pos%len(s.script)]
	s.pos++

	return r.Scores, r.Err
}
