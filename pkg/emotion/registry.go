package emotion

import (
	"math/rand"
	"sync"

	"github.com/sirupsen/logrus"
)

// Registry owns one stabilizer per monitored subject. Each stabilizer
// serializes its own state internally, so concurrent sampling flows for
// different subjects never contend and flows for the same subject stay
// consistent.
type Registry struct {
	cfg Config
	log *logrus.Logger

	mu          sync.Mutex
	stabilizers map[string]*Stabilizer
	seed        func() *rand.Rand
}

func NewRegistry(cfg Config, log *logrus.Logger) *Registry {
	return &Registry{
		cfg:         cfg,
		log:         log,
		stabilizers: make(map[string]*Stabilizer),
	}
}

// WithRandSource makes every stabilizer the registry creates draw from
// seed(). Tests use it to pin the fallback policy.
func (r *Registry) WithRandSource(seed func() *rand.Rand) *Registry {
	r.seed = seed
	return r
}

// For returns the stabilizer for a subject, creating it at the neutral
// baseline on first use.
func (r *Registry) For(subjectID string) *Stabilizer {
	r.mu.Lock()
	defer r.mu.Unlock()

	st, ok := r.stabilizers[subjectID]
	if !ok {
		var rng *rand.Rand
		if r.seed != nil {
			rng = r.seed()
		}
		st = NewStabilizer(r.cfg, r.log, rng)
		r.stabilizers[subjectID] = st
	}

	return st
}
