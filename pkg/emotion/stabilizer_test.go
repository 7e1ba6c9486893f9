package emotion

import (
	"errors"
	"math/rand"
	"testing"
	"time"
)

// fakeClock lets tests drive the stabilizer's notion of elapsed time.
type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestStabilizer(clock *fakeClock) *Stabilizer {
	s := NewStabilizer(DefaultConfig(), nil, rand.New(rand.NewSource(1)))
	s.now = clock.now
	s.lastChange = clock.now()
	return s
}

func scoresFor(label string) ClassifyFunc {
	return func() (map[string]float64, error) {
		scores := map[string]float64{label: 0.9}
		for _, l := range Labels {
			if l != label {
				scores[l] = 0.01
			}
		}
		return scores, nil
	}
}

// observe runs enough ticks that the throttle admits exactly one real
// classification.
func observe(s *Stabilizer, classify ClassifyFunc) State {
	var st State
	for i := 0; i < s.cfg.SampleEvery; i++ {
		st = s.Observe(classify)
	}
	return st
}

func TestBaselineIsNeutral(t *testing.T) {
	s := newTestStabilizer(newFakeClock())

	st := s.Current()
	if st.Emotion != LabelNeutral {
		t.Errorf("Emotion = %q, want %q", st.Emotion, LabelNeutral)
	}
	if st.Confidence != 85.0 {
		t.Errorf("Confidence = %v, want 85.0", st.Confidence)
	}
}

func TestThrottleSkipsIntermediateTicks(t *testing.T) {
	s := newTestStabilizer(newFakeClock())

	calls := 0
	classify := func() (map[string]float64, error) {
		calls++
		return map[string]float64{LabelHappy: 0.9}, nil
	}

	for i := 0; i < 9; i++ {
		s.Observe(classify)
	}

	if calls != 3 {
		t.Errorf("classifier calls = %d, want 3 (every 3rd of 9 ticks)", calls)
	}
}

func TestNoChangeWithFewerThanThreeVotes(t *testing.T) {
	clock := newFakeClock()
	s := newTestStabilizer(clock)

	for i := 0; i < 2; i++ {
		clock.advance(3 * time.Second)
		observe(s, scoresFor(LabelHappy))
	}

	if got := s.Current().Emotion; got != LabelNeutral {
		t.Errorf("Emotion = %q after 2 buffered votes, want %q", got, LabelNeutral)
	}
}

func TestConvergesOnConsistentLabel(t *testing.T) {
	clock := newFakeClock()
	s := newTestStabilizer(clock)

	clock.advance(3 * time.Second)
	for i := 0; i < 3; i++ {
		observe(s, scoresFor(LabelHappy))
	}

	st := s.Current()
	if st.Emotion != LabelHappy {
		t.Fatalf("Emotion = %q, want %q", st.Emotion, LabelHappy)
	}
	if st.Confidence <= 60 {
		t.Errorf("Confidence = %v, want > 60", st.Confidence)
	}
}

func TestAlternatingLabelsNeverCommit(t *testing.T) {
	clock := newFakeClock()
	s := newTestStabilizer(clock)

	// Rotating three labels caps every count at 2-of-5, so no vote
	// ever reaches the 3-occurrence majority.
	rotation := []string{LabelHappy, LabelSad, LabelAngry}
	for i := 0; i < 12; i++ {
		clock.advance(3 * time.Second)
		observe(s, scoresFor(rotation[i%3]))
	}

	if got := s.Current().Emotion; got != LabelNeutral {
		t.Errorf("Emotion = %q under alternating labels, want %q", got, LabelNeutral)
	}
}

func TestNoTwoVoteMajorityCommit(t *testing.T) {
	clock := newFakeClock()
	s := newTestStabilizer(clock)

	// Buffer ends as [happy sad happy sad angry]: no label reaches 3.
	for _, l := range []string{LabelHappy, LabelSad, LabelHappy, LabelSad, LabelAngry} {
		clock.advance(3 * time.Second)
		observe(s, scoresFor(l))
	}

	if got := s.Current().Emotion; got != LabelNeutral {
		t.Errorf("Emotion = %q, want %q (no 3-vote majority)", got, LabelNeutral)
	}
}

func TestDwellBlocksRapidChange(t *testing.T) {
	clock := newFakeClock()
	s := newTestStabilizer(clock)

	// Three consistent votes but under the 2s dwell since construction.
	clock.advance(time.Second)
	for i := 0; i < 3; i++ {
		observe(s, scoresFor(LabelHappy))
	}

	if got := s.Current().Emotion; got != LabelNeutral {
		t.Errorf("Emotion = %q within dwell window, want %q", got, LabelNeutral)
	}

	// Once the dwell elapses the same buffer commits on the next vote.
	clock.advance(3 * time.Second)
	observe(s, scoresFor(LabelHappy))

	if got := s.Current().Emotion; got != LabelHappy {
		t.Errorf("Emotion = %q after dwell elapsed, want %q", got, LabelHappy)
	}
}

func TestLowConfidenceNeverCommits(t *testing.T) {
	clock := newFakeClock()
	s := newTestStabilizer(clock)

	weak := func() (map[string]float64, error) {
		return map[string]float64{LabelSad: 0.4}, nil
	}

	for i := 0; i < 5; i++ {
		clock.advance(3 * time.Second)
		observe(s, weak)
	}

	if got := s.Current().Emotion; got != LabelNeutral {
		t.Errorf("Emotion = %q with 40%% confidence votes, want %q", got, LabelNeutral)
	}
}

func TestBufferEvictsOldest(t *testing.T) {
	clock := newFakeClock()
	s := newTestStabilizer(clock)

	for i := 0; i < 8; i++ {
		clock.advance(3 * time.Second)
		observe(s, scoresFor(LabelHappy))
	}

	if len(s.buffer) != s.cfg.BufferSize {
		t.Errorf("buffer len = %d, want %d", len(s.buffer), s.cfg.BufferSize)
	}
}

func TestFallbackHoldsWithinDwell(t *testing.T) {
	clock := newFakeClock()
	s := newTestStabilizer(clock)

	failing := func() (map[string]float64, error) {
		return nil, errors.New("model offline")
	}

	clock.advance(5 * time.Second) // under the 10s fallback dwell
	st := observe(s, failing)

	if st.Emotion != LabelNeutral {
		t.Errorf("Emotion = %q within fallback dwell, want %q", st.Emotion, LabelNeutral)
	}
}

func TestFallbackReassignsAfterDwell(t *testing.T) {
	clock := newFakeClock()
	s := newTestStabilizer(clock)

	failing := func() (map[string]float64, error) {
		return nil, errors.New("model offline")
	}

	clock.advance(11 * time.Second)
	st := observe(s, failing)

	found := false
	for _, c := range fallbackChoices {
		if st.Emotion == c.emotion {
			found = true
		}
	}
	if !found {
		t.Errorf("Emotion = %q, want a fallback label", st.Emotion)
	}
	if st.Confidence < 70 || st.Confidence > 85 {
		t.Errorf("Confidence = %v, want in [70,85]", st.Confidence)
	}
}

func TestFallbackDeterministicWithSeed(t *testing.T) {
	run := func() State {
		clock := newFakeClock()
		s := newTestStabilizer(clock)
		clock.advance(11 * time.Second)
		return observe(s, func() (map[string]float64, error) { return nil, errors.New("down") })
	}

	a, b := run(), run()
	if a != b {
		t.Errorf("seeded fallback runs differ: %+v vs %+v", a, b)
	}
}

func TestRegistryIsolatesSubjects(t *testing.T) {
	reg := NewRegistry(DefaultConfig(), nil).
		WithRandSource(func() *rand.Rand { return rand.New(rand.NewSource(1)) })

	a := reg.For("EMP001")
	b := reg.For("EMP002")

	if a == b {
		t.Fatal("distinct subjects share a stabilizer")
	}
	if again := reg.For("EMP001"); again != a {
		t.Error("same subject did not reuse its stabilizer")
	}
}
