package emotion

import (
	"math/rand"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Known emotion labels, matching the classifier model's output classes.
const (
	LabelHappy    = "happy"
	LabelSad      = "sad"
	LabelNeutral  = "neutral"
	LabelAngry    = "angry"
	LabelSurprise = "surprise"
	LabelFear     = "fear"
	LabelDisgust  = "disgust"
)

var Labels = []string{
	LabelHappy, LabelSad, LabelNeutral, LabelAngry,
	LabelSurprise, LabelFear, LabelDisgust,
}

// State is the debounced output of the stabilizer: one emotion label and
// its confidence on a 0-100 scale.
type State struct {
	Emotion    string
	Confidence float64
}

// ClassifyFunc produces raw classifier output for the current frame:
// emotion label to 0-1 score. An error or empty map means no usable
// signal (no face, classifier down) and routes to the fallback policy.
// The stabilizer invokes it lazily so throttled ticks cost nothing.
type ClassifyFunc func() (map[string]float64, error)

type sample struct {
	emotion    string
	confidence float64
}

// fallbackChoice weights the labels the fallback policy may pick from
// when the classifier has nothing usable. Neutral and happy are favored
// so a dead classifier reads as a calm employee, not a distressed one.
type fallbackChoice struct {
	emotion string
	weight  float64
}

var fallbackChoices = []fallbackChoice{
	{LabelHappy, 0.3},
	{LabelNeutral, 0.4},
	{LabelSad, 0.2},
	{LabelSurprise, 0.1},
}

// Stabilizer turns the noisy per-frame classifier signal for one subject
// into a stable current emotion. It classifies only every Nth tick,
// buffers recent results, and commits a new emotion only when a majority
// of the buffer agrees with enough confidence and the previous state has
// held for the minimum dwell time.
//
// Observe never returns an error: every failure path degrades to the
// fallback policy.
type Stabilizer struct {
	cfg Config
	log *logrus.Logger

	mu         sync.Mutex
	current    State
	lastChange time.Time
	buffer     []sample
	throttle   *Throttle

	now func() time.Time
	rng *rand.Rand
}

// NewStabilizer builds a stabilizer at the neutral baseline. rng drives
// the fallback policy's weighted reassignment; tests pass a seeded source.
func NewStabilizer(cfg Config, log *logrus.Logger, rng *rand.Rand) *Stabilizer {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	s := &Stabilizer{
		cfg:      cfg,
		log:      log,
		current:  State{Emotion: LabelNeutral, Confidence: 85.0},
		buffer:   make([]sample, 0, cfg.BufferSize),
		throttle: NewThrottle(cfg.SampleEvery),
		now:      time.Now,
		rng:      rng,
	}
	s.lastChange = s.now()

	return s
}

// Current returns the present debounced state without consuming a tick.
func (s *Stabilizer) Current() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Observe consumes one sampling tick. classify is only invoked on ticks
// the throttle allows; the ticks in between return the current state
// unchanged.
func (s *Stabilizer) Observe(classify ClassifyFunc) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.throttle.Allow() {
		return s.current
	}

	if classify == nil {
		return s.fallback()
	}

	scores, err := classify()
	if err != nil || len(scores) == 0 {
		if err != nil && s.log != nil {
			s.log.WithFields(logrus.Fields{
				"error": err.Error(),
			}).Debug("Classifier unavailable, using fallback policy")
		}
		return s.fallback()
	}

	label, score := dominant(scores)

	s.push(sample{emotion: label, confidence: score * 100})

	if len(s.buffer) >= 3 {
		s.vote()
	}

	return s.current
}

// push appends to the buffer, evicting the oldest entry past capacity.
func (s *Stabilizer) push(smp sample) {
	s.buffer = append(s.buffer, smp)
	if len(s.buffer) > s.cfg.BufferSize {
		s.buffer = s.buffer[1:]
	}
}

// vote commits the buffer's mode as the new current state when all
// debounce conditions hold. Caller holds s.mu.
func (s *Stabilizer) vote() {
	counts := make(map[string]int, len(s.buffer))
	for _, smp := range s.buffer {
		counts[smp.emotion]++
	}

	best := s.buffer[0].emotion
	for emo, n := range counts {
		if n > counts[best] {
			best = emo
		}
	}

	var sum float64
	for _, smp := range s.buffer {
		if smp.emotion == best {
			sum += smp.confidence
		}
	}
	avg := sum / float64(counts[best])

	if best != s.current.Emotion &&
		counts[best] >= 3 &&
		s.now().Sub(s.lastChange) > s.cfg.MinDwell &&
		avg > s.cfg.VoteConfidence {

		s.current = State{Emotion: best, Confidence: avg}
		s.lastChange = s.now()

		if s.log != nil {
			s.log.WithFields(logrus.Fields{
				"emotion":    best,
				"confidence": avg,
				"votes":      counts[best],
			}).Debug("Stabilized emotion changed")
		}
	}
}

// fallback holds the current emotion for FallbackDwell, then reassigns it
// from the weighted label set. Models "no information" conservatively
// instead of flapping. Caller holds s.mu.
func (s *Stabilizer) fallback() State {
	if s.now().Sub(s.lastChange) <= s.cfg.FallbackDwell {
		return s.current
	}

	s.current = State{
		Emotion:    weightedPick(s.rng, fallbackChoices),
		Confidence: 70 + s.rng.Float64()*15,
	}
	s.lastChange = s.now()

	if s.log != nil {
		s.log.WithFields(logrus.Fields{
			"emotion": s.current.Emotion,
		}).Debug("Fallback emotion assigned")
	}

	return s.current
}

func dominant(scores map[string]float64) (string, float64) {
	var bestLabel string
	best := -1.0
	for label, score := range scores {
		if score > best {
			bestLabel, best = label, score
		}
	}
	return bestLabel, best
}

func weightedPick(rng *rand.Rand, choices []fallbackChoice) string {
	var total float64
	for _, c := range choices {
		total += c.weight
	}

	r := rng.Float64() * total
	for _, c := range choices {
		r -= c.weight
		if r < 0 {
			return c.emotion
		}
	}
	return choices[len(choices)-1].emotion
}
