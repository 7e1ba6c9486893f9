package emotion

import (
	"os"
	"strconv"
	"time"
)

// Config carries every tunable of the stabilization pipeline. All values
// come from the environment so deployments can retune without a rebuild.
type Config struct {
	// SampleEvery makes only every Nth Observe call run real
	// classification work; the calls in between return the current
	// state unchanged.
	SampleEvery int

	// BufferSize caps the recent-results buffer used for majority voting.
	BufferSize int

	// MinDwell is the minimum time the committed emotion must hold
	// before a vote may replace it.
	MinDwell time.Duration

	// FallbackDwell is the minimum hold time before the fallback policy
	// may reassign the emotion when no classifier signal is available.
	FallbackDwell time.Duration

	// VoteConfidence is the mean confidence (0-100) the winning label
	// must reach before it is committed.
	VoteConfidence float64
}

func DefaultConfig() Config {
	return Config{
		SampleEvery:    3,
		BufferSize:     5,
		MinDwell:       2 * time.Second,
		FallbackDwell:  10 * time.Second,
		VoteConfidence: 60,
	}
}

func ConfigFromEnv() Config {
	cfg := DefaultConfig()

	if v, err := strconv.Atoi(os.Getenv("SAMPLING_THROTTLE")); err == nil && v > 0 {
		cfg.SampleEvery = v
	}
	if v, err := strconv.Atoi(os.Getenv("STABILIZER_BUFFER_SIZE")); err == nil && v > 0 {
		cfg.BufferSize = v
	}
	if v, err := strconv.ParseFloat(os.Getenv("STABILIZER_MIN_DWELL_SECONDS"), 64); err == nil && v > 0 {
		cfg.MinDwell = time.Duration(v * float64(time.Second))
	}
	if v, err := strconv.ParseFloat(os.Getenv("FALLBACK_DWELL_SECONDS"), 64); err == nil && v > 0 {
		cfg.FallbackDwell = time.Duration(v * float64(time.Second))
	}
	if v, err := strconv.ParseFloat(os.Getenv("VOTE_CONFIDENCE_THRESHOLD"), 64); err == nil && v > 0 {
		cfg.VoteConfidence = v
	}

	return cfg
}
