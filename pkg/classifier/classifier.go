package classifier

import (
	"errors"
	"os"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

var (
	// ErrNoFace means the model saw the region but found no face in it.
	ErrNoFace = errors.New("no face in region")

	// ErrUnavailable means the model backend cannot be reached.
	ErrUnavailable = errors.New("classifier unavailable")
)

// IClassifier scores an image region (JPEG, 3-channel) against the
// emotion label set. Scores are in [0,1]. Implementations must bound
// their latency; callers treat any error as "no usable signal".
type IClassifier interface {
	Scores(ctx context.Context, faceJPEG []byte) (map[string]float64, error)
}

// New selects the implementation from CLASSIFIER_PROVIDER: "remote"
// (WebSocket model service), "gemini", or "stub". The choice is explicit
// construction-time configuration; there is no runtime capability
// probing.
func New(log *logrus.Logger) (IClassifier, error) {
	provider := os.Getenv("CLASSIFIER_PROVIDER")

	switch provider {
	case "", "remote":
		return NewRemoteClassifier(log), nil
	case "gemini":
		return NewGeminiClassifier(log)
	case "stub":
		return NewStub(nil), nil
	default:
		return nil, errors.New("unknown classifier provider: " + provider)
	}
}
