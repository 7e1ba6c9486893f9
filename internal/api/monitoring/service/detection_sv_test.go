package monitoringService

import (
	"io"
	"math/rand"
	"testing"

	"ProjectMonitoring/internal/entity"
	"ProjectMonitoring/pkg/camera"
	"ProjectMonitoring/pkg/emotion"
	"ProjectMonitoring/pkg/vision"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

type fakeCamera struct {
	frame []byte
	err   error
}

func (c *fakeCamera) Available() bool { return true }
func (c *fakeCamera) Close() error    { return nil }

func (c *fakeCamera) ReadFrame() ([]byte, error) {
	if c.err != nil {
		return nil, c.err
	}
	return c.frame, nil
}

type fakeLocator struct {
	loc vision.Localization
	err error
}

func (l *fakeLocator) Locate([]byte) (vision.Localization, error) { return l.loc, l.err }
func (l *fakeLocator) Close() error                               { return nil }

type fakeClassifier struct {
	scores map[string]float64
	err    error
}

func (f *fakeClassifier) Scores(context.Context, []byte) (map[string]float64, error) {
	return f.scores, f.err
}

func newObserveService(cam *fakeCamera, loc *fakeLocator, cls *fakeClassifier) *monitoringService {
	log := logrus.New()
	log.SetOutput(io.Discard)

	s := &monitoringService{
		log:      log,
		registry: emotion.NewRegistry(emotion.ConfigFromEnv(), log),
		demo:     camera.NewDemoGenerator(rand.New(rand.NewSource(1))),
	}
	if cam != nil {
		s.camera = cam
	}
	if loc != nil {
		s.locator = loc
	}
	if cls != nil {
		s.classifier = cls
	}
	return s
}

func TestObserveFrameGrabFailureLogsAbsence(t *testing.T) {
	svc := newObserveService(
		&fakeCamera{err: camera.ErrNoFrame},
		&fakeLocator{},
		&fakeClassifier{},
	)

	obs := svc.Observe(context.Background(), "EMP001")

	if obs.Mode != entity.ModeLive {
		t.Errorf("Mode = %q, want %q", obs.Mode, entity.ModeLive)
	}
	if obs.Log.IsPresent {
		t.Error("failed frame grab recorded as present")
	}
	if obs.Log.Emotion != nil || obs.Log.Confidence != nil {
		t.Errorf("absent observation carries emotion/confidence: %+v", obs.Log)
	}
	if obs.Log.EmployeeID != "EMP001" {
		t.Errorf("EmployeeID = %q, want EMP001", obs.Log.EmployeeID)
	}
}

func TestObserveNoFaceLogsAbsence(t *testing.T) {
	annotated := []byte("annotated-frame")
	svc := newObserveService(
		&fakeCamera{frame: []byte("raw-frame")},
		&fakeLocator{loc: vision.Localization{Found: false, FrameJPEG: annotated}},
		&fakeClassifier{},
	)

	obs := svc.Observe(context.Background(), "EMP001")

	if obs.Log.IsPresent {
		t.Error("frame without a face recorded as present")
	}
	if string(obs.Frame) != string(annotated) {
		t.Errorf("Frame = %q, want annotated frame", obs.Frame)
	}
	if obs.Mode != entity.ModeLive {
		t.Errorf("Mode = %q, want %q", obs.Mode, entity.ModeLive)
	}
}

func TestObserveFaceFoundIsPresent(t *testing.T) {
	svc := newObserveService(
		&fakeCamera{frame: []byte("raw-frame")},
		&fakeLocator{loc: vision.Localization{
			Found:     true,
			FaceJPEG:  []byte("face"),
			FrameJPEG: []byte("annotated"),
		}},
		&fakeClassifier{scores: map[string]float64{emotion.LabelHappy: 0.9}},
	)

	obs := svc.Observe(context.Background(), "EMP001")

	if !obs.Log.IsPresent {
		t.Fatal("located face recorded as absent")
	}
	if obs.Log.Emotion == nil || obs.Log.Confidence == nil {
		t.Fatalf("present observation missing emotion/confidence: %+v", obs.Log)
	}
	if !obs.Log.WellFormed() {
		t.Error("present observation malformed")
	}
}

func TestObserveDemoModeWithoutCamera(t *testing.T) {
	svc := newObserveService(nil, nil, nil)

	obs := svc.Observe(context.Background(), "EMP001")

	if obs.Mode != entity.ModeDemo {
		t.Errorf("Mode = %q, want %q", obs.Mode, entity.ModeDemo)
	}
	if obs.Log.IsPresent && (obs.Log.Emotion == nil || obs.Log.Confidence == nil) {
		t.Errorf("present demo observation missing emotion/confidence: %+v", obs.Log)
	}
}
