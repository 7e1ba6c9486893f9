package monitoringHandler

import (
	"errors"
	"io"
	"testing"
	"time"

	"ProjectMonitoring/internal/api/monitoring"
	monitoringService "ProjectMonitoring/internal/api/monitoring/service"
	"ProjectMonitoring/internal/entity"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

type stubMonitoringService struct {
	obs      monitoringService.Observation
	observed []string
}

func (s *stubMonitoringService) Sample(context.Context, string) (monitoringService.Observation, error) {
	return s.obs, nil
}

func (s *stubMonitoringService) Observe(_ context.Context, employeeID string) monitoringService.Observation {
	s.observed = append(s.observed, employeeID)
	return s.obs
}

func (s *stubMonitoringService) CreateDetection(context.Context, monitoring.CreateDetectionRequest) (entity.DetectionLog, error) {
	return entity.DetectionLog{}, nil
}

func (s *stubMonitoringService) GetDetections(context.Context, monitoring.ListDetectionsQuery) ([]entity.DetectionLog, error) {
	return nil, nil
}

func (s *stubMonitoringService) GetAnalytics(context.Context, monitoring.AnalyticsQuery) (entity.AnalyticsSummary, error) {
	return entity.AnalyticsSummary{}, nil
}

func (s *stubMonitoringService) GetLiveStatus(context.Context, string) (entity.LiveStatus, error) {
	return entity.LiveStatus{}, nil
}

func (s *stubMonitoringService) Mode() entity.MonitoringMode { return entity.ModeDemo }

func (s *stubMonitoringService) SamplingInterval() time.Duration { return time.Second }

type fakeStreamConn struct {
	frames   []monitoring.StreamFrame
	writeErr error
}

func (c *fakeStreamConn) SetWriteDeadline(time.Time) error { return nil }

func (c *fakeStreamConn) WriteJSON(v interface{}) error {
	if c.writeErr != nil {
		return c.writeErr
	}
	c.frames = append(c.frames, v.(monitoring.StreamFrame))
	return nil
}

func newStreamTestHandler(svc monitoringService.IMonitoringService) *MonitoringHandler {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return New(log, nil, nil, svc)
}

func TestStreamFramesStopsOnDisconnect(t *testing.T) {
	svc := &stubMonitoringService{obs: monitoringService.Observation{
		Frame: []byte("jpeg"),
		Mode:  entity.ModeDemo,
		Log: entity.DetectionLog{
			EmployeeID: "EMP001",
			Timestamp:  time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC),
			IsPresent:  true,
		},
	}}
	h := newStreamTestHandler(svc)

	conn := &fakeStreamConn{}
	ticks := make(chan time.Time)
	done := make(chan struct{})
	finished := make(chan struct{})

	go func() {
		h.streamFrames(context.Background(), conn, "EMP001", done, ticks)
		close(finished)
	}()

	ticks <- time.Now()
	close(done)

	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("stream loop did not stop after disconnect")
	}

	if len(conn.frames) != 1 {
		t.Fatalf("frames written = %d, want 1", len(conn.frames))
	}
	frame := conn.frames[0]
	if !frame.IsPresent || frame.Mode != string(entity.ModeDemo) {
		t.Errorf("frame = %+v, want present demo frame", frame)
	}
	if frame.Frame == "" {
		t.Error("frame payload not encoded")
	}
	if len(svc.observed) != 1 || svc.observed[0] != "EMP001" {
		t.Errorf("observed subjects = %v, want one EMP001 tick", svc.observed)
	}
}

func TestStreamFramesStopsOnWriteError(t *testing.T) {
	h := newStreamTestHandler(&stubMonitoringService{})

	conn := &fakeStreamConn{writeErr: errors.New("broken pipe")}
	ticks := make(chan time.Time, 1)
	finished := make(chan struct{})

	go func() {
		h.streamFrames(context.Background(), conn, "EMP001", make(chan struct{}), ticks)
		close(finished)
	}()

	ticks <- time.Now()

	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("stream loop did not stop after write error")
	}
}

func TestStreamIntervalFromEnv(t *testing.T) {
	t.Setenv("STREAM_INTERVAL_MS", "250")
	if got := streamInterval(); got != 250*time.Millisecond {
		t.Errorf("streamInterval() = %v, want 250ms", got)
	}

	t.Setenv("STREAM_INTERVAL_MS", "not-a-number")
	if got := streamInterval(); got != 500*time.Millisecond {
		t.Errorf("streamInterval() = %v, want 500ms fallback", got)
	}
}

func TestVideoFeedIntervalDefaultsToTenFPS(t *testing.T) {
	t.Setenv("VIDEO_FEED_INTERVAL_MS", "")
	if got := videoFeedInterval(); got != 100*time.Millisecond {
		t.Errorf("videoFeedInterval() = %v, want 100ms", got)
	}

	t.Setenv("VIDEO_FEED_INTERVAL_MS", "40")
	if got := videoFeedInterval(); got != 40*time.Millisecond {
		t.Errorf("videoFeedInterval() = %v, want 40ms", got)
	}
}
