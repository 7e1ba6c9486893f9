package monitoringHandler

import (
	"bufio"
	"encoding/base64"
	"fmt"
	"os"
	"strconv"
	"time"

	"ProjectMonitoring/internal/api/monitoring"
	contextPkg "ProjectMonitoring/pkg/context"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/valyala/fasthttp"
	"golang.org/x/net/context"
)

func streamInterval() time.Duration {
	return intervalFromEnv("STREAM_INTERVAL_MS", 500*time.Millisecond)
}

func videoFeedInterval() time.Duration {
	return intervalFromEnv("VIDEO_FEED_INTERVAL_MS", 100*time.Millisecond)
}

func intervalFromEnv(key string, fallback time.Duration) time.Duration {
	if raw := os.Getenv(key); raw != "" {
		if ms, err := strconv.Atoi(raw); err == nil && ms > 0 {
			return time.Duration(ms) * time.Millisecond
		}
	}
	return fallback
}

// frameWriter is the slice of *websocket.Conn the push loop needs.
type frameWriter interface {
	SetWriteDeadline(t time.Time) error
	WriteJSON(v interface{}) error
}

// handleStreamWebSocket pushes one StreamFrame per interval until the
// client goes away. A write error ends the loop; the stabilizer state
// for the subject survives across connections.
func (h *MonitoringHandler) handleStreamWebSocket(c *websocket.Conn) {
	employeeID := c.Query("employee_id")
	if employeeID == "" {
		_ = c.WriteJSON(map[string]string{"error": "employee_id is required"})
		return
	}

	h.log.WithField("employee_id", employeeID).Info("Stream WebSocket client connected")
	defer h.log.WithField("employee_id", employeeID).Info("Stream WebSocket client disconnected")

	c.SetPingHandler(func(data string) error {
		return c.WriteControl(websocket.PongMessage, []byte(data), time.Now().Add(5*time.Second))
	})

	// The push loop never reads, so control frames (ping, close) are only
	// processed by this pump. Its exit is the disconnect signal.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(streamInterval())
	defer ticker.Stop()

	h.streamFrames(context.Background(), c, employeeID, done, ticker.C)
}

func (h *MonitoringHandler) streamFrames(ctx context.Context, conn frameWriter, employeeID string, done <-chan struct{}, ticks <-chan time.Time) {
	for {
		select {
		case <-done:
			return
		case <-ticks:
		}

		obs := h.monitoringService.Observe(ctx, employeeID)

		frame := monitoring.StreamFrame{
			Frame:      base64.StdEncoding.EncodeToString(obs.Frame),
			IsPresent:  obs.Log.IsPresent,
			Emotion:    obs.Log.Emotion,
			Confidence: obs.Log.Confidence,
			Timestamp:  obs.Log.Timestamp.Format(time.RFC3339),
			Mode:       string(obs.Mode),
		}

		if err := conn.SetWriteDeadline(time.Now().Add(5 * time.Second)); err != nil {
			return
		}
		if err := conn.WriteJSON(frame); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.log.Errorf("Stream WebSocket error: %v", err)
			}
			return
		}
	}
}

// VideoFeed serves the annotated frames as an MJPEG multipart stream,
// for plain <img> consumers that cannot speak WebSocket.
func (h *MonitoringHandler) VideoFeed(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)

	employeeID := ctx.Query("employee_id")
	if employeeID == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "employee_id is required",
		})
	}

	h.log.WithFields(map[string]interface{}{
		"request_id":  requestID,
		"employee_id": employeeID,
	}).Info("Video feed client connected")

	ctx.Set(fiber.HeaderContentType, "multipart/x-mixed-replace; boundary=frame")
	ctx.Set(fiber.HeaderCacheControl, "no-cache")

	interval := videoFeedInterval()
	c := contextPkg.FromFiberCtx(ctx)

	ctx.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for range ticker.C {
			obs := h.monitoringService.Observe(c, employeeID)
			if len(obs.Frame) == 0 {
				continue
			}

			if _, err := fmt.Fprintf(w, "--frame\r\nContent-Type: image/jpeg\r\nContent-Length: %d\r\n\r\n", len(obs.Frame)); err != nil {
				return
			}
			if _, err := w.Write(obs.Frame); err != nil {
				return
			}
			if _, err := w.Write([]byte("\r\n")); err != nil {
				return
			}
			if err := w.Flush(); err != nil {
				return
			}
		}
	}))

	return nil
}
