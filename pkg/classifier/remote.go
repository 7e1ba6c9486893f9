package classifier

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

// remoteResponse is the wire format of the external emotion model
// service: either a score map or an explicit no-face signal.
type remoteResponse struct {
	Emotions map[string]float64 `json:"emotions"`
	NoFace   bool               `json:"no_face"`
	Error    string             `json:"error,omitempty"`
}

// RemoteClassifier talks to the FER model service over a persistent
// WebSocket: binary frame out, JSON scores back.
type RemoteClassifier struct {
	mu           sync.Mutex
	conn         *websocket.Conn
	log          *logrus.Logger
	readTimeout  time.Duration
	writeTimeout time.Duration
	pingInterval time.Duration
}

func NewRemoteClassifier(log *logrus.Logger) *RemoteClassifier {
	c := &RemoteClassifier{
		log:          log,
		readTimeout:  10 * time.Second,
		writeTimeout: 5 * time.Second,
		pingInterval: 30 * time.Second,
	}

	go func() {
		if err := c.Reconnect(); err != nil {
			log.WithFields(logrus.Fields{
				"error": err.Error(),
			}).Warn("Initial connection to emotion model service failed, will retry on demand")
		}
	}()

	return c
}

func (c *RemoteClassifier) Reconnect() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}

	url := os.Getenv("FACE_MODEL_WS_URL")
	if url == "" {
		return fmt.Errorf("FACE_MODEL_WS_URL not configured")
	}

	dialer := websocket.DefaultDialer
	dialer.HandshakeTimeout = 10 * time.Second

	conn, _, err := dialer.Dial(url, nil)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", url, err)
	}

	conn.SetPingHandler(func(appData string) error {
		err := conn.WriteControl(websocket.PongMessage, []byte(appData), time.Now().Add(c.writeTimeout))
		if err != nil {
			c.log.Errorf("Error sending pong: %v", err)
		}
		return nil
	})

	c.conn = conn
	go c.keepAlive()

	c.log.Info("Connected to emotion model service")
	return nil
}

func (c *RemoteClassifier) keepAlive() {
	ticker := time.NewTicker(c.pingInterval)
	defer ticker.Stop()

	for range ticker.C {
		c.mu.Lock()
		conn := c.conn
		c.mu.Unlock()

		if conn == nil {
			return
		}

		if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(c.writeTimeout)); err != nil {
			c.log.Warnf("Emotion model keepalive failed: %v", err)
			return
		}
	}
}

// Scores sends the face crop and waits for the model's score map. One
// in-flight request at a time; the connection is request/response.
func (c *RemoteClassifier) Scores(ctx context.Context, faceJPEG []byte) (map[string]float64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return nil, ErrUnavailable
	}

	deadline := time.Now().Add(c.writeTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	if err := c.conn.SetWriteDeadline(deadline); err != nil {
		return nil, err
	}
	if err := c.conn.WriteMessage(websocket.BinaryMessage, faceJPEG); err != nil {
		c.conn.Close()
		c.conn = nil
		return nil, ErrUnavailable
	}

	if err := c.conn.SetReadDeadline(time.Now().Add(c.readTimeout)); err != nil {
		return nil, err
	}
	_, payload, err := c.conn.ReadMessage()
	if err != nil {
		c.conn.Close()
		c.conn = nil
		return nil, ErrUnavailable
	}

	return parseRemoteResponse(payload)
}

func parseRemoteResponse(payload []byte) (map[string]float64, error) {
	var resp remoteResponse
	if err := json.Unmarshal(payload, &resp); err != nil {
		return nil, fmt.Errorf("malformed model response: %w", err)
	}

	if resp.Error != "" {
		return nil, fmt.Errorf("model error: %s", resp.Error)
	}
	if resp.NoFace || len(resp.Emotions) == 0 {
		return nil, ErrNoFace
	}

	return resp.Emotions, nil
}

func (c *RemoteClassifier) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
}
