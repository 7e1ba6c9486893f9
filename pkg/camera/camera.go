package camera

import (
	"errors"
	"os"
	"strconv"
	"sync"

	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"
)

var ErrNoFrame = errors.New("camera produced no frame")

// ICamera is the frame source for the sampling loop. The handle is a
// single shared device, so ReadFrame serializes access internally.
type ICamera interface {
	Available() bool
	ReadFrame() ([]byte, error)
	Close() error
}

type camera struct {
	mu     sync.Mutex
	cap    *gocv.VideoCapture
	log    *logrus.Logger
	width  int
	height int
}

// New opens the configured capture device. When the preferred index fails
// it scans the next few indices before giving up; a nil capture handle is
// not an error here since the sampler has a demo fallback.
func New(log *logrus.Logger) ICamera {
	c := &camera{
		log:    log,
		width:  640,
		height: 480,
	}

	preferred := 0
	if v, err := strconv.Atoi(os.Getenv("CAMERA_DEVICE_ID")); err == nil {
		preferred = v
	}

	for _, idx := range []int{preferred, preferred + 1, preferred + 2, preferred + 3} {
		cap, err := gocv.OpenVideoCapture(idx)
		if err != nil {
			continue
		}
		if !cap.IsOpened() {
			cap.Close()
			continue
		}

		cap.Set(gocv.VideoCaptureFrameWidth, float64(c.width))
		cap.Set(gocv.VideoCaptureFrameHeight, float64(c.height))
		c.cap = cap

		log.WithFields(logrus.Fields{
			"device": idx,
		}).Info("Camera initialized")
		break
	}

	if c.cap == nil {
		log.Warn("No camera device available, demo mode will be used")
	}

	return c
}

func (c *camera) Available() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cap != nil && c.cap.IsOpened()
}

// ReadFrame grabs one frame and returns it JPEG-encoded.
func (c *camera) ReadFrame() ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cap == nil || !c.cap.IsOpened() {
		return nil, ErrNoFrame
	}

	img := gocv.NewMat()
	defer img.Close()

	if ok := c.cap.Read(&img); !ok || img.Empty() {
		return nil, ErrNoFrame
	}

	buf, err := gocv.IMEncode(gocv.JPEGFileExt, img)
	if err != nil {
		return nil, err
	}
	defer buf.Close()

	out := make([]byte, len(buf.GetBytes()))
	copy(out, buf.GetBytes())

	return out, nil
}

func (c *camera) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cap == nil {
		return nil
	}

	err := c.cap.Close()
	c.cap = nil

	if c.log != nil {
		c.log.Info("Camera released")
	}

	return err
}
