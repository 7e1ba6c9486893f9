package vision

import (
	"errors"
	"image"
	"image/color"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"
)

var ErrDetectorUnavailable = errors.New("face detector unavailable")

// Face is one localization result within a frame.
type Face struct {
	Region image.Rectangle
}

// Localization is the outcome of one frame scan: whether a face was
// found, the cropped face region (JPEG) and the annotated full frame.
type Localization struct {
	Found     bool
	FaceJPEG  []byte
	FrameJPEG []byte
}

// ILocator finds the dominant face in a JPEG frame.
type ILocator interface {
	Locate(frameJPEG []byte) (Localization, error)
	Close() error
}

// HaarLocator wraps an OpenCV Haar cascade. Inference is serialized with
// a mutex since the underlying classifier is not thread safe.
type HaarLocator struct {
	mu       sync.Mutex
	cascade  gocv.CascadeClassifier
	loaded   bool
	log      *logrus.Logger
	boxColor color.RGBA
}

// NewHaarLocator loads the frontal-face cascade from FACE_CASCADE_PATH.
func NewHaarLocator(log *logrus.Logger) (*HaarLocator, error) {
	path := os.Getenv("FACE_CASCADE_PATH")
	if path == "" {
		path = "./models/haarcascade_frontalface_default.xml"
	}

	cascade := gocv.NewCascadeClassifier()
	if !cascade.Load(path) {
		cascade.Close()
		return nil, ErrDetectorUnavailable
	}

	log.WithFields(logrus.Fields{
		"cascade": path,
	}).Info("Face cascade classifier loaded")

	return &HaarLocator{
		cascade:  cascade,
		loaded:   true,
		log:      log,
		boxColor: color.RGBA{0, 255, 0, 255},
	}, nil
}

// Locate scans the frame for faces, keeps the largest one, and returns
// its crop plus the frame with the face boxed in.
func (l *HaarLocator) Locate(frameJPEG []byte) (Localization, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.loaded {
		return Localization{}, ErrDetectorUnavailable
	}

	img, err := gocv.IMDecode(frameJPEG, gocv.IMReadColor)
	if err != nil {
		return Localization{}, err
	}
	defer img.Close()

	if img.Empty() {
		return Localization{}, errors.New("empty frame")
	}

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(img, &gray, gocv.ColorBGRToGray)

	rects := l.cascade.DetectMultiScaleWithParams(
		gray, 1.3, 5, 0, image.Point{}, image.Point{},
	)

	if len(rects) == 0 {
		return Localization{Found: false, FrameJPEG: frameJPEG}, nil
	}

	best := rects[0]
	for _, r := range rects[1:] {
		if r.Dx()*r.Dy() > best.Dx()*best.Dy() {
			best = r
		}
	}

	face := img.Region(best)
	defer face.Close()

	faceBuf, err := gocv.IMEncode(gocv.JPEGFileExt, face)
	if err != nil {
		return Localization{}, err
	}
	defer faceBuf.Close()

	gocv.Rectangle(&img, best, l.boxColor, 2)

	frameBuf, err := gocv.IMEncode(gocv.JPEGFileExt, img)
	if err != nil {
		return Localization{}, err
	}
	defer frameBuf.Close()

	out := Localization{Found: true}
	out.FaceJPEG = append(out.FaceJPEG, faceBuf.GetBytes()...)
	out.FrameJPEG = append(out.FrameJPEG, frameBuf.GetBytes()...)

	return out, nil
}

func (l *HaarLocator) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.loaded {
		l.loaded = false
		return l.cascade.Close()
	}

	return nil
}
