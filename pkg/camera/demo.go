package camera

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"math"
	"math/rand"
	"sync"

	"ProjectMonitoring/pkg/emotion"
)

// DemoObservation is a simulated sampling result for deployments without
// a working camera. It is a designed operating mode, not an error state.
type DemoObservation struct {
	Frame      []byte
	IsPresent  bool
	Emotion    *string
	Confidence *float64
}

// DemoGenerator fabricates observations: presence with probability 0.7,
// a random emotion, confidence uniform in [70,95]. The rand source is
// injected so tests can seed it; Next serializes access to it.
type DemoGenerator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewDemoGenerator(rng *rand.Rand) *DemoGenerator {
	return &DemoGenerator{rng: rng}
}

func (g *DemoGenerator) Next() DemoObservation {
	g.mu.Lock()
	defer g.mu.Unlock()

	obs := DemoObservation{
		IsPresent: g.rng.Float64() < 0.7,
	}

	if obs.IsPresent {
		label := emotion.Labels[g.rng.Intn(len(emotion.Labels))]
		conf := math.Round((70+g.rng.Float64()*25)*10) / 10
		obs.Emotion = &label
		obs.Confidence = &conf
	}

	obs.Frame = g.renderFrame(obs.IsPresent)

	return obs
}

// renderFrame draws a flat placeholder frame with a mock face box when
// present, so stream consumers still receive valid JPEG data.
func (g *DemoGenerator) renderFrame(present bool) []byte {
	img := image.NewRGBA(image.Rect(0, 0, 640, 480))
	draw.Draw(img, img.Bounds(), &image.Uniform{color.RGBA{100, 100, 100, 255}}, image.Point{}, draw.Src)

	if present {
		box := color.RGBA{0, 255, 0, 255}
		for x := 200; x <= 440; x++ {
			img.Set(x, 150, box)
			img.Set(x, 390, box)
		}
		for y := 150; y <= 390; y++ {
			img.Set(200, y, box)
			img.Set(440, y, box)
		}
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 80}); err != nil {
		return nil
	}

	return buf.Bytes()
}
