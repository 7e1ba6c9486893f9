package camera

import (
	"bytes"
	"image/jpeg"
	"math/rand"
	"testing"
)

func TestDemoObservationWellFormed(t *testing.T) {
	g := NewDemoGenerator(rand.New(rand.NewSource(7)))

	for i := 0; i < 50; i++ {
		obs := g.Next()

		if obs.IsPresent {
			if obs.Emotion == nil || obs.Confidence == nil {
				t.Fatalf("present observation missing emotion/confidence: %+v", obs)
			}
			if *obs.Confidence < 70 || *obs.Confidence > 95 {
				t.Errorf("Confidence = %v, want in [70,95]", *obs.Confidence)
			}
		} else {
			if obs.Emotion != nil || obs.Confidence != nil {
				t.Fatalf("absent observation carries emotion/confidence: %+v", obs)
			}
		}
	}
}

func TestDemoDeterministicWithSeed(t *testing.T) {
	a := NewDemoGenerator(rand.New(rand.NewSource(42)))
	b := NewDemoGenerator(rand.New(rand.NewSource(42)))

	for i := 0; i < 20; i++ {
		oa, ob := a.Next(), b.Next()
		if oa.IsPresent != ob.IsPresent {
			t.Fatalf("run %d: presence diverged", i)
		}
		if oa.IsPresent && *oa.Emotion != *ob.Emotion {
			t.Fatalf("run %d: emotion diverged: %s vs %s", i, *oa.Emotion, *ob.Emotion)
		}
	}
}

func TestDemoFrameIsValidJPEG(t *testing.T) {
	g := NewDemoGenerator(rand.New(rand.NewSource(7)))
	obs := g.Next()

	if len(obs.Frame) == 0 {
		t.Fatal("empty demo frame")
	}
	if _, err := jpeg.Decode(bytes.NewReader(obs.Frame)); err != nil {
		t.Fatalf("demo frame is not valid JPEG: %v", err)
	}
}
