package classifier

import (
	"errors"
	"testing"

	"golang.org/x/net/context"
)

func TestParseRemoteResponseScores(t *testing.T) {
	scores, err := parseRemoteResponse([]byte(`{"emotions":{"happy":0.82,"neutral":0.11}}`))
	if err != nil {
		t.Fatalf("parseRemoteResponse() error = %v", err)
	}
	if scores["happy"] != 0.82 {
		t.Errorf("happy = %v, want 0.82", scores["happy"])
	}
}

func TestParseRemoteResponseNoFace(t *testing.T) {
	_, err := parseRemoteResponse([]byte(`{"no_face":true}`))
	if !errors.Is(err, ErrNoFace) {
		t.Errorf("err = %v, want ErrNoFace", err)
	}
}

func TestParseRemoteResponseEmptyScores(t *testing.T) {
	_, err := parseRemoteResponse([]byte(`{"emotions":{}}`))
	if !errors.Is(err, ErrNoFace) {
		t.Errorf("err = %v, want ErrNoFace", err)
	}
}

func TestParseRemoteResponseModelError(t *testing.T) {
	_, err := parseRemoteResponse([]byte(`{"error":"model not loaded"}`))
	if err == nil {
		t.Fatal("expected error for model error payload")
	}
}

func TestParseRemoteResponseMalformed(t *testing.T) {
	_, err := parseRemoteResponse([]byte(`not json`))
	if err == nil {
		t.Fatal("expected error for malformed payload")
	}
}

func TestParseGeminiScoresWithProse(t *testing.T) {
	reply := "Here is the analysis:\n```json\n{\"happy\": 0.7, \"neutral\": 0.2}\n```"
	scores, err := parseGeminiScores(reply)
	if err != nil {
		t.Fatalf("parseGeminiScores() error = %v", err)
	}
	if scores["happy"] != 0.7 {
		t.Errorf("happy = %v, want 0.7", scores["happy"])
	}
}

func TestParseGeminiScoresNoFace(t *testing.T) {
	_, err := parseGeminiScores(`{"no_face": true}`)
	if !errors.Is(err, ErrNoFace) {
		t.Errorf("err = %v, want ErrNoFace", err)
	}
}

func TestStubCyclesScript(t *testing.T) {
	stub := NewStub([]StubResult{
		{Scores: map[string]float64{"happy": 0.9}},
		{Err: ErrNoFace},
	})

	scores, err := stub.Scores(context.Background(), nil)
	if err != nil || scores["happy"] != 0.9 {
		t.Fatalf("first call = (%v, %v), want happy 0.9", scores, err)
	}

	if _, err := stub.Scores(context.Background(), nil); !errors.Is(err, ErrNoFace) {
		t.Errorf("second call err = %v, want ErrNoFace", err)
	}

	if scores, _ := stub.Scores(context.Background(), nil); scores["happy"] != 0.9 {
		t.Error("script did not cycle back to first entry")
	}
}
