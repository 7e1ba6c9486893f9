package classifier

import (
	"encoding/json"
	"errors"
	"os"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
	"google.golang.org/api/option"
)

const geminiPrompt = `
Analyze the facial expression in this image and score each emotion from 0.0 to 1.0.
Respond with ONLY a JSON object, no additional text:
{
	"happy": 0.0,
	"sad": 0.0,
	"neutral": 0.0,
	"angry": 0.0,
	"surprise": 0.0,
	"fear": 0.0,
	"disgust": 0.0
}
If the image contains no human face, respond with exactly: {"no_face": true}
`

// GeminiClassifier scores emotions with a multimodal Gemini model.
type GeminiClassifier struct {
	client    *genai.Client
	modelName string
	log       *logrus.Logger
}

func NewGeminiClassifier(log *logrus.Logger) (*GeminiClassifier, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, errors.New("gemini API key is required")
	}

	modelName := os.Getenv("GEMINI_MODEL_NAME")
	if modelName == "" {
		modelName = "gemini-pro-vision"
	}

	client, err := genai.NewClient(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}

	return &GeminiClassifier{
		client:    client,
		modelName: modelName,
		log:       log,
	}, nil
}

func (g *GeminiClassifier) Scores(ctx context.Context, faceJPEG []byte) (map[string]float64, error) {
	model := g.client.GenerativeModel(g.modelName)

	img := genai.ImageData("image/jpeg", faceJPEG)
	res, err := model.GenerateContent(ctx, genai.Text(geminiPrompt), img)
	if err != nil {
		return nil, err
	}

	if len(res.Candidates) == 0 || len(res.Candidates[0].Content.Parts) == 0 {
		return nil, errors.New("no response from Gemini API")
	}

	text, ok := res.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return nil, errors.New("unexpected response format from Gemini API")
	}

	return parseGeminiScores(string(text))
}

// parseGeminiScores slices the first JSON object out of the model's
// reply; Gemini occasionally wraps it in prose or code fences.
func parseGeminiScores(response string) (map[string]float64, error) {
	jsonStart := strings.Index(response, "{")
	jsonEnd := strings.LastIndex(response, "}")

	if jsonStart == -1 || jsonEnd == -1 || jsonEnd <= jsonStart {
		return nil, errors.New("cannot find valid JSON in response")
	}

	jsonStr := response[jsonStart : jsonEnd+1]

	var noFace struct {
		NoFace bool `json:"no_face"`
	}
	if err := json.Unmarshal([]byte(jsonStr), &noFace); err == nil && noFace.NoFace {
		return nil, ErrNoFace
	}

	var scores map[string]float64
	if err := json.Unmarshal([]byte(jsonStr), &scores); err != nil {
		return nil, err
	}

	if len(scores) == 0 {
		return nil, errors.New("failed to extract emotion scores")
	}

	return scores, nil
}

func (g *GeminiClassifier) Close() {
	if g.client != nil {
		g.client.Close()
	}
}
