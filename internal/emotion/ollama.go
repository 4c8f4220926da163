package emotion

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultOllamaURL   = "http://localhost:11434"
	defaultOllamaModel = "llama3.2-vision:11b"

	// Face crops sent to the vision model are kept within these bounds.
	regionMinSize = 96
	regionMaxSize = 512
)

// OllamaClassifier scores emotions with a local vision model served by
// Ollama's chat API.
type OllamaClassifier struct {
	baseURL string
	model   string
	labels  []string
	client  *http.Client
}

// NewOllamaClassifier creates a classifier against an Ollama server. Empty
// baseURL and model fall back to local defaults.
func NewOllamaClassifier(baseURL, model string, labels []string) *OllamaClassifier {
	if baseURL == "" {
		baseURL = defaultOllamaURL
	}
	if model == "" {
		model = defaultOllamaModel
	}
	if len(labels) == 0 {
		labels = DefaultLabels
	}
	return &OllamaClassifier{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		model:   model,
		labels:  labels,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *OllamaClassifier) Name() string {
	return c.model
}

// ollamaRequest represents a request to the Ollama chat API.
type ollamaRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
	Format   string          `json:"format,omitempty"`
}

type ollamaMessage struct {
	Role    string   `json:"role"`
	Content string   `json:"content"`
	Images  []string `json:"images,omitempty"` // base64 encoded images
}

// ollamaResponse represents a response from the Ollama chat API.
type ollamaResponse struct {
	Model   string `json:"model"`
	Message struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"message"`
	Done bool `json:"done"`
}

// Classify sends the face crop to the vision model and parses the returned
// per-label scores. Errors are returned as-is; the Sampler absorbs them.
func (c *OllamaClassifier) Classify(ctx context.Context, imageData []byte) (map[string]float64, error) {
	normalized, err := normalizeRegion(imageData, regionMinSize, regionMaxSize)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare region: %w", err)
	}

	messages := []ollamaMessage{
		{
			Role:    "system",
			Content: buildClassifyPrompt(c.labels),
		},
		{
			Role:    "user",
			Content: "Score the emotion of the face in this image.",
			Images:  []string{base64.StdEncoding.EncodeToString(normalized)},
		},
	}

	resp, err := c.sendRequest(ctx, messages)
	if err != nil {
		return nil, fmt.Errorf("ollama API error: %w", err)
	}

	scores, err := parseScores(resp.Message.Content)
	if err != nil {
		return nil, fmt.Errorf("unusable model response: %w", err)
	}
	return scores, nil
}

func (c *OllamaClassifier) sendRequest(ctx context.Context, messages []ollamaMessage) (*ollamaResponse, error) {
	reqBody := ollamaRequest{
		Model:    c.model,
		Messages: messages,
		Stream:   false,
		Format:   "json",
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/api/chat", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, body)
	}

	var parsed ollamaResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return &parsed, nil
}

// buildClassifyPrompt instructs the model to return one score per label as a
// flat JSON object.
func buildClassifyPrompt(labels []string) string {
	var b strings.Builder
	b.WriteString("You are an emotion classifier for cropped face images. ")
	b.WriteString("Respond with a JSON object mapping each of these labels to a score between 0 and 1: ")
	b.WriteString(strings.Join(labels, ", "))
	b.WriteString(`. Example: {"happy": 0.8, "neutral": 0.2}. Respond with JSON only.`)
	return b.String()
}

// parseScores extracts the label -> score object from model output, which
// may wrap the JSON in prose despite the prompt.
func parseScores(content string) (map[string]float64, error) {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start == -1 || end <= start {
		return nil, fmt.Errorf("no JSON object in %q", content)
	}

	var scores map[string]float64
	if err := json.Unmarshal([]byte(content[start:end+1]), &scores); err != nil {
		return nil, fmt.Errorf("failed to parse scores: %w", err)
	}
	return scores, nil
}
