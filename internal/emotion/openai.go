package emotion

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
)

const chatModel = openai.ChatModelGPT4_1Mini

// OpenAIClassifier scores emotions with a hosted vision model. It is the
// most accurate backend but also the slowest; with the default sampling
// period of one classification burst every five frames it stays well inside
// real-time budgets for a handful of faces.
type OpenAIClassifier struct {
	client *openai.Client
	labels []string
}

// NewOpenAIClassifier creates a classifier using the given API key.
func NewOpenAIClassifier(apiKey string, labels []string) *OpenAIClassifier {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	if len(labels) == 0 {
		labels = DefaultLabels
	}
	return &OpenAIClassifier{
		client: &client,
		labels: labels,
	}
}

func (c *OpenAIClassifier) Name() string {
	return chatModel
}

// Classify sends the face crop to the chat completions API with a JSON
// response format and parses the per-label scores.
func (c *OpenAIClassifier) Classify(ctx context.Context, imageData []byte) (map[string]float64, error) {
	normalized, err := normalizeRegion(imageData, regionMinSize, regionMaxSize)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare region: %w", err)
	}

	imageURL := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(normalized)

	messages := []openai.ChatCompletionMessageParamUnion{
		{
			OfSystem: &openai.ChatCompletionSystemMessageParam{
				Content: openai.ChatCompletionSystemMessageParamContentUnion{
					OfString: openai.String(buildClassifyPrompt(c.labels)),
				},
			},
		},
		{
			OfUser: &openai.ChatCompletionUserMessageParam{
				Content: openai.ChatCompletionUserMessageParamContentUnion{
					OfArrayOfContentParts: []openai.ChatCompletionContentPartUnionParam{
						openai.TextContentPart("Score the emotion of the face in this image."),
						openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
							URL:    imageURL,
							Detail: "low",
						}),
					},
				},
			},
		},
	}

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    chatModel,
		Messages: messages,
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("openai API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("empty completion response")
	}

	scores, err := parseScores(strings.TrimSpace(resp.Choices[0].Message.Content))
	if err != nil {
		return nil, fmt.Errorf("unusable model response: %w", err)
	}
	return scores, nil
}
