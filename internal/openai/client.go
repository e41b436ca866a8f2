package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// Client wraps the OpenAI SDK for symptom classification.
type Client struct {
	client *openai.Client
	model  openai.ChatModel
}

// ErrClientNotInitialised is returned when attempting to call the API without a configured client.
var ErrClientNotInitialised = errors.New("openai client not initialised")

// Unknown is the label returned when the model cannot map the message to a symptom.
const Unknown = "unknown"

// New returns a Client. Without an apiKey the client is inert and every call
// returns ErrClientNotInitialised.
func New(apiKey string) *Client {
	if apiKey == "" {
		return &Client{}
	}
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &Client{
		client: &client,
		model:  openai.ChatModelGPT4oMini,
	}
}

// Enabled reports whether an API key was configured.
func (c *Client) Enabled() bool {
	return c != nil && c.client != nil
}

// ClassifySymptom asks the model which of labels best describes message.
// It returns one of labels or Unknown.
func (c *Client) ClassifySymptom(ctx context.Context, message string, labels []string) (string, error) {
	if strings.TrimSpace(message) == "" {
		return Unknown, fmt.Errorf("content cannot be empty")
	}
	if !c.Enabled() {
		return Unknown, ErrClientNotInitialised
	}

	req := openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			{
				OfSystem: &openai.ChatCompletionSystemMessageParam{
					Content: openai.ChatCompletionSystemMessageParamContentUnion{
						OfString: openai.String("You map a patient's description of how they feel to one symptom label. Reply with exactly one label from this list, or unknown: " + strings.Join(labels, ", ")),
					},
				},
			},
			{
				OfUser: &openai.ChatCompletionUserMessageParam{
					Content: openai.ChatCompletionUserMessageParamContentUnion{
						OfString: openai.String(message),
					},
				},
			},
		},
		Temperature:         openai.Float(0.0),
		MaxCompletionTokens: openai.Int(8),
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	resp, err := c.client.Chat.Completions.New(ctx, req)
	if err != nil {
		return Unknown, err
	}
	if len(resp.Choices) == 0 {
		return Unknown, fmt.Errorf("no completion received")
	}

	return matchLabel(resp.Choices[0].Message.Content, labels), nil
}

func matchLabel(reply string, labels []string) string {
	label := strings.ToLower(strings.Trim(strings.TrimSpace(reply), ".\"'`"))
	for _, l := range labels {
		if label == l {
			return l
		}
	}
	return Unknown
}
