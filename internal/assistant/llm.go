package assistant

import (
	"context"
	"fmt"
	"os"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/bedrock"
	"github.com/anthropics/anthropic-sdk-go/option"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
)

// LLMResponder answers unrecognized chat turns with a single Anthropic
// API call. It implements Responder and is the only place in the
// assistant that performs network I/O besides the tracker; the scoring
// engine never goes near it.
type LLMResponder struct {
	client anthropic.Client
	model  anthropic.Model
}

// LLMConfig contains configuration for creating an LLMResponder.
type LLMConfig struct {
	// Model is the Claude model to use. Defaults to Sonnet.
	Model anthropic.Model
	// APIKey is the Anthropic API key. If empty, uses ANTHROPIC_API_KEY.
	APIKey string
	// UseAWSBedrock routes calls through AWS Bedrock instead of the API.
	UseAWSBedrock bool
	// AWSRegion is the AWS region for Bedrock (e.g., "us-west-2").
	AWSRegion string
	// AWSProfile is the optional AWS profile name to use.
	AWSProfile string
}

// NewLLMResponder creates a responder backed by the Anthropic API or AWS
// Bedrock, mirroring whichever credentials the config selects.
func NewLLMResponder(cfg LLMConfig) (*LLMResponder, error) {
	var opts []option.RequestOption

	if cfg.UseAWSBedrock {
		var loadOpts []func(*awsconfig.LoadOptions) error
		if cfg.AWSRegion != "" {
			loadOpts = append(loadOpts, awsconfig.WithRegion(cfg.AWSRegion))
		}
		if cfg.AWSProfile != "" {
			loadOpts = append(loadOpts, awsconfig.WithSharedConfigProfile(cfg.AWSProfile))
		}
		opts = append(opts, bedrock.WithLoadDefaultConfig(context.Background(), loadOpts...))
	} else {
		apiKey := cfg.APIKey
		if apiKey == "" {
			apiKey = os.Getenv("ANTHROPIC_API_KEY")
		}
		if apiKey == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY environment variable is not set")
		}
		opts = append(opts, option.WithAPIKey(apiKey))
	}

	model := cfg.Model
	if model == "" {
		model = anthropic.ModelClaudeSonnet4_20250514
	}

	return &LLMResponder{
		client: anthropic.NewClient(opts...),
		model:  model,
	}, nil
}

const responderSystemPrompt = `You are TaskPilot, a project-management assistant layered over an ` +
	`issue tracker. Answer briefly. You cannot change tracker data yourself; assignment requests ` +
	`are handled by the dashboard, so point users at phrasings like "assign PN2-7 to Varad".`

// Reply makes a single, tool-free completion call for the message.
func (r *LLMResponder) Reply(ctx context.Context, message string) (string, error) {
	resp, err := r.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     r.model,
		MaxTokens: 1024,
		System: []anthropic.TextBlockParam{
			{Text: responderSystemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(message)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}

	var result string
	for _, block := range resp.Content {
		if variant, ok := block.AsAny().(anthropic.TextBlock); ok {
			result += variant.Text
		}
	}
	return result, nil
}
