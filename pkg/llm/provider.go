package llm

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/umputun/perspectives/pkg/config"
	"github.com/umputun/perspectives/pkg/domain"
)

const openAISystemPrompt = "You are an AI content classifier specializing in AI/tech articles."

const openAIPrompt = `Analyze this AI-related article and classify it as one of:
1. "techno-optimist" - focuses on positive aspects, benefits, or promising developments in AI
2. "techno-skeptic" - focuses on risks, concerns, criticism, or cautionary aspects of AI
3. "ai-coding" - focuses on AI development tools, programming, technical implementation

Title: %s
Description: %s

Respond with only the classification category and confidence score (0-1):
Format: category|confidence`

const claudePrompt = `Analyze this AI article and classify it:

Title: %s
Description: %s

Categories:
- techno-optimist: positive AI developments, benefits, breakthroughs
- techno-skeptic: AI risks, concerns, criticisms, warnings
- ai-coding: AI development tools, programming, technical aspects

Respond with: category|confidence_score`

// leadingNumber matches the numeric prefix of a confidence value
var leadingNumber = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)`)

// ChatProvider classifies a single article with an OpenAI-compatible chat completion endpoint
type ChatProvider struct {
	name      string
	client    *openai.Client
	cfg       config.ProviderConfig
	systemMsg string
	prompt    string
}

// NewOpenAI makes the primary provider
func NewOpenAI(cfg config.ProviderConfig) *ChatProvider {
	return newChatProvider(domain.ProviderOpenAI, cfg, openAISystemPrompt, openAIPrompt)
}

// NewClaude makes the secondary provider, talking to Anthropic's OpenAI-compatible API
func NewClaude(cfg config.ProviderConfig) *ChatProvider {
	return newChatProvider(domain.ProviderClaude, cfg, "", claudePrompt)
}

func newChatProvider(name string, cfg config.ProviderConfig, systemMsg, prompt string) *ChatProvider {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.Endpoint != "" {
		clientConfig.BaseURL = cfg.Endpoint
	}
	return &ChatProvider{
		name:      name,
		client:    openai.NewClientWithConfig(clientConfig),
		cfg:       cfg,
		systemMsg: systemMsg,
		prompt:    prompt,
	}
}

// Name returns provider name recorded in classifications
func (p *ChatProvider) Name() string { return p.name }

// Enabled reports whether the provider has credentials
func (p *ChatProvider) Enabled() bool { return p.cfg.APIKey != "" }

// Classify asks the model for a "category|confidence" answer
func (p *ChatProvider) Classify(ctx context.Context, title, description string) (domain.Classification, error) {
	if p.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.cfg.Timeout)
		defer cancel()
	}

	var messages []openai.ChatCompletionMessage
	if p.systemMsg != "" {
		messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: p.systemMsg})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: fmt.Sprintf(p.prompt, title, description),
	})

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       p.cfg.Model,
		Temperature: float32(p.cfg.Temperature),
		MaxTokens:   p.cfg.MaxTokens,
		Messages:    messages,
	})
	if err != nil {
		return domain.Classification{}, fmt.Errorf("%s request failed: %w", p.name, err)
	}
	if len(resp.Choices) == 0 {
		return domain.Classification{}, fmt.Errorf("no response from %s", p.name)
	}
	return parseAnswer(resp.Choices[0].Message.Content, p.name)
}

// parseAnswer reads the first line holding "category|confidence". The category must be known,
// a missing or malformed confidence becomes 0.5.
func parseAnswer(content, provider string) (domain.Classification, error) {
	for _, line := range strings.Split(strings.TrimSpace(content), "\n") {
		catPart, confPart, _ := strings.Cut(line, "|")
		cat, err := domain.ParseCategory(strings.Trim(catPart, " \t\"'`*."))
		if err != nil {
			continue
		}
		return domain.Classification{Category: cat, Confidence: parseConfidence(confPart), Provider: provider}, nil
	}
	return domain.Classification{}, fmt.Errorf("unparseable %s answer %q", provider, content)
}

func parseConfidence(s string) float64 {
	num := leadingNumber.FindString(strings.TrimSpace(s))
	if num == "" {
		return 0.5
	}
	v, err := strconv.ParseFloat(num, 64)
	if err != nil || math.IsNaN(v) {
		return 0.5
	}
	return math.Max(0, math.Min(1, v))
}
