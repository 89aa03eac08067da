// Package service provides business logic for slide generation and history.
package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/invopop/jsonschema"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/capitalize-ai/ai-slides/internal/llm"
	"github.com/capitalize-ai/ai-slides/internal/model"
	"github.com/capitalize-ai/ai-slides/pkg/logger"
	"github.com/capitalize-ai/ai-slides/pkg/metrics"
	"github.com/capitalize-ai/ai-slides/pkg/tracing"
)

// MaxPromptBytes bounds the prompt accepted by Generate.
const MaxPromptBytes = 10_000

const invalidJSONReason = "AI response was not a valid JSON format."

// ClientFactory builds a provider client for an API key.
type ClientFactory func(ctx context.Context, apiKey string) (llm.Client, error)

// GenerationConfig selects the model used for generation.
type GenerationConfig struct {
	Provider  llm.Provider
	Model     string
	MaxTokens int
}

// GenerationService turns a prompt into slides.
type GenerationService struct {
	cfg     GenerationConfig
	creds   llm.CredentialSource
	factory ClientFactory
	logger  *logger.Logger

	mu      sync.Mutex
	clients map[string]llm.Client
}

// NewGenerationService creates a generation service. The credential is
// resolved on every call, so a missing key fails the request rather than
// startup.
func NewGenerationService(cfg GenerationConfig, creds llm.CredentialSource, factory ClientFactory, log *logger.Logger) *GenerationService {
	return &GenerationService{
		cfg:     cfg,
		creds:   creds,
		factory: factory,
		logger:  log,
		clients: make(map[string]llm.Client),
	}
}

// Generate asks the model for a deck and returns its slides as produced.
func (s *GenerationService) Generate(ctx context.Context, prompt string) ([]model.Slide, error) {
	prompt, err := ValidatePrompt(prompt)
	if err != nil {
		return nil, err
	}

	ctx, span := tracing.Tracer("service").Start(ctx, "generation.generate")
	defer span.End()
	span.SetAttributes(
		attribute.String("llm.provider", string(s.cfg.Provider)),
		attribute.Int("prompt.bytes", len(prompt)),
	)

	start := time.Now()
	slides, err := s.generate(ctx, prompt)
	status := "success"
	if err != nil {
		status = strings.ToLower(string(AsError(err).Code))
		span.RecordError(err)
		span.SetStatus(codes.Error, status)
	} else {
		span.SetAttributes(attribute.Int("slides.count", len(slides)))
		metrics.SlidesGenerated.Observe(float64(len(slides)))
	}
	metrics.RecordGeneration(string(s.cfg.Provider), status, time.Since(start).Seconds())
	return slides, err
}

func (s *GenerationService) generate(ctx context.Context, prompt string) ([]model.Slide, error) {
	apiKey, err := s.creds.APIKey(ctx)
	if err != nil {
		if !errors.Is(err, llm.ErrNoCredential) {
			s.logger.Error("failed to resolve API key", zap.Error(err))
		}
		return nil, newError(ErrorConfiguration, "API key not configured", err)
	}

	client, err := s.client(ctx, apiKey)
	if err != nil {
		s.logger.Error("failed to create LLM client", zap.String("provider", string(s.cfg.Provider)), zap.Error(err))
		return nil, newError(ErrorConfiguration, "Failed to initialise model client", err)
	}

	resp, err := client.Complete(ctx, &llm.CompletionRequest{
		Model:     s.cfg.Model,
		MaxTokens: s.cfg.MaxTokens,
		JSON:      true,
		Messages: []llm.ChatMessage{
			{Role: "user", Content: BuildInstruction(prompt)},
		},
	})
	if err != nil {
		s.logger.Error("generation request failed", zap.String("provider", client.Name()), zap.Error(err))
		return nil, newError(ErrorUpstreamTransport, err.Error(), err)
	}
	metrics.RecordTokens(resp.Model, resp.TokensIn, resp.TokensOut)

	slides, err := ParseSlides(resp.Content)
	if err != nil {
		s.logger.Warn("model reply was not a slide deck",
			zap.String("provider", client.Name()),
			zap.String("stop_reason", resp.StopReason),
			zap.Int("reply_bytes", len(resp.Content)),
			zap.Error(err),
		)
		return nil, err
	}

	s.logger.Info("slides generated",
		zap.String("provider", client.Name()),
		zap.String("model", resp.Model),
		zap.Int("slides", len(slides)),
		zap.Int64("latency_ms", resp.LatencyMs),
	)
	return slides, nil
}

// client returns a cached client for apiKey. Keys rotated in the parameter
// store get a fresh client.
func (s *GenerationService) client(ctx context.Context, apiKey string) (llm.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.clients[apiKey]; ok {
		return c, nil
	}
	c, err := s.factory(ctx, apiKey)
	if err != nil {
		return nil, err
	}
	s.clients[apiKey] = c
	return c, nil
}

// ValidatePrompt trims the prompt and checks it is usable.
func ValidatePrompt(prompt string) (string, error) {
	prompt = strings.TrimSpace(prompt)
	switch {
	case prompt == "":
		return "", newError(ErrorValidation, "Prompt is required", nil)
	case len(prompt) > MaxPromptBytes:
		return "", newError(ErrorValidation, fmt.Sprintf("Prompt must be at most %d bytes", MaxPromptBytes), nil)
	case !utf8.ValidString(prompt):
		return "", newError(ErrorValidation, "Prompt must be valid UTF-8", nil)
	}
	return prompt, nil
}

var (
	deckSchemaOnce sync.Once
	deckSchema     string
)

// DeckSchema returns the JSON Schema of the expected reply.
func DeckSchema() string {
	deckSchemaOnce.Do(func() {
		r := &jsonschema.Reflector{
			DoNotReference: true,
			ExpandedStruct: true,
		}
		data, err := json.Marshal(r.Reflect(&model.Deck{}))
		if err != nil {
			// Reflection of a fixed struct cannot fail at runtime.
			panic(err)
		}
		deckSchema = string(data)
	})
	return deckSchema
}

// BuildInstruction wraps the user prompt in the generation instruction.
func BuildInstruction(prompt string) string {
	var b strings.Builder
	b.WriteString("You are a helpful AI assistant that generates content for PowerPoint slides. ")
	b.WriteString("Based on the following prompt, generate a JSON object with a 'slides' array. ")
	b.WriteString("Each object in the 'slides' array should have a 'title' (string) and 'content' (array of strings for bullet points). ")
	b.WriteString("The object must validate against this JSON Schema: ")
	b.WriteString(DeckSchema())
	b.WriteString(" Ensure the response is a valid JSON string. Prompt: ")
	b.WriteString(prompt)
	return b.String()
}

// StripFence removes a markdown code fence, optionally tagged json, from
// around a reply.
func StripFence(text string) string {
	text = strings.TrimSpace(text)
	var body string
	switch {
	case strings.HasPrefix(text, "```json"):
		body = text[len("```json"):]
	case strings.HasPrefix(text, "```"):
		body = text[len("```"):]
	default:
		return text
	}
	if i := strings.LastIndex(body, "```"); i >= 0 {
		body = body[:i]
	}
	return strings.TrimSpace(body)
}

// ParseSlides extracts the slides array from a model reply. The reply must be
// a JSON object with a slides array; each element is decoded leniently so a
// slide of the wrong shape reaches the caller instead of failing the deck.
func ParseSlides(reply string) ([]model.Slide, error) {
	var envelope struct {
		Slides json.RawMessage `json:"slides"`
	}
	if err := json.Unmarshal([]byte(StripFence(reply)), &envelope); err != nil {
		return nil, newError(ErrorUpstreamFormat, invalidJSONReason, err)
	}
	if len(envelope.Slides) == 0 || string(envelope.Slides) == "null" {
		return nil, newError(ErrorUpstreamFormat, invalidJSONReason, errors.New("reply has no slides array"))
	}
	var raw []json.RawMessage
	if err := json.Unmarshal(envelope.Slides, &raw); err != nil {
		return nil, newError(ErrorUpstreamFormat, invalidJSONReason, err)
	}
	slides := make([]model.Slide, 0, len(raw))
	for _, r := range raw {
		slides = append(slides, decodeSlide(r))
	}
	return slides, nil
}

// decodeSlide reads one slide without rejecting it. A string content becomes
// a single bullet; fields of any other shape come back empty.
func decodeSlide(data json.RawMessage) model.Slide {
	slide := model.Slide{Content: []string{}}
	var fields struct {
		Title   json.RawMessage `json:"title"`
		Content json.RawMessage `json:"content"`
	}
	if err := json.Unmarshal(data, &fields); err != nil {
		return slide
	}
	slide.Title, _ = scalarText(fields.Title)

	if text, ok := scalarText(fields.Content); ok {
		slide.Content = append(slide.Content, text)
		return slide
	}
	var items []json.RawMessage
	if err := json.Unmarshal(fields.Content, &items); err == nil {
		for _, item := range items {
			if text, ok := scalarText(item); ok {
				slide.Content = append(slide.Content, text)
			}
		}
	}
	return slide
}

// scalarText returns a JSON string, number or boolean as text.
func scalarText(data json.RawMessage) (string, bool) {
	var v interface{}
	if len(data) == 0 || json.Unmarshal(data, &v) != nil {
		return "", false
	}
	switch v := v.(type) {
	case string:
		return v, true
	case float64, bool:
		return string(bytes.TrimSpace(data)), true
	}
	return "", false
}
