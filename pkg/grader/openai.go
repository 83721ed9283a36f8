package grader

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// OpenAIConfig defines configuration options for the direct OpenAI provider.
type OpenAIConfig struct {
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float32
	Logger      zerolog.Logger
}

// OpenAIGrader grades artifacts directly against the OpenAI chat completion
// API when no upstream grading service is configured. It implements Grader
// and Assistant. The model is instructed to answer in the structured grading
// shape; whatever it actually returns flows through the same normalization
// path as upstream feedback.
type OpenAIGrader struct {
	client *openai.Client
	cfg    OpenAIConfig
	tracer trace.Tracer
	logger zerolog.Logger
}

// NewOpenAIGrader builds a direct provider using the given configuration.
func NewOpenAIGrader(cfg OpenAIConfig) (*OpenAIGrader, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai api key is required")
	}

	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}

	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 1024
	}

	return &OpenAIGrader{
		client: openai.NewClientWithConfig(openai.DefaultConfig(cfg.APIKey)),
		cfg:    cfg,
		tracer: otel.Tracer("github.com/edupulse/school-portal-api/pkg/grader/openai"),
		logger: cfg.Logger.With().Str("component", "openai_grader").Logger(),
	}, nil
}

// Grade sends the artifact to OpenAI and returns the raw model output.
func (g *OpenAIGrader) Grade(parent context.Context, req GradeRequest) (string, error) {
	ctx, span := g.tracer.Start(parent, "grader.openai.grade", trace.WithAttributes(
		attribute.String("model", g.cfg.Model),
		attribute.String("grader.mime_type", req.MimeType),
	))
	defer span.End()

	start := time.Now()
	defer func() {
		graderDuration.WithLabelValues("openai", "grade").Observe(time.Since(start).Seconds())
	}()

	userParts := []openai.ChatMessagePart{{
		Type: openai.ChatMessagePartTypeText,
		Text: buildGradingPrompt(req),
	}}

	// Images go along as vision parts; PDFs are graded from metadata and
	// notes only since the chat API cannot ingest them.
	if strings.HasPrefix(req.MimeType, "image/") && len(req.Payload) > 0 {
		dataURL := fmt.Sprintf("data:%s;base64,%s", req.MimeType, base64.StdEncoding.EncodeToString(req.Payload))
		userParts = append(userParts, openai.ChatMessagePart{
			Type:     openai.ChatMessagePartTypeImageURL,
			ImageURL: &openai.ChatMessageImageURL{URL: dataURL},
		})
	}

	request := openai.ChatCompletionRequest{
		Model:       g.cfg.Model,
		MaxTokens:   g.cfg.MaxTokens,
		Temperature: g.cfg.Temperature,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: gradingSystemPrompt(),
			},
			{
				Role:         openai.ChatMessageRoleUser,
				MultiContent: userParts,
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject},
	}

	resp, err := g.client.CreateChatCompletion(ctx, request)
	if err != nil {
		graderFailures.WithLabelValues("openai", "grade").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", &TransportError{Message: fmt.Sprintf("openai grade: %v", err)}
	}

	if len(resp.Choices) == 0 {
		graderFailures.WithLabelValues("openai", "grade").Inc()
		span.SetStatus(codes.Error, "no choices")
		return "", ErrMissingFeedback
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		graderFailures.WithLabelValues("openai", "grade").Inc()
		span.SetStatus(codes.Error, "empty content")
		return "", ErrMissingFeedback
	}

	span.SetStatus(codes.Ok, "graded")
	return content, nil
}

// Ask answers an open-ended student question.
func (g *OpenAIGrader) Ask(ctx context.Context, req AskRequest) (string, error) {
	start := time.Now()
	defer func() {
		graderDuration.WithLabelValues("openai", "ask").Observe(time.Since(start).Seconds())
	}()

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       g.cfg.Model,
		MaxTokens:   g.cfg.MaxTokens,
		Temperature: g.cfg.Temperature,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are a patient school teacher. Answer the student's question clearly and at their level.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: req.Question,
			},
		},
	})
	if err != nil {
		graderFailures.WithLabelValues("openai", "ask").Inc()
		return "", &TransportError{Message: fmt.Sprintf("openai ask: %v", err)}
	}

	if len(resp.Choices) == 0 {
		graderFailures.WithLabelValues("openai", "ask").Inc()
		return "", fmt.Errorf("no choices returned from openai")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func gradingSystemPrompt() string {
	return "You are an automated teacher assistant grading student homework. Respond with a JSON object containing " +
		"handwritingVerificationScore (0-1), extractedText, aiSuggestedGrade (0-100), mistakes (array of short strings), " +
		"feedback, and rubricPoints (array of {criteria, maxPoints, earnedPoints, feedback}). Be encouraging but accurate."
}

func buildGradingPrompt(req GradeRequest) string {
	builder := strings.Builder{}
	builder.WriteString("Grade this student submission.\n")
	builder.WriteString(fmt.Sprintf("\nFile: %s (%s)\n", req.FileName, req.MimeType))
	if req.AssignmentID != nil {
		builder.WriteString(fmt.Sprintf("Assignment ref: %d\n", *req.AssignmentID))
	}
	if req.SubjectID != nil {
		builder.WriteString(fmt.Sprintf("Subject ref: %d\n", *req.SubjectID))
	}
	if req.Notes != "" {
		builder.WriteString("\nStudent notes:\n")
		builder.WriteString(req.Notes)
		builder.WriteString("\n")
	}
	builder.WriteString("\nReturn JSON.")
	return builder.String()
}
