package grader

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var (
	graderDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "portal",
		Subsystem: "grader",
		Name:      "request_duration_seconds",
		Help:      "Duration of grading provider requests",
	}, []string{"provider", "operation"})

	graderFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "portal",
		Subsystem: "grader",
		Name:      "request_failures_total",
		Help:      "Number of failed grading provider requests",
	}, []string{"provider", "operation"})
)

// DefaultUpstreamTimeout bounds every round-trip to the grading backend. The
// backend gives no latency guarantees, so an explicit deadline keeps a stuck
// submission from pinning the caller indefinitely.
const DefaultUpstreamTimeout = 30 * time.Second

// UpstreamConfig configures the remote grading service client.
type UpstreamConfig struct {
	BaseURL string
	Timeout time.Duration
	Logger  zerolog.Logger
}

// UpstreamClient talks to the remote AI grading service over HTTP. It
// implements Grader, Assistant and VideoGenerator.
type UpstreamClient struct {
	http    *http.Client
	baseURL string
	tracer  trace.Tracer
	logger  zerolog.Logger
}

// NewUpstreamClient builds a client for the configured grading backend.
func NewUpstreamClient(cfg UpstreamConfig) (*UpstreamClient, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("grader base url is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultUpstreamTimeout
	}

	return &UpstreamClient{
		http:    &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		tracer:  otel.Tracer("github.com/edupulse/school-portal-api/pkg/grader/upstream"),
		logger:  cfg.Logger.With().Str("component", "upstream_grader").Logger(),
	}, nil
}

// detailsSidecar is the JSON metadata attached next to the binary payload.
// Field names and null semantics are part of the backend contract.
type detailsSidecar struct {
	AssignmentID *uint  `json:"assignmentId"`
	StudentID    uint   `json:"studentId"`
	SubjectID    *uint  `json:"subjectId"`
	Notes        string `json:"notes"`
}

// Grade uploads the artifact and returns the backend's raw feedback payload.
func (c *UpstreamClient) Grade(parent context.Context, req GradeRequest) (string, error) {
	ctx, span := c.tracer.Start(parent, "grader.upstream.grade", trace.WithAttributes(
		attribute.String("grader.mime_type", req.MimeType),
		attribute.Int("grader.payload_bytes", len(req.Payload)),
	))
	defer span.End()

	start := time.Now()
	defer func() {
		graderDuration.WithLabelValues("upstream", "grade").Observe(time.Since(start).Seconds())
	}()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", req.FileName)
	if err != nil {
		return "", fmt.Errorf("build multipart body: %w", err)
	}
	if _, err := part.Write(req.Payload); err != nil {
		return "", fmt.Errorf("write artifact payload: %w", err)
	}

	details, err := json.Marshal(detailsSidecar{
		AssignmentID: req.AssignmentID,
		StudentID:    req.StudentID,
		SubjectID:    req.SubjectID,
		Notes:        req.Notes,
	})
	if err != nil {
		return "", fmt.Errorf("marshal submission details: %w", err)
	}
	if err := writer.WriteField("details", string(details)); err != nil {
		return "", fmt.Errorf("write submission details: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("finalize multipart body: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/assignments/submit", body)
	if err != nil {
		return "", fmt.Errorf("build grade request: %w", err)
	}
	httpReq.Header.Set("Content-Type", writer.FormDataContentType())
	if req.AuthToken != "" {
		httpReq.Header.Set("Authorization", "Bearer "+req.AuthToken)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		graderFailures.WithLabelValues("upstream", "grade").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "request failed")
		return "", &TransportError{Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		graderFailures.WithLabelValues("upstream", "grade").Inc()
		terr := &TransportError{StatusCode: resp.StatusCode, Message: readErrorText(resp)}
		span.RecordError(terr)
		span.SetStatus(codes.Error, "non-success status")
		return "", terr
	}

	var payload struct {
		Feedback *string `json:"feedback"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		graderFailures.WithLabelValues("upstream", "grade").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "undecodable response")
		return "", ErrMissingFeedback
	}
	if payload.Feedback == nil || *payload.Feedback == "" {
		graderFailures.WithLabelValues("upstream", "grade").Inc()
		span.SetStatus(codes.Error, "missing feedback")
		return "", ErrMissingFeedback
	}

	span.SetStatus(codes.Ok, "graded")
	return *payload.Feedback, nil
}

// Ask forwards a free-form question to the backend assistant.
func (c *UpstreamClient) Ask(ctx context.Context, req AskRequest) (string, error) {
	start := time.Now()
	defer func() {
		graderDuration.WithLabelValues("upstream", "ask").Observe(time.Since(start).Seconds())
	}()

	payload := map[string]interface{}{
		"studentId": req.StudentID,
		"question":  req.Question,
	}
	if req.SubjectID != nil {
		payload["subjectId"] = *req.SubjectID
	}
	if req.TeacherID != nil {
		payload["teacherId"] = *req.TeacherID
	}

	var response struct {
		Answer string `json:"answer"`
	}
	if err := c.postJSON(ctx, "/ask", req.AuthToken, payload, &response); err != nil {
		graderFailures.WithLabelValues("upstream", "ask").Inc()
		return "", err
	}

	return response.Answer, nil
}

// GenerateVideo asks the backend to produce a learning video.
func (c *UpstreamClient) GenerateVideo(ctx context.Context, req VideoRequest) (VideoResult, error) {
	start := time.Now()
	defer func() {
		graderDuration.WithLabelValues("upstream", "video").Observe(time.Since(start).Seconds())
	}()

	payload := map[string]interface{}{
		"studentId":    req.StudentID,
		"subjectId":    req.SubjectID,
		"topicContext": req.TopicContext,
	}
	if req.Title != "" {
		payload["title"] = req.Title
	}
	if req.TeacherID != nil {
		payload["teacherId"] = *req.TeacherID
	}

	var result VideoResult
	if err := c.postJSON(ctx, "/videos", req.AuthToken, payload, &result); err != nil {
		graderFailures.WithLabelValues("upstream", "video").Inc()
		return VideoResult{}, err
	}

	return result, nil
}

func (c *UpstreamClient) postJSON(ctx context.Context, path, token string, payload interface{}, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return &TransportError{Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &TransportError{StatusCode: resp.StatusCode, Message: readErrorText(resp)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}

// readErrorText extracts the most useful error message available from a
// failed response: the body text when readable, otherwise the status code.
func readErrorText(resp *http.Response) string {
	body, err := io.ReadAll(io.LimitReader(resp.Body, 8*1024))
	text := strings.TrimSpace(string(body))
	if err != nil || text == "" {
		return fmt.Sprintf("server error: status %d", resp.StatusCode)
	}
	return text
}
