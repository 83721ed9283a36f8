package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/edupulse/school-portal-api/internal/dto"
	"github.com/edupulse/school-portal-api/internal/grading"
	"github.com/edupulse/school-portal-api/internal/observability"
	"github.com/edupulse/school-portal-api/pkg/grader"
)

var (
	// ErrNotAuthenticated indicates no resolvable user session; nothing is
	// sent over the network in that case.
	ErrNotAuthenticated = errors.New("no authenticated session")
	// ErrSubmissionInFlight indicates the session already has a submission
	// in progress. Overlapping submissions are rejected, not queued.
	ErrSubmissionInFlight = errors.New("a submission is already in flight for this session")
	// ErrArtifactRequired indicates the multipart request carried no file.
	ErrArtifactRequired = errors.New("submission file is required")
)

// ProgressFunc observes submission milestones. Stages arrive in order with a
// monotonically non-decreasing percentage.
type ProgressFunc func(stage string, percent int)

// FileArchiver stores a copy of the submitted artifact.
type FileArchiver interface {
	Upload(ctx context.Context, name string, reader io.Reader) (string, error)
}

// SubmissionService owns the submission-and-feedback flow: validate the
// artifact, ship it to the grading provider, and normalize whatever comes
// back into a grading.Result.
type SubmissionService interface {
	Submit(ctx context.Context, session Session, file *multipart.FileHeader, details dto.SubmissionDetails, onProgress ProgressFunc) (grading.Result, error)
}

type submissionService struct {
	grader    grader.Grader
	archive   FileArchiver
	locks     *redis.Client
	validator *validator.Validate
	logger    zerolog.Logger
	tracer    trace.Tracer
	maxSize   int64
	lockTTL   time.Duration
}

// NewSubmissionService constructs the submission flow. The archive and lock
// client may be nil; archiving and the in-flight guard degrade to no-ops.
func NewSubmissionService(g grader.Grader, archive FileArchiver, locks *redis.Client, validate *validator.Validate, maxSizeMB int, lockTTL time.Duration, logger zerolog.Logger) SubmissionService {
	if maxSizeMB <= 0 {
		maxSizeMB = 10
	}
	if lockTTL <= 0 {
		lockTTL = 2 * time.Minute
	}
	return &submissionService{
		grader:    g,
		archive:   archive,
		locks:     locks,
		validator: validate,
		logger:    logger.With().Str("component", "submission_service").Logger(),
		tracer:    otel.Tracer("github.com/edupulse/school-portal-api/internal/service/submission"),
		maxSize:   int64(maxSizeMB) * 1024 * 1024,
		lockTTL:   lockTTL,
	}
}

func (s *submissionService) Submit(parent context.Context, session Session, file *multipart.FileHeader, details dto.SubmissionDetails, onProgress ProgressFunc) (grading.Result, error) {
	ctx, span := s.tracer.Start(parent, "submission.submit")
	defer span.End()

	start := time.Now()
	outcome := "error"
	defer func() {
		observability.SubmissionLatency().Observe(time.Since(start).Seconds())
		observability.SubmissionRequests().WithLabelValues(outcome).Inc()
	}()

	if !session.Authenticated() {
		span.SetStatus(codes.Error, "not_authenticated")
		return grading.Result{}, ErrNotAuthenticated
	}

	// The student ref always comes from the session, never from the client.
	details.StudentID = session.UserID
	span.SetAttributes(attribute.Int("submission.student_id", int(session.UserID)))

	if err := s.validator.Struct(details); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid_details")
		return grading.Result{}, err
	}

	if file == nil {
		span.SetStatus(codes.Error, "missing_file")
		return grading.Result{}, ErrArtifactRequired
	}

	release, err := s.acquireLock(ctx, session)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "in_flight")
		return grading.Result{}, err
	}
	defer release()

	progress := newProgressEmitter(onProgress)

	payload, mime, err := s.readArtifact(file)
	if err != nil {
		observability.SubmissionRejected().WithLabelValues(rejectionReason(err)).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation_failed")
		return grading.Result{}, err
	}
	span.SetAttributes(
		attribute.String("submission.mime_type", mime),
		attribute.Int("submission.size_bytes", len(payload)),
	)
	progress("validated", 0)

	progress("uploading", 25)
	if s.archive != nil {
		if _, archiveErr := s.archive.Upload(ctx, file.Filename, bytes.NewReader(payload)); archiveErr != nil {
			// Archiving never fails the submission.
			s.logger.Warn().Err(archiveErr).Str("file", file.Filename).Msg("artifact archive failed")
		}
	}

	progress("awaiting analysis", 50)
	feedback, err := s.grader.Grade(ctx, grader.GradeRequest{
		FileName:     file.Filename,
		MimeType:     mime,
		Payload:      payload,
		AssignmentID: details.AssignmentID,
		StudentID:    details.StudentID,
		SubjectID:    details.SubjectID,
		Notes:        details.Notes,
		AuthToken:    session.Token,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "grading_failed")
		return grading.Result{}, err
	}
	progress("awaiting analysis", 75)

	result := grading.Normalize(feedback)
	progress("complete", 100)

	outcome = "ok"
	span.SetStatus(codes.Ok, "graded")
	s.logger.Info().
		Uint("student_id", details.StudentID).
		Int("suggested_grade", result.AISuggestedGrade).
		Msg("submission graded")

	return result, nil
}

// acquireLock enforces at-most-one in-flight submission per session token.
func (s *submissionService) acquireLock(ctx context.Context, session Session) (func(), error) {
	if s.locks == nil {
		return func() {}, nil
	}

	key := fmt.Sprintf("submission:inflight:%s", session.Token)
	acquired, err := s.locks.SetNX(ctx, key, 1, s.lockTTL).Result()
	if err != nil {
		// A broken lock backend must not take submissions down with it.
		s.logger.Warn().Err(err).Msg("submission lock unavailable")
		return func() {}, nil
	}
	if !acquired {
		observability.SubmissionRejected().WithLabelValues("in_flight").Inc()
		return nil, ErrSubmissionInFlight
	}

	return func() {
		if err := s.locks.Del(context.WithoutCancel(ctx), key).Err(); err != nil {
			s.logger.Warn().Err(err).Msg("failed to release submission lock")
		}
	}, nil
}

// readArtifact buffers the upload and gates it on size and sniffed type.
func (s *submissionService) readArtifact(file *multipart.FileHeader) ([]byte, string, error) {
	if file.Size > s.maxSize {
		return nil, "", grading.ErrPayloadTooLarge
	}

	handle, err := file.Open()
	if err != nil {
		return nil, "", fmt.Errorf("failed to open file: %w", err)
	}
	defer handle.Close()

	buf := bytes.NewBuffer(nil)
	if _, err := io.Copy(buf, io.LimitReader(handle, s.maxSize+1)); err != nil {
		return nil, "", fmt.Errorf("failed to read file: %w", err)
	}
	if int64(buf.Len()) > s.maxSize {
		return nil, "", grading.ErrPayloadTooLarge
	}

	mime := mimetype.Detect(buf.Bytes()).String()
	if err := grading.ValidateArtifact(mime, int64(buf.Len())); err != nil {
		return nil, "", err
	}

	return buf.Bytes(), mime, nil
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, grading.ErrPayloadTooLarge):
		return "size"
	case errors.Is(err, grading.ErrUnsupportedMediaType):
		return "type"
	default:
		return "read"
	}
}

// newProgressEmitter wraps the caller's observer so milestones never move
// backwards, whatever order internal steps complete in.
func newProgressEmitter(fn ProgressFunc) ProgressFunc {
	if fn == nil {
		return func(string, int) {}
	}

	last := -1
	return func(stage string, percent int) {
		if percent < last {
			percent = last
		}
		last = percent
		fn(stage, percent)
	}
}
