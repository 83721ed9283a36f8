package handler

import (
	"context"
	"mime/multipart"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/edupulse/school-portal-api/internal/dto"
	"github.com/edupulse/school-portal-api/internal/grading"
	"github.com/edupulse/school-portal-api/internal/middleware"
	"github.com/edupulse/school-portal-api/internal/service"
	"github.com/edupulse/school-portal-api/internal/utils"
	"github.com/edupulse/school-portal-api/pkg/grader"
)

type fakeSubmissionService struct {
	result      grading.Result
	err         error
	lastSession service.Session
	lastDetails dto.SubmissionDetails
	lastFile    *multipart.FileHeader
}

func (f *fakeSubmissionService) Submit(_ context.Context, session service.Session, file *multipart.FileHeader, details dto.SubmissionDetails, _ service.ProgressFunc) (grading.Result, error) {
	f.lastSession = session
	f.lastFile = file
	f.lastDetails = details
	return f.result, f.err
}

func submissionApp(svc service.SubmissionService) *fiber.App {
	app := fiber.New()
	h := NewSubmissionHandler(svc, testLogger())
	h.Register(app.Group("/api/ai", middleware.JWTProtected(testSecret)))
	return app
}

func TestSubmitReturnsNormalizedResult(t *testing.T) {
	svc := &fakeSubmissionService{result: grading.Result{
		HandwritingVerificationScore: 0.9,
		ExtractedText:                "essay text",
		AISuggestedGrade:             92,
		Mistakes:                     []string{},
		Feedback:                     "well argued",
	}}
	app := submissionApp(svc)

	body, contentType := multipartBody(t, "essay.png", []byte("fake-bytes"), `{"assignmentId":4,"notes":"second draft"}`)
	req := httptest.NewRequest("POST", "/api/ai/assignments/submit", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+mintTestToken(t, 7, "student", 3))

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var result grading.Result
	decodeBody(t, resp.Body, &result)
	require.Equal(t, 92, result.AISuggestedGrade)
	require.Equal(t, "well argued", result.Feedback)

	require.Equal(t, uint(7), svc.lastSession.UserID)
	require.NotNil(t, svc.lastDetails.AssignmentID)
	require.Equal(t, uint(4), *svc.lastDetails.AssignmentID)
	require.Equal(t, "second draft", svc.lastDetails.Notes)
	require.Equal(t, "essay.png", svc.lastFile.Filename)
}

func TestSubmitWithoutToken(t *testing.T) {
	app := submissionApp(&fakeSubmissionService{})

	body, contentType := multipartBody(t, "essay.png", []byte("x"), "")
	req := httptest.NewRequest("POST", "/api/ai/assignments/submit", body)
	req.Header.Set("Content-Type", contentType)

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestSubmitWithoutFile(t *testing.T) {
	app := submissionApp(&fakeSubmissionService{})

	req := jsonRequest(t, "POST", "/api/ai/assignments/submit", mintTestToken(t, 7, "student", 3), fiber.Map{})

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestSubmitErrorMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"unsupported type", grading.ErrUnsupportedMediaType, fiber.StatusUnsupportedMediaType},
		{"too large", grading.ErrPayloadTooLarge, fiber.StatusRequestEntityTooLarge},
		{"in flight", service.ErrSubmissionInFlight, fiber.StatusConflict},
		{"missing feedback", grader.ErrMissingFeedback, fiber.StatusBadGateway},
		{"transport", &grader.TransportError{StatusCode: 500, Message: "server error: status 500"}, fiber.StatusBadGateway},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := submissionApp(&fakeSubmissionService{err: tc.err})

			body, contentType := multipartBody(t, "essay.png", []byte("x"), "")
			req := httptest.NewRequest("POST", "/api/ai/assignments/submit", body)
			req.Header.Set("Content-Type", contentType)
			req.Header.Set("Authorization", "Bearer "+mintTestToken(t, 7, "student", 3))

			resp, err := app.Test(req)
			require.NoError(t, err)
			defer resp.Body.Close()
			require.Equal(t, tc.status, resp.StatusCode)

			var envelope utils.APIResponse
			decodeBody(t, resp.Body, &envelope)
			require.False(t, envelope.Success)
			require.NotEmpty(t, envelope.Message)
		})
	}
}

func TestSubmitTransportErrorSurfacesBackendMessage(t *testing.T) {
	app := submissionApp(&fakeSubmissionService{
		err: &grader.TransportError{StatusCode: 400, Message: "assignment is past due"},
	})

	body, contentType := multipartBody(t, "essay.png", []byte("x"), "")
	req := httptest.NewRequest("POST", "/api/ai/assignments/submit", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+mintTestToken(t, 7, "student", 3))

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var envelope utils.APIResponse
	decodeBody(t, resp.Body, &envelope)
	require.Equal(t, "assignment is past due", envelope.Message)
}
