package handler

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/edupulse/school-portal-api/internal/dto"
	"github.com/edupulse/school-portal-api/internal/middleware"
	"github.com/edupulse/school-portal-api/internal/models"
	"github.com/edupulse/school-portal-api/internal/repository"
	"github.com/edupulse/school-portal-api/internal/service"
	"github.com/edupulse/school-portal-api/internal/utils"
)

func resultsApp() *fiber.App {
	svc := service.NewResultsService(repository.NewMemoryPaperResultStore(), nil, time.Minute, testLogger())
	app := fiber.New()
	NewResultsHandler(svc, validator.New(), testLogger()).
		Register(app.Group("/api/teacher",
			middleware.JWTProtected(testSecret), middleware.RequireRole(models.RoleTeacher)))
	return app
}

func createResult(t *testing.T, app *fiber.App, token string, req dto.PaperResultCreateRequest) utils.APIResponse {
	t.Helper()

	resp, err := app.Test(jsonRequest(t, "POST", "/api/teacher/results", token, req))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var envelope utils.APIResponse
	decodeBody(t, resp.Body, &envelope)
	require.True(t, envelope.Success)
	return envelope
}

func TestResultsRoundTrip(t *testing.T) {
	app := resultsApp()
	token := mintTestToken(t, 7, "teacher", 3)

	createResult(t, app, token, dto.PaperResultCreateRequest{
		StudentName:    "Ada Lovelace",
		AssignmentName: "Essay 1",
		Score:          88,
	})
	envelope := createResult(t, app, token, dto.PaperResultCreateRequest{
		StudentName:    "Grace Hopper",
		AssignmentName: "Essay 1",
		Score:          94,
	})

	created, ok := envelope.Data.(map[string]interface{})
	require.True(t, ok)
	id, _ := created["id"].(string)
	require.NotEmpty(t, id)
	require.Equal(t, "A", created["grade"])

	listReq := httptest.NewRequest("GET", "/api/teacher/results", nil)
	listReq.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(listReq)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var listEnvelope utils.APIResponse
	decodeBody(t, resp.Body, &listEnvelope)
	list, ok := listEnvelope.Data.([]interface{})
	require.True(t, ok)
	require.Len(t, list, 2)

	delReq := httptest.NewRequest("DELETE", "/api/teacher/results/"+id, nil)
	delReq.Header.Set("Authorization", "Bearer "+token)
	resp, err = app.Test(delReq)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(listReq)
	require.NoError(t, err)
	defer resp.Body.Close()
	decodeBody(t, resp.Body, &listEnvelope)
	list, ok = listEnvelope.Data.([]interface{})
	require.True(t, ok)
	require.Len(t, list, 1)
}

func TestResultsListFilterAndSort(t *testing.T) {
	app := resultsApp()
	token := mintTestToken(t, 7, "teacher", 3)

	for _, r := range []dto.PaperResultCreateRequest{
		{StudentName: "Ada Lovelace", AssignmentName: "Algebra Quiz", Score: 95},
		{StudentName: "Grace Hopper", AssignmentName: "Essay 1", Score: 72},
	} {
		createResult(t, app, token, r)
	}

	req := httptest.NewRequest("GET", "/api/teacher/results?q=algebra&sort=score", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var envelope utils.APIResponse
	decodeBody(t, resp.Body, &envelope)
	list, ok := envelope.Data.([]interface{})
	require.True(t, ok)
	require.Len(t, list, 1)
}

func TestResultsListRejectsUnknownSortKey(t *testing.T) {
	app := resultsApp()

	req := httptest.NewRequest("GET", "/api/teacher/results?sort=bogus", nil)
	req.Header.Set("Authorization", "Bearer "+mintTestToken(t, 7, "teacher", 3))

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestResultsAggregate(t *testing.T) {
	app := resultsApp()
	token := mintTestToken(t, 7, "teacher", 3)

	for _, r := range []dto.PaperResultCreateRequest{
		{StudentName: "Ada", AssignmentName: "Essay 1", Score: 80},
		{StudentName: "Ada", AssignmentName: "Essay 2", Score: 90},
	} {
		createResult(t, app, token, r)
	}

	req := httptest.NewRequest("GET", "/api/teacher/results/aggregate", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var envelope utils.APIResponse
	decodeBody(t, resp.Body, &envelope)
	aggregate, ok := envelope.Data.(map[string]interface{})
	require.True(t, ok)
	require.EqualValues(t, 85, aggregate["averageScore"])
	require.EqualValues(t, 1, aggregate["distinctStudentCount"])
	require.EqualValues(t, 2, aggregate["distinctAssignmentCount"])
}

func TestResultsForbiddenForStudents(t *testing.T) {
	app := resultsApp()
	token := mintTestToken(t, 5, models.RoleStudent, 3)

	resp, err := app.Test(jsonRequest(t, "POST", "/api/teacher/results", token, dto.PaperResultCreateRequest{
		StudentName:    "Ada",
		AssignmentName: "Essay 1",
		Score:          100,
	}))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	listReq := httptest.NewRequest("GET", "/api/teacher/results", nil)
	listReq.Header.Set("Authorization", "Bearer "+token)
	resp, err = app.Test(listReq)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestResultsRequireToken(t *testing.T) {
	app := resultsApp()

	resp, err := app.Test(httptest.NewRequest("GET", "/api/teacher/results", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
