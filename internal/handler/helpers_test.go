package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

const testSecret = "handler-test-secret"

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

func mintTestToken(t *testing.T, userID uint, role string, schoolID uint) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub":       userID,
		"role":      role,
		"school_id": schoolID,
		"iat":       time.Now().Unix(),
		"exp":       time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func jsonRequest(t *testing.T, method, target, token string, payload interface{}) *http.Request {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func multipartBody(t *testing.T, fileName string, payload []byte, details string) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", fileName)
	require.NoError(t, err)
	_, err = part.Write(payload)
	require.NoError(t, err)

	if details != "" {
		require.NoError(t, writer.WriteField("details", details))
	}
	require.NoError(t, writer.Close())

	return &buf, writer.FormDataContentType()
}

func decodeBody(t *testing.T, body io.Reader, out interface{}) {
	t.Helper()
	raw, err := io.ReadAll(body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, out), "body: %s", raw)
}
