package testsupport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/ferdian3456/devblog/internal/model"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

// TruncateAllTables empties every table, children first.
func TruncateAllTables(t *testing.T, db *pgxpool.Pool, ctx context.Context) {
	tables := []string{
		"post_likes",
		"post_comments",
		"posts",
		"users",
	}

	for _, table := range tables {
		_, err := db.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table))
		require.NoError(t, err, "failed to truncate table %s", table)
	}
}

func FlushCache(t *testing.T, rdb *redis.Client, ctx context.Context) {
	require.NoError(t, rdb.FlushDB(ctx).Err(), "failed to flush redis")
}

// InsertUser writes a user row directly, bypassing registration.
func InsertUser(t *testing.T, db *pgxpool.Pool, ctx context.Context, username string) uuid.UUID {
	id := uuid.New()
	now := time.Now().UTC()

	_, err := db.Exec(ctx, `INSERT INTO users (id, username, fullname, email, password, create_datetime, update_datetime)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`, id, username, username, username+"@example.com", "hash", now, now)
	require.NoError(t, err, "failed to insert user %s", username)

	return id
}

func InsertPost(t *testing.T, db *pgxpool.Pool, ctx context.Context, authorId uuid.UUID, title string) uuid.UUID {
	id := uuid.New()
	now := time.Now().UTC()

	_, err := db.Exec(ctx, `INSERT INTO posts (id, author_id, title, content, create_datetime, update_datetime)
		VALUES ($1, $2, $3, $4, $5, $6)`, id, authorId, title, "content of "+title, now, now)
	require.NoError(t, err, "failed to insert post %s", title)

	return id
}

func CreateJSONRequest(method, url string, jsonBody []byte) *http.Request {
	req := httptest.NewRequest(method, url, bytes.NewReader(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func CreateAuthRequest(method, url string, jsonBody []byte, token string) *http.Request {
	req := CreateJSONRequest(method, url, jsonBody)
	if token != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", token))
	}
	return req
}

// Do runs the request against the app without fiber's default one second deadline.
func Do(t *testing.T, app *fiber.App, req *http.Request) *http.Response {
	resp, err := app.Test(req, -1)
	require.NoError(t, err, "request %s %s should complete", req.Method, req.URL.Path)
	return resp
}

func ParseJSONResponse(t *testing.T, resp *http.Response) map[string]interface{} {
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "failed to read response body")
	require.NotEmpty(t, body, "response body should not be empty")

	var result map[string]interface{}
	err = sonic.Unmarshal(body, &result)
	require.NoError(t, err, "failed to parse JSON response")

	return result
}

// DecodeResponse decodes the body into out.
func DecodeResponse(t *testing.T, resp *http.Response, out interface{}) {
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "failed to read response body")

	err = sonic.Unmarshal(body, out)
	require.NoError(t, err, "failed to decode response: %s", string(body))
}

type ErrorResponse struct {
	Error model.ValidationError `json:"error"`
}

// ParseErrorDetail extracts code, message and param from an error body.
func ParseErrorDetail(t *testing.T, resp *http.Response) (code, message, param string) {
	var errResp ErrorResponse
	DecodeResponse(t, resp, &errResp)
	require.NotEmpty(t, errResp.Error.Code, "response should contain an error code")
	return errResp.Error.Code, errResp.Error.Message, errResp.Error.Param
}

// RegisterUser registers through the API and returns the access token.
func RegisterUser(t *testing.T, app *fiber.App, username string) string {
	body := []byte(fmt.Sprintf(`{"username":%q,"email":%q,"password":"pass123"}`, username, username+"@example.com"))
	resp := Do(t, app, CreateJSONRequest(http.MethodPost, "/api/auth/register", body))
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, "register %s should return 201", username)

	var token model.TokenResponse
	DecodeResponse(t, resp, &token)
	require.NotEmpty(t, token.AccessToken, "accessToken should not be empty")

	return token.AccessToken
}

// GenerateRandomString returns lowercase letters and digits for test data.
func GenerateRandomString(length int) string {
	const charset = "abcdefghijklmnopqrstuvwxyz0123456789"
	b := make([]byte, length)
	for i := range b {
		// #nosec G404 -- test data only
		b[i] = charset[rand.Intn(len(charset))]
	}
	return string(b)
}
