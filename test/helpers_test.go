//go:build integration_test || all_tests

package test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"testing"

	"github.com/SoroushGhorbanimehr/tigo-app/internal/auth"
	"github.com/SoroushGhorbanimehr/tigo-app/internal/misc"

	"github.com/stretchr/testify/require"
)

// newRequest builds a request against the test server that passes the CORS check.
func newRequest(ctx context.Context, t *testing.T, method, path, token string, body io.Reader) *http.Request {
	t.Helper()
	req, err := http.NewRequestWithContext(ctx, method, serverEndpoint+path, body)
	require.NoError(t, err)
	req.Header.Set("User-Agent", "test-agent")
	if token != "" {
		req.Header.Set(auth.TokenHeader, token)
	}
	return req
}

func jsonBody(t *testing.T, v any) io.Reader {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(raw)
}

func decodeBody(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, v), string(raw))
}

func doTrainerLogin(ctx context.Context, t *testing.T, client *http.Client) string {
	t.Helper()
	req := newRequest(ctx, t, "POST", "/a/login", "", jsonBody(t, auth.Credentials{
		Username: testTrainerUsername,
		Password: testTrainerPassword,
	}))
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var loginResp misc.LoginResponse
	decodeBody(t, resp, &loginResp)
	require.Equal(t, auth.RoleTrainer, loginResp.Role)
	return loginResp.Token
}

// registerAndLogin creates a trainee and returns its id and session token.
func registerAndLogin(ctx context.Context, t *testing.T, client *http.Client, email string) (int, string) {
	t.Helper()
	password := "trainee-pass"

	resp, err := client.Do(newRequest(ctx, t, "POST", "/trainees/register", "", jsonBody(t, map[string]string{
		"fullName": "Trainee " + email,
		"email":    email,
		"password": password,
	})))
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp, err = client.Do(newRequest(ctx, t, "POST", "/trainees/login", "", jsonBody(t, map[string]string{
		"email":    email,
		"password": password,
	})))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode, fmt.Sprintf("login %s", email))

	var loginResp misc.LoginResponse
	decodeBody(t, resp, &loginResp)
	require.NotZero(t, loginResp.TraineeID)
	return loginResp.TraineeID, loginResp.Token
}
