//go:build integration_test || all_tests

package test

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/SoroushGhorbanimehr/tigo-app/internal/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *IntegrationTestSuite) TestTrainerLogin() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cases := map[string]struct {
		creds              auth.Credentials
		expectedStatusCode int
		expectedBody       string
	}{
		"bad password": {
			creds:              auth.Credentials{Username: testTrainerUsername, Password: "nope"},
			expectedStatusCode: http.StatusBadRequest,
			expectedBody:       "error, wrong credentials",
		},
		"unknown user": {
			creds:              auth.Credentials{Username: "someone", Password: testTrainerPassword},
			expectedStatusCode: http.StatusBadRequest,
			expectedBody:       "error, wrong credentials",
		},
		"empty password": {
			creds:              auth.Credentials{Username: testTrainerUsername},
			expectedStatusCode: http.StatusBadRequest,
			expectedBody:       "error, password empty",
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			req := newRequest(ctx, t, "POST", "/a/login", "", jsonBody(t, tc.creds))
			req.Header.Set("Content-Type", "application/json")
			resp, err := s.httpClient.Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tc.expectedStatusCode, resp.StatusCode)
			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			assert.Equal(t, tc.expectedBody, strings.TrimSpace(string(body)))
		})
	}
}

func (s *IntegrationTestSuite) TestTrainerLoginLogout() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	token := doTrainerLogin(ctx, t, s.httpClient)
	require.NotEmpty(t, token)

	resp, err := s.httpClient.Do(newRequest(ctx, t, "GET", "/trainees", token, nil))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = s.httpClient.Do(newRequest(ctx, t, "GET", "/a/logout", token, nil))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = s.httpClient.Do(newRequest(ctx, t, "GET", "/trainees", token, nil))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
