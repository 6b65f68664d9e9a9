//go:build integration_test || all_tests

package test

import (
	"context"
	"net/http"
	"strconv"

	"github.com/SoroushGhorbanimehr/tigo-app/internal/trainees"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *IntegrationTestSuite) TestTrainees_RegisterAndAccess() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	aliceID, aliceToken := registerAndLogin(ctx, t, s.httpClient, "alice@example.com")
	bobID, _ := registerAndLogin(ctx, t, s.httpClient, "bob@example.com")

	var stored string
	require.NoError(t, s.DB.QueryRowContext(ctx, `SELECT email FROM trainee WHERE id = $1`, aliceID).Scan(&stored))
	assert.Equal(t, "alice@example.com", stored)

	// email is unique
	resp, err := s.httpClient.Do(newRequest(ctx, t, "POST", "/trainees/register", "", jsonBody(t, map[string]string{
		"fullName": "Alice Again",
		"email":    "ALICE@example.com",
		"password": "whatever-pass",
	})))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, err = s.httpClient.Do(newRequest(ctx, t, "GET", "/trainees/"+strconv.Itoa(aliceID), aliceToken, nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var alice trainees.Trainee
	decodeBody(t, resp, &alice)
	assert.Equal(t, aliceID, alice.ID)

	resp, err = s.httpClient.Do(newRequest(ctx, t, "GET", "/trainees/"+strconv.Itoa(bobID), aliceToken, nil))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, err = s.httpClient.Do(newRequest(ctx, t, "GET", "/trainees", aliceToken, nil))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	trainerToken := doTrainerLogin(ctx, t, s.httpClient)
	resp, err = s.httpClient.Do(newRequest(ctx, t, "GET", "/trainees", trainerToken, nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var all []trainees.Trainee
	decodeBody(t, resp, &all)
	assert.GreaterOrEqual(t, len(all), 2)
}
