//go:build integration_test || all_tests

package test

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/SoroushGhorbanimehr/tigo-app/internal/library/exercises"
	"github.com/SoroushGhorbanimehr/tigo-app/internal/library/recipes"
	"github.com/SoroushGhorbanimehr/tigo-app/internal/media"
	"github.com/SoroushGhorbanimehr/tigo-app/internal/plans"
	"github.com/SoroushGhorbanimehr/tigo-app/internal/tracking"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *IntegrationTestSuite) TestLibrary_ExercisesAndRecipes() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	trainerToken := doTrainerLogin(ctx, t, s.httpClient)
	_, traineeToken := registerAndLogin(ctx, t, s.httpClient, "library@example.com")

	resp, err := s.httpClient.Do(newRequest(ctx, t, "POST", "/exercises", trainerToken, jsonBody(t, map[string]string{
		"title":       "Bulgarian Split Squat",
		"muscleGroup": "legs",
		"description": "Keep the **front knee** stable.",
	})))
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created exercises.Exercise
	decodeBody(t, resp, &created)
	assert.Equal(t, "bulgarian-split-squat", created.Slug)

	// trainees read the library but cannot write to it
	resp, err = s.httpClient.Do(newRequest(ctx, t, "GET", "/exercises/bulgarian-split-squat", traineeToken, nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var view struct {
		exercises.Exercise
		DescriptionHTML string `json:"descriptionHtml"`
	}
	decodeBody(t, resp, &view)
	assert.Contains(t, view.DescriptionHTML, "<strong>front knee</strong>")

	resp, err = s.httpClient.Do(newRequest(ctx, t, "POST", "/exercises", traineeToken, jsonBody(t, map[string]string{"title": "x"})))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, err = s.httpClient.Do(newRequest(ctx, t, "POST", "/recipes", trainerToken, jsonBody(t, map[string]string{
		"title":       "Overnight Oats",
		"description": "## Ingredients\n- oats\n- milk\n\n## Steps\n1. Mix\n2. Wait",
	})))
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var recipe recipes.Recipe
	decodeBody(t, resp, &recipe)

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	fw, err := mw.CreateFormFile("files", "bowl.jpg")
	require.NoError(t, err)
	_, err = fw.Write([]byte("jpeg-bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := newRequest(ctx, t, "POST", fmt.Sprintf("/recipes/%d/album", recipe.ID), trainerToken, body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	resp, err = s.httpClient.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var album []media.Object
	decodeBody(t, resp, &album)
	require.Len(t, album, 1)

	resp, err = s.httpClient.Do(newRequest(ctx, t, "GET", "/recipes/"+recipe.Slug+"/view", traineeToken, nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var recipeView recipes.View
	decodeBody(t, resp, &recipeView)
	assert.Contains(t, recipeView.Sections.Ingredients, "oats")
	require.Len(t, recipeView.Album, 1)

	// uploaded media is public
	resp, err = s.httpClient.Get(album[0].URL)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func (s *IntegrationTestSuite) TestProgressAndPlans() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	trainerToken := doTrainerLogin(ctx, t, s.httpClient)
	traineeID, traineeToken := registerAndLogin(ctx, t, s.httpClient, "progress@example.com")
	base := fmt.Sprintf("/trainees/%d", traineeID)

	for _, entry := range []map[string]any{
		{"kind": "weight", "value": 90, "recordedAt": "2025-09-01T07:00:00Z"},
		{"kind": "weight", "value": 176.37, "unit": "lb"},
		{"kind": "measurement", "site": "waist", "value": 88},
		{"kind": "strength", "exercise": "Deadlift", "value": 150, "reps": 3},
	} {
		resp, err := s.httpClient.Do(newRequest(ctx, t, "POST", base+"/progress/entries", traineeToken, jsonBody(t, entry)))
		require.NoError(t, err)
		resp.Body.Close()
		require.Equal(t, http.StatusCreated, resp.StatusCode, entry)
	}

	resp, err := s.httpClient.Do(newRequest(ctx, t, "PUT", base+"/progress/settings", traineeToken, jsonBody(t, map[string]any{
		"displayUnit": "kg",
		"goalWeight":  75,
	})))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = s.httpClient.Do(newRequest(ctx, t, "GET", base+"/progress/summary", traineeToken, nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var summary tracking.Summary
	decodeBody(t, resp, &summary)
	assert.Equal(t, 2, summary.Weight.Count)
	assert.InDelta(t, 80.0, summary.Weight.Latest.Value, 0.01)
	require.NotNil(t, summary.Weight.GoalProgress)
	assert.InDelta(t, 66.67, *summary.Weight.GoalProgress, 0.1)
	assert.Equal(t, 1, summary.Measurements["waist"].Count)
	require.Len(t, summary.Strength, 1)
	assert.InDelta(t, 165.0, summary.Strength[0].Estimated1RM, 1e-9)

	// plans are written by the coach and read by the trainee
	resp, err = s.httpClient.Do(newRequest(ctx, t, "PUT", base+"/plans/2025-10-01", traineeToken, jsonBody(t, map[string]string{"program": "rest"})))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, err = s.httpClient.Do(newRequest(ctx, t, "PUT", base+"/plans/2025-10-01", trainerToken, jsonBody(t, map[string]string{
		"coachNote": "Easy day",
		"program":   "1. Squat 5x5\n2. Row 3x10",
		"meal":      "High protein",
	})))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = s.httpClient.Do(newRequest(ctx, t, "GET", base+"/plans/2025-10-01", traineeToken, nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var plan plans.PlanView
	decodeBody(t, resp, &plan)
	assert.Equal(t, "Easy day", plan.CoachNote)
	assert.Contains(t, plan.ProgramHTML, "<li>Squat 5x5</li>")

	resp, err = s.httpClient.Do(newRequest(ctx, t, "PUT", base+"/notes/2025-10-01", traineeToken, jsonBody(t, map[string]string{"note": "legs sore"})))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = s.httpClient.Do(newRequest(ctx, t, "GET", base+"/notes", trainerToken, nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var notes map[string]string
	decodeBody(t, resp, &notes)
	assert.Equal(t, map[string]string{"2025-10-01": "legs sore"}, notes)
}
