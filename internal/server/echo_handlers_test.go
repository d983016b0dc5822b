package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"vybeecho/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateEcho(t *testing.T) {
	_, app, _ := setupTestServer(t)
	alice, token := signupUser(t, app, "Alice", "alice@example.com")

	t.Run("Success", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/echoes", token, map[string]string{
			"title":     "Morning thoughts",
			"text":      "rambling about coffee",
			"audio_url": "https://cdn.example.com/a.mp3",
			"duration":  "1:23",
			"category":  "Daily",
		})
		defer func() { _ = resp.Body.Close() }()
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		var echo models.Echo
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&echo))
		assert.Equal(t, alice.ID, echo.UserID)
		assert.Equal(t, "Morning thoughts", echo.Title)
		assert.Equal(t, "1:23", echo.Duration)
		assert.Equal(t, "Daily", echo.Category)
		assert.Equal(t, alice.Name, echo.AuthorName)
	})

	t.Run("Missing title", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/echoes", token, map[string]string{
			"audio_url": "https://cdn.example.com/a.mp3",
		})
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("Missing audio", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/echoes", token, map[string]string{
			"title": "no sound",
		})
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("Requires auth", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/echoes", "", map[string]string{
			"title":     "t",
			"audio_url": "a",
		})
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestFeedIsPublicAndOrdered(t *testing.T) {
	_, app, _ := setupTestServer(t)
	_, token := signupUser(t, app, "Alice", "alice@example.com")

	for _, title := range []string{"first", "second", "third"} {
		resp := doJSON(t, app, http.MethodPost, "/api/echoes", token, map[string]string{
			"title":     title,
			"audio_url": "https://cdn.example.com/a.mp3",
		})
		_ = resp.Body.Close()
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	// No auth needed to browse.
	resp := doJSON(t, app, http.MethodGet, "/api/echoes", "", nil)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var feed []models.Echo
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&feed))
	require.Len(t, feed, 3)

	t.Run("Pagination", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/echoes?limit=2&offset=1", "", nil)
		defer func() { _ = resp.Body.Close() }()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var page []models.Echo
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&page))
		assert.Len(t, page, 2)
	})
}

func TestLikeUnlikeEcho(t *testing.T) {
	_, app, _ := setupTestServer(t)
	_, aliceToken := signupUser(t, app, "Alice", "alice@example.com")
	_, bobToken := signupUser(t, app, "Bob", "bob@example.com")

	resp := doJSON(t, app, http.MethodPost, "/api/echoes", aliceToken, map[string]string{
		"title":     "like me",
		"audio_url": "https://cdn.example.com/a.mp3",
	})
	var echo models.Echo
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&echo))
	_ = resp.Body.Close()

	likePath := fmt.Sprintf("/api/echoes/%d/like", echo.ID)

	resp = doJSON(t, app, http.MethodPost, likePath, bobToken, nil)
	var liked models.Echo
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&liked))
	_ = resp.Body.Close()
	assert.Equal(t, 1, liked.Likes)

	resp = doJSON(t, app, http.MethodDelete, likePath, bobToken, nil)
	var unliked models.Echo
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&unliked))
	_ = resp.Body.Close()
	assert.Equal(t, 0, unliked.Likes)

	// Unliking at zero stays at zero.
	resp = doJSON(t, app, http.MethodDelete, likePath, bobToken, nil)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&unliked))
	_ = resp.Body.Close()
	assert.Equal(t, 0, unliked.Likes)

	t.Run("Missing echo", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/echoes/999/like", bobToken, nil)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestCreateComment(t *testing.T) {
	_, app, _ := setupTestServer(t)
	_, aliceToken := signupUser(t, app, "Alice", "alice@example.com")
	bob, bobToken := signupUser(t, app, "Bob", "bob@example.com")

	resp := doJSON(t, app, http.MethodPost, "/api/echoes", aliceToken, map[string]string{
		"title":     "discuss",
		"audio_url": "https://cdn.example.com/a.mp3",
	})
	var echo models.Echo
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&echo))
	_ = resp.Body.Close()

	commentPath := fmt.Sprintf("/api/echoes/%d/comments", echo.ID)

	t.Run("Success", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, commentPath, bobToken, map[string]string{
			"text": "great take",
		})
		defer func() { _ = resp.Body.Close() }()
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		var updated models.Echo
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&updated))
		require.Len(t, updated.Comments, 1)
		assert.Equal(t, "great take", updated.Comments[0].Body)
		assert.Equal(t, bob.Name, updated.Comments[0].Author)
	})

	t.Run("Empty body", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, commentPath, bobToken, map[string]string{
			"text": "  ",
		})
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("Detail view includes comments", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/echoes/%d", echo.ID), "", nil)
		defer func() { _ = resp.Body.Close() }()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var got models.Echo
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
		assert.Len(t, got.Comments, 1)
	})
}

func TestUserProfileComposition(t *testing.T) {
	_, app, _ := setupTestServer(t)
	alice, aliceToken := signupUser(t, app, "Alice", "alice@example.com")
	_, bobToken := signupUser(t, app, "Bob", "bob@example.com")

	resp := doJSON(t, app, http.MethodPost, "/api/echoes", aliceToken, map[string]string{
		"title":     "profile echo",
		"audio_url": "https://cdn.example.com/a.mp3",
	})
	_ = resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/users/%d", alice.ID), bobToken, nil)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var profile models.User
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&profile))
	assert.Equal(t, alice.ID, profile.ID)
	require.Len(t, profile.Echoes, 1)
	assert.Equal(t, "profile echo", profile.Echoes[0].Title)

	t.Run("Echo listing endpoint", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/users/%d/echoes", alice.ID), bobToken, nil)
		defer func() { _ = resp.Body.Close() }()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var echoes []models.Echo
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&echoes))
		assert.Len(t, echoes, 1)
	})

	t.Run("Update profile", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPut, "/api/users/me", aliceToken, map[string]string{
			"bio":      "voice note enjoyer",
			"headline": "echoing daily",
		})
		defer func() { _ = resp.Body.Close() }()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var updated models.User
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&updated))
		assert.Equal(t, "voice note enjoyer", updated.Bio)
		assert.Equal(t, "echoing daily", updated.Headline)
	})

	t.Run("User list excludes the caller", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/users", aliceToken, nil)
		defer func() { _ = resp.Body.Close() }()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var users []models.User
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&users))
		require.Len(t, users, 1)
		assert.Equal(t, "Bob", users[0].Name)
	})
}

func TestPublicProfileBrowsing(t *testing.T) {
	_, app, _ := setupTestServer(t)
	alice, aliceToken := signupUser(t, app, "Alice", "alice@example.com")

	resp := doJSON(t, app, http.MethodPost, "/api/echoes", aliceToken, map[string]string{
		"title":     "open echo",
		"audio_url": "https://cdn.example.com/open.mp3",
	})
	_ = resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	t.Run("Profile readable without a token", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/users/%d", alice.ID), "", nil)
		defer func() { _ = resp.Body.Close() }()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var profile models.User
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&profile))
		assert.Equal(t, alice.ID, profile.ID)
		assert.Empty(t, profile.Password)
		assert.NotNil(t, profile.Connections)
		require.Len(t, profile.Echoes, 1)
	})

	t.Run("Echo listing readable without a token", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/users/%d/echoes", alice.ID), "", nil)
		defer func() { _ = resp.Body.Close() }()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var echoes []models.Echo
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&echoes))
		assert.Len(t, echoes, 1)
	})

	t.Run("Me routes still require a token", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/users/me", "", nil)
		_ = resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

		// With a token the literal segment still wins over :id.
		resp = doJSON(t, app, http.MethodGet, "/api/users/me", aliceToken, nil)
		defer func() { _ = resp.Body.Close() }()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var me models.User
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&me))
		assert.Equal(t, alice.ID, me.ID)
	})

	t.Run("Directory requires a token", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/users", "", nil)
		_ = resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}
