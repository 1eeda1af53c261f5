package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trailbook/trailbook-backend/internal/handlers"
	"github.com/trailbook/trailbook-backend/internal/models"
	"github.com/trailbook/trailbook-backend/internal/routes"
	"github.com/trailbook/trailbook-backend/internal/services"
	"github.com/trailbook/trailbook-backend/internal/store"
)

// newTestRouter wires the full REST surface against in-memory collections
// and local file storage in a temp directory.
func newTestRouter(t *testing.T) *chi.Mux {
	t.Helper()

	users := store.NewMemory[models.User]()
	treks := store.NewMemory[models.Trek]()
	journals := store.NewMemory[models.JournalEntry]()

	files, err := services.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	userService := services.NewUserService(users)
	tokenService := services.NewTokenService("test-secret")
	relationService := services.NewRelationService(users, journals, treks)
	trekService := services.NewTrekService(treks)
	journalService := services.NewJournalService(journals, users, treks)

	r := chi.NewRouter()
	routes.SetupRoutes(r,
		handlers.NewUserHandler(userService, tokenService, relationService, files),
		handlers.NewTrekHandler(trekService, relationService, files),
		handlers.NewJournalHandler(journalService, files),
		tokenService)
	return r
}

func doJSON(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		buf = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}

func signupAndLogin(t *testing.T, r http.Handler, username string) (userID, token string) {
	t.Helper()

	rec := doJSON(t, r, http.MethodPost, "/users/signup", map[string]string{
		"username": username,
		"password": "hunter22",
		"email":    username + "@example.com",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = doJSON(t, r, http.MethodPost, "/users/login", map[string]string{
		"username": username,
		"password": "hunter22",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var login handlers.LoginResponse
	decodeBody(t, rec, &login)
	require.NotEmpty(t, login.Token)
	require.NotEmpty(t, login.User.ID)
	return login.User.ID, login.Token
}

func TestSignupDuplicateUsername(t *testing.T) {
	r := newTestRouter(t)
	signupAndLogin(t, r, "alice")

	rec := doJSON(t, r, http.MethodPost, "/users/signup", map[string]string{
		"username": "alice",
		"password": "other",
		"email":    "other@example.com",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"message":"Username already taken"}`, rec.Body.String())
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	r := newTestRouter(t)
	signupAndLogin(t, r, "alice")

	wrongPassword := doJSON(t, r, http.MethodPost, "/users/login", map[string]string{
		"username": "alice", "password": "wrong",
	})
	unknownUser := doJSON(t, r, http.MethodPost, "/users/login", map[string]string{
		"username": "mallory", "password": "hunter22",
	})

	assert.Equal(t, http.StatusBadRequest, wrongPassword.Code)
	assert.Equal(t, wrongPassword.Code, unknownUser.Code)
	assert.Equal(t, wrongPassword.Body.String(), unknownUser.Body.String())
}

func TestMeRequiresValidToken(t *testing.T) {
	r := newTestRouter(t)
	_, token := signupAndLogin(t, r, "alice")

	rec := doJSON(t, r, http.MethodGet, "/users/me", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	bad := httptest.NewRecorder()
	r.ServeHTTP(bad, req)
	assert.Equal(t, http.StatusForbidden, bad.Code)

	req = httptest.NewRequest(http.MethodGet, "/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	ok := httptest.NewRecorder()
	r.ServeHTTP(ok, req)
	require.Equal(t, http.StatusOK, ok.Code)

	var me struct {
		Username string `json:"username"`
	}
	decodeBody(t, ok, &me)
	assert.Equal(t, "alice", me.Username)
	assert.NotContains(t, ok.Body.String(), "password")
}

func TestTrekLifecycleWithReviews(t *testing.T) {
	r := newTestRouter(t)
	userID, _ := signupAndLogin(t, r, "alice")

	// Highlights submitted as a single comma string are split and trimmed.
	rec := doJSON(t, r, http.MethodPost, "/treks/", map[string]any{
		"name":       "Annapurna Circuit",
		"location":   "Nepal",
		"difficulty": "HARD",
		"distance":   160.5,
		"highlights": "Thorong La, Tilicho Lake",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created struct {
		ID         string   `json:"id"`
		Difficulty string   `json:"difficulty"`
		Highlights []string `json:"highlights"`
	}
	decodeBody(t, rec, &created)
	require.NotEmpty(t, created.ID)
	assert.Equal(t, "HARD", created.Difficulty)
	assert.Equal(t, []string{"Thorong La", "Tilicho Lake"}, created.Highlights)

	rec = doJSON(t, r, http.MethodPost, "/treks/"+created.ID+"/reviews", map[string]string{
		"userId":   userID,
		"username": "alice",
		"review":   "stunning views",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var reviewResp handlers.AddReviewResponse
	decodeBody(t, rec, &reviewResp)
	assert.Equal(t, "Review added", reviewResp.Message)
	require.Len(t, reviewResp.Reviews, 1)

	// The aggregate feed includes the trek name alongside its reviews.
	rec = doJSON(t, r, http.MethodGet, "/treks/reviews/all", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var feed []struct {
		Name    string `json:"name"`
		Reviews []struct {
			Review string `json:"review"`
		} `json:"reviews"`
	}
	decodeBody(t, rec, &feed)
	require.Len(t, feed, 1)
	assert.Equal(t, "Annapurna Circuit", feed[0].Name)
	require.Len(t, feed[0].Reviews, 1)
	assert.Equal(t, "stunning views", feed[0].Reviews[0].Review)

	rec = doJSON(t, r, http.MethodDelete, "/treks/"+created.ID, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = doJSON(t, r, http.MethodDelete, "/treks/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"message":"Trek not found"}`, rec.Body.String())
}

func TestTrekUpdatePreservesOmittedFields(t *testing.T) {
	r := newTestRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/treks/", map[string]any{
		"name":       "Annapurna Circuit",
		"imageUrl":   "/uploads/annapurna.jpg",
		"highlights": []string{"Thorong La"},
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created struct {
		ID string `json:"id"`
	}
	decodeBody(t, rec, &created)

	rec = doJSON(t, r, http.MethodPut, "/treks/"+created.ID, map[string]any{
		"location": "Nepal",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var updated struct {
		Location   string   `json:"location"`
		ImageURL   string   `json:"imageUrl"`
		Highlights []string `json:"highlights"`
	}
	decodeBody(t, rec, &updated)
	assert.Equal(t, "Nepal", updated.Location)
	assert.Equal(t, "/uploads/annapurna.jpg", updated.ImageURL)
	assert.Equal(t, []string{"Thorong La"}, updated.Highlights)
}

func createTrek(t *testing.T, r http.Handler, name string) string {
	t.Helper()
	rec := doJSON(t, r, http.MethodPost, "/treks/", map[string]string{"name": name})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created struct {
		ID string `json:"id"`
	}
	decodeBody(t, rec, &created)
	return created.ID
}

func TestJournalMultipartCreatePhotoOrdering(t *testing.T) {
	r := newTestRouter(t)
	userID, _ := signupAndLogin(t, r, "alice")
	trekID := createTrek(t, r, "Annapurna Circuit")

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	require.NoError(t, form.WriteField("userId", userID))
	require.NoError(t, form.WriteField("trekId", trekID))
	require.NoError(t, form.WriteField("date", "2024-06-01"))
	require.NoError(t, form.WriteField("text", "made it to the pass"))
	require.NoError(t, form.WriteField("photos", "https://cdn.example.com/existing.jpg"))
	for i := 0; i < 2; i++ {
		part, err := form.CreateFormFile("photos", fmt.Sprintf("shot%d.jpg", i))
		require.NoError(t, err)
		_, err = part.Write([]byte("jpeg bytes"))
		require.NoError(t, err)
	}
	require.NoError(t, form.Close())

	req := httptest.NewRequest(http.MethodPost, "/journals/", &body)
	req.Header.Set("Content-Type", form.FormDataContentType())
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var entry struct {
		ID     string   `json:"id"`
		Photos []string `json:"photos"`
	}
	decodeBody(t, rec, &entry)
	require.Len(t, entry.Photos, 3)
	assert.Equal(t, "https://cdn.example.com/existing.jpg", entry.Photos[0])
	assert.True(t, strings.HasPrefix(entry.Photos[1], "/uploads/"))
	assert.True(t, strings.HasPrefix(entry.Photos[2], "/uploads/"))

	rec = doJSON(t, r, http.MethodDelete, "/journals/"+entry.ID, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = doJSON(t, r, http.MethodDelete, "/journals/"+entry.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestJournalFeedResolvesReferences(t *testing.T) {
	r := newTestRouter(t)
	userID, _ := signupAndLogin(t, r, "alice")
	trekID := createTrek(t, r, "Annapurna Circuit")

	rec := doJSON(t, r, http.MethodPost, "/journals/", map[string]any{
		"userId": userID,
		"trekId": trekID,
		"date":   "2024-06-01",
		"text":   "made it to the pass",
		"photos": "https://cdn.example.com/one.jpg",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = doJSON(t, r, http.MethodGet, "/journals/", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var feed []struct {
		Text   string   `json:"text"`
		Photos []string `json:"photos"`
		User   *struct {
			Username string `json:"username"`
		} `json:"user"`
		Trek *struct {
			Name string `json:"name"`
		} `json:"trek"`
	}
	decodeBody(t, rec, &feed)
	require.Len(t, feed, 1)
	assert.Equal(t, "made it to the pass", feed[0].Text)
	assert.Equal(t, []string{"https://cdn.example.com/one.jpg"}, feed[0].Photos)
	require.NotNil(t, feed[0].User)
	assert.Equal(t, "alice", feed[0].User.Username)
	require.NotNil(t, feed[0].Trek)
	assert.Equal(t, "Annapurna Circuit", feed[0].Trek.Name)
}

func TestSavedJournalsEndpoints(t *testing.T) {
	r := newTestRouter(t)
	userID, _ := signupAndLogin(t, r, "alice")
	trekID := createTrek(t, r, "Annapurna Circuit")

	rec := doJSON(t, r, http.MethodPost, "/journals/", map[string]string{
		"userId": userID,
		"trekId": trekID,
		"date":   "2024-06-01",
		"text":   "made it to the pass",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var entry struct {
		ID string `json:"id"`
	}
	decodeBody(t, rec, &entry)

	rec = doJSON(t, r, http.MethodPost, "/users/"+userID+"/saved/"+entry.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Journal saved successfully"}`, rec.Body.String())

	// Saving again keeps a single occurrence.
	rec = doJSON(t, r, http.MethodPost, "/users/"+userID+"/saved/"+entry.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, r, http.MethodGet, "/users/"+userID+"/saved", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var saved []struct {
		ID string `json:"id"`
	}
	decodeBody(t, rec, &saved)
	require.Len(t, saved, 1)
	assert.Equal(t, entry.ID, saved[0].ID)

	rec = doJSON(t, r, http.MethodDelete, "/users/"+userID+"/saved/"+entry.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Journal removed from saved"}`, rec.Body.String())

	rec = doJSON(t, r, http.MethodGet, "/users/"+userID+"/saved", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeBody(t, rec, &saved)
	assert.Empty(t, saved)
}

func TestUploadImageEndpoint(t *testing.T) {
	r := newTestRouter(t)

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	part, err := form.CreateFormFile("profilePicture", "me.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("png bytes"))
	require.NoError(t, err)
	require.NoError(t, form.Close())

	req := httptest.NewRequest(http.MethodPost, "/users/upload-image", &body)
	req.Header.Set("Content-Type", form.FormDataContentType())
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp handlers.UploadImageResponse
	decodeBody(t, rec, &resp)
	assert.Equal(t, "Image uploaded successfully", resp.Message)
	assert.True(t, strings.HasPrefix(resp.Data, "/uploads/"))
	assert.True(t, strings.HasSuffix(resp.Data, ".png"))
}
