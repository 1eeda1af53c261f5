package handlers

import (
	"encoding/json"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/trailbook/trailbook-backend/internal/models"
	"github.com/trailbook/trailbook-backend/internal/services"
)

// TrekHandler serves trek CRUD and the embedded review endpoints.
type TrekHandler struct {
	treks     *services.TrekService
	relations *services.RelationService
	files     services.FileStorage
}

func NewTrekHandler(treks *services.TrekService, relations *services.RelationService, files services.FileStorage) *TrekHandler {
	return &TrekHandler{treks: treks, relations: relations, files: files}
}

type trekPayload struct {
	Name             string            `json:"name"`
	Location         string            `json:"location"`
	SmallDescription string            `json:"smallDescription"`
	Description      string            `json:"description"`
	Difficulty       string            `json:"difficulty"`
	Distance         float64           `json:"distance"`
	BestSeason       string            `json:"bestSeason"`
	ImageURL         string            `json:"imageUrl"`
	Highlights       models.StringList `json:"highlights"`
}

// Create accepts JSON or a multipart form with an "image" file. An
// uploaded image takes precedence over an imageUrl in the payload.
func (h *TrekHandler) Create(w http.ResponseWriter, r *http.Request) {
	input, err := h.parseTrekInput(r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	trek, err := h.treks.Create(r.Context(), *input)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, trek)
}

func (h *TrekHandler) List(w http.ResponseWriter, r *http.Request) {
	treks, err := h.treks.List(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, treks)
}

func (h *TrekHandler) Get(w http.ResponseWriter, r *http.Request) {
	trek, err := h.treks.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, trek)
}

// Update applies a partial update; imageUrl and highlights are only
// touched when a new value is provided.
func (h *TrekHandler) Update(w http.ResponseWriter, r *http.Request) {
	update, err := h.parseTrekUpdate(r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	trek, err := h.treks.Update(r.Context(), chi.URLParam(r, "id"), *update)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, trek)
}

func (h *TrekHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.treks.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "Trek deleted successfully")
}

type AddReviewRequest struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Review   string `json:"review"`
}

type AddReviewResponse struct {
	Message string          `json:"message"`
	Reviews []models.Review `json:"reviews"`
}

func (h *TrekHandler) AddReview(w http.ResponseWriter, r *http.Request) {
	var req AddReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	reviews, err := h.relations.AddReview(r.Context(), chi.URLParam(r, "trekId"), services.ReviewInput{
		UserID:   req.UserID,
		Username: req.Username,
		Review:   req.Review,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, AddReviewResponse{Message: "Review added", Reviews: reviews})
}

func (h *TrekHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.relations.ListReviews(r.Context(), chi.URLParam(r, "trekId"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reviews)
}

// AllReviews serves the aggregate feed across every trek.
func (h *TrekHandler) AllReviews(w http.ResponseWriter, r *http.Request) {
	feed, err := h.relations.ListAllReviews(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, feed)
}

func (h *TrekHandler) parseTrekInput(r *http.Request) (*services.TrekInput, error) {
	if isMultipart(r) {
		if err := r.ParseMultipartForm(20 << 20); err != nil {
			return nil, err
		}

		input := services.TrekInput{
			Name:             r.FormValue("name"),
			Location:         r.FormValue("location"),
			SmallDescription: r.FormValue("smallDescription"),
			Description:      r.FormValue("description"),
			Difficulty:       r.FormValue("difficulty"),
			BestSeason:       r.FormValue("bestSeason"),
			ImageURL:         r.FormValue("imageUrl"),
			Highlights:       models.SingleString(r.FormValue("highlights")).SplitCommas(),
		}
		if raw := r.FormValue("distance"); raw != "" {
			distance, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, err
			}
			input.Distance = distance
		}

		if url, err := h.saveFormImage(r); err != nil {
			return nil, err
		} else if url != "" {
			input.ImageURL = url
		}
		return &input, nil
	}

	var payload trekPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		return nil, err
	}
	return &services.TrekInput{
		Name:             payload.Name,
		Location:         payload.Location,
		SmallDescription: payload.SmallDescription,
		Description:      payload.Description,
		Difficulty:       payload.Difficulty,
		Distance:         payload.Distance,
		BestSeason:       payload.BestSeason,
		ImageURL:         payload.ImageURL,
		Highlights:       payload.Highlights.SplitCommas(),
	}, nil
}

type trekUpdatePayload struct {
	Name             *string            `json:"name"`
	Location         *string            `json:"location"`
	SmallDescription *string            `json:"smallDescription"`
	Description      *string            `json:"description"`
	Difficulty       *string            `json:"difficulty"`
	Distance         *float64           `json:"distance"`
	BestSeason       *string            `json:"bestSeason"`
	ImageURL         *string            `json:"imageUrl"`
	Highlights       *models.StringList `json:"highlights"`
}

func (h *TrekHandler) parseTrekUpdate(r *http.Request) (*services.TrekUpdate, error) {
	if isMultipart(r) {
		if err := r.ParseMultipartForm(20 << 20); err != nil {
			return nil, err
		}

		update := services.TrekUpdate{
			Name:             formString(r.MultipartForm, "name"),
			Location:         formString(r.MultipartForm, "location"),
			SmallDescription: formString(r.MultipartForm, "smallDescription"),
			Description:      formString(r.MultipartForm, "description"),
			Difficulty:       formString(r.MultipartForm, "difficulty"),
			BestSeason:       formString(r.MultipartForm, "bestSeason"),
		}
		if raw := formString(r.MultipartForm, "distance"); raw != nil && *raw != "" {
			distance, err := strconv.ParseFloat(*raw, 64)
			if err != nil {
				return nil, err
			}
			update.Distance = &distance
		}
		if raw := r.FormValue("highlights"); raw != "" {
			update.Highlights = models.SingleString(raw).SplitCommas()
		}
		update.ImageURL = r.FormValue("imageUrl")

		if url, err := h.saveFormImage(r); err != nil {
			return nil, err
		} else if url != "" {
			update.ImageURL = url
		}
		return &update, nil
	}

	var payload trekUpdatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		return nil, err
	}

	update := services.TrekUpdate{
		Name:             payload.Name,
		Location:         payload.Location,
		SmallDescription: payload.SmallDescription,
		Description:      payload.Description,
		Difficulty:       payload.Difficulty,
		Distance:         payload.Distance,
		BestSeason:       payload.BestSeason,
	}
	if payload.ImageURL != nil {
		update.ImageURL = *payload.ImageURL
	}
	if payload.Highlights != nil && !payload.Highlights.IsZero() {
		update.Highlights = payload.Highlights.SplitCommas()
	}
	return &update, nil
}

// saveFormImage stores the "image" form file, if any, and returns its URL.
func (h *TrekHandler) saveFormImage(r *http.Request) (string, error) {
	if r.MultipartForm == nil {
		return "", nil
	}
	headers := r.MultipartForm.File["image"]
	if len(headers) == 0 {
		return "", nil
	}

	file, err := headers[0].Open()
	if err != nil {
		return "", err
	}
	defer file.Close()

	return h.files.Save(r.Context(), file, headers[0])
}

func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
}

func formString(form *multipart.Form, key string) *string {
	values, ok := form.Value[key]
	if !ok || len(values) == 0 {
		return nil
	}
	return &values[0]
}
