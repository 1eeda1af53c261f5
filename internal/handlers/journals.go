package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/trailbook/trailbook-backend/internal/models"
	"github.com/trailbook/trailbook-backend/internal/services"
)

// maxPhotoFiles caps the number of uploaded photos per request.
const maxPhotoFiles = 5

// JournalHandler serves journal-entry CRUD and the listing endpoints.
type JournalHandler struct {
	journals *services.JournalService
	files    services.FileStorage
}

func NewJournalHandler(journals *services.JournalService, files services.FileStorage) *JournalHandler {
	return &JournalHandler{journals: journals, files: files}
}

type entryPayload struct {
	UserID string            `json:"userId"`
	TrekID string            `json:"trekId"`
	Date   string            `json:"date"`
	Text   string            `json:"text"`
	Photos models.StringList `json:"photos"`
}

// Create accepts JSON or a multipart form with up to five "photos" files.
// Uploaded-file URLs are always appended after client-supplied URL strings.
func (h *JournalHandler) Create(w http.ResponseWriter, r *http.Request) {
	input, err := h.parseEntryInput(r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	entry, err := h.journals.Create(r.Context(), *input)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

// ListAll serves the public feed, newest first.
func (h *JournalHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	entries, err := h.journals.ListAll(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *JournalHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	entries, err := h.journals.ListByUser(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *JournalHandler) ListByTrekAndUser(w http.ResponseWriter, r *http.Request) {
	entries, err := h.journals.ListByTrekAndUser(r.Context(), chi.URLParam(r, "trekId"), chi.URLParam(r, "userId"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// Update replaces date, text and the whole photos sequence.
func (h *JournalHandler) Update(w http.ResponseWriter, r *http.Request) {
	input, err := h.parseEntryInput(r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	entry, err := h.journals.Update(r.Context(), chi.URLParam(r, "id"), *input)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (h *JournalHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.journals.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "Journal entry deleted successfully")
}

func (h *JournalHandler) parseEntryInput(r *http.Request) (*services.EntryInput, error) {
	if isMultipart(r) {
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			return nil, err
		}

		input := services.EntryInput{
			UserID: r.FormValue("userId"),
			TrekID: r.FormValue("trekId"),
			Date:   r.FormValue("date"),
			Text:   r.FormValue("text"),
			Photos: append([]string{}, r.MultipartForm.Value["photos"]...),
		}

		headers := r.MultipartForm.File["photos"]
		if len(headers) > maxPhotoFiles {
			headers = headers[:maxPhotoFiles]
		}
		for _, header := range headers {
			file, err := header.Open()
			if err != nil {
				return nil, err
			}
			url, err := h.files.Save(r.Context(), file, header)
			file.Close()
			if err != nil {
				return nil, err
			}
			input.Photos = append(input.Photos, url)
		}
		return &input, nil
	}

	var payload entryPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		return nil, err
	}
	return &services.EntryInput{
		UserID: payload.UserID,
		TrekID: payload.TrekID,
		Date:   payload.Date,
		Text:   payload.Text,
		Photos: payload.Photos.Values(),
	}, nil
}
