package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/trailbook/trailbook-backend/internal/middleware"
	"github.com/trailbook/trailbook-backend/internal/services"
)

// UserHandler serves signup/login, profiles and the saved/favorite lists.
type UserHandler struct {
	users     *services.UserService
	tokens    *services.TokenService
	relations *services.RelationService
	files     services.FileStorage
}

func NewUserHandler(
	users *services.UserService,
	tokens *services.TokenService,
	relations *services.RelationService,
	files services.FileStorage,
) *UserHandler {
	return &UserHandler{users: users, tokens: tokens, relations: relations, files: files}
}

type SignupRequest struct {
	Username        string `json:"username"`
	Password        string `json:"password"`
	Email           string `json:"email"`
	ProfileImageURL string `json:"profileImageUrl,omitempty"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string    `json:"token"`
	User  LoginUser `json:"user"`
}

type LoginUser struct {
	ID              string `json:"id"`
	Username        string `json:"username"`
	Email           string `json:"email,omitempty"`
	ProfileImageURL string `json:"profileImageUrl,omitempty"`
}

// Signup registers a new user.
func (h *UserHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	_, err := h.users.Register(r.Context(), services.RegisterInput{
		Username:        req.Username,
		Password:        req.Password,
		Email:           req.Email,
		ProfileImageURL: req.ProfileImageURL,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeMessage(w, http.StatusCreated, "User registered successfully")
}

// Login verifies credentials and issues a token.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.users.Verify(r.Context(), req.Username, req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, LoginResponse{
		Token: token,
		User: LoginUser{
			ID:              user.ID.Hex(),
			Username:        user.Username,
			Email:           user.Email,
			ProfileImageURL: user.ProfileImageURL,
		},
	})
}

// List returns all users; password hashes are never serialized.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

type UpdateProfileRequest struct {
	Username        string `json:"username,omitempty"`
	Bio             string `json:"bio,omitempty"`
	Location        string `json:"location,omitempty"`
	ProfileImageURL string `json:"profileImageUrl,omitempty"`
}

func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.users.UpdateProfile(r.Context(), chi.URLParam(r, "id"), services.ProfileUpdate{
		Username:        req.Username,
		Bio:             req.Bio,
		Location:        req.Location,
		ProfileImageURL: req.ProfileImageURL,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.users.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "User deleted successfully")
}

// Me returns the profile of the authenticated caller. The only route wired
// to the auth guard by default.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Access denied. No token provided.")
		return
	}

	user, err := h.users.GetByID(r.Context(), userID.Hex())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// UploadImageResponse carries the stored URL of an uploaded picture.
type UploadImageResponse struct {
	Message string `json:"message"`
	Data    string `json:"data"`
}

// UploadImage stores a profile picture and returns its URL.
func (h *UserHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile("profilePicture")
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer file.Close()

	url, err := h.files.Save(r.Context(), file, header)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, UploadImageResponse{
		Message: "Image uploaded successfully",
		Data:    url,
	})
}

func (h *UserHandler) GetSaved(w http.ResponseWriter, r *http.Request) {
	entries, err := h.relations.ListSaved(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *UserHandler) AddSaved(w http.ResponseWriter, r *http.Request) {
	err := h.relations.AddSaved(r.Context(), chi.URLParam(r, "userId"), chi.URLParam(r, "journalId"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "Journal saved successfully")
}

func (h *UserHandler) RemoveSaved(w http.ResponseWriter, r *http.Request) {
	err := h.relations.RemoveSaved(r.Context(), chi.URLParam(r, "userId"), chi.URLParam(r, "journalId"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "Journal removed from saved")
}

func (h *UserHandler) GetFavorites(w http.ResponseWriter, r *http.Request) {
	entries, err := h.relations.ListFavorite(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *UserHandler) AddFavorite(w http.ResponseWriter, r *http.Request) {
	err := h.relations.AddFavorite(r.Context(), chi.URLParam(r, "userId"), chi.URLParam(r, "journalId"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "Journal added to favorites")
}

func (h *UserHandler) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	err := h.relations.RemoveFavorite(r.Context(), chi.URLParam(r, "userId"), chi.URLParam(r, "journalId"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "Journal removed from favorites")
}
