package httpapi

import (
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrijs2005/filekeeper/internal/common"
	"github.com/dmitrijs2005/filekeeper/internal/server/models"
)

// maxUploadBytes caps the accepted request body on upload.
const maxUploadBytes = 32 << 20

type signupRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

type authResponse struct {
	Token string        `json:"token"`
	User  *userResponse `json:"user,omitempty"`
}

type fileResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	OwnerID     string    `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
}

type shareRequest struct {
	Email string `json:"email"`
	Kind  string `json:"kind,omitempty"`
}

type viewResponse struct {
	URL string `json:"url"`
}

func newFileResponse(f *models.File) *fileResponse {
	return &fileResponse{
		ID:          f.ID,
		Name:        f.Name,
		ContentType: f.ContentType,
		Size:        f.Size,
		OwnerID:     f.OwnerID,
		CreatedAt:   f.CreatedAt,
	}
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: invalid json body", common.ErrMalformedPayload)
	}
	return nil
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	user, token, err := s.users.Register(r.Context(), req.Email, req.Name, req.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, &authResponse{
		Token: token,
		User:  &userResponse{ID: user.ID, Email: user.Email, Name: user.Name},
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	token, err := s.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, &authResponse{Token: token})
}

// handleUpload accepts a multipart form with a single "file" part.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromContext(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	part, header, err := r.FormFile("file")
	if err != nil {
		s.writeError(w, r, fmt.Errorf("%w: missing file part", common.ErrorValidation))
		return
	}
	defer part.Close()

	data, err := io.ReadAll(part)
	if err != nil {
		s.writeError(w, r, fmt.Errorf("%w: reading file part: %v", common.ErrorValidation, err))
		return
	}

	file, err := s.files.Upload(r.Context(), userID, header.Filename, header.Header.Get("Content-Type"), data)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, newFileResponse(file))
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromContext(r.Context())

	list, err := s.files.List(r.Context(), userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := make([]*fileResponse, 0, len(list))
	for _, f := range list {
		resp = append(resp, newFileResponse(f))
	}

	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromContext(r.Context())
	fileID := chi.URLParam(r, "fileID")

	res, err := s.files.Download(r.Context(), userID, fileID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	disposition := mime.FormatMediaType("attachment", map[string]string{"filename": res.Name})

	w.Header().Set("Content-Type", res.ContentType)
	w.Header().Set("Content-Disposition", disposition)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Data)
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromContext(r.Context())
	fileID := chi.URLParam(r, "fileID")

	url, err := s.files.PresignViewURL(r.Context(), userID, fileID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, &viewResponse{URL: url})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromContext(r.Context())
	fileID := chi.URLParam(r, "fileID")

	if err := s.files.Delete(r.Context(), userID, fileID); err != nil {
		s.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleShare(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromContext(r.Context())
	fileID := chi.URLParam(r, "fileID")

	var req shareRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.files.Share(r.Context(), userID, fileID, req.Email, models.AccessKind(req.Kind)); err != nil {
		s.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
