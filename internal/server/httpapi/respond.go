package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/bookstore/internal/common"
	"github.com/dmitrijs2005/bookstore/internal/server/session"
)

// Flash texts shown to the user.
const (
	flashBookAdded         = "Book added to cart"
	flashProfileUpdated    = "Profile updated successfully!"
	flashInvalidLogin      = "Invalid credentials, please try again."
	flashDuplicateUsername = "Username already exists, please choose another one."
	flashDuplicateEmail    = "Email already exists, please choose another one."
	flashCartEmpty         = "Your cart is empty"
	flashLoginRequired     = "Please log in to access this page."
)

// envelope is the body of every JSON response.
type envelope struct {
	Data    any      `json:"data,omitempty"`
	Error   string   `json:"error,omitempty"`
	Flashes []string `json:"flashes"`
}

// response is what a session handler hands back to withSession.
type response struct {
	status int
	data   any
	err    string
	// destroy drops the session instead of saving it.
	destroy bool
}

func ok(data any) response {
	return response{status: http.StatusOK, data: data}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, envelope{Error: msg, Flashes: []string{}})
}

// errorResponse maps a service error to a status code, adding the matching
// flash message to st.
func (h *Handler) errorResponse(ctx context.Context, st *session.State, err error) response {
	switch {
	case errors.Is(err, common.ErrDuplicateUsername):
		st.AddFlash(flashDuplicateUsername)
		return response{status: http.StatusConflict, err: common.ErrDuplicateUsername.Error()}
	case errors.Is(err, common.ErrDuplicateEmail):
		st.AddFlash(flashDuplicateEmail)
		return response{status: http.StatusConflict, err: common.ErrDuplicateEmail.Error()}
	case errors.Is(err, common.ErrInvalidCredentials):
		st.AddFlash(flashInvalidLogin)
		return response{status: http.StatusUnauthorized, err: common.ErrInvalidCredentials.Error()}
	case errors.Is(err, common.ErrorUnauthorized):
		st.AddFlash(flashLoginRequired)
		return response{status: http.StatusUnauthorized, err: common.ErrorUnauthorized.Error()}
	case errors.Is(err, common.ErrorNotFound):
		return response{status: http.StatusNotFound, err: common.ErrorNotFound.Error()}
	case errors.Is(err, common.ErrValidation):
		return response{status: http.StatusBadRequest, err: err.Error()}
	default:
		h.logger.Error(ctx, "request failed", "error", err)
		return response{status: http.StatusInternalServerError, err: common.ErrorInternal.Error()}
	}
}
