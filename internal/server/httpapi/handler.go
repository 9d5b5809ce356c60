package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/bookstore/internal/common"
	"github.com/dmitrijs2005/bookstore/internal/logging"
	"github.com/dmitrijs2005/bookstore/internal/server/models"
	"github.com/dmitrijs2005/bookstore/internal/server/services"
	"github.com/dmitrijs2005/bookstore/internal/server/session"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

// Pinger reports whether the backing database is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Handler holds the HTTP endpoints of the bookstore.
type Handler struct {
	auth           *services.AuthService
	catalog        *services.CatalogService
	cart           *services.CartService
	profile        *services.ProfileService
	sessions       *session.Manager
	db             Pinger
	validate       *validator.Validate
	maxUploadBytes int64
	logger         logging.Logger
}

func NewHandler(d Deps) *Handler {
	maxUpload := d.MaxUploadBytes
	if maxUpload <= 0 {
		maxUpload = common.MaxProfilePicBytes
	}
	return &Handler{
		auth:           d.Auth,
		catalog:        d.Catalog,
		cart:           d.Cart,
		profile:        d.Profile,
		sessions:       d.Sessions,
		db:             d.DB,
		validate:       newValidator(),
		maxUploadBytes: maxUpload,
		logger:         d.Logger.With("module", "http_handler"),
	}
}

type sessionHandlerFunc func(w http.ResponseWriter, r *http.Request, st *session.State) (response, error)

// withSession loads the session, runs fn with it and saves it back before
// writing the response. Flashes queued so far are returned with the body.
func (h *Handler) withSession(fn sessionHandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		st, err := h.sessions.Load(ctx, r)
		if err != nil {
			h.logger.Error(ctx, "session load failed", "error", err)
			writeError(w, http.StatusInternalServerError, common.ErrorInternal.Error())
			return
		}

		res, err := fn(w, r, st)
		if err != nil {
			res = h.errorResponse(ctx, st, err)
		}

		flashes := st.PopFlashes()

		if err := h.persist(ctx, w, st, res.destroy); err != nil {
			h.logger.Error(ctx, "session save failed", "error", err)
			writeError(w, http.StatusInternalServerError, common.ErrorInternal.Error())
			return
		}

		writeJSON(w, res.status, envelope{Data: res.data, Error: res.err, Flashes: flashes})
	}
}

func (h *Handler) persist(ctx context.Context, w http.ResponseWriter, st *session.State, destroy bool) error {
	if destroy {
		return h.sessions.Destroy(ctx, w, st)
	}
	// an untouched anonymous session is not worth storing
	if st.IsNew() && !st.Authenticated() && len(st.Cart) == 0 && len(st.Flashes) == 0 {
		return nil
	}
	return h.sessions.Save(ctx, w, st)
}

func (h *Handler) Index(w http.ResponseWriter, r *http.Request, st *session.State) (response, error) {
	return ok(map[string]any{
		"message":       "Welcome to the bookstore",
		"authenticated": st.Authenticated(),
	}), nil
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if h.db != nil {
		if err := h.db.PingContext(r.Context()); err != nil {
			h.logger.Error(r.Context(), "health check failed", "error", err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "OK"})
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request, st *session.State) (response, error) {
	var req registerRequest
	if err := h.decode(w, r, &req); err != nil {
		return response{}, err
	}

	user, err := h.auth.Register(r.Context(), st, services.RegisterInput{
		Username: req.Username,
		Password: req.Password,
		Email:    req.Email,
	})
	if err != nil {
		return response{}, err
	}

	return response{status: http.StatusCreated, data: user}, nil
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request, st *session.State) (response, error) {
	var req loginRequest
	if err := h.decode(w, r, &req); err != nil {
		return response{}, err
	}

	user, err := h.auth.Login(r.Context(), st, req.Username, req.Password)
	if err != nil {
		return response{}, err
	}

	return ok(user), nil
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request, st *session.State) (response, error) {
	h.auth.Logout(st)
	return response{status: http.StatusOK, data: map[string]string{"status": "logged out"}, destroy: true}, nil
}

func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request, st *session.State) (response, error) {
	user, err := h.auth.RequireUser(r.Context(), st)
	if err != nil {
		return response{}, err
	}
	return ok(user), nil
}

type profileView struct {
	User       *models.User `json:"user"`
	PictureURL string       `json:"picture_url,omitempty"`
}

func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request, st *session.State) (response, error) {
	p, err := h.profile.Get(r.Context(), st)
	if err != nil {
		return response{}, err
	}
	return ok(profileView{User: p.User, PictureURL: p.PictureURL}), nil
}

// UpdateProfile accepts a multipart (or url-encoded) form with optional
// email, bio and profile_pic fields.
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request, st *session.State) (response, error) {
	ctx := r.Context()

	// reject anonymous callers before reading the body
	if _, err := h.auth.RequireUser(ctx, st); err != nil {
		return response{}, err
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes+maxJSONBody)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return response{}, fmt.Errorf("%w: upload larger than %d bytes", common.ErrValidation, h.maxUploadBytes)
		}
		return response{}, fmt.Errorf("%w: malformed form", common.ErrValidation)
	}
	if r.MultipartForm != nil {
		defer func() { _ = r.MultipartForm.RemoveAll() }()
	}

	var in services.ProfileInput
	if vals, found := r.PostForm["email"]; found && len(vals) > 0 {
		email := vals[0]
		if err := h.validate.Var(email, "required,email,max=150"); err != nil {
			return response{}, fmt.Errorf("%w: email must be a valid email address", common.ErrValidation)
		}
		in.Email = &email
	}
	if vals, found := r.PostForm["bio"]; found && len(vals) > 0 {
		bio := vals[0]
		in.Bio = &bio
	}

	file, hdr, err := r.FormFile("profile_pic")
	switch {
	case err == nil:
		defer file.Close()
		if hdr.Filename != "" {
			in.Picture = &services.Picture{
				Filename:    hdr.Filename,
				ContentType: hdr.Header.Get("Content-Type"),
				Size:        hdr.Size,
				Body:        file,
			}
		}
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
	default:
		return response{}, fmt.Errorf("%w: unreadable profile_pic", common.ErrValidation)
	}

	p, err := h.profile.Update(ctx, st, in)
	if err != nil {
		return response{}, err
	}

	st.AddFlash(flashProfileUpdated)
	return ok(profileView{User: p.User, PictureURL: p.PictureURL}), nil
}

func (h *Handler) ListBooks(w http.ResponseWriter, r *http.Request, st *session.State) (response, error) {
	books, err := h.catalog.List(r.Context())
	if err != nil {
		return response{}, err
	}
	if books == nil {
		books = []models.Book{}
	}
	return ok(map[string]any{"books": books}), nil
}

func (h *Handler) AddToCart(w http.ResponseWriter, r *http.Request, st *session.State) (response, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "bookID"), 10, 64)
	if err != nil || id <= 0 {
		return response{}, fmt.Errorf("%w: invalid book id", common.ErrValidation)
	}

	if err := h.cart.AddItem(st, id); err != nil {
		return response{}, err
	}
	st.AddFlash(flashBookAdded)

	return ok(map[string]any{"ids": h.cart.ViewCart(st)}), nil
}

type cartView struct {
	Books []models.Book `json:"books"`
	IDs   []int64       `json:"ids"`
}

func (h *Handler) ViewCart(w http.ResponseWriter, r *http.Request, st *session.State) (response, error) {
	if h.cart.IsEmpty(st) {
		st.AddFlash(flashCartEmpty)
		return ok(cartView{Books: []models.Book{}, IDs: []int64{}}), nil
	}

	books, err := h.cart.Books(r.Context(), st)
	if err != nil {
		return response{}, err
	}
	if books == nil {
		books = []models.Book{}
	}
	return ok(cartView{Books: books, IDs: h.cart.ViewCart(st)}), nil
}
