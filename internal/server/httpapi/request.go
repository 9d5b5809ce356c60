package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"reflect"
	"strings"

	"github.com/dmitrijs2005/bookstore/internal/common"
	"github.com/go-playground/validator/v10"
)

const maxJSONBody = 1 << 20

type registerRequest struct {
	Username string `json:"username" validate:"required,max=150"`
	Password string `json:"password" validate:"required,max=72"`
	Email    string `json:"email" validate:"required,email,max=150"`
}

func (q *registerRequest) fromForm(v url.Values) {
	q.Username = v.Get("username")
	q.Password = v.Get("password")
	q.Email = v.Get("email")
}

type loginRequest struct {
	Username string `json:"username" validate:"required,max=150"`
	Password string `json:"password" validate:"required,max=72"`
}

func (q *loginRequest) fromForm(v url.Values) {
	q.Username = v.Get("username")
	q.Password = v.Get("password")
}

type formRequest interface {
	fromForm(url.Values)
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report fields under their JSON names
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// decode fills dst from a JSON or form-encoded body and validates it.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst formRequest) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)

	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch ct {
	case "application/x-www-form-urlencoded", "multipart/form-data":
		if err := r.ParseMultipartForm(maxJSONBody); err != nil && !errors.Is(err, http.ErrNotMultipart) {
			return fmt.Errorf("%w: malformed form", common.ErrValidation)
		}
		dst.fromForm(r.Form)
	default:
		if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
			return fmt.Errorf("%w: malformed JSON body", common.ErrValidation)
		}
	}

	return h.check(dst)
}

func (h *Handler) check(v any) error {
	err := h.validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	return fmt.Errorf("%w: %s", common.ErrValidation, describe(verrs))
}

func describe(verrs validator.ValidationErrors) string {
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fe.Field()+" is required")
		case "email":
			msgs = append(msgs, fe.Field()+" must be a valid email address")
		case "max":
			msgs = append(msgs, fe.Field()+" must be at most "+fe.Param()+" characters")
		default:
			msgs = append(msgs, fe.Field()+" is invalid")
		}
	}
	return strings.Join(msgs, "; ")
}
