package services

import (
	"fmt"

	"github.com/dmitrijs2005/bookstore/internal/common"
	"github.com/go-playground/validator/v10"
)

// maxFieldLen bounds usernames and emails.
const maxFieldLen = 150

var validate = validator.New(validator.WithRequiredStructEnabled())

func checkUsername(username string) error {
	if err := validate.Var(username, fmt.Sprintf("required,max=%d", maxFieldLen)); err != nil {
		return fmt.Errorf("%w: username must be 1 to %d characters", common.ErrValidation, maxFieldLen)
	}
	return nil
}

func checkEmail(email string) error {
	if err := validate.Var(email, fmt.Sprintf("required,email,max=%d", maxFieldLen)); err != nil {
		return fmt.Errorf("%w: email must be a valid email address", common.ErrValidation)
	}
	return nil
}
