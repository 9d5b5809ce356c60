package cli

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"time"

	"github.com/dmitrijs2005/bookstore/internal/common"
	"github.com/dmitrijs2005/bookstore/internal/server/services"
	"github.com/dmitrijs2005/bookstore/internal/server/session"
)

var errPasswordMismatch = errors.New("passwords do not match")

// userAdd creates an account. The password is read twice from the terminal,
// or generated with -random and printed once.
func (a *App) userAdd(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("useradd", flag.ContinueOnError)
	fs.SetOutput(a.out)
	username := fs.String("u", "", "username")
	email := fs.String("e", "", "email")
	random := fs.Bool("random", false, "generate a random password")
	if err := fs.Parse(args); err != nil {
		return ErrUsage
	}
	if *username == "" {
		fmt.Fprintln(a.out, "Usage: useradd -u NAME [-e EMAIL] [-random]")
		return ErrUsage
	}

	if *email == "" {
		v, err := GetSimpleText(a.reader, "Email", a.out)
		if err != nil {
			return err
		}
		*email = v
	}

	password, err := a.newPassword(*random)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	// Register binds the user to a session; this one is thrown away.
	st, err := session.NewState(time.Now(), time.Minute)
	if err != nil {
		return err
	}

	user, err := a.auth.Register(ctx, st, services.RegisterInput{
		Username: *username,
		Password: string(password),
		Email:    *email,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Created user %s (id=%d)\n", user.Username, user.ID)
	if *random {
		fmt.Fprintf(a.out, "Password: %s\n", password)
	}
	return nil
}

func (a *App) newPassword(random bool) ([]byte, error) {
	if random {
		s, err := common.MakeRandHexString(12)
		if err != nil {
			return nil, err
		}
		return []byte(s), nil
	}

	pw, err := GetPassword("Enter password: ", a.out)
	if err != nil {
		return nil, err
	}
	confirm, err := GetPassword("Repeat password: ", a.out)
	if err != nil {
		common.WipeByteArray(pw)
		return nil, err
	}
	defer common.WipeByteArray(confirm)

	if !bytes.Equal(pw, confirm) {
		common.WipeByteArray(pw)
		return nil, errPasswordMismatch
	}
	return pw, nil
}
