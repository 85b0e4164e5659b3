package command

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"videohub/database"
	"videohub/internal/microservices/http-api/models"
	"videohub/internal/microservices/http-api/repository"
	"videohub/internal/middleware/auth"
)

const minPasswordLength = 8

var (
	errPasswordMismatch = errors.New("passwords do not match")
	errPasswordTooShort = fmt.Errorf("password must be at least %d characters", minPasswordLength)
	errUserExists       = errors.New("a user with this username or email already exists")
)

// SuperuserInput is what createsuperuser collects from flags or prompts
type SuperuserInput struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
}

func (in SuperuserInput) validate() error {
	switch {
	case strings.TrimSpace(in.Username) == "":
		return errors.New("username is required")
	case !strings.Contains(in.Email, "@"):
		return errors.New("a valid email is required")
	case len(in.Password) < minPasswordLength:
		return errPasswordTooShort
	case in.Password != in.ConfirmPassword:
		return errPasswordMismatch
	}
	return nil
}

// createSuperuser stores an active superuser with a hashed password.
func createSuperuser(ctx context.Context, users repository.UserRepository, in SuperuserInput) (*models.User, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	hashedPassword, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:    strings.TrimSpace(in.Username),
		Email:       strings.TrimSpace(in.Email),
		Password:    hashedPassword,
		IsActive:    true,
		IsSuperuser: true,
	}
	if err := users.Create(ctx, user); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, errUserExists
		}
		return nil, err
	}
	return user, nil
}

// secretReader reads one line without echoing it.
type secretReader func() (string, error)

// terminalSecret returns a secretReader when r is an interactive terminal, nil otherwise.
func terminalSecret(r io.Reader, w io.Writer) secretReader {
	f, ok := r.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return nil
	}
	return func() (string, error) {
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(w)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
}

// prompt fills in every field not given as a flag. Passwords go through
// secret when it is set.
func prompt(in *SuperuserInput, r io.Reader, w io.Writer, secret secretReader) error {
	scanner := bufio.NewScanner(r)
	ask := func(label string, dst *string, hidden bool) error {
		if *dst != "" {
			return nil
		}
		fmt.Fprintf(w, "%s: ", label)
		if hidden && secret != nil {
			value, err := secret()
			if err != nil {
				return err
			}
			*dst = value
			return nil
		}
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return err
			}
			return io.ErrUnexpectedEOF
		}
		*dst = strings.TrimSpace(scanner.Text())
		return nil
	}

	if err := ask("Username", &in.Username, false); err != nil {
		return err
	}
	if err := ask("Email", &in.Email, false); err != nil {
		return err
	}
	if err := ask("Password", &in.Password, true); err != nil {
		return err
	}
	return ask("Password (again)", &in.ConfirmPassword, true)
}

var createSuperuserCmd = &cobra.Command{
	Use:   "createsuperuser",
	Short: "Create an active superuser account",
	RunE: func(cmd *cobra.Command, args []string) error {
		var in SuperuserInput
		in.Username, _ = cmd.Flags().GetString("username")
		in.Email, _ = cmd.Flags().GetString("email")
		in.Password, _ = cmd.Flags().GetString("password")
		if in.Password != "" {
			in.ConfirmPassword = in.Password
		}

		stdin, stdout := cmd.InOrStdin(), cmd.OutOrStdout()
		if err := prompt(&in, stdin, stdout, terminalSecret(stdin, stdout)); err != nil {
			return fmt.Errorf("read input: %w", err)
		}

		db, _, err := openDB()
		if err != nil {
			return err
		}
		defer database.Close(db)

		user, err := createSuperuser(cmd.Context(), repository.NewUserRepository(db), in)
		if err != nil {
			return err
		}
		success.Fprintf(cmd.OutOrStdout(), "✓ Superuser %s created (id %d).\n", user.Username, user.ID)
		return nil
	},
}

func init() {
	createSuperuserCmd.Flags().String("username", "", "superuser username")
	createSuperuserCmd.Flags().String("email", "", "superuser email")
	createSuperuserCmd.Flags().String("password", "", "superuser password (prompted when empty)")
}
