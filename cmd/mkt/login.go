package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jacksmith/mkt/internal/api"
	"github.com/jacksmith/mkt/internal/cli"
	"github.com/jacksmith/mkt/internal/session"
	"github.com/spf13/cobra"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to the backend",
	Long: `Sign in with email and password. The token and user profile are saved
so later commands stay signed in until "mkt logout".

Examples:
  mkt login
  mkt login --email ana@example.com
  echo "$PASSWORD" | mkt login --email ana@example.com --password-stdin`,
	Args: cobra.NoArgs,
	RunE: runLogin,
}

var (
	loginEmail         string
	loginPasswordStdin bool
)

func init() {
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "account email (prompted when omitted)")
	loginCmd.Flags().BoolVar(&loginPasswordStdin, "password-stdin", false, "read the password from stdin")
	rootCmd.AddCommand(loginCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	if loginPasswordStdin && strings.TrimSpace(loginEmail) == "" {
		return &cli.ValidationError{Field: "flags", Message: "--password-stdin requires --email"}
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.ensureBackend(); err != nil {
		return err
	}

	email := strings.TrimSpace(loginEmail)
	if email == "" {
		email, err = a.prompt.Line("Email", "")
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
	}
	if email == "" {
		return &cli.ValidationError{Field: "email", Message: "must not be empty"}
	}

	var password string
	if loginPasswordStdin {
		password, err = readPasswordStdin(stdin)
	} else {
		password, err = a.prompt.Password("Password")
	}
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}

	s, err := a.session.Login(commandContext(cmd), api.Credentials{Email: email, Password: password})
	if err != nil {
		return err
	}
	fmt.Printf("Signed in as %s\n", displayUser(s))
	return nil
}

// readPasswordStdin reads the first line of r without its line ending.
func readPasswordStdin(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("failed to read password from stdin: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// displayUser renders "Name <email>", falling back to whatever is known.
func displayUser(s *session.Session) string {
	name, email := s.User.Name(), s.User.Email()
	switch {
	case name != "" && email != "":
		return fmt.Sprintf("%s <%s>", name, email)
	case name != "":
		return name
	case email != "":
		return email
	case s.User.ID() != "":
		return "user " + s.User.ID()
	default:
		return "unknown user"
	}
}
