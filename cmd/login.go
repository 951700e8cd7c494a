package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/baristahub/baristahub-backend/internal/config"
	"github.com/baristahub/baristahub-backend/loginflow"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const (
	emailFlag         = "email"
	failurePolicyFlag = "status-failure"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in as a barista and see where your application stands",
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return v.BindPFlags(cmd.Flags())
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		policy, err := parseFailurePolicy(v.GetString(failurePolicyFlag))
		if err != nil {
			return err
		}

		transport, err := loginflow.NewHTTPTransport(v.GetString(config.APIURLKey), nil)
		if err != nil {
			return err
		}

		creds, err := promptCredentials(cmd.InOrStdin(), cmd.ErrOrStderr(), v.GetString(emailFlag))
		if err != nil {
			return err
		}

		flow := loginflow.New(transport, terminalPresenter{out: cmd.OutOrStdout()},
			loginflow.WithTimeout(v.GetDuration(config.RequestTimeoutKey)),
			loginflow.WithFailurePolicy(policy),
			loginflow.WithLogger(logger),
		)

		outcome, err := flow.Submit(cmd.Context(), creds)
		if err != nil {
			return err
		}
		switch outcome.State {
		case loginflow.StateFailed, loginflow.StateUnknown:
			return outcome.Err
		}
		return nil
	},
}

func parseFailurePolicy(raw string) (loginflow.FailurePolicy, error) {
	switch strings.ToLower(raw) {
	case "", "unset":
		return loginflow.FailureAsUnset, nil
	case "error":
		return loginflow.FailureAsError, nil
	default:
		return 0, fmt.Errorf("--%s must be unset or error, got %q", failurePolicyFlag, raw)
	}
}

// promptCredentials asks for whatever was not given as a flag. The password is
// read without echo when stdin is a terminal.
func promptCredentials(in io.Reader, prompt io.Writer, email string) (loginflow.Credentials, error) {
	reader := bufio.NewReader(in)

	if email == "" {
		fmt.Fprint(prompt, "Email: ")
		line, err := readLine(reader)
		if err != nil {
			return loginflow.Credentials{}, err
		}
		email = line
	}

	fmt.Fprint(prompt, "Password: ")
	var password string
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		raw, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(prompt)
		if err != nil {
			return loginflow.Credentials{}, fmt.Errorf("read password: %w", err)
		}
		password = string(raw)
	} else {
		line, err := readLine(reader)
		if err != nil {
			return loginflow.Credentials{}, err
		}
		password = line
	}

	return loginflow.Credentials{Email: email, Password: password}, nil
}

func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func init() {
	flags := loginCmd.Flags()
	flags.String(config.APIURLKey, "http://localhost:8080", "BaristaHub API base URL")
	flags.StringP(emailFlag, "e", "", "Account email (prompted when empty)")
	flags.Duration(config.RequestTimeoutKey, 10*time.Second, "Timeout for each request")
	flags.String(failurePolicyFlag, "unset", "What a failed status lookup does: unset or error")

	rootCmd.AddCommand(loginCmd)
}
