package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"medequip-admin/internal/app"
)

var errMissingPassword = errors.New("password is required")

func (r *runner) loginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and save the session token",
		Example: `  medadmin login --email admin@example.com
  printf '%s\n' "$PASSWORD" | medadmin login --email admin@example.com`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			email, _ := cmd.Flags().GetString("email")
			password, err := r.password(cmd)
			if err != nil {
				return err
			}
			res, err := r.Service.Login(cmd.Context(), app.LoginRequest{Email: email, Password: password})
			if err != nil {
				return fmt.Errorf("login: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s <%s>\n", res.User.Name, res.User.Email)
			return nil
		},
	}
	cmd.Flags().String("email", "", "Account e-mail [REQUIRED]")
	cmd.Flags().String("password", "", "Password (read from stdin when omitted)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func (r *runner) registerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			name, _ := cmd.Flags().GetString("name")
			email, _ := cmd.Flags().GetString("email")
			password, err := r.password(cmd)
			if err != nil {
				return err
			}
			res, err := r.Service.Register(cmd.Context(), app.RegisterRequest{Name: name, Email: email, Password: password})
			if err != nil {
				return fmt.Errorf("register: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Account created. Signed in as %s <%s>\n", res.User.Name, res.User.Email)
			return nil
		},
	}
	cmd.Flags().String("name", "", "Full name [REQUIRED]")
	cmd.Flags().String("email", "", "Account e-mail [REQUIRED]")
	cmd.Flags().String("password", "", "Password, at least 6 characters (read from stdin when omitted)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func (r *runner) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved session token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r.Service.Logout(cmd.Context())
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
			return nil
		},
	}
}

// password returns --password, or the first line of input when the flag is empty.
func (r *runner) password(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("password"); p != "" {
		return p, nil
	}
	fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
	line, err := bufio.NewReader(r.In).ReadString('\n')
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		if err != nil && !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("read password: %w", err)
		}
		return "", errMissingPassword
	}
	return line, nil
}
