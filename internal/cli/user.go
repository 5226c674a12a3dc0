package cli

import (
	"Folio/internal/models"
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newUserAddCommand(options *rootOptions) *cobra.Command {
	var (
		fullName      string
		admin         bool
		passwordStdin bool
	)
	userAddCmd := &cobra.Command{
		Use:   "add <username>",
		Short: "Create a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			password, err := readPassword(c, passwordStdin)
			if err != nil {
				return err
			}

			server, cleanup, err := options.server()
			if err != nil {
				return err
			}
			defer cleanup()

			role := models.RoleUser
			if admin {
				role = models.RoleAdmin
			}
			user, err := server.AuthService.CreateUser(context.Background(), args[0], password, fullName, role)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.OutOrStdout(), "Created %s user %s (%s)\n", user.Role, user.Username, user.ID)
			return nil
		},
	}
	userAddCmd.Flags().StringVar(&fullName, "full-name", "", "display name of the user")
	userAddCmd.Flags().BoolVar(&admin, "admin", false, "grant the admin role")
	userAddCmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "read the password from stdin")
	return userAddCmd
}

// readPassword prompts without echo on a terminal. With --password-stdin
// it reads the first line of the command's input instead.
func readPassword(c *cobra.Command, fromStdin bool) (string, error) {
	if fromStdin {
		line, err := bufio.NewReader(c.InOrStdin()).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("reading password: %w", err)
		}
		return strings.TrimRight(line, "\r\n"), nil
	}

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", errors.New("stdin is not a terminal, use --password-stdin")
	}
	fmt.Fprint(c.ErrOrStderr(), "Password: ")
	password, err := term.ReadPassword(fd)
	fmt.Fprintln(c.ErrOrStderr())
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return string(password), nil
}
