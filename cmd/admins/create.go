package admins

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/terraconstructs/logbook/cmd/cmdutil"
	"github.com/terraconstructs/logbook/internal/config"
	"github.com/terraconstructs/logbook/internal/services/iam"
)

func newCreateCmd(loadConfig func() *config.Config) *cobra.Command {
	var (
		name     string
		password string
		stdin    bool
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an administrator account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" {
				return fmt.Errorf("--name flag is required")
			}

			pw := password
			if stdin {
				var err error
				if pw, err = readPassword(cmd.InOrStdin(), cmd.OutOrStdout()); err != nil {
					return err
				}
			}
			if pw == "" {
				return fmt.Errorf("password is required (use --password or --stdin)")
			}

			cfg := loadConfig()
			if cfg == nil {
				return fmt.Errorf("configuration not loaded")
			}

			bundle, err := cmdutil.NewIAMServiceBundle(cfg)
			if err != nil {
				return err
			}
			defer bundle.Close()

			admin, err := bundle.Service.RegisterAdmin(cmd.Context(), iam.RegisterAdminInput{Name: name, Password: pw})
			switch {
			case errors.Is(err, iam.ErrDuplicateIdentity):
				return fmt.Errorf("admin %q already exists", name)
			case errors.Is(err, iam.ErrIncompleteRequestData):
				return fmt.Errorf("name and password are required and the password must be at most 72 bytes")
			case err != nil:
				return fmt.Errorf("failed to create admin: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Admin created successfully!")
			fmt.Fprintln(out, "----------------------------------------")
			fmt.Fprintf(out, "Admin ID: %d\n", admin.ID)
			fmt.Fprintf(out, "Name: %s\n", admin.Name)
			fmt.Fprintln(out, "----------------------------------------")
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Unique administrator name")
	cmd.Flags().StringVar(&password, "password", "", "Password for the administrator (use --stdin to avoid shell history)")
	cmd.Flags().BoolVar(&stdin, "stdin", false, "Read password from stdin instead of --password flag")
	return cmd
}

func readPassword(in io.Reader, prompt io.Writer) (string, error) {
	fmt.Fprint(prompt, "Enter password: ")
	scanner := bufio.NewScanner(in)
	if scanner.Scan() {
		return strings.TrimRight(scanner.Text(), "\r"), nil
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return "", nil
}
