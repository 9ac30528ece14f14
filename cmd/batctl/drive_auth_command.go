package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"bat-monitor-be/internal/bootstrap"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newDriveAuthCommand(ctx *commandContext) *cobra.Command {
	var redirectURL string

	cmd := &cobra.Command{
		Use:   "drive-auth",
		Short: "Authorize Google Drive access and save the token",
		Long: "Prints the consent URL, then reads the authorization code from stdin. " +
			"The token is written to DRIVE_TOKEN_FILE, where the server picks it up.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.cfg()
			if redirectURL != "" {
				cfg.Drive.RedirectURL = redirectURL
			}

			auth, err := bootstrap.NewDriveAuthorizer(cfg)
			if err != nil {
				return err
			}
			if auth.Authorized() {
				fmt.Fprintf(cmd.OutOrStdout(), "Already authorized (%s). Re-authorizing replaces the token.\n", cfg.Drive.TokenFile)
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Open this URL in a browser and approve access:")
			fmt.Fprintln(cmd.OutOrStdout(), auth.AuthCodeURL(uuid.NewString()))
			fmt.Fprint(cmd.OutOrStdout(), "\nPaste the code parameter from the redirect: ")

			code, err := readCode(bufio.NewReader(cmd.InOrStdin()))
			if err != nil {
				return err
			}
			if err := auth.Exchange(cmd.Context(), code); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), okColor.Sprint("Google Drive authorized, token saved to "+cfg.Drive.TokenFile))
			return nil
		},
	}

	cmd.Flags().StringVar(&redirectURL, "redirect-url", "", "Override DRIVE_REDIRECT_URL for this flow")
	return cmd
}

func readCode(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	code := strings.TrimSpace(line)
	if code == "" {
		if err != nil {
			return "", fmt.Errorf("read authorization code: %w", err)
		}
		return "", errors.New("empty authorization code")
	}
	return code, nil
}
