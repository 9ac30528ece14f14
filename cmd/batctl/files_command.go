package main

import (
	"fmt"

	"bat-monitor-be/internal/bootstrap"
	"bat-monitor-be/pkg/remotestore"
	"bat-monitor-be/pkg/session"

	"github.com/spf13/cobra"
)

func newFilesCommand(ctx *commandContext) *cobra.Command {
	var server string
	var client string

	cmd := &cobra.Command{
		Use:   "files <batId>",
		Short: "List a session's files grouped by role",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.cfg()
			if server == "" {
				server = cfg.App.DefaultServerNumber
			}
			if client == "" {
				client = cfg.App.DefaultClientNumber
			}

			stores, err := bootstrap.NewStore(cmd.Context(), cfg, ctx.log())
			if err != nil {
				return err
			}

			key := session.Key{ServerID: server, ClientID: client, SessionID: session.NormalizeSessionID(args[0])}
			resolver := session.NewResolver(stores.Store)

			folder, err := resolver.Resolve(cmd.Context(), key)
			if err != nil {
				return fmt.Errorf("%s: %w", key.CanonicalName(), err)
			}
			bundle, err := resolver.ListAssets(cmd.Context(), *folder)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", folder.Name, folder.ID)
			fmt.Fprintln(cmd.OutOrStdout(), renderAssetTable(bundleRows(bundle)))
			return nil
		},
	}

	cmd.Flags().StringVar(&server, "server", "", "Server number (default from DEFAULT_SERVER_NUMBER)")
	cmd.Flags().StringVar(&client, "client", "", "Client number (default from DEFAULT_CLIENT_NUMBER)")
	return cmd
}

func bundleRows(b session.AssetBundle) []assetRow {
	rows := make([]assetRow, 0, b.Count())
	add := func(role session.Role, f *remotestore.File) {
		if f == nil {
			return
		}
		rows = append(rows, assetRow{Role: string(role), Name: f.Name, ID: f.ID, Size: f.Size, ModifiedAt: f.ModifiedAt})
	}
	add(session.RoleSpectrogram, b.Spectrogram)
	add(session.RoleCamera, b.Camera)
	add(session.RoleSensorLog, b.SensorLog)
	add(session.RoleAudio, b.Audio)
	for i := range b.Other {
		add(session.RoleOther, &b.Other[i])
	}
	return rows
}
