package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"bat-monitor-be/pkg/events"
	pktNats "bat-monitor-be/pkg/nats"

	"github.com/spf13/cobra"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	var eventType string
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Tail classification events from NATS",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.cfg()
			if cfg.Events.NatsURL == "" {
				return errors.New("NATS_URL is not set")
			}

			sub, err := pktNats.NewSubscriber(cfg.Events.NatsURL, ctx.log())
			if err != nil {
				return err
			}
			defer sub.Close()

			subject := pktNats.AllSubjects
			if eventType != "" {
				subject = pktNats.Subject(eventType)
			}

			out := cmd.OutOrStdout()
			cc, err := sub.Watch(cmd.Context(), subject, func(_ context.Context, e events.Event) error {
				if jsonOut {
					return json.NewEncoder(out).Encode(e)
				}
				fmt.Fprintln(out, formatEvent(e))
				return nil
			})
			if err != nil {
				return err
			}
			defer cc.Stop()

			fmt.Fprintln(cmd.ErrOrStderr(), dimColor.Sprintf("watching %s, Ctrl-C to stop", subject))
			<-cmd.Context().Done()
			return nil
		},
	}

	cmd.Flags().StringVar(&eventType, "type", "", "Only this event type, e.g. SPECIES_CLASSIFIED")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print raw events as JSON")
	return cmd
}

func formatEvent(e events.Event) string {
	p := e.Payload()
	ts := dimColor.Sprint(e.Timestamp().Local().Format("15:04:05"))

	switch e.EventType() {
	case events.TypeSpeciesClassified:
		source := "upload"
		if sid, _ := p["sessionId"].(string); sid != "" {
			source = fmt.Sprintf("SERVER%v_CLIENT%v_%s", p["serverId"], p["clientId"], sid)
		}
		label := okColor.Sprint(p["label"])
		if low, _ := p["lowConfidence"].(bool); low {
			label = warnColor.Sprint(p["label"])
		}
		return fmt.Sprintf("%s %s %s %v%% [%v]", ts, source, label, p["confidence"], p["policy"])
	case events.TypeSessionNotFound:
		reason := "not found"
		if u, _ := p["unreachable"].(bool); u {
			reason = "store unreachable"
		}
		return fmt.Sprintf("%s %v %s", ts, p["folderName"], warnColor.Sprint(reason))
	default:
		return fmt.Sprintf("%s %s %v", ts, e.EventType(), p)
	}
}
