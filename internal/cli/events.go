package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"td-generator-be/internal/config"
	"td-generator-be/pkg/events"
	pktNats "td-generator-be/pkg/nats"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Tail workbench events from NATS JetStream",
		Args:  cobra.NoArgs,
		RunE:  runEvents,
	}

	cmd.Flags().String("nats", "", "NATS URL (default: $NATS_URL)")
	cmd.Flags().StringP("type", "t", "", "Only show this event type, e.g. FILES_PREPARED")
	cmd.Flags().String("durable", "", "Durable consumer name; empty tails new events only")

	RootCmd.AddCommand(cmd)
}

func runEvents(cmd *cobra.Command, args []string) error {
	url, _ := cmd.Flags().GetString("nats")
	eventType, _ := cmd.Flags().GetString("type")
	durable, _ := cmd.Flags().GetString("durable")

	if url == "" {
		url = config.Load().App.NatsURL
	}
	if url == "" {
		return fmt.Errorf("no NATS URL: pass --nats or set NATS_URL")
	}

	sub, err := pktNats.NewSubscriber(url)
	if err != nil {
		return err
	}
	defer sub.Close()

	subject := pktNats.Subject(">")
	if eventType != "" {
		subject = pktNats.Subject(eventType)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	return sub.Subscribe(ctx, subject, durable, func(ctx context.Context, event events.Event) error {
		data, err := events.Marshal(event)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, string(data))
		return err
	})
}
