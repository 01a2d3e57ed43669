package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/frahmantamala/hr-management/internal/core/events"
)

var eventCmd = &cobra.Command{
	Use:   "event",
	Short: "Event management commands",
	Long:  `Inspect the domain event pipeline: publish test events through the configured sinks.`,
}

var publishEventCmd = &cobra.Command{
	Use:   "publish [event-type]",
	Short: "Publish a test event",
	Long:  `Publish a test event on the event bus. Kafka and the audit store receive it when enabled in config.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		publishTestEvent(args[0])
	},
}

var eventData string

func publishTestEvent(eventType string) {
	ctx := context.Background()
	deps, err := initializeDependencies(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}
	defer deps.Close()

	deps.Bus.Subscribe(events.AllEvents, func(ctx context.Context, event events.Event) error {
		deps.Logger.Info("test handler received event",
			"event_id", event.EventID(),
			"event_type", event.EventType(),
			"payload", event.Payload())
		return nil
	})

	testEvent := events.NewBaseEvent(eventType, map[string]interface{}{
		"message": eventData,
		"source":  "cli-command",
		"run_id":  uuid.NewString(),
	})

	deps.Logger.Info("publishing test event", "event_type", eventType, "event_id", testEvent.ID)
	if err := deps.Bus.PublishSync(ctx, testEvent); err != nil {
		deps.Logger.Error("failed to publish event", "error", err)
		return
	}
	deps.Logger.Info("test event published successfully")
}

func init() {
	publishEventCmd.Flags().StringVar(&eventData, "data", "test message", "Event data message")

	eventCmd.AddCommand(publishEventCmd)

	rootCmd.AddCommand(eventCmd)
}
