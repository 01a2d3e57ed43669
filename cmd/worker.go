package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/frahmantamala/hr-management/internal/notification"
	"github.com/frahmantamala/hr-management/pkg/logger"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Start background workers",
	Long:  `Start long running consumers such as the notifications worker.`,
}

var notificationWorkerCmd = &cobra.Command{
	Use:   "notifications",
	Short: "Deliver queued notification e-mails",
	Long:  `Consume the notifications topic and deliver each message over SMTP, or log it when no SMTP host is configured.`,
	Run: func(cmd *cobra.Command, args []string) {
		startNotificationWorker()
	},
}

var (
	workerGroupID string
	workerCount   int
)

func startNotificationWorker() {
	cfg, err := loadConfig(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if !cfg.Kafka.Enabled {
		fmt.Fprintln(os.Stderr, "kafka.enabled is false, nothing to consume")
		os.Exit(1)
	}

	deps := &Dependencies{Config: cfg, Logger: logger.LoggerWrapper()}
	groupID := getStringFlag(workerGroupID, cfg.Kafka.GroupID)

	reader := notification.NewKafkaReader(cfg.Kafka.Brokers, cfg.Kafka.NotificationsTopic, groupID)
	workers := cfg.Kafka.Workers
	if workerCount > 0 {
		workers = workerCount
	}
	consumer := notification.NewConsumer(reader, newNotifier(deps), deps.Logger, notification.WithWorkers(workers))
	defer consumer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	deps.Logger.Info("notification worker running",
		"topic", cfg.Kafka.NotificationsTopic,
		"group_id", groupID,
		"workers", workers)

	if err := consumer.Start(ctx); err != nil && ctx.Err() == nil {
		deps.Logger.Error("notification worker stopped", "error", err)
	}
	deps.Logger.Info("notification worker shutdown complete")
}

func getStringFlag(flagValue, configValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return configValue
}

func init() {
	notificationWorkerCmd.Flags().StringVar(&workerGroupID, "group-id", "", "Kafka consumer group (overrides config)")
	notificationWorkerCmd.Flags().IntVar(&workerCount, "workers", 0, "Concurrent deliveries (overrides config)")

	workerCmd.AddCommand(notificationWorkerCmd)

	rootCmd.AddCommand(workerCmd)
}
