package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Report commands",
}

var reportArchiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Upload the employee CSV export to object storage",
	Long:  `Render the employee CSV report and store it in the configured bucket under reports/employees/.`,
	Run: func(cmd *cobra.Command, args []string) {
		archiveEmployeeReport()
	},
}

var archiveTimeout time.Duration

func archiveEmployeeReport() {
	ctx, cancel := context.WithTimeout(context.Background(), archiveTimeout)
	defer cancel()

	deps, err := initializeDependencies(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}
	defer deps.Close()

	svc, err := deps.reportingService()
	if err != nil {
		deps.Logger.Error("failed to build reporting service", "error", err)
		return
	}

	key, err := svc.ArchiveEmployeeCSV(ctx)
	if err != nil {
		deps.Logger.Error("employee report archive failed", "error", err)
		return
	}
	fmt.Println("Archived employee report:", key)
}

func init() {
	reportArchiveCmd.Flags().DurationVar(&archiveTimeout, "timeout", 2*time.Minute, "overall timeout for the archive run")

	reportCmd.AddCommand(reportArchiveCmd)

	rootCmd.AddCommand(reportCmd)
}
