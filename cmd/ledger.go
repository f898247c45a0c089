package cmd

import (
	"context"
	"encoding/json"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/vibast-solutions/ms-go-boleto/app/mapper"
	"github.com/vibast-solutions/ms-go-boleto/app/repository"
)

var ledgerCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Submission ledger commands",
}

var ledgerMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the submission ledger table",
	Run: func(_ *cobra.Command, _ []string) {
		runLedgerJob("ledger_migrate", func(ctx context.Context, repo *repository.SubmissionRepository) error {
			return repo.EnsureSchema(ctx)
		})
	},
}

var ledgerShowCmd = &cobra.Command{
	Use:   "show <transaction-ref>",
	Short: "Print the ledger record for a refTran",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		_, boletoService, cleanup := mustCreateBoletoService()
		defer cleanup()

		item, err := boletoService.FindSubmission(context.Background(), args[0])
		if err != nil {
			logrus.WithError(err).WithField("transaction_ref", args[0]).Fatal("Failed to find submission")
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(mapper.SubmissionRecordToResponse(item)); err != nil {
			logrus.WithError(err).Fatal("Failed to write submission")
		}
	},
}

func init() {
	rootCmd.AddCommand(ledgerCmd)
	ledgerCmd.AddCommand(ledgerMigrateCmd)
	ledgerCmd.AddCommand(ledgerShowCmd)
}

// runLedgerJob exits non-zero when the job fails.
func runLedgerJob(name string, fn func(ctx context.Context, repo *repository.SubmissionRepository) error) {
	cfg := mustLoadConfig()
	if !cfg.MySQL.Enabled() {
		logrus.WithField("job", name).Fatal("MYSQL_DSN is required")
	}

	db := mustOpenDatabase(cfg)
	err := runJob(name, func() error { return fn(context.Background(), repository.NewSubmissionRepository(db)) })
	if closeErr := db.Close(); closeErr != nil {
		logrus.WithError(closeErr).Warn("Failed to close database")
	}
	if err != nil {
		logrus.WithError(err).WithField("job", name).Fatal("Ledger job failed")
	}
}

func runJob(name string, fn func() error) error {
	start := time.Now()
	err := fn()
	latency := time.Since(start)
	if err != nil {
		logrus.WithError(err).WithField("job", name).WithField("latency", latency.String()).Error("job_failed")
		return err
	}
	logrus.WithField("job", name).WithField("latency", latency.String()).Info("job_completed")
	return nil
}
