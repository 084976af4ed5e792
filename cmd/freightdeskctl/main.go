package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/freightdesk/freightdesk/internal/app"
	"github.com/freightdesk/freightdesk/internal/backup"
	"github.com/freightdesk/freightdesk/internal/company"
	"github.com/freightdesk/freightdesk/internal/customers"
	"github.com/freightdesk/freightdesk/internal/invoices"
	"github.com/freightdesk/freightdesk/internal/lorryreceipts"
	"github.com/freightdesk/freightdesk/internal/numbering"
	"github.com/freightdesk/freightdesk/internal/payments"
	"github.com/freightdesk/freightdesk/internal/platform/db"
	"github.com/freightdesk/freightdesk/internal/truckhiring"
)

func main() {
	_ = godotenv.Load()
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "freightdeskctl",
		Short:         "FreightDesk operations toolkit",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(resyncCmd(), exportCmd(), restoreCmd())
	return root
}

// connect builds a database pool from the environment.
func connect(ctx context.Context) (*pgxpool.Pool, *app.Config, error) {
	cfg, err := app.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("connect postgres: %w", err)
	}
	return pool, cfg, nil
}

func newBackupService(pool *pgxpool.Pool, cfg *app.Config) *backup.Service {
	logger := app.NewLogger(cfg)
	numberingService := numbering.NewService(numbering.NewRepository(pool))
	return backup.NewService(logger,
		customers.NewRepository(pool),
		lorryreceipts.NewRepository(pool),
		invoices.NewRepository(pool),
		payments.NewRepository(pool),
		truckhiring.NewRepository(pool),
		company.NewRepository(pool),
		numberingService,
		backup.NewRepository(pool),
	)
}

func resyncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resync",
		Short: "Realign document counters with the highest issued numbers",
		RunE: func(cmd *cobra.Command, args []string) error {
			pool, _, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			defer pool.Close()

			svc := numbering.NewService(numbering.NewRepository(pool))
			counters, err := svc.ResyncAll(cmd.Context())
			if err != nil {
				return err
			}
			for docType, current := range counters {
				cmd.Printf("%s: current number %d\n", docType, current)
			}
			return nil
		},
	}
}

func exportCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a JSON snapshot of the full database",
		RunE: func(cmd *cobra.Command, args []string) error {
			pool, cfg, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			defer pool.Close()

			f, err := os.Create(out)
			if err != nil {
				return err
			}
			defer f.Close()

			if err := newBackupService(pool, cfg).Export(cmd.Context(), f); err != nil {
				return err
			}
			cmd.Printf("snapshot written to %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "freightdesk-backup.json", "output file path")
	return cmd
}

func restoreCmd() *cobra.Command {
	var in string
	cmd := &cobra.Command{
		Use:   "restore",
		Short: "Replace the database contents from a JSON snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			pool, cfg, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			defer pool.Close()

			f, err := os.Open(in)
			if err != nil {
				return err
			}
			defer f.Close()

			if err := newBackupService(pool, cfg).Restore(cmd.Context(), f); err != nil {
				return err
			}
			cmd.Printf("snapshot %s restored\n", in)
			return nil
		},
	}
	cmd.Flags().StringVarP(&in, "in", "i", "", "snapshot file path")
	_ = cmd.MarkFlagRequired("in")
	return cmd
}
