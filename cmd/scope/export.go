package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"trancheScope/internal/config"
	"trancheScope/internal/storage"
	"trancheScope/internal/storage/postgres"
)

func runExport(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfgFile, _ := cmd.Flags().GetString("config")
	exportCfg, err := config.LoadExport(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}
	if exportCfg.Out == "" && exportCfg.PGDSN == "" {
		return fmt.Errorf("at least one of --out and --pg-dsn is required")
	}

	svc, err := buildServices(ctx, cmd)
	if err != nil {
		return err
	}
	defer svc.close()

	sinks := make([]storage.Storage, 0, 2)
	if exportCfg.Out != "" {
		sinks = append(sinks, storage.NewJsonlStorage(exportCfg.Out))
	}
	if exportCfg.PGDSN != "" {
		store, err := postgres.NewStore(ctx, exportCfg.PGDSN)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer store.Close()
		sinks = append(sinks, store)
	}

	snapshots, err := svc.assembler.AssembleAll(ctx)
	if err != nil {
		return fmt.Errorf("assemble: %w", err)
	}

	for _, sink := range sinks {
		if err := sink.PutSnapshots(ctx, snapshots); err != nil {
			return fmt.Errorf("export snapshots: %w", err)
		}
	}

	svc.logger.Info("export complete",
		zap.Int("products", len(snapshots)),
		zap.String("out", exportCfg.Out),
		zap.Bool("postgres", exportCfg.PGDSN != ""),
	)

	return nil
}
