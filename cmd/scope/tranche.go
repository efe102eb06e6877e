package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func runTranche(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	id, _ := cmd.Flags().GetUint64("id")
	if id == 0 {
		return fmt.Errorf("tranche id is required")
	}

	svc, err := buildServices(ctx, cmd)
	if err != nil {
		return err
	}
	defer svc.close()

	result := svc.facade.Tranche(ctx, id)
	if result.Err != nil {
		return fmt.Errorf("tranche %d: %w", id, result.Err)
	}

	if result.Data.Err != nil {
		svc.logger.Warn("tranche detail degraded",
			zap.Uint64("tranche_id", id),
			zap.String("stage", result.Data.Err.Stage),
		)
	}

	return printJSON(result.Data)
}
