package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"trancheScope/internal/query"
)

func runProducts(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, err := buildServices(ctx, cmd)
	if err != nil {
		return err
	}
	defer svc.close()

	activeOnly, _ := cmd.Flags().GetBool("active-only")

	svc.logger.Info("assemble products",
		zap.Uint64("chain_id", svc.chainID),
		zap.Bool("active_only", activeOnly),
	)

	result := svc.facade.ListProducts(ctx, &query.Filter{ActiveOnly: activeOnly})
	if result.Err != nil {
		return fmt.Errorf("list products: %w", result.Err)
	}

	degraded := 0
	for _, snapshot := range result.Data {
		if snapshot.Degraded() {
			degraded++
		}
	}
	svc.logger.Info("products assembled",
		zap.Int("products", len(result.Data)),
		zap.Int("degraded", degraded),
	)

	return printJSON(result.Data)
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
