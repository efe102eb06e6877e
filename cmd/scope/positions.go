package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func runPositions(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	address, _ := cmd.Flags().GetString("address")
	if !common.IsHexAddress(address) {
		return fmt.Errorf("valid account address is required")
	}

	svc, err := buildServices(ctx, cmd)
	if err != nil {
		return err
	}
	defer svc.close()

	result := svc.facade.UserPositions(ctx, common.HexToAddress(address).Hex())
	if result.Err != nil {
		return fmt.Errorf("positions for %s: %w", address, result.Err)
	}

	svc.logger.Info("positions assembled",
		zap.String("account", address),
		zap.Int("positions", len(result.Data)),
	)

	return printJSON(result.Data)
}
