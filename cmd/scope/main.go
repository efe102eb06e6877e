package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	root := &cobra.Command{
		Use:          "scope",
		Short:        "Parametric insurance read-model explorer",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")
	root.PersistentFlags().String("rpc", "", "chain RPC URL")
	root.PersistentFlags().String("catalog", "", "product catalog contract address")
	root.PersistentFlags().String("pool", "", "tranche pool contract address")
	root.PersistentFlags().String("oracle", "", "oracle router contract address")
	root.PersistentFlags().Duration("ttl", 15*time.Second, "snapshot cache TTL")
	root.PersistentFlags().Float64("staking-yield", 0, "external staking yield estimate (percent)")
	root.PersistentFlags().Int("retry-attempts", 2, "attempts per leaf chain read")
	root.PersistentFlags().Duration("retry-delay", 150*time.Millisecond, "delay between leaf read attempts")
	root.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")

	productsCmd := &cobra.Command{
		Use:   "products",
		Short: "Assemble and print all active products",
		RunE:  runProducts,
	}
	productsCmd.Flags().Bool("active-only", false, "include only active products")
	root.AddCommand(productsCmd)

	trancheCmd := &cobra.Command{
		Use:   "tranche",
		Short: "Assemble and print one tranche detail",
		RunE:  runTranche,
	}
	trancheCmd.Flags().Uint64("id", 0, "tranche id")
	root.AddCommand(trancheCmd)

	positionsCmd := &cobra.Command{
		Use:   "positions",
		Short: "Print an account's insurance and liquidity positions",
		RunE:  runPositions,
	}
	positionsCmd.Flags().String("address", "", "account address")
	root.AddCommand(positionsCmd)

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Export assembled snapshots to JSONL and/or Postgres",
		RunE:  runExport,
	}
	exportCmd.Flags().String("out", "", "output JSONL path")
	exportCmd.Flags().String("pg-dsn", "", "Postgres DSN")
	root.AddCommand(exportCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}
