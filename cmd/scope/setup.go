package main

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"trancheScope/internal/assemble"
	"trancheScope/internal/chain"
	"trancheScope/internal/config"
	"trancheScope/internal/insurance"
	"trancheScope/internal/query"
	"trancheScope/internal/snapcache"
)

// services bundles everything a chain-facing command needs.
type services struct {
	cfg       config.Config
	logger    *zap.Logger
	client    *chain.Client
	assembler *assemble.Assembler
	facade    *query.Service
	chainID   uint64
}

func (s *services) close() {
	if s.client != nil {
		s.client.Close()
	}
	if s.logger != nil {
		_ = s.logger.Sync()
	}
}

func buildServices(ctx context.Context, cmd *cobra.Command) (*services, error) {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	for name, addr := range map[string]string{
		"catalog": cfg.CatalogAddress,
		"pool":    cfg.PoolAddress,
		"oracle":  cfg.OracleAddress,
	} {
		if !common.IsHexAddress(addr) {
			return nil, fmt.Errorf("invalid %s address: %s", name, addr)
		}
	}

	client, err := chain.NewClient(ctx, cfg.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("connect rpc: %w", err)
	}

	chainID, err := client.ChainID(ctx)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("get chain id: %w", err)
	}
	if !chainID.IsUint64() {
		client.Close()
		return nil, fmt.Errorf("chain id does not fit in uint64: %s", chainID)
	}

	reader := insurance.NewReader(client,
		common.HexToAddress(cfg.CatalogAddress),
		common.HexToAddress(cfg.PoolAddress),
		common.HexToAddress(cfg.OracleAddress),
	)

	assembler := assemble.New(assemble.Config{
		ChainID:         chainID.Uint64(),
		StakingYieldPct: decimal.NewFromFloat(cfg.StakingYieldPct),
		Retry: assemble.RetryPolicy{
			MaxAttempts: cfg.RetryAttempts,
			Delay:       cfg.RetryDelay,
		},
	}, reader, logger)

	facade := query.NewService(assembler, snapcache.New(), chainID.Uint64(), cfg.CacheTTL, logger)

	return &services{
		cfg:       cfg,
		logger:    logger,
		client:    client,
		assembler: assembler,
		facade:    facade,
		chainID:   chainID.Uint64(),
	}, nil
}
