package assemble

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"trancheScope/internal/insurance"
	"trancheScope/internal/model"
	"trancheScope/internal/normalize"
)

// AssemblePositions resolves an account's buyer orders and seller deposits
// and decorates them into user positions. The two variant fetches run
// concurrently; per-entity lookups below them degrade to positions with
// missing round context instead of failing the call. Only both variant
// fetches failing is a hard error.
func (a *Assembler) AssemblePositions(ctx context.Context, account string) ([]model.UserPosition, error) {
	var (
		wg          sync.WaitGroup
		orders      []insurance.RawBuyerOrder
		deposits    []insurance.RawSellerDeposit
		ordersErr   error
		depositsErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		ordersErr = a.cfg.Retry.Do(ctx, func(ctx context.Context) error {
			var err error
			orders, err = a.reader.BuyerOrders(ctx, account)
			return err
		})
	}()
	go func() {
		defer wg.Done()
		depositsErr = a.cfg.Retry.Do(ctx, func(ctx context.Context) error {
			var err error
			deposits, err = a.reader.SellerDeposits(ctx, account)
			return err
		})
	}()
	wg.Wait()

	if ordersErr != nil && depositsErr != nil {
		return nil, fmt.Errorf("positions for %s: orders: %v; deposits: %w", account, ordersErr, depositsErr)
	}
	if ordersErr != nil {
		a.logger.Warn("buyer orders fetch failed", zap.String("account", account), zap.Error(ordersErr))
	}
	if depositsErr != nil {
		a.logger.Warn("seller deposits fetch failed", zap.String("account", account), zap.Error(depositsErr))
	}

	memo := newPositionMemo(a)

	positions := make([]model.UserPosition, 0, len(orders)+len(deposits))
	for _, order := range orders {
		round := memo.round(ctx, order.TrancheID, order.RoundID)
		positions = append(positions, normalize.InsurancePosition(account, order, round))
	}
	for _, deposit := range deposits {
		round := memo.round(ctx, deposit.TrancheID, deposit.RoundID)
		tranche := memo.tranche(ctx, deposit.TrancheID)
		nav := decimal.NewFromInt(1)
		if tranche != nil {
			if pool := memo.pool(ctx, tranche.PoolAddress); pool != nil {
				nav = pool.NavPerShare
			}
		}
		positions = append(positions, normalize.LiquidityPosition(account, deposit, round, tranche, nav))
	}
	return positions, nil
}

// positionMemo deduplicates the per-entity lookups behind a positions call.
// All lookups are best-effort: a failed read memoizes nil so siblings do not
// re-pay the retry budget.
type positionMemo struct {
	a        *Assembler
	rounds   map[uint64]*model.Round
	tranches map[uint64]*model.Tranche
	pools    map[string]*model.PoolAccounting
}

func newPositionMemo(a *Assembler) *positionMemo {
	return &positionMemo{
		a:        a,
		rounds:   make(map[uint64]*model.Round),
		tranches: make(map[uint64]*model.Tranche),
		pools:    make(map[string]*model.PoolAccounting),
	}
}

func (m *positionMemo) round(ctx context.Context, trancheID, roundID uint64) *model.Round {
	if cached, ok := m.rounds[roundID]; ok {
		return cached
	}
	var raw insurance.RawRound
	err := m.a.cfg.Retry.Do(ctx, func(ctx context.Context) error {
		var err error
		raw, err = m.a.reader.Round(ctx, roundID)
		return err
	})
	if err != nil {
		m.a.logger.Warn("position round fetch failed", zap.Uint64("round_id", roundID), zap.Error(err))
		m.rounds[roundID] = nil
		return nil
	}
	normalized := normalize.Round(roundID, trancheID, raw)
	m.rounds[roundID] = &normalized
	return &normalized
}

func (m *positionMemo) tranche(ctx context.Context, trancheID uint64) *model.Tranche {
	if cached, ok := m.tranches[trancheID]; ok {
		return cached
	}
	var raw insurance.RawTranche
	err := m.a.cfg.Retry.Do(ctx, func(ctx context.Context) error {
		var err error
		raw, err = m.a.reader.Tranche(ctx, trancheID)
		return err
	})
	if err != nil {
		m.a.logger.Warn("position tranche fetch failed", zap.Uint64("tranche_id", trancheID), zap.Error(err))
		m.tranches[trancheID] = nil
		return nil
	}
	tranche, err := normalize.Tranche(raw)
	if err != nil {
		m.a.logger.Warn("position tranche invalid", zap.Uint64("tranche_id", trancheID), zap.Error(err))
		m.tranches[trancheID] = nil
		return nil
	}
	m.tranches[trancheID] = &tranche
	return &tranche
}

func (m *positionMemo) pool(ctx context.Context, poolAddress string) *model.PoolAccounting {
	if poolAddress == "" || isZeroAddress(poolAddress) {
		return nil
	}
	if cached, ok := m.pools[poolAddress]; ok {
		return cached
	}
	var raw insurance.RawPoolAccounting
	err := m.a.cfg.Retry.Do(ctx, func(ctx context.Context) error {
		var err error
		raw, err = m.a.reader.PoolAccounting(ctx, poolAddress)
		return err
	})
	if err != nil {
		m.a.logger.Warn("position pool fetch failed", zap.String("pool", poolAddress), zap.Error(err))
		m.pools[poolAddress] = nil
		return nil
	}
	normalized := normalize.PoolAccounting(raw)
	m.pools[poolAddress] = &normalized
	return &normalized
}
