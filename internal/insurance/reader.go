package insurance

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// Caller is the transport the reader needs: a single eth_call surface.
type Caller interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

// Reader issues point queries against the insurance contract surface. It is
// stateless: every method is one eth_call returning a raw tuple or a typed
// ReadError. No retries and no aggregation happen here.
type Reader struct {
	caller  Caller
	catalog common.Address
	pool    common.Address
	oracle  common.Address
}

// NewReader builds a Reader over the three contract addresses.
func NewReader(caller Caller, catalog, pool, oracle common.Address) *Reader {
	return &Reader{caller: caller, catalog: catalog, pool: pool, oracle: oracle}
}

func (r *Reader) call(ctx context.Context, to common.Address, parsed abi.ABI, method string, args ...interface{}) ([]interface{}, *ReadError) {
	data, err := parsed.Pack(method, args...)
	if err != nil {
		return nil, &ReadError{Kind: KindRPCError, Op: method, Detail: fmt.Sprintf("pack: %v", err)}
	}
	msg := ethereum.CallMsg{To: &to, Data: data}
	resp, err := r.caller.CallContract(ctx, msg, nil)
	if err != nil {
		return nil, classify(method, err)
	}
	values, err := parsed.Unpack(method, resp)
	if err != nil {
		return nil, &ReadError{Kind: KindRPCError, Op: method, Detail: fmt.Sprintf("unpack: %v", err)}
	}
	return values, nil
}

func malformed(op string, err error) *ReadError {
	return &ReadError{Kind: KindRPCError, Op: op, Detail: fmt.Sprintf("malformed response: %v", err)}
}

// ActiveProductIDs returns the catalog's active product id list.
func (r *Reader) ActiveProductIDs(ctx context.Context) ([]uint64, error) {
	parsed, err := CatalogABI()
	if err != nil {
		return nil, err
	}
	values, rerr := r.call(ctx, r.catalog, parsed, "getActiveProductIds")
	if rerr != nil {
		return nil, rerr
	}
	ids, err := asUint64Slice(values[0])
	if err != nil {
		return nil, malformed("getActiveProductIds", err)
	}
	return ids, nil
}

// Product returns the raw product record for id.
func (r *Reader) Product(ctx context.Context, id uint64) (RawProduct, error) {
	const op = "getProduct"
	parsed, err := CatalogABI()
	if err != nil {
		return RawProduct{}, err
	}
	values, rerr := r.call(ctx, r.catalog, parsed, op, new(big.Int).SetUint64(id))
	if rerr != nil {
		return RawProduct{}, rerr
	}

	var raw RawProduct
	if raw.ProductID, err = asUint64(values[0]); err != nil {
		return RawProduct{}, malformed(op, err)
	}
	if raw.ProductID == 0 {
		// The catalog returns a zero record for unregistered ids.
		return RawProduct{}, notFound(op, fmt.Sprintf("product %d not registered", id))
	}
	if raw.MetadataHash, err = asBytes32Hex(values[1]); err != nil {
		return RawProduct{}, malformed(op, err)
	}
	if raw.Active, err = asBool(values[2]); err != nil {
		return RawProduct{}, malformed(op, err)
	}
	if raw.CreatedAt, err = asUint64(values[3]); err != nil {
		return RawProduct{}, malformed(op, err)
	}
	if raw.UpdatedAt, err = asUint64(values[4]); err != nil {
		return RawProduct{}, malformed(op, err)
	}
	if raw.TrancheIDs, err = asUint64Slice(values[5]); err != nil {
		return RawProduct{}, malformed(op, err)
	}
	return raw, nil
}

// Tranche returns the raw tranche spec for id.
func (r *Reader) Tranche(ctx context.Context, id uint64) (RawTranche, error) {
	const op = "getTranche"
	parsed, err := CatalogABI()
	if err != nil {
		return RawTranche{}, err
	}
	values, rerr := r.call(ctx, r.catalog, parsed, op, new(big.Int).SetUint64(id))
	if rerr != nil {
		return RawTranche{}, rerr
	}

	var raw RawTranche
	if raw.TrancheID, err = asUint64(values[0]); err != nil {
		return RawTranche{}, malformed(op, err)
	}
	if raw.TrancheID == 0 {
		return RawTranche{}, notFound(op, fmt.Sprintf("tranche %d not registered", id))
	}
	if raw.ProductID, err = asUint64(values[1]); err != nil {
		return RawTranche{}, malformed(op, err)
	}
	if raw.TriggerType, err = asUint8(values[2]); err != nil {
		return RawTranche{}, malformed(op, err)
	}
	if raw.Threshold, err = asBigInt(values[3]); err != nil {
		return RawTranche{}, malformed(op, err)
	}
	if raw.MaturityTimestamp, err = asUint64(values[4]); err != nil {
		return RawTranche{}, malformed(op, err)
	}
	if raw.PremiumRateBps, err = asUint16(values[5]); err != nil {
		return RawTranche{}, malformed(op, err)
	}
	if raw.PerAccountMin, err = asBigInt(values[6]); err != nil {
		return RawTranche{}, malformed(op, err)
	}
	if raw.PerAccountMax, err = asBigInt(values[7]); err != nil {
		return RawTranche{}, malformed(op, err)
	}
	if raw.TrancheCap, err = asBigInt(values[8]); err != nil {
		return RawTranche{}, malformed(op, err)
	}
	if raw.OracleRouteID, err = asUint64(values[9]); err != nil {
		return RawTranche{}, malformed(op, err)
	}
	poolAddr, err := asAddress(values[10])
	if err != nil {
		return RawTranche{}, malformed(op, err)
	}
	raw.PoolAddress = poolAddr.Hex()
	if raw.Active, err = asBool(values[11]); err != nil {
		return RawTranche{}, malformed(op, err)
	}
	if raw.RoundIDs, err = asUint64Slice(values[12]); err != nil {
		return RawTranche{}, malformed(op, err)
	}
	return raw, nil
}

// Round returns the raw round record for id.
func (r *Reader) Round(ctx context.Context, id uint64) (RawRound, error) {
	const op = "getRound"
	parsed, err := PoolABI()
	if err != nil {
		return RawRound{}, err
	}
	values, rerr := r.call(ctx, r.pool, parsed, op, new(big.Int).SetUint64(id))
	if rerr != nil {
		return RawRound{}, rerr
	}

	var raw RawRound
	if raw.State, err = asUint8(values[0]); err != nil {
		return RawRound{}, malformed(op, err)
	}
	if raw.StartTime, err = asUint64(values[1]); err != nil {
		return RawRound{}, malformed(op, err)
	}
	if raw.EndTime, err = asUint64(values[2]); err != nil {
		return RawRound{}, malformed(op, err)
	}
	if raw.MaturityTime, err = asUint64(values[3]); err != nil {
		return RawRound{}, malformed(op, err)
	}
	if raw.TotalBuyerPurchases, err = asBigInt(values[4]); err != nil {
		return RawRound{}, malformed(op, err)
	}
	if raw.TotalSellerDeposits, err = asBigInt(values[5]); err != nil {
		return RawRound{}, malformed(op, err)
	}
	if raw.MatchedAmount, err = asBigInt(values[6]); err != nil {
		return RawRound{}, malformed(op, err)
	}
	if raw.TriggerOccurred, err = asBool(values[7]); err != nil {
		return RawRound{}, malformed(op, err)
	}
	if raw.SettledTime, err = asUint64(values[8]); err != nil {
		return RawRound{}, malformed(op, err)
	}
	return raw, nil
}

// PoolAccounting returns the raw accounting snapshot for a pool address.
func (r *Reader) PoolAccounting(ctx context.Context, poolAddress string) (RawPoolAccounting, error) {
	const op = "getPoolAccounting"
	if !common.IsHexAddress(poolAddress) {
		return RawPoolAccounting{}, notFound(op, fmt.Sprintf("invalid pool address %q", poolAddress))
	}
	parsed, err := PoolABI()
	if err != nil {
		return RawPoolAccounting{}, err
	}
	values, rerr := r.call(ctx, r.pool, parsed, op, common.HexToAddress(poolAddress))
	if rerr != nil {
		return RawPoolAccounting{}, rerr
	}

	raw := RawPoolAccounting{PoolAddress: common.HexToAddress(poolAddress).Hex()}
	if raw.TotalAssets, err = asBigInt(values[0]); err != nil {
		return RawPoolAccounting{}, malformed(op, err)
	}
	if raw.TotalShares, err = asBigInt(values[1]); err != nil {
		return RawPoolAccounting{}, malformed(op, err)
	}
	if raw.LockedAssets, err = asBigInt(values[2]); err != nil {
		return RawPoolAccounting{}, malformed(op, err)
	}
	if raw.PremiumReserve, err = asBigInt(values[3]); err != nil {
		return RawPoolAccounting{}, malformed(op, err)
	}
	if raw.NavPerShare, err = asBigInt(values[4]); err != nil {
		return RawPoolAccounting{}, malformed(op, err)
	}
	return raw, nil
}

// Price returns the oracle price for a route.
func (r *Reader) Price(ctx context.Context, routeID uint64) (RawPrice, error) {
	const op = "getPrice"
	parsed, err := OracleABI()
	if err != nil {
		return RawPrice{}, err
	}
	values, rerr := r.call(ctx, r.oracle, parsed, op, new(big.Int).SetUint64(routeID))
	if rerr != nil {
		return RawPrice{}, rerr
	}

	raw := RawPrice{RouteID: routeID}
	if raw.Price, err = asBigInt(values[0]); err != nil {
		return RawPrice{}, malformed(op, err)
	}
	if raw.Timestamp, err = asUint64(values[1]); err != nil {
		return RawPrice{}, malformed(op, err)
	}
	return raw, nil
}

// BuyerOrders returns the account's insurance purchases across rounds.
func (r *Reader) BuyerOrders(ctx context.Context, account string) ([]RawBuyerOrder, error) {
	const op = "getBuyerOrders"
	trancheIDs, roundIDs, amounts, extras, err := r.accountArrays(ctx, op, account)
	if err != nil {
		return nil, err
	}

	orders := make([]RawBuyerOrder, 0, len(trancheIDs))
	for i := range trancheIDs {
		orders = append(orders, RawBuyerOrder{
			TrancheID:   trancheIDs[i],
			RoundID:     roundIDs[i],
			Purchase:    amounts[i],
			PremiumPaid: extras[i],
		})
	}
	return orders, nil
}

// SellerDeposits returns the account's collateral deposits across rounds.
func (r *Reader) SellerDeposits(ctx context.Context, account string) ([]RawSellerDeposit, error) {
	const op = "getSellerDeposits"
	trancheIDs, roundIDs, amounts, extras, err := r.accountArrays(ctx, op, account)
	if err != nil {
		return nil, err
	}

	deposits := make([]RawSellerDeposit, 0, len(trancheIDs))
	for i := range trancheIDs {
		deposits = append(deposits, RawSellerDeposit{
			TrancheID:    trancheIDs[i],
			RoundID:      roundIDs[i],
			Collateral:   amounts[i],
			SharesMinted: extras[i],
		})
	}
	return deposits, nil
}

// accountArrays handles the shared parallel-array layout of the two account
// position queries.
func (r *Reader) accountArrays(ctx context.Context, op, account string) ([]uint64, []uint64, []*big.Int, []*big.Int, error) {
	if !common.IsHexAddress(account) {
		return nil, nil, nil, nil, notFound(op, fmt.Sprintf("invalid account address %q", account))
	}
	parsed, err := PoolABI()
	if err != nil {
		return nil, nil, nil, nil, err
	}
	values, rerr := r.call(ctx, r.pool, parsed, op, common.HexToAddress(account))
	if rerr != nil {
		return nil, nil, nil, nil, rerr
	}

	trancheIDs, err := asUint64Slice(values[0])
	if err != nil {
		return nil, nil, nil, nil, malformed(op, err)
	}
	roundIDs, err := asUint64Slice(values[1])
	if err != nil {
		return nil, nil, nil, nil, malformed(op, err)
	}
	amounts, err := asBigIntSlice(values[2])
	if err != nil {
		return nil, nil, nil, nil, malformed(op, err)
	}
	extras, err := asBigIntSlice(values[3])
	if err != nil {
		return nil, nil, nil, nil, malformed(op, err)
	}
	if len(roundIDs) != len(trancheIDs) || len(amounts) != len(trancheIDs) || len(extras) != len(trancheIDs) {
		return nil, nil, nil, nil, malformed(op, fmt.Errorf("array length mismatch"))
	}
	return trancheIDs, roundIDs, amounts, extras, nil
}
