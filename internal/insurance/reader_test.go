package insurance

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// stubCaller routes eth_call by method selector and answers with ABI-packed
// fixture values, so the full pack/unpack/convert path is exercised.
type stubCaller struct {
	outputs map[string][]interface{}
	errs    map[string]error
}

func (s *stubCaller) CallContract(_ context.Context, msg ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	method, err := methodBySelector(msg.Data)
	if err != nil {
		return nil, err
	}
	if callErr, ok := s.errs[method.Name]; ok {
		return nil, callErr
	}
	values, ok := s.outputs[method.Name]
	if !ok {
		return nil, fmt.Errorf("no fixture for %s", method.Name)
	}
	return method.Outputs.Pack(values...)
}

func methodBySelector(data []byte) (abi.Method, error) {
	if len(data) < 4 {
		return abi.Method{}, fmt.Errorf("short calldata")
	}
	for _, load := range []func() (abi.ABI, error){CatalogABI, PoolABI, OracleABI} {
		parsed, err := load()
		if err != nil {
			return abi.Method{}, err
		}
		for _, method := range parsed.Methods {
			if string(method.ID) == string(data[:4]) {
				return method, nil
			}
		}
	}
	return abi.Method{}, fmt.Errorf("unknown selector %x", data[:4])
}

func newStubReader(outputs map[string][]interface{}, errs map[string]error) *Reader {
	caller := &stubCaller{outputs: outputs, errs: errs}
	return NewReader(caller,
		common.HexToAddress("0x0000000000000000000000000000000000000001"),
		common.HexToAddress("0x0000000000000000000000000000000000000002"),
		common.HexToAddress("0x0000000000000000000000000000000000000003"),
	)
}

func TestActiveProductIDs(t *testing.T) {
	reader := newStubReader(map[string][]interface{}{
		"getActiveProductIds": {[]*big.Int{big.NewInt(1), big.NewInt(7)}},
	}, nil)

	ids, err := reader.ActiveProductIDs(context.Background())
	if err != nil {
		t.Fatalf("ActiveProductIDs: %v", err)
	}
	if len(ids) != 2 || ids[0] != 1 || ids[1] != 7 {
		t.Fatalf("ids = %v, want [1 7]", ids)
	}
}

func TestProduct(t *testing.T) {
	var meta [32]byte
	meta[31] = 0xab

	reader := newStubReader(map[string][]interface{}{
		"getProduct": {
			big.NewInt(3), meta, true, uint64(1_699_000_000), uint64(1_700_000_000),
			[]*big.Int{big.NewInt(10), big.NewInt(20)},
		},
	}, nil)

	raw, err := reader.Product(context.Background(), 3)
	if err != nil {
		t.Fatalf("Product: %v", err)
	}
	if raw.ProductID != 3 || !raw.Active {
		t.Fatalf("unexpected product %+v", raw)
	}
	if raw.MetadataHash != common.Hash(meta).Hex() {
		t.Fatalf("metadata hash = %s", raw.MetadataHash)
	}
	if len(raw.TrancheIDs) != 2 || raw.TrancheIDs[1] != 20 {
		t.Fatalf("tranche ids = %v", raw.TrancheIDs)
	}
}

func TestProductZeroRecordIsNotFound(t *testing.T) {
	reader := newStubReader(map[string][]interface{}{
		"getProduct": {
			big.NewInt(0), [32]byte{}, false, uint64(0), uint64(0), []*big.Int{},
		},
	}, nil)

	_, err := reader.Product(context.Background(), 99)
	if !IsNotFound(err) {
		t.Fatalf("zero record must map to NOT_FOUND, got %v", err)
	}
}

func TestTranche(t *testing.T) {
	pool := common.HexToAddress("0x00000000000000000000000000000000000000aa")
	reader := newStubReader(map[string][]interface{}{
		"getTranche": {
			big.NewInt(10), big.NewInt(3), uint8(0),
			new(big.Int).Mul(big.NewInt(95), big.NewInt(1e18)),
			uint64(30 * 24 * 3600), uint16(200),
			big.NewInt(100_000_000), big.NewInt(5_000_000_000), big.NewInt(100_000_000_000),
			big.NewInt(11), pool, true,
			[]*big.Int{big.NewInt(100), big.NewInt(101)},
		},
	}, nil)

	raw, err := reader.Tranche(context.Background(), 10)
	if err != nil {
		t.Fatalf("Tranche: %v", err)
	}
	if raw.TrancheID != 10 || raw.ProductID != 3 || raw.TriggerType != 0 {
		t.Fatalf("unexpected tranche %+v", raw)
	}
	if raw.MaturityTimestamp != 30*24*3600 || raw.PremiumRateBps != 200 {
		t.Fatalf("unexpected tranche %+v", raw)
	}
	if raw.PoolAddress != pool.Hex() {
		t.Fatalf("pool address = %s", raw.PoolAddress)
	}
	if len(raw.RoundIDs) != 2 || raw.RoundIDs[1] != 101 {
		t.Fatalf("round ids = %v", raw.RoundIDs)
	}
}

func TestRound(t *testing.T) {
	reader := newStubReader(map[string][]interface{}{
		"getRound": {
			uint8(5), uint64(1_699_000_000), uint64(1_699_500_000), uint64(1_700_000_000),
			big.NewInt(40_000_000_000), big.NewInt(100_000_000_000), big.NewInt(40_000_000_000),
			true, uint64(1_700_000_100),
		},
	}, nil)

	raw, err := reader.Round(context.Background(), 101)
	if err != nil {
		t.Fatalf("Round: %v", err)
	}
	if raw.State != 5 || !raw.TriggerOccurred || raw.SettledTime != 1_700_000_100 {
		t.Fatalf("unexpected round %+v", raw)
	}
	if raw.TotalSellerDeposits.Cmp(big.NewInt(100_000_000_000)) != 0 {
		t.Fatalf("seller deposits = %s", raw.TotalSellerDeposits)
	}
}

func TestPoolAccountingRejectsBadAddress(t *testing.T) {
	reader := newStubReader(nil, nil)
	_, err := reader.PoolAccounting(context.Background(), "not-an-address")
	if !IsNotFound(err) {
		t.Fatalf("invalid address must map to NOT_FOUND, got %v", err)
	}
}

func TestBuyerOrders(t *testing.T) {
	account := "0x00000000000000000000000000000000000000ee"
	reader := newStubReader(map[string][]interface{}{
		"getBuyerOrders": {
			[]*big.Int{big.NewInt(10), big.NewInt(30)},
			[]*big.Int{big.NewInt(101), big.NewInt(301)},
			[]*big.Int{big.NewInt(1_000_000_000), big.NewInt(500_000_000)},
			[]*big.Int{big.NewInt(20_000_000), big.NewInt(50_000_000)},
		},
	}, nil)

	orders, err := reader.BuyerOrders(context.Background(), account)
	if err != nil {
		t.Fatalf("BuyerOrders: %v", err)
	}
	if len(orders) != 2 {
		t.Fatalf("orders = %d, want 2", len(orders))
	}
	if orders[1].TrancheID != 30 || orders[1].RoundID != 301 {
		t.Fatalf("unexpected order %+v", orders[1])
	}
	if orders[0].Purchase.Cmp(big.NewInt(1_000_000_000)) != 0 {
		t.Fatalf("purchase = %s", orders[0].Purchase)
	}
}

func TestSellerDepositsLengthMismatch(t *testing.T) {
	reader := newStubReader(map[string][]interface{}{
		"getSellerDeposits": {
			[]*big.Int{big.NewInt(10), big.NewInt(30)},
			[]*big.Int{big.NewInt(101)},
			[]*big.Int{big.NewInt(1)},
			[]*big.Int{big.NewInt(1)},
		},
	}, nil)

	_, err := reader.SellerDeposits(context.Background(), "0x00000000000000000000000000000000000000ee")
	re, ok := AsReadError(err)
	if !ok || re.Kind != KindRPCError {
		t.Fatalf("mismatched arrays must be RPC_ERROR, got %v", err)
	}
}

func TestErrorClassification(t *testing.T) {
	reader := newStubReader(nil, map[string]error{
		"getRound": errors.New("execution reverted: round does not exist"),
	})
	_, err := reader.Round(context.Background(), 1)
	if !IsNotFound(err) {
		t.Fatalf("revert must classify as NOT_FOUND, got %v", err)
	}

	reader = newStubReader(nil, map[string]error{
		"getRound": context.DeadlineExceeded,
	})
	_, err = reader.Round(context.Background(), 1)
	re, ok := AsReadError(err)
	if !ok || re.Kind != KindTimeout {
		t.Fatalf("deadline must classify as TIMEOUT, got %v", err)
	}
	if !re.Retryable() {
		t.Fatalf("timeouts are retryable")
	}

	reader = newStubReader(nil, map[string]error{
		"getRound": errors.New("connection refused"),
	})
	_, err = reader.Round(context.Background(), 1)
	re, ok = AsReadError(err)
	if !ok || re.Kind != KindRPCError {
		t.Fatalf("transport failure must classify as RPC_ERROR, got %v", err)
	}
	if !re.Retryable() {
		t.Fatalf("rpc errors are retryable")
	}
}
