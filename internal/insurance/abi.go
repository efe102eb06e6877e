package insurance

import (
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

const catalogABIJSON = `[
  {
    "inputs": [],
    "name": "getActiveProductIds",
    "outputs": [{"internalType": "uint256[]", "name": "", "type": "uint256[]"}],
    "stateMutability": "view",
    "type": "function"
  },
  {
    "inputs": [{"internalType": "uint256", "name": "productId", "type": "uint256"}],
    "name": "getProduct",
    "outputs": [
      {"internalType": "uint256", "name": "productId", "type": "uint256"},
      {"internalType": "bytes32", "name": "metadataHash", "type": "bytes32"},
      {"internalType": "bool", "name": "active", "type": "bool"},
      {"internalType": "uint64", "name": "createdAt", "type": "uint64"},
      {"internalType": "uint64", "name": "updatedAt", "type": "uint64"},
      {"internalType": "uint256[]", "name": "trancheIds", "type": "uint256[]"}
    ],
    "stateMutability": "view",
    "type": "function"
  },
  {
    "inputs": [{"internalType": "uint256", "name": "trancheId", "type": "uint256"}],
    "name": "getTranche",
    "outputs": [
      {"internalType": "uint256", "name": "trancheId", "type": "uint256"},
      {"internalType": "uint256", "name": "productId", "type": "uint256"},
      {"internalType": "uint8", "name": "triggerType", "type": "uint8"},
      {"internalType": "uint256", "name": "threshold", "type": "uint256"},
      {"internalType": "uint64", "name": "maturityTimestamp", "type": "uint64"},
      {"internalType": "uint16", "name": "premiumRateBps", "type": "uint16"},
      {"internalType": "uint256", "name": "perAccountMin", "type": "uint256"},
      {"internalType": "uint256", "name": "perAccountMax", "type": "uint256"},
      {"internalType": "uint256", "name": "trancheCap", "type": "uint256"},
      {"internalType": "uint256", "name": "oracleRouteId", "type": "uint256"},
      {"internalType": "address", "name": "pool", "type": "address"},
      {"internalType": "bool", "name": "active", "type": "bool"},
      {"internalType": "uint256[]", "name": "roundIds", "type": "uint256[]"}
    ],
    "stateMutability": "view",
    "type": "function"
  }
]`

const poolABIJSON = `[
  {
    "inputs": [{"internalType": "uint256", "name": "roundId", "type": "uint256"}],
    "name": "getRound",
    "outputs": [
      {"internalType": "uint8", "name": "state", "type": "uint8"},
      {"internalType": "uint64", "name": "startTime", "type": "uint64"},
      {"internalType": "uint64", "name": "endTime", "type": "uint64"},
      {"internalType": "uint64", "name": "maturityTime", "type": "uint64"},
      {"internalType": "uint256", "name": "totalBuyerPurchases", "type": "uint256"},
      {"internalType": "uint256", "name": "totalSellerDeposits", "type": "uint256"},
      {"internalType": "uint256", "name": "matchedAmount", "type": "uint256"},
      {"internalType": "bool", "name": "triggerOccurred", "type": "bool"},
      {"internalType": "uint64", "name": "settledTime", "type": "uint64"}
    ],
    "stateMutability": "view",
    "type": "function"
  },
  {
    "inputs": [{"internalType": "address", "name": "pool", "type": "address"}],
    "name": "getPoolAccounting",
    "outputs": [
      {"internalType": "uint256", "name": "totalAssets", "type": "uint256"},
      {"internalType": "uint256", "name": "totalShares", "type": "uint256"},
      {"internalType": "uint256", "name": "lockedAssets", "type": "uint256"},
      {"internalType": "uint256", "name": "premiumReserve", "type": "uint256"},
      {"internalType": "uint256", "name": "navPerShare", "type": "uint256"}
    ],
    "stateMutability": "view",
    "type": "function"
  },
  {
    "inputs": [{"internalType": "address", "name": "account", "type": "address"}],
    "name": "getBuyerOrders",
    "outputs": [
      {"internalType": "uint256[]", "name": "trancheIds", "type": "uint256[]"},
      {"internalType": "uint256[]", "name": "roundIds", "type": "uint256[]"},
      {"internalType": "uint256[]", "name": "purchases", "type": "uint256[]"},
      {"internalType": "uint256[]", "name": "premiumsPaid", "type": "uint256[]"}
    ],
    "stateMutability": "view",
    "type": "function"
  },
  {
    "inputs": [{"internalType": "address", "name": "account", "type": "address"}],
    "name": "getSellerDeposits",
    "outputs": [
      {"internalType": "uint256[]", "name": "trancheIds", "type": "uint256[]"},
      {"internalType": "uint256[]", "name": "roundIds", "type": "uint256[]"},
      {"internalType": "uint256[]", "name": "collaterals", "type": "uint256[]"},
      {"internalType": "uint256[]", "name": "sharesMinted", "type": "uint256[]"}
    ],
    "stateMutability": "view",
    "type": "function"
  }
]`

const oracleABIJSON = `[
  {
    "inputs": [{"internalType": "uint256", "name": "routeId", "type": "uint256"}],
    "name": "getPrice",
    "outputs": [
      {"internalType": "uint256", "name": "price", "type": "uint256"},
      {"internalType": "uint64", "name": "timestamp", "type": "uint64"}
    ],
    "stateMutability": "view",
    "type": "function"
  }
]`

var (
	catalogABI     abi.ABI
	catalogABIOnce sync.Once
	catalogABIErr  error

	poolABI     abi.ABI
	poolABIOnce sync.Once
	poolABIErr  error

	oracleABI     abi.ABI
	oracleABIOnce sync.Once
	oracleABIErr  error
)

// CatalogABI returns the parsed product catalog ABI.
func CatalogABI() (abi.ABI, error) {
	catalogABIOnce.Do(func() {
		catalogABI, catalogABIErr = abi.JSON(strings.NewReader(catalogABIJSON))
	})
	return catalogABI, catalogABIErr
}

// PoolABI returns the parsed tranche pool ABI.
func PoolABI() (abi.ABI, error) {
	poolABIOnce.Do(func() {
		poolABI, poolABIErr = abi.JSON(strings.NewReader(poolABIJSON))
	})
	return poolABI, poolABIErr
}

// OracleABI returns the parsed oracle router ABI.
func OracleABI() (abi.ABI, error) {
	oracleABIOnce.Do(func() {
		oracleABI, oracleABIErr = abi.JSON(strings.NewReader(oracleABIJSON))
	})
	return oracleABI, oracleABIErr
}
