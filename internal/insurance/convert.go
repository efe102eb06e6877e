package insurance

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

func asBigInt(value interface{}) (*big.Int, error) {
	switch v := value.(type) {
	case *big.Int:
		return new(big.Int).Set(v), nil
	case big.Int:
		return new(big.Int).Set(&v), nil
	case uint8:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint16:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint32:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint64:
		return new(big.Int).SetUint64(v), nil
	default:
		return nil, fmt.Errorf("unsupported int type %T", value)
	}
}

func asUint64(value interface{}) (uint64, error) {
	switch v := value.(type) {
	case uint64:
		return v, nil
	case uint32:
		return uint64(v), nil
	case uint16:
		return uint64(v), nil
	case uint8:
		return uint64(v), nil
	case *big.Int:
		if !v.IsUint64() {
			return 0, fmt.Errorf("value does not fit in uint64: %s", v)
		}
		return v.Uint64(), nil
	default:
		return 0, fmt.Errorf("unsupported uint64 type %T", value)
	}
}

func asUint16(value interface{}) (uint16, error) {
	val, err := asUint64(value)
	if err != nil {
		return 0, err
	}
	if val > 0xFFFF {
		return 0, fmt.Errorf("value does not fit in uint16: %d", val)
	}
	return uint16(val), nil
}

func asUint8(value interface{}) (uint8, error) {
	val, err := asUint64(value)
	if err != nil {
		return 0, err
	}
	if val > 0xFF {
		return 0, fmt.Errorf("value does not fit in uint8: %d", val)
	}
	return uint8(val), nil
}

func asBool(value interface{}) (bool, error) {
	v, ok := value.(bool)
	if !ok {
		return false, fmt.Errorf("unsupported bool type %T", value)
	}
	return v, nil
}

func asAddress(value interface{}) (common.Address, error) {
	switch v := value.(type) {
	case common.Address:
		return v, nil
	case *common.Address:
		return *v, nil
	default:
		return common.Address{}, fmt.Errorf("unsupported address type %T", value)
	}
}

func asBytes32Hex(value interface{}) (string, error) {
	switch v := value.(type) {
	case [32]byte:
		return common.Hash(v).Hex(), nil
	case common.Hash:
		return v.Hex(), nil
	default:
		return "", fmt.Errorf("unsupported bytes32 type %T", value)
	}
}

func asUint64Slice(value interface{}) ([]uint64, error) {
	raw, ok := value.([]*big.Int)
	if !ok {
		return nil, fmt.Errorf("unsupported uint256[] type %T", value)
	}
	out := make([]uint64, 0, len(raw))
	for _, item := range raw {
		if item == nil || !item.IsUint64() {
			return nil, fmt.Errorf("array element does not fit in uint64: %v", item)
		}
		out = append(out, item.Uint64())
	}
	return out, nil
}

func asBigIntSlice(value interface{}) ([]*big.Int, error) {
	raw, ok := value.([]*big.Int)
	if !ok {
		return nil, fmt.Errorf("unsupported uint256[] type %T", value)
	}
	out := make([]*big.Int, 0, len(raw))
	for _, item := range raw {
		if item == nil {
			return nil, fmt.Errorf("nil array element")
		}
		out = append(out, new(big.Int).Set(item))
	}
	return out, nil
}
