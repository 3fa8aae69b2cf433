package deployer

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"
)

// CoerceArgs converts json-decoded method arguments into the Go values the
// abi encoder expects for each input type
func CoerceArgs(method abi.Method, raw []interface{}) ([]interface{}, error) {
	if len(raw) != len(method.Inputs) {
		return nil, errors.Errorf("method %q takes %d arguments, got %d",
			method.Name, len(method.Inputs), len(raw))
	}

	args := make([]interface{}, len(raw))
	for i, input := range method.Inputs {
		arg, err := coerceArg(input.Type, raw[i])
		if err != nil {
			return nil, errors.Wrapf(err, "argument %d (%s)", i, input.Type.String())
		}
		args[i] = arg
	}
	return args, nil
}

func coerceArg(abiType abi.Type, value interface{}) (interface{}, error) {
	switch abiType.T {
	case abi.AddressTy:
		text, ok := value.(string)
		if !ok || !common.IsHexAddress(text) {
			return nil, errors.Errorf("%v is not an address", value)
		}
		return common.HexToAddress(text), nil

	case abi.UintTy, abi.IntTy:
		return coerceInteger(abiType, value)

	case abi.BoolTy:
		flag, ok := value.(bool)
		if !ok {
			return nil, errors.Errorf("%v is not a boolean", value)
		}
		return flag, nil

	case abi.StringTy:
		text, ok := value.(string)
		if !ok {
			return nil, errors.Errorf("%v is not a string", value)
		}
		return text, nil

	case abi.BytesTy:
		text, ok := value.(string)
		if !ok {
			return nil, errors.Errorf("%v is not a hex string", value)
		}
		decoded, err := hexutil.Decode(text)
		if err != nil {
			return nil, errors.Wrap(err, "invalid hex bytes")
		}
		return decoded, nil

	case abi.FixedBytesTy:
		if abiType.Size != 32 {
			return nil, errors.Errorf("unsupported argument type %s", abiType.String())
		}
		text, ok := value.(string)
		if !ok {
			return nil, errors.Errorf("%v is not a hex string", value)
		}
		decoded, err := hexutil.Decode(text)
		if err != nil || len(decoded) != 32 {
			return nil, errors.Errorf("%v is not 32 hex bytes", value)
		}
		var fixed [32]byte
		copy(fixed[:], decoded)
		return fixed, nil

	default:
		return nil, errors.Errorf("unsupported argument type %s", abiType.String())
	}
}

// json numbers arrive as float64, big values have to be passed as strings
func coerceInteger(abiType abi.Type, value interface{}) (interface{}, error) {
	number := new(big.Int)

	switch v := value.(type) {
	case float64:
		if v != float64(int64(v)) {
			return nil, errors.Errorf("%v is not an integer", v)
		}
		number.SetInt64(int64(v))
	case string:
		text := strings.TrimSpace(v)
		base := 10
		if strings.HasPrefix(text, "0x") {
			text = strings.TrimPrefix(text, "0x")
			base = 16
		}
		if _, ok := number.SetString(text, base); !ok {
			return nil, errors.Errorf("%q is not an integer", v)
		}
	default:
		return nil, errors.Errorf("%v is not an integer", value)
	}

	if abiType.T == abi.UintTy && number.Sign() < 0 {
		return nil, errors.Errorf("%s cannot be negative", number)
	}

	if !fits(number, abiType) {
		return nil, errors.Errorf("%s overflows %s", number, abiType.String())
	}

	if abiType.T == abi.IntTy {
		switch abiType.Size {
		case 8:
			return int8(number.Int64()), nil
		case 16:
			return int16(number.Int64()), nil
		case 32:
			return int32(number.Int64()), nil
		case 64:
			return number.Int64(), nil
		default:
			// the encoder takes *big.Int for every other width
			return number, nil
		}
	}

	switch abiType.Size {
	case 8:
		return uint8(number.Uint64()), nil
	case 16:
		return uint16(number.Uint64()), nil
	case 32:
		return uint32(number.Uint64()), nil
	case 64:
		return number.Uint64(), nil
	default:
		return number, nil
	}
}

// fits reports whether number lies within the value range of the intN/uintN
// type, [-2^(n-1), 2^(n-1)-1] for signed and [0, 2^n-1] for unsigned
func fits(number *big.Int, abiType abi.Type) bool {
	one := big.NewInt(1)
	if abiType.T == abi.IntTy {
		max := new(big.Int).Lsh(one, uint(abiType.Size-1))
		min := new(big.Int).Neg(max)
		max.Sub(max, one)
		return number.Cmp(min) >= 0 && number.Cmp(max) <= 0
	}
	max := new(big.Int).Lsh(one, uint(abiType.Size))
	max.Sub(max, one)
	return number.Cmp(max) <= 0
}
