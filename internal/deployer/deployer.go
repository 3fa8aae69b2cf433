// Package deployer signs and submits contract transactions against the
// active network connection
package deployer

import (
	"context"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/sethvargo/go-retry"

	"github.com/Jeevan-J/smart-contract-deployer/internal/keystore"
	"github.com/Jeevan-J/smart-contract-deployer/internal/networks"
)

const receiptPollInterval = 2 * time.Second

// Deployer submits transactions over one connection and waits for receipts
type Deployer struct {
	conn    *networks.Connection
	timeout time.Duration
}

// DeployResult describes a mined contract-creation transaction
type DeployResult struct {
	Address common.Address
	TxHash  common.Hash
	GasUsed uint64
}

// TxResult describes a mined contract-method transaction
type TxResult struct {
	TxHash  common.Hash
	Status  uint64
	GasUsed uint64
}

// New creates a deployer against the given connection
func New(conn *networks.Connection, timeout time.Duration) *Deployer {
	return &Deployer{conn: conn, timeout: timeout}
}

// ParseABI parses a json ABI definition
func ParseABI(abiJSON []byte) (abi.ABI, error) {
	parsed, err := abi.JSON(strings.NewReader(string(abiJSON)))
	if err != nil {
		return abi.ABI{}, errors.Wrap(err, "failed to parse contract abi")
	}
	return parsed, nil
}

// Deploy signs a contract-creation transaction with the account and waits
// until it is mined. Templates carry their parameters in the rendered
// source, so creation takes no constructor arguments.
func (d *Deployer) Deploy(ctx context.Context, account *keystore.Account, contractABI abi.ABI, bytecode []byte, gasLimit uint64) (DeployResult, error) {
	opts, err := bind.NewKeyedTransactorWithChainID(account.PrivateKey, d.conn.ChainID)
	if err != nil {
		return DeployResult{}, errors.Wrap(err, "failed to build transactor")
	}
	opts.Context = ctx
	opts.GasLimit = gasLimit

	address, tx, _, err := bind.DeployContract(opts, contractABI, bytecode, d.conn.Client)
	if err != nil {
		return DeployResult{}, errors.Wrap(err, "failed to send deployment transaction")
	}

	log.Info().
		Str("network", d.conn.Network.Name).
		Str("tx", tx.Hash().Hex()).
		Str("address", address.Hex()).
		Msg("deployment transaction sent")

	receipt, err := d.waitReceipt(ctx, tx.Hash())
	if err != nil {
		return DeployResult{}, err
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return DeployResult{}, errors.Errorf("deployment transaction %s reverted", tx.Hash().Hex())
	}

	return DeployResult{
		Address: receipt.ContractAddress,
		TxHash:  tx.Hash(),
		GasUsed: receipt.GasUsed,
	}, nil
}

// Transact signs and submits a state-mutating method call and waits until
// it is mined
func (d *Deployer) Transact(ctx context.Context, account *keystore.Account, contractABI abi.ABI, address common.Address, method string, args []interface{}) (TxResult, error) {
	opts, err := bind.NewKeyedTransactorWithChainID(account.PrivateKey, d.conn.ChainID)
	if err != nil {
		return TxResult{}, errors.Wrap(err, "failed to build transactor")
	}
	opts.Context = ctx

	contract := bind.NewBoundContract(address, contractABI, d.conn.Client, d.conn.Client, d.conn.Client)
	tx, err := contract.Transact(opts, method, args...)
	if err != nil {
		return TxResult{}, errors.Wrapf(err, "failed to send %q transaction", method)
	}

	receipt, err := d.waitReceipt(ctx, tx.Hash())
	if err != nil {
		return TxResult{}, err
	}

	return TxResult{
		TxHash:  tx.Hash(),
		Status:  receipt.Status,
		GasUsed: receipt.GasUsed,
	}, nil
}

// Call executes a view or pure method and returns the decoded outputs
func (d *Deployer) Call(ctx context.Context, contractABI abi.ABI, address common.Address, method string, args []interface{}) ([]interface{}, error) {
	contract := bind.NewBoundContract(address, contractABI, d.conn.Client, d.conn.Client, d.conn.Client)

	var out []interface{}
	err := contract.Call(&bind.CallOpts{Context: ctx}, &out, method, args...)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to call %q", method)
	}
	return out, nil
}

// IsReadOnly reports whether the method does not mutate chain state
func IsReadOnly(method abi.Method) bool {
	return method.StateMutability == "view" || method.StateMutability == "pure"
}

func (d *Deployer) waitReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	var receipt *types.Receipt

	backoff := retry.WithMaxDuration(d.timeout, retry.NewConstant(receiptPollInterval))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		var err error
		receipt, err = d.conn.Client.TransactionReceipt(ctx, txHash)
		if errors.Is(err, ethereum.NotFound) {
			log.Debug().Str("tx", txHash.Hex()).Msg("transaction not mined yet")
			return retry.RetryableError(err)
		}
		if err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "timed out waiting for transaction %s", txHash.Hex())
	}

	return receipt, nil
}
