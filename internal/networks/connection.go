package networks

import (
	"context"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/pkg/errors"
)

// ErrNotConnected returned when no network connection is active
var ErrNotConnected = errors.New("not connected to any network")

// Connection is an established client against one configured network
type Connection struct {
	Network Network
	ChainID *big.Int
	Client  *ethclient.Client

	users sync.WaitGroup
}

// Connect dials the network RPC endpoint and verifies the chain id it
// reports matches the configured one, so a misconfigured registry entry
// cannot silently deploy to the wrong chain.
func Connect(ctx context.Context, network Network) (*Connection, error) {
	client, err := ethclient.DialContext(ctx, network.RPCURL)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to dial %q", network.RPCURL)
	}

	chainID, err := client.ChainID(ctx)
	if err != nil {
		client.Close()
		return nil, errors.Wrapf(err, "failed to get chain id from %q", network.RPCURL)
	}

	if chainID.Uint64() != network.ChainID {
		client.Close()
		return nil, errors.Errorf("network %q reports chain id %d, configured %d",
			network.Name, chainID.Uint64(), network.ChainID)
	}

	return &Connection{
		Network: network,
		ChainID: chainID,
		Client:  client,
	}, nil
}

// Close closes the underlying client
func (c *Connection) Close() {
	c.Client.Close()
}

// Active guards the single active connection of the process
type Active struct {
	mu   sync.RWMutex
	conn *Connection
}

// Get returns the active connection if one is set. The caller must invoke
// the returned release once done with the connection, so a concurrent Swap
// cannot close the client out from under a request still using it.
func (a *Active) Get() (*Connection, func(), bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.conn == nil {
		return nil, nil, false
	}
	conn := a.conn
	conn.users.Add(1)
	return conn, func() { conn.users.Done() }, true
}

// Swap replaces the active connection. The previous client is closed in the
// background once its remaining users have released it.
func (a *Active) Swap(conn *Connection) {
	a.mu.Lock()
	old := a.conn
	a.conn = conn
	a.mu.Unlock()

	if old != nil {
		go func() {
			old.users.Wait()
			old.Close()
		}()
	}
}
