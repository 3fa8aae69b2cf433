package networks

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ethService struct {
	chainID *big.Int
}

func (s *ethService) ChainId() hexutil.Big {
	return hexutil.Big(*s.chainID)
}

func newTestConnection(t *testing.T, name string, chainID uint64) *Connection {
	server := rpc.NewServer()
	t.Cleanup(server.Stop)

	err := server.RegisterName("eth", &ethService{chainID: new(big.Int).SetUint64(chainID)})
	require.NoError(t, err)

	return &Connection{
		Network: Network{Name: name, ChainID: chainID},
		ChainID: new(big.Int).SetUint64(chainID),
		Client:  ethclient.NewClient(rpc.DialInProc(server)),
	}
}

func TestActive(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		active := &Active{}

		_, _, connected := active.Get()
		assert.False(t, connected)
	})

	t.Run("swap waits for users before closing", func(t *testing.T) {
		active := &Active{}
		active.Swap(newTestConnection(t, "development", 1337))

		conn, release, connected := active.Get()
		require.True(t, connected)

		active.Swap(newTestConnection(t, "sepolia", 11155111))

		// still acquired, the old client must keep serving
		chainID, err := conn.Client.ChainID(context.Background())
		require.NoError(t, err)
		assert.Equal(t, uint64(1337), chainID.Uint64())

		current, currentRelease, connected := active.Get()
		require.True(t, connected)
		assert.Equal(t, "sepolia", current.Network.Name)
		currentRelease()

		release()

		// the old client is closed once released
		assert.Eventually(t, func() bool {
			_, err := conn.Client.ChainID(context.Background())
			return err != nil
		}, time.Second, 10*time.Millisecond)
	})
}
