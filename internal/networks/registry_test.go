package networks

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var rightRegistry = `
networks:
  - name: development
    rpc_url: http://127.0.0.1:8545
    chain_id: 1337
  - name: sepolia
    rpc_url: https://rpc.sepolia.org
    chain_id: 11155111
    explorer_url: https://sepolia.etherscan.io
`

func TestParseRegistry(t *testing.T) {
	t.Run("valid registry", func(t *testing.T) {
		registry, err := ParseRegistry([]byte(rightRegistry))
		require.NoError(t, err)

		assert.Equal(t, []string{"development", "sepolia"}, registry.Names())

		network, err := registry.Get("sepolia")
		require.NoError(t, err)
		assert.Equal(t, uint64(11155111), network.ChainID)
		assert.Equal(t, "https://sepolia.etherscan.io", network.ExplorerURL)
	})

	t.Run("unknown network", func(t *testing.T) {
		registry, err := ParseRegistry([]byte(rightRegistry))
		require.NoError(t, err)

		_, err = registry.Get("mainnet")
		assert.ErrorIs(t, err, ErrNetworkNotFound)
	})

	t.Run("missing chain id", func(t *testing.T) {
		content := `
networks:
  - name: development
    rpc_url: http://127.0.0.1:8545
`
		_, err := ParseRegistry([]byte(content))
		assert.Error(t, err)
	})

	t.Run("duplicate name", func(t *testing.T) {
		content := `
networks:
  - name: development
    rpc_url: http://127.0.0.1:8545
    chain_id: 1337
  - name: development
    rpc_url: http://127.0.0.1:8546
    chain_id: 1338
`
		_, err := ParseRegistry([]byte(content))
		assert.Error(t, err)
	})

	t.Run("empty registry", func(t *testing.T) {
		_, err := ParseRegistry([]byte("networks: []"))
		assert.Error(t, err)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		_, err := ParseRegistry([]byte("networks: ["))
		assert.Error(t, err)
	})
}

func TestLoadRegistry(t *testing.T) {
	t.Run("load from file", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "networks.yaml")

		err := os.WriteFile(path, []byte(rightRegistry), 0644)
		require.NoError(t, err)

		registry, err := LoadRegistry(path)
		require.NoError(t, err)
		assert.Len(t, registry.Names(), 2)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadRegistry("./networks.yaml")
		assert.Error(t, err)
	})
}
