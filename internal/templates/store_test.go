package templates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const erc20Template = `// SPDX-License-Identifier: MIT
pragma solidity ^0.8.0;

contract <TOKEN_NAME> {
    string public name = "<TOKEN_NAME>";
    string public symbol = "<TOKEN_SYMBOL>";
    uint256 public totalSupply = <TOTAL_SUPPLY>;
}
`

func TestStore(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	t.Run("add without extension", func(t *testing.T) {
		fileName, err := store.Add("ERC20", []byte(erc20Template))
		require.NoError(t, err)
		assert.Equal(t, "ERC20.sol", fileName)
	})

	t.Run("add existing fails", func(t *testing.T) {
		_, err := store.Add("ERC20.sol", []byte(erc20Template))
		assert.ErrorIs(t, err, ErrTemplateExists)
	})

	t.Run("list strips extension", func(t *testing.T) {
		names, err := store.List()
		require.NoError(t, err)
		assert.Equal(t, []string{"ERC20"}, names)
	})

	t.Run("code returns the source", func(t *testing.T) {
		code, err := store.Code("ERC20")
		require.NoError(t, err)
		assert.Equal(t, erc20Template, code)
	})

	t.Run("code of missing template", func(t *testing.T) {
		_, err := store.Code("ERC721")
		assert.ErrorIs(t, err, ErrTemplateNotFound)
	})

	t.Run("traversal names rejected", func(t *testing.T) {
		_, err := store.Code("../secrets")
		assert.Error(t, err)

		_, err = store.Add("a/b", []byte("contract X {}"))
		assert.Error(t, err)

		_, err = store.Delete("..")
		assert.Error(t, err)
	})

	t.Run("delete", func(t *testing.T) {
		fileName, err := store.Delete("ERC20")
		require.NoError(t, err)
		assert.Equal(t, "ERC20.sol", fileName)

		_, err = store.Delete("ERC20")
		assert.ErrorIs(t, err, ErrTemplateNotFound)
	})
}

func TestRender(t *testing.T) {
	rendered := Render(erc20Template, map[string]string{
		"TOKEN_NAME":   "GoldToken",
		"TOKEN_SYMBOL": "GLD",
		"TOTAL_SUPPLY": "1000000",
	})

	assert.Contains(t, rendered, "contract GoldToken {")
	assert.Contains(t, rendered, `symbol = "GLD"`)
	assert.Contains(t, rendered, "totalSupply = 1000000")
	assert.NotContains(t, rendered, "<TOKEN_NAME>")
}

func TestCanonicalName(t *testing.T) {
	name, err := CanonicalName("ERC20")
	require.NoError(t, err)
	assert.Equal(t, "ERC20.sol", name)

	name, err = CanonicalName("ERC20.sol")
	require.NoError(t, err)
	assert.Equal(t, "ERC20.sol", name)

	_, err = CanonicalName("")
	assert.Error(t, err)

	_, err = CanonicalName(".hidden")
	assert.Error(t, err)
}
