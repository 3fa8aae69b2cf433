package keystore

import (
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	privateKey, err := crypto.GenerateKey()
	require.NoError(t, err)

	t.Run("save and load roundtrip", func(t *testing.T) {
		address, err := store.Save("deployer", "secret", privateKey)
		require.NoError(t, err)
		assert.Equal(t, crypto.PubkeyToAddress(privateKey.PublicKey), address)

		account, err := store.Load("deployer", "secret")
		require.NoError(t, err)
		assert.Equal(t, "deployer", account.Name)
		assert.Equal(t, address, account.Address)
	})

	t.Run("save existing name fails", func(t *testing.T) {
		_, err := store.Save("deployer", "secret", privateKey)
		assert.ErrorIs(t, err, ErrAccountExists)
	})

	t.Run("load with wrong password fails", func(t *testing.T) {
		_, err := store.Load("deployer", "wrong")
		assert.ErrorIs(t, err, ErrWrongPassword)
	})

	t.Run("load missing account fails", func(t *testing.T) {
		_, err := store.Load("ghost", "secret")
		assert.ErrorIs(t, err, ErrAccountNotFound)
	})

	t.Run("list returns stored names", func(t *testing.T) {
		names, err := store.List()
		require.NoError(t, err)
		assert.Equal(t, []string{"deployer"}, names)
	})

	t.Run("invalid name rejected", func(t *testing.T) {
		_, err := store.Save("../escape", "secret", privateKey)
		assert.Error(t, err)

		_, err = store.Load("a/b", "secret")
		assert.Error(t, err)
	})

	t.Run("delete requires the password", func(t *testing.T) {
		err := store.Delete("deployer", "wrong")
		assert.ErrorIs(t, err, ErrWrongPassword)

		err = store.Delete("deployer", "secret")
		require.NoError(t, err)
		assert.False(t, store.Exists("deployer"))
	})
}

func TestGenerateKey(t *testing.T) {
	privateKey, mnemonic, err := GenerateKey()
	require.NoError(t, err)
	assert.NotEmpty(t, mnemonic)

	recovered, err := KeyFromMnemonic(mnemonic)
	require.NoError(t, err)
	assert.Equal(t, crypto.FromECDSA(privateKey), crypto.FromECDSA(recovered))
}

func TestKeyFromMnemonicInvalid(t *testing.T) {
	_, err := KeyFromMnemonic("definitely not a mnemonic")
	assert.Error(t, err)
}

func TestKeyFromHex(t *testing.T) {
	privateKey, err := crypto.GenerateKey()
	require.NoError(t, err)

	parsed, err := KeyFromHex(KeyToHex(privateKey))
	require.NoError(t, err)
	assert.Equal(t, crypto.FromECDSA(privateKey), crypto.FromECDSA(parsed))

	_, err = KeyFromHex("0xzz")
	assert.Error(t, err)
}

func TestSession(t *testing.T) {
	session := Session{}

	_, active := session.Get()
	assert.False(t, active)

	session.Set(&Account{Name: "deployer"})
	account, active := session.Get()
	assert.True(t, active)
	assert.Equal(t, "deployer", account.Name)

	session.Forget("other")
	_, active = session.Get()
	assert.True(t, active)

	session.Forget("deployer")
	_, active = session.Get()
	assert.False(t, active)
}
