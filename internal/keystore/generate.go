package keystore

import (
	"crypto/ecdsa"
	"strings"

	"github.com/cosmos/go-bip39"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
)

// GenerateKey creates a fresh private key together with a BIP-39 mnemonic
// that can recreate it. The mnemonic is only returned here, it is never
// stored.
func GenerateKey() (*ecdsa.PrivateKey, string, error) {
	entropy, err := bip39.NewEntropy(128)
	if err != nil {
		return nil, "", errors.Wrap(err, "failed to gather entropy")
	}

	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return nil, "", errors.Wrap(err, "failed to build mnemonic")
	}

	privateKey, err := KeyFromMnemonic(mnemonic)
	if err != nil {
		return nil, "", err
	}

	return privateKey, mnemonic, nil
}

// KeyFromMnemonic derives the private key from a BIP-39 mnemonic
func KeyFromMnemonic(mnemonic string) (*ecdsa.PrivateKey, error) {
	if !bip39.IsMnemonicValid(mnemonic) {
		return nil, errors.New("invalid mnemonic")
	}

	seed := bip39.NewSeed(mnemonic, "")
	privateKey, err := crypto.ToECDSA(seed[:32])
	if err != nil {
		return nil, errors.Wrap(err, "failed to derive key from mnemonic")
	}

	return privateKey, nil
}

// KeyFromHex parses a hex encoded private key, with or without 0x prefix
func KeyFromHex(privateKeyHex string) (*ecdsa.PrivateKey, error) {
	privateKeyHex = strings.TrimPrefix(privateKeyHex, "0x")
	privateKey, err := crypto.HexToECDSA(privateKeyHex)
	if err != nil {
		return nil, errors.Wrap(err, "invalid private key")
	}
	return privateKey, nil
}

// AddressOf returns the wallet address of a private key
func AddressOf(privateKey *ecdsa.PrivateKey) common.Address {
	return crypto.PubkeyToAddress(privateKey.PublicKey)
}

// KeyToHex encodes a private key as 0x prefixed hex
func KeyToHex(privateKey *ecdsa.PrivateKey) string {
	return hexutil.Encode(crypto.FromECDSA(privateKey))
}
