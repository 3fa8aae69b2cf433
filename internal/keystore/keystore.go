// Package keystore manages named, password-encrypted wallet accounts on disk
package keystore

import (
	"crypto/ecdsa"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	gethkeystore "github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

var (
	// ErrAccountNotFound returned when no keystore file exists for the name
	ErrAccountNotFound = errors.New("account not found")
	// ErrAccountExists returned when saving over an existing keystore file
	ErrAccountExists = errors.New("account already exists")
	// ErrWrongPassword returned when the keystore file cannot be decrypted
	ErrWrongPassword = errors.New("could not decrypt account with given password")
)

var accountNameRegexp = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]*$`)

// Account is a decrypted wallet account
type Account struct {
	Name       string
	Address    common.Address
	PrivateKey *ecdsa.PrivateKey
}

// Store keeps one encrypted json file per account under a directory.
// Files are named <account_name>.json so accounts stay addressable by name.
type Store struct {
	dir string
}

// NewStore creates the keystore directory if needed
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, errors.Wrap(err, "failed to create keystore directory")
	}
	return &Store{dir: dir}, nil
}

// ValidateName reports whether name is usable as a keystore file name
func ValidateName(name string) error {
	if !accountNameRegexp.MatchString(name) {
		return errors.Errorf("invalid account name %q", name)
	}
	return nil
}

// List returns the names of all stored accounts
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read keystore directory")
	}

	names := []string{}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), ".json"))
	}
	sort.Strings(names)
	return names, nil
}

// Exists reports whether an account with the given name is stored
func (s *Store) Exists(name string) bool {
	_, err := os.Stat(s.path(name))
	return err == nil
}

// Save encrypts the private key with the password and stores it under name
func (s *Store) Save(name, password string, privateKey *ecdsa.PrivateKey) (common.Address, error) {
	if err := ValidateName(name); err != nil {
		return common.Address{}, err
	}
	if s.Exists(name) {
		return common.Address{}, ErrAccountExists
	}

	key := &gethkeystore.Key{
		Id:         uuid.New(),
		Address:    crypto.PubkeyToAddress(privateKey.PublicKey),
		PrivateKey: privateKey,
	}

	keyJSON, err := gethkeystore.EncryptKey(key, password, gethkeystore.StandardScryptN, gethkeystore.StandardScryptP)
	if err != nil {
		return common.Address{}, errors.Wrap(err, "failed to encrypt account key")
	}

	if err := os.WriteFile(s.path(name), keyJSON, 0600); err != nil {
		return common.Address{}, errors.Wrap(err, "failed to write keystore file")
	}

	return key.Address, nil
}

// Load decrypts the named account with the password
func (s *Store) Load(name, password string) (*Account, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}

	keyJSON, err := os.ReadFile(s.path(name))
	if os.IsNotExist(err) {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to read keystore file")
	}

	key, err := gethkeystore.DecryptKey(keyJSON, password)
	if err != nil {
		return nil, ErrWrongPassword
	}

	return &Account{
		Name:       name,
		Address:    key.Address,
		PrivateKey: key.PrivateKey,
	}, nil
}

// Delete verifies the password then removes the named account
func (s *Store) Delete(name, password string) error {
	if _, err := s.Load(name, password); err != nil {
		return err
	}
	return os.Remove(s.path(name))
}

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name+".json")
}
