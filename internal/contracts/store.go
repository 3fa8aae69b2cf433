// Package contracts records deployed contract artifacts on disk
package contracts

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/Jeevan-J/smart-contract-deployer/internal/templates"
)

// ErrArtifactNotFound returned when no artifact exists for the contract name
var ErrArtifactNotFound = errors.New("contract not found")

// Artifact is everything recorded about one deployed contract
type Artifact struct {
	ContractName  string            `json:"contract_name"`
	TemplateName  string            `json:"template_name"`
	Params        map[string]string `json:"contract_params"`
	Source        string            `json:"contract_code"`
	ABI           json.RawMessage   `json:"abi"`
	Bytecode      string            `json:"deployed_bytecode"`
	Address       string            `json:"contract_address"`
	Deployer      string            `json:"deployer_address"`
	Network       string            `json:"network"`
	ChainID       uint64            `json:"chain_id"`
	TxHash        string            `json:"tx_hash"`
	GasUsed       uint64            `json:"gas_used"`
	PublishSource bool              `json:"publish_source"`
	DeployedAt    time.Time         `json:"deployed_at"`
}

// Store keeps one <contract_name>.json artifact per deployment, next to the
// rendered <contract_name>.sol source
type Store struct {
	dir string
}

// NewStore creates the contracts directory if needed
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrap(err, "failed to create contracts directory")
	}
	return &Store{dir: dir}, nil
}

// Dir returns the directory artifacts are stored in
func (s *Store) Dir() string {
	return s.dir
}

// WriteSource stores the rendered solidity source for a contract
func (s *Store) WriteSource(contractName, source string) (string, error) {
	fileName, err := templates.CanonicalName(contractName)
	if err != nil {
		return "", err
	}

	path := filepath.Join(s.dir, fileName)
	if err := os.WriteFile(path, []byte(source), 0644); err != nil {
		return "", errors.Wrap(err, "failed to write contract source")
	}
	return fileName, nil
}

// Save writes the artifact of a deployment
func (s *Store) Save(artifact Artifact) error {
	if err := validateContractName(artifact.ContractName); err != nil {
		return err
	}

	content, err := json.MarshalIndent(artifact, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to encode artifact")
	}

	path := filepath.Join(s.dir, artifact.ContractName+".json")
	if err := os.WriteFile(path, content, 0644); err != nil {
		return errors.Wrap(err, "failed to write artifact")
	}
	return nil
}

// Get loads the artifact of the named contract
func (s *Store) Get(contractName string) (Artifact, error) {
	if err := validateContractName(contractName); err != nil {
		return Artifact{}, err
	}

	content, err := os.ReadFile(filepath.Join(s.dir, contractName+".json"))
	if os.IsNotExist(err) {
		return Artifact{}, ErrArtifactNotFound
	}
	if err != nil {
		return Artifact{}, errors.Wrap(err, "failed to read artifact")
	}

	artifact := Artifact{}
	if err := json.Unmarshal(content, &artifact); err != nil {
		return Artifact{}, errors.Wrap(err, "failed to parse artifact")
	}
	return artifact, nil
}

// List returns the names of all recorded contracts
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read contracts directory")
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

func validateContractName(name string) error {
	_, err := templates.CanonicalName(name)
	return err
}
