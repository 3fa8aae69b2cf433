// Package networks holds the configured chain networks and the active connection
package networks

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/validator.v2"
	"gopkg.in/yaml.v3"
)

// ErrNetworkNotFound returned when a network name is not configured
var ErrNetworkNotFound = errors.New("network not found")

// Network is a single configured chain endpoint
type Network struct {
	Name        string `yaml:"name" validate:"nonzero"`
	RPCURL      string `yaml:"rpc_url" validate:"nonzero"`
	ChainID     uint64 `yaml:"chain_id" validate:"nonzero"`
	ExplorerURL string `yaml:"explorer_url"`
}

// Registry is the set of networks the service may deploy to
type Registry struct {
	networks map[string]Network
	order    []string
}

type registryFile struct {
	Networks []Network `yaml:"networks"`
}

// LoadRegistry reads and validates the networks yaml file
func LoadRegistry(path string) (*Registry, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open networks file")
	}

	return ParseRegistry(content)
}

// ParseRegistry parses and validates networks yaml content
func ParseRegistry(content []byte) (*Registry, error) {
	parsed := registryFile{}
	if err := yaml.Unmarshal(content, &parsed); err != nil {
		return nil, errors.Wrap(err, "failed to parse networks file")
	}

	if len(parsed.Networks) == 0 {
		return nil, errors.New("no networks configured")
	}

	registry := &Registry{networks: map[string]Network{}}
	for _, network := range parsed.Networks {
		if err := validator.Validate(network); err != nil {
			return nil, errors.Wrapf(err, "invalid network %q", network.Name)
		}
		if _, ok := registry.networks[network.Name]; ok {
			return nil, errors.Errorf("network %q configured twice", network.Name)
		}
		registry.networks[network.Name] = network
		registry.order = append(registry.order, network.Name)
	}

	return registry, nil
}

// Names returns configured network names in file order
func (r *Registry) Names() []string {
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// Get returns the named network
func (r *Registry) Get(name string) (Network, error) {
	network, ok := r.networks[name]
	if !ok {
		return Network{}, ErrNetworkNotFound
	}
	return network, nil
}
