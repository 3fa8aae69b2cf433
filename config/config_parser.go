// Package config for config details
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	env "github.com/hashicorp/go-envparse"
)

// Configuration struct to hold app configurations
type Configuration struct {
	Port          int
	EnableCors    bool
	CorsOrigins   []string
	KeystoreDir   string
	TemplatesDir  string
	ContractsDir  string
	PackagesDir   string
	NetworksFile  string
	SolcPath      string
	DeployTimeout int
}

var configKeys = []string{
	"PORT",
	"ENABLE_CORS",
	"CORS_ORIGINS",
	"KEYSTORE_DIR",
	"TEMPLATES_DIR",
	"CONTRACTS_DIR",
	"PACKAGES_DIR",
	"NETWORKS_FILE",
	"SOLC_PATH",
	"DEPLOY_TIMEOUT_SECONDS",
}

// ReadConfFile read configurations of env file. A missing file is not an
// error: every key can also come from the process environment, and keys set
// in neither fall back to defaults. File values take precedence over
// environment variables.
func ReadConfFile(path string) (Configuration, error) {
	config := Configuration{}

	configMap := map[string]string{}
	content, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return Configuration{}, fmt.Errorf("failed to open config file: %w", err)
	}
	if err == nil {
		configMap, err = env.Parse(strings.NewReader(string(content)))
		if err != nil {
			return Configuration{}, fmt.Errorf("failed to load config: %w", err)
		}
	}

	for _, key := range configKeys {
		if _, ok := configMap[key]; ok {
			continue
		}
		if value, ok := os.LookupEnv(key); ok {
			configMap[key] = value
		}
	}

	for key, value := range configMap {
		switch key {
		case "PORT":
			port, err := strconv.Atoi(value)
			if err != nil {
				return Configuration{}, fmt.Errorf("PORT %q is not a number", value)
			}
			config.Port = port

		case "ENABLE_CORS":
			enabled, err := strconv.ParseBool(value)
			if err != nil {
				return Configuration{}, fmt.Errorf("ENABLE_CORS %q is not a boolean", value)
			}
			config.EnableCors = enabled

		case "CORS_ORIGINS":
			config.CorsOrigins = splitOrigins(value)

		case "KEYSTORE_DIR":
			config.KeystoreDir = value

		case "TEMPLATES_DIR":
			config.TemplatesDir = value

		case "CONTRACTS_DIR":
			config.ContractsDir = value

		case "PACKAGES_DIR":
			config.PackagesDir = value

		case "NETWORKS_FILE":
			config.NetworksFile = value

		case "SOLC_PATH":
			config.SolcPath = value

		case "DEPLOY_TIMEOUT_SECONDS":
			timeout, err := strconv.Atoi(value)
			if err != nil {
				return Configuration{}, fmt.Errorf("DEPLOY_TIMEOUT_SECONDS %q is not a number", value)
			}
			config.DeployTimeout = timeout

		default:
			return Configuration{}, fmt.Errorf("key %v is invalid", key)
		}
	}

	switch {
	case config.Port == 0:
		config.Port = 8000
	case config.Port < 0 || config.Port > 65535:
		return Configuration{}, fmt.Errorf("PORT %d is out of range", config.Port)
	}

	if len(config.CorsOrigins) == 0 {
		config.CorsOrigins = []string{"*"}
	}
	if config.KeystoreDir == "" {
		config.KeystoreDir = "./keystore"
	}
	if config.TemplatesDir == "" {
		config.TemplatesDir = "./templates"
	}
	if config.ContractsDir == "" {
		config.ContractsDir = "./contracts"
	}
	if config.PackagesDir == "" {
		config.PackagesDir = "./packages"
	}
	if config.NetworksFile == "" {
		config.NetworksFile = "./networks.yaml"
	}
	if config.SolcPath == "" {
		config.SolcPath = "solc"
	}
	if config.DeployTimeout == 0 {
		config.DeployTimeout = 180
	}

	return config, nil
}

func splitOrigins(value string) []string {
	origins := []string{}
	for _, origin := range strings.Split(value, ",") {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}
