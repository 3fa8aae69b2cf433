// Package solc compiles solidity sources through the external solc binary
// using its standard-json interface
package solc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Compiler invokes one solc binary with a fixed set of import remappings
type Compiler struct {
	path       string
	remappings []string
}

// Contract is one compiled contract extracted from solc output
type Contract struct {
	ABI      json.RawMessage
	Bytecode string
}

// CompileError carries the compiler diagnostics of a failed compilation
type CompileError struct {
	Diagnostics []string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("compilation failed: %s", strings.Join(e.Diagnostics, "; "))
}

// NewCompiler creates a compiler for the binary at path
func NewCompiler(path string, remappings []string) *Compiler {
	return &Compiler{path: path, remappings: remappings}
}

type standardInput struct {
	Language string                 `json:"language"`
	Sources  map[string]inputSource `json:"sources"`
	Settings inputSettings          `json:"settings"`
}

type inputSource struct {
	Content string `json:"content"`
}

type inputSettings struct {
	Remappings      []string                       `json:"remappings,omitempty"`
	Optimizer       optimizerSettings              `json:"optimizer"`
	OutputSelection map[string]map[string][]string `json:"outputSelection"`
}

type optimizerSettings struct {
	Enabled bool `json:"enabled"`
	Runs    int  `json:"runs"`
}

type standardOutput struct {
	Errors    []outputError                        `json:"errors"`
	Contracts map[string]map[string]outputContract `json:"contracts"`
}

type outputError struct {
	Severity         string `json:"severity"`
	FormattedMessage string `json:"formattedMessage"`
	Message          string `json:"message"`
}

type outputContract struct {
	ABI json.RawMessage `json:"abi"`
	EVM struct {
		Bytecode struct {
			Object string `json:"object"`
		} `json:"bytecode"`
	} `json:"evm"`
}

// Compile compiles a single solidity source file and returns the contracts
// it defines, keyed by contract name
func (c *Compiler) Compile(ctx context.Context, fileName, source string) (map[string]Contract, error) {
	input := standardInput{
		Language: "Solidity",
		Sources: map[string]inputSource{
			fileName: {Content: source},
		},
		Settings: inputSettings{
			Remappings: c.remappings,
			Optimizer:  optimizerSettings{Enabled: true, Runs: 200},
			OutputSelection: map[string]map[string][]string{
				"*": {"*": {"abi", "evm.bytecode.object"}},
			},
		},
	}

	inputJSON, err := json.Marshal(input)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build compiler input")
	}

	cmd := exec.CommandContext(ctx, c.path, "--standard-json")
	cmd.Stdin = bytes.NewReader(inputJSON)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	log.Debug().Str("solc", c.path).Str("file", fileName).Msg("compiling")

	if err := cmd.Run(); err != nil {
		return nil, errors.Wrapf(err, "failed to run solc: %s", stderr.String())
	}

	return ParseOutput(stdout.Bytes())
}

// ParseOutput extracts contracts from solc standard-json output, turning
// error-severity diagnostics into a CompileError
func ParseOutput(outputJSON []byte) (map[string]Contract, error) {
	output := standardOutput{}
	if err := json.Unmarshal(outputJSON, &output); err != nil {
		return nil, errors.Wrap(err, "failed to parse compiler output")
	}

	diagnostics := []string{}
	for _, outErr := range output.Errors {
		if outErr.Severity != "error" {
			continue
		}
		message := strings.TrimSpace(outErr.FormattedMessage)
		if message == "" {
			message = outErr.Message
		}
		diagnostics = append(diagnostics, message)
	}
	if len(diagnostics) > 0 {
		return nil, &CompileError{Diagnostics: diagnostics}
	}

	contracts := map[string]Contract{}
	for _, fileContracts := range output.Contracts {
		for name, contract := range fileContracts {
			contracts[name] = Contract{
				ABI:      contract.ABI,
				Bytecode: contract.EVM.Bytecode.Object,
			}
		}
	}

	if len(contracts) == 0 {
		return nil, errors.New("compiler produced no contracts")
	}

	return contracts, nil
}
