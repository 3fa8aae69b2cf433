package solc

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const compiledOutput = `{
	"contracts": {
		"GoldToken.sol": {
			"GoldToken": {
				"abi": [{"inputs":[],"stateMutability":"nonpayable","type":"constructor"}],
				"evm": {"bytecode": {"object": "6080604052"}}
			}
		}
	},
	"errors": [
		{"severity": "warning", "formattedMessage": "Warning: SPDX license identifier not provided"}
	]
}`

const failedOutput = `{
	"errors": [
		{"severity": "error", "formattedMessage": "ParserError: Expected ';' but got '}'"},
		{"severity": "warning", "formattedMessage": "Warning: unused local variable"}
	]
}`

func TestParseOutput(t *testing.T) {
	t.Run("successful compilation", func(t *testing.T) {
		contracts, err := ParseOutput([]byte(compiledOutput))
		require.NoError(t, err)
		require.Contains(t, contracts, "GoldToken")
		assert.Equal(t, "6080604052", contracts["GoldToken"].Bytecode)
		assert.NotEmpty(t, contracts["GoldToken"].ABI)
	})

	t.Run("compiler errors surface as CompileError", func(t *testing.T) {
		_, err := ParseOutput([]byte(failedOutput))
		require.Error(t, err)

		compileErr := &CompileError{}
		require.ErrorAs(t, err, &compileErr)
		assert.Len(t, compileErr.Diagnostics, 1)
		assert.Contains(t, compileErr.Error(), "ParserError")
	})

	t.Run("empty output", func(t *testing.T) {
		_, err := ParseOutput([]byte(`{}`))
		assert.Error(t, err)
	})

	t.Run("invalid json", func(t *testing.T) {
		_, err := ParseOutput([]byte(`{`))
		assert.Error(t, err)
	})
}

// fakeSolc writes a shell script that echoes canned standard-json output,
// so Compile can be exercised without a real compiler
func fakeSolc(t *testing.T, output string, exitCode int) string {
	if runtime.GOOS == "windows" {
		t.Skip("fake solc script requires a unix shell")
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "solc")
	script := "#!/bin/sh\ncat > /dev/null\ncat <<'EOF'\n" + output + "\nEOF\n"
	if exitCode != 0 {
		script = "#!/bin/sh\nexit 1\n"
	}

	err := os.WriteFile(path, []byte(script), 0755)
	require.NoError(t, err)
	return path
}

func TestCompile(t *testing.T) {
	t.Run("compile through binary", func(t *testing.T) {
		compiler := NewCompiler(fakeSolc(t, compiledOutput, 0), nil)

		contracts, err := compiler.Compile(context.Background(), "GoldToken.sol", "contract GoldToken {}")
		require.NoError(t, err)
		assert.Contains(t, contracts, "GoldToken")
	})

	t.Run("binary failure", func(t *testing.T) {
		compiler := NewCompiler(fakeSolc(t, "", 1), nil)

		_, err := compiler.Compile(context.Background(), "GoldToken.sol", "contract GoldToken {}")
		assert.Error(t, err)
	})

	t.Run("missing binary", func(t *testing.T) {
		compiler := NewCompiler("/nonexistent/solc", nil)

		_, err := compiler.Compile(context.Background(), "GoldToken.sol", "contract GoldToken {}")
		assert.Error(t, err)
	})
}
