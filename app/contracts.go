package app

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gopkg.in/validator.v2"

	"github.com/Jeevan-J/smart-contract-deployer/internal/contracts"
	"github.com/Jeevan-J/smart-contract-deployer/internal/deployer"
)

// InteractInput is the request body for calling a deployed contract method
type InteractInput struct {
	ContractName    string        `json:"contract_name" validate:"nonzero"`
	ContractAddress string        `json:"contract_address"`
	ContractMethod  string        `json:"contract_method" validate:"nonzero"`
	MethodArgs      []interface{} `json:"method_args"`
}

func (a *App) listContractsHandler(r *http.Request, w http.ResponseWriter) (interface{}, Response) {
	names, err := a.artifacts.List()
	if err != nil {
		log.Error().Err(err).Send()
		return nil, InternalServerError(errors.New("failed to list contracts"))
	}

	return struct {
		Contracts []string `json:"contracts"`
	}{Contracts: names}, Ok()
}

func (a *App) interactContractHandler(r *http.Request, w http.ResponseWriter) (interface{}, Response) {
	input := InteractInput{}
	err := json.NewDecoder(r.Body).Decode(&input)
	if err != nil {
		log.Error().Err(err).Send()
		return nil, BadRequest(errors.New("failed to read input data"))
	}

	if err := validator.Validate(input); err != nil {
		log.Error().Err(err).Send()
		return nil, BadRequest(errors.New("contract_name and contract_method are required"))
	}

	artifact, err := a.artifacts.Get(input.ContractName)
	if errors.Is(err, contracts.ErrArtifactNotFound) {
		return nil, NotFound(errors.Errorf("contract %q not found", input.ContractName))
	}
	if err != nil {
		return nil, BadRequest(err)
	}

	address := artifact.Address
	if input.ContractAddress != "" {
		address = input.ContractAddress
	}
	if !common.IsHexAddress(address) {
		return nil, BadRequest(errors.Errorf("%q is not a contract address", address))
	}

	contractABI, err := deployer.ParseABI(artifact.ABI)
	if err != nil {
		log.Error().Err(err).Send()
		return nil, InternalServerError(errors.New("failed to parse stored abi"))
	}

	method, ok := contractABI.Methods[input.ContractMethod]
	if !ok {
		return nil, NotFound(errors.Errorf("contract %q has no method %q", input.ContractName, input.ContractMethod))
	}

	args, err := deployer.CoerceArgs(method, input.MethodArgs)
	if err != nil {
		return nil, BadRequest(err)
	}

	conn, release, connected := a.active.Get()
	if !connected {
		return nil, BadRequest(errors.New("not connected to any network, set one with /network/set"))
	}
	defer release()

	d := deployer.New(conn, time.Duration(a.config.DeployTimeout)*time.Second)

	if deployer.IsReadOnly(method) {
		outputs, err := d.Call(r.Context(), contractABI, common.HexToAddress(address), input.ContractMethod, args)
		if err != nil {
			log.Error().Err(err).Str("method", input.ContractMethod).Msg("call failed")
			return nil, BadGateway(err)
		}

		return struct {
			ContractMethod string   `json:"contract_method"`
			Outputs        []string `json:"outputs"`
		}{
			ContractMethod: input.ContractMethod,
			Outputs:        formatOutputs(outputs),
		}, Ok()
	}

	account, active := a.session.Get()
	if !active {
		return nil, BadRequest(errors.New("no active account, set one with /accounts/set_active"))
	}

	result, err := d.Transact(r.Context(), account, contractABI, common.HexToAddress(address), input.ContractMethod, args)
	if err != nil {
		log.Error().Err(err).Str("method", input.ContractMethod).Msg("transaction failed")
		return nil, BadGateway(err)
	}

	return struct {
		TxHash   string `json:"tx_hash"`
		TxStatus uint64 `json:"tx_status"`
		GasUsed  uint64 `json:"gas_used"`
	}{
		TxHash:   result.TxHash.Hex(),
		TxStatus: result.Status,
		GasUsed:  result.GasUsed,
	}, Ok()
}

func formatOutputs(outputs []interface{}) []string {
	formatted := make([]string, 0, len(outputs))
	for _, output := range outputs {
		switch v := output.(type) {
		case common.Address:
			formatted = append(formatted, v.Hex())
		case []byte:
			formatted = append(formatted, hexutil.Encode(v))
		case [32]byte:
			formatted = append(formatted, hexutil.Encode(v[:]))
		case fmt.Stringer:
			formatted = append(formatted, v.String())
		default:
			formatted = append(formatted, fmt.Sprintf("%v", v))
		}
	}
	return formatted
}
