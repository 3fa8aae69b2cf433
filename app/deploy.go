package app

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gopkg.in/validator.v2"

	"github.com/Jeevan-J/smart-contract-deployer/internal/contracts"
	"github.com/Jeevan-J/smart-contract-deployer/internal/deployer"
	"github.com/Jeevan-J/smart-contract-deployer/internal/solc"
	"github.com/Jeevan-J/smart-contract-deployer/internal/templates"
)

// DeployInput is the request body for deploying a rendered template
type DeployInput struct {
	TemplateName   string            `json:"template_name" validate:"nonzero"`
	ContractName   string            `json:"contract_name" validate:"nonzero"`
	TemplateParams map[string]string `json:"template_params"`
	GasLimit       uint64            `json:"gas_limit"`
	PublishSource  bool              `json:"publish_source"`
}

func (a *App) deployTemplateHandler(r *http.Request, w http.ResponseWriter) (interface{}, Response) {
	input := DeployInput{}
	err := json.NewDecoder(r.Body).Decode(&input)
	if err != nil {
		log.Error().Err(err).Send()
		return nil, BadRequest(errors.New("failed to read input data"))
	}

	if err := validator.Validate(input); err != nil {
		log.Error().Err(err).Send()
		return nil, BadRequest(errors.New("template_name and contract_name are required"))
	}

	account, active := a.session.Get()
	if !active {
		return nil, BadRequest(errors.New("no active account, set one with /accounts/set_active"))
	}

	conn, release, connected := a.active.Get()
	if !connected {
		return nil, BadRequest(errors.New("not connected to any network, set one with /network/set"))
	}
	defer release()

	source, err := a.templates.Code(input.TemplateName)
	if errors.Is(err, templates.ErrTemplateNotFound) {
		return nil, NotFound(errors.Errorf("%s template is not available", input.TemplateName))
	}
	if err != nil {
		return nil, BadRequest(err)
	}

	rendered := templates.Render(source, input.TemplateParams)

	contractFile, err := a.artifacts.WriteSource(input.ContractName, rendered)
	if err != nil {
		return nil, BadRequest(err)
	}

	remappings, err := a.packages.Remappings()
	if err != nil {
		log.Error().Err(err).Send()
		return nil, InternalServerError(errors.New("failed to collect package remappings"))
	}

	compiler := solc.NewCompiler(a.config.SolcPath, remappings)
	compiled, err := compiler.Compile(r.Context(), contractFile, rendered)
	if err != nil {
		compileErr := &solc.CompileError{}
		if errors.As(err, &compileErr) {
			return nil, UnprocessableEntity(err)
		}
		log.Error().Err(err).Send()
		return nil, InternalServerError(errors.New("failed to run the compiler"))
	}

	contract, ok := compiled[input.ContractName]
	if !ok {
		return nil, BadRequest(errors.Errorf(
			"compiled output has no contract %q, make sure the contract name and the template contract declaration match",
			input.ContractName))
	}

	bytecode := common.FromHex(contract.Bytecode)
	if len(bytecode) == 0 {
		return nil, UnprocessableEntity(errors.Errorf("contract %q has no deployable bytecode", input.ContractName))
	}

	contractABI, err := deployer.ParseABI(contract.ABI)
	if err != nil {
		log.Error().Err(err).Send()
		return nil, InternalServerError(errors.New("failed to parse compiled abi"))
	}

	d := deployer.New(conn, time.Duration(a.config.DeployTimeout)*time.Second)
	result, err := d.Deploy(r.Context(), account, contractABI, bytecode, input.GasLimit)
	if err != nil {
		log.Error().Err(err).Str("contract", input.ContractName).Msg("deployment failed")
		return nil, BadGateway(err)
	}

	artifact := contracts.Artifact{
		ContractName:  input.ContractName,
		TemplateName:  input.TemplateName,
		Params:        input.TemplateParams,
		Source:        rendered,
		ABI:           contract.ABI,
		Bytecode:      contract.Bytecode,
		Address:       result.Address.Hex(),
		Deployer:      account.Address.Hex(),
		Network:       conn.Network.Name,
		ChainID:       conn.Network.ChainID,
		TxHash:        result.TxHash.Hex(),
		GasUsed:       result.GasUsed,
		PublishSource: input.PublishSource,
		DeployedAt:    time.Now().UTC(),
	}

	if err := a.artifacts.Save(artifact); err != nil {
		log.Error().Err(err).Send()
		return nil, InternalServerError(errors.New("contract deployed but artifact could not be saved"))
	}

	log.Info().
		Str("contract", input.ContractName).
		Str("address", artifact.Address).
		Str("network", artifact.Network).
		Msg("contract deployed")

	return struct {
		Data contracts.Artifact `json:"data"`
	}{Data: artifact}, Created()
}
