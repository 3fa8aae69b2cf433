package app

import (
	"crypto/ecdsa"
	"net/http"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/Jeevan-J/smart-contract-deployer/internal/keystore"
)

type accountQuery struct {
	AccountName string `schema:"account_name,required"`
	AccountPass string `schema:"account_pass,required"`
}

type generateAccountQuery struct {
	AccountName string `schema:"account_name,required"`
	AccountPass string `schema:"account_pass"`
	PrivateKey  string `schema:"private_key"`
	Mnemonic    string `schema:"mnemonic"`
}

// AccountInfo is the public description of a stored account
type AccountInfo struct {
	AccountName    string `json:"account_name"`
	AccountAddress string `json:"account_address"`
}

func (a *App) listAccountsHandler(r *http.Request, w http.ResponseWriter) (interface{}, Response) {
	names, err := a.accounts.List()
	if err != nil {
		log.Error().Err(err).Send()
		return nil, InternalServerError(errors.New("failed to list accounts"))
	}

	return struct {
		Accounts []string `json:"accounts"`
	}{Accounts: names}, Ok()
}

func (a *App) activeAccountHandler(r *http.Request, w http.ResponseWriter) (interface{}, Response) {
	account, active := a.session.Get()
	if !active {
		return struct {
			Active bool `json:"active"`
		}{Active: false}, Ok()
	}

	return struct {
		Active  bool        `json:"active"`
		Account AccountInfo `json:"account"`
	}{
		Active: true,
		Account: AccountInfo{
			AccountName:    account.Name,
			AccountAddress: account.Address.Hex(),
		},
	}, Ok()
}

func (a *App) setActiveAccountHandler(r *http.Request, w http.ResponseWriter) (interface{}, Response) {
	input := accountQuery{}
	if err := parseQueryParams(r, &input); err != nil {
		return nil, BadRequest(errors.New("account_name and account_pass are required"))
	}

	account, err := a.accounts.Load(input.AccountName, input.AccountPass)
	if errors.Is(err, keystore.ErrAccountNotFound) {
		return nil, NotFound(errors.Errorf("no account found locally with name %q", input.AccountName))
	}
	if errors.Is(err, keystore.ErrWrongPassword) {
		return nil, BadRequest(err)
	}
	if err != nil {
		log.Error().Err(err).Send()
		return nil, InternalServerError(errors.New("failed to load account"))
	}

	a.session.Set(account)
	log.Info().Str("account", account.Name).Str("address", account.Address.Hex()).Msg("active account set")

	return struct {
		Active         bool   `json:"active"`
		AccountName    string `json:"account_name"`
		AccountAddress string `json:"account_address"`
	}{
		Active:         true,
		AccountName:    account.Name,
		AccountAddress: account.Address.Hex(),
	}, Ok()
}

func (a *App) generateAccountHandler(r *http.Request, w http.ResponseWriter) (interface{}, Response) {
	input := generateAccountQuery{}
	if err := parseQueryParams(r, &input); err != nil {
		return nil, BadRequest(errors.New("account_name is required"))
	}

	if input.PrivateKey != "" && input.Mnemonic != "" {
		return nil, BadRequest(errors.New("private_key and mnemonic are mutually exclusive"))
	}

	privateKey, mnemonic, err := newAccountKey(input)
	if err != nil {
		return nil, BadRequest(err)
	}

	account := keystore.Account{
		Name:       input.AccountName,
		Address:    keystore.AddressOf(privateKey),
		PrivateKey: privateKey,
	}

	if input.AccountPass != "" {
		address, err := a.accounts.Save(input.AccountName, input.AccountPass, privateKey)
		if errors.Is(err, keystore.ErrAccountExists) {
			return nil, Conflict(err)
		}
		if err != nil {
			log.Error().Err(err).Send()
			return nil, InternalServerError(errors.New("failed to save account"))
		}
		account.Address = address
	}

	return struct {
		AccountName       string `json:"account_name"`
		AccountAddress    string `json:"account_address"`
		AccountPrivateKey string `json:"account_private_key"`
		Mnemonic          string `json:"mnemonic,omitempty"`
	}{
		AccountName:       account.Name,
		AccountAddress:    account.Address.Hex(),
		AccountPrivateKey: keystore.KeyToHex(privateKey),
		Mnemonic:          mnemonic,
	}, Created()
}

func (a *App) deleteAccountHandler(r *http.Request, w http.ResponseWriter) (interface{}, Response) {
	input := accountQuery{}
	if err := parseQueryParams(r, &input); err != nil {
		return nil, BadRequest(errors.New("account_name and account_pass are required"))
	}

	err := a.accounts.Delete(input.AccountName, input.AccountPass)
	if errors.Is(err, keystore.ErrAccountNotFound) {
		return nil, NotFound(errors.Errorf("no account found locally with name %q", input.AccountName))
	}
	if errors.Is(err, keystore.ErrWrongPassword) {
		return nil, BadRequest(err)
	}
	if err != nil {
		log.Error().Err(err).Send()
		return nil, InternalServerError(errors.New("failed to delete account"))
	}

	a.session.Forget(input.AccountName)

	return struct {
		Deleted string `json:"deleted"`
	}{Deleted: input.AccountName}, Ok()
}

func newAccountKey(input generateAccountQuery) (privateKey *ecdsa.PrivateKey, mnemonic string, err error) {
	switch {
	case input.PrivateKey != "":
		key, err := keystore.KeyFromHex(input.PrivateKey)
		return key, "", err
	case input.Mnemonic != "":
		key, err := keystore.KeyFromMnemonic(input.Mnemonic)
		return key, "", err
	default:
		return keystore.GenerateKey()
	}
}
