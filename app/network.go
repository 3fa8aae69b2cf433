package app

import (
	"net/http"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/Jeevan-J/smart-contract-deployer/internal/networks"
)

type networkQuery struct {
	NetworkName string `schema:"network_name,required"`
}

// NetworkInfo is the public description of the active network
type NetworkInfo struct {
	Network     string `json:"network"`
	ChainID     uint64 `json:"chain_id"`
	RPCURL      string `json:"rpc_url"`
	ExplorerURL string `json:"explorer_url,omitempty"`
}

func (a *App) listNetworksHandler(r *http.Request, w http.ResponseWriter) (interface{}, Response) {
	return struct {
		Networks []string `json:"networks"`
	}{Networks: a.registry.Names()}, Ok()
}

func (a *App) activeNetworkHandler(r *http.Request, w http.ResponseWriter) (interface{}, Response) {
	conn, release, connected := a.active.Get()
	if !connected {
		return struct {
			Connected bool `json:"connected"`
		}{Connected: false}, Ok()
	}
	defer release()

	return struct {
		Connected bool        `json:"connected"`
		Network   NetworkInfo `json:"network"`
	}{
		Connected: true,
		Network:   networkInfo(conn),
	}, Ok()
}

func (a *App) setNetworkHandler(r *http.Request, w http.ResponseWriter) (interface{}, Response) {
	input := networkQuery{}
	if err := parseQueryParams(r, &input); err != nil {
		return nil, BadRequest(errors.New("network_name is required"))
	}

	network, err := a.registry.Get(input.NetworkName)
	if errors.Is(err, networks.ErrNetworkNotFound) {
		return nil, NotFound(errors.Errorf("network %q is not configured", input.NetworkName))
	}

	conn, err := networks.Connect(r.Context(), network)
	if err != nil {
		log.Error().Err(err).Str("network", network.Name).Msg("failed to connect")
		return nil, BadGateway(errors.Errorf("failed to connect to network %q", network.Name))
	}

	a.active.Swap(conn)
	log.Info().Str("network", network.Name).Uint64("chain_id", network.ChainID).Msg("active network set")

	return networkInfo(conn), Ok()
}

func networkInfo(conn *networks.Connection) NetworkInfo {
	return NetworkInfo{
		Network:     conn.Network.Name,
		ChainID:     conn.Network.ChainID,
		RPCURL:      conn.Network.RPCURL,
		ExplorerURL: conn.Network.ExplorerURL,
	}
}
