// Package app for the contract deployer backend app
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/Jeevan-J/smart-contract-deployer/config"
	"github.com/Jeevan-J/smart-contract-deployer/internal/contracts"
	"github.com/Jeevan-J/smart-contract-deployer/internal/keystore"
	"github.com/Jeevan-J/smart-contract-deployer/internal/networks"
	"github.com/Jeevan-J/smart-contract-deployer/internal/packages"
	"github.com/Jeevan-J/smart-contract-deployer/internal/templates"
	"github.com/Jeevan-J/smart-contract-deployer/middlewares"
)

// App for all dependencies of backend server
type App struct {
	config    config.Configuration
	accounts  *keystore.Store
	session   keystore.Session
	registry  *networks.Registry
	active    networks.Active
	templates *templates.Store
	artifacts *contracts.Store
	packages  *packages.Manager
}

// NewApp creates new server app with all configurations
func NewApp(ctx context.Context, configFile string) (app *App, err error) {
	config, err := config.ReadConfFile(configFile)
	if err != nil {
		return
	}

	accounts, err := keystore.NewStore(config.KeystoreDir)
	if err != nil {
		return
	}

	registry, err := networks.LoadRegistry(config.NetworksFile)
	if err != nil {
		return
	}

	templateStore, err := templates.NewStore(config.TemplatesDir)
	if err != nil {
		return
	}

	artifacts, err := contracts.NewStore(config.ContractsDir)
	if err != nil {
		return
	}

	packageManager, err := packages.NewManager(config.PackagesDir)
	if err != nil {
		return
	}

	return &App{
		config:    config,
		accounts:  accounts,
		registry:  registry,
		templates: templateStore,
		artifacts: artifacts,
		packages:  packageManager,
	}, nil
}

// Start starts the app
func (a *App) Start(ctx context.Context) (err error) {
	addr := fmt.Sprintf(":%d", a.config.Port)
	log.Info().Msgf("Server is listening on port %d", a.config.Port)

	srv := &http.Server{
		Addr:    addr,
		Handler: a.registerHandlers(),
	}

	go func() {
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server error")
		}
		log.Info().Msg("Stopped serving new connections")
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	shutdownCtx, shutdownRelease := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownRelease()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("HTTP shutdown error")
	}
	log.Info().Msg("Graceful shutdown complete")

	return nil
}

func (a *App) registerHandlers() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/accounts", WrapFunc(a.listAccountsHandler)).Methods("GET", "OPTIONS")
	r.HandleFunc("/accounts/active", WrapFunc(a.activeAccountHandler)).Methods("GET", "OPTIONS")
	r.HandleFunc("/accounts/set_active", WrapFunc(a.setActiveAccountHandler)).Methods("POST", "OPTIONS")
	r.HandleFunc("/accounts/generate", WrapFunc(a.generateAccountHandler)).Methods("GET", "OPTIONS")
	r.HandleFunc("/accounts/delete", WrapFunc(a.deleteAccountHandler)).Methods("DELETE", "OPTIONS")

	r.HandleFunc("/network", WrapFunc(a.listNetworksHandler)).Methods("GET", "OPTIONS")
	r.HandleFunc("/network/active", WrapFunc(a.activeNetworkHandler)).Methods("GET", "OPTIONS")
	r.HandleFunc("/network/set", WrapFunc(a.setNetworkHandler)).Methods("GET", "OPTIONS")

	r.HandleFunc("/templates", WrapFunc(a.listTemplatesHandler)).Methods("GET", "OPTIONS")
	r.HandleFunc("/templates/code", WrapFunc(a.templateCodeHandler)).Methods("GET", "OPTIONS")
	r.HandleFunc("/templates/add", WrapFunc(a.addTemplateHandler)).Methods("POST", "OPTIONS")
	r.HandleFunc("/templates/delete", WrapFunc(a.deleteTemplateHandler)).Methods("DELETE", "OPTIONS")

	r.HandleFunc("/deploy/template", WrapFunc(a.deployTemplateHandler)).Methods("POST", "OPTIONS")

	r.HandleFunc("/contracts", WrapFunc(a.listContractsHandler)).Methods("GET", "OPTIONS")
	r.HandleFunc("/contracts/interact", WrapFunc(a.interactContractHandler)).Methods("POST", "OPTIONS")

	r.HandleFunc("/packages", WrapFunc(a.listPackagesHandler)).Methods("GET", "OPTIONS")
	r.HandleFunc("/packages/install", WrapFunc(a.installPackageHandler)).Methods("POST", "OPTIONS")
	r.HandleFunc("/packages/delete", WrapFunc(a.deletePackageHandler)).Methods("DELETE", "OPTIONS")

	// middlewares
	if a.config.EnableCors {
		r.Use(middlewares.EnableCors(a.config.CorsOrigins))
	}

	return r
}
