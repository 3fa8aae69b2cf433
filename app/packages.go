package app

import (
	"net/http"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/Jeevan-J/smart-contract-deployer/internal/packages"
)

type packageQuery struct {
	PackageID string `schema:"package_id,required"`
}

func (a *App) listPackagesHandler(r *http.Request, w http.ResponseWriter) (interface{}, Response) {
	installed, err := a.packages.List()
	if err != nil {
		log.Error().Err(err).Send()
		return nil, InternalServerError(errors.New("failed to list packages"))
	}

	ids := make([]string, 0, len(installed))
	for _, pkg := range installed {
		ids = append(ids, pkg.ID())
	}

	return struct {
		Packages []string `json:"packages"`
	}{Packages: ids}, Ok()
}

func (a *App) installPackageHandler(r *http.Request, w http.ResponseWriter) (interface{}, Response) {
	input := packageQuery{}
	if err := parseQueryParams(r, &input); err != nil {
		return nil, BadRequest(errors.New("package_id is required"))
	}

	pkg, err := a.packages.Install(r.Context(), input.PackageID)
	if errors.Is(err, packages.ErrPackageExists) {
		return nil, Conflict(errors.Errorf("package %q already installed", input.PackageID))
	}
	if err != nil {
		log.Error().Err(err).Str("package", input.PackageID).Msg("install failed")
		return nil, BadRequest(err)
	}

	log.Info().Str("package", pkg.ID()).Msg("package installed")

	return struct {
		PackageID string `json:"package_id"`
	}{PackageID: pkg.ID()}, Created()
}

func (a *App) deletePackageHandler(r *http.Request, w http.ResponseWriter) (interface{}, Response) {
	input := packageQuery{}
	if err := parseQueryParams(r, &input); err != nil {
		return nil, BadRequest(errors.New("package_id is required"))
	}

	pkg, err := a.packages.Remove(input.PackageID)
	if errors.Is(err, packages.ErrPackageNotFound) {
		return nil, NotFound(errors.Errorf("package %q is not installed", input.PackageID))
	}
	if err != nil {
		return nil, BadRequest(err)
	}

	return struct {
		PackageID string `json:"package_id"`
	}{PackageID: pkg.ID()}, Ok()
}
