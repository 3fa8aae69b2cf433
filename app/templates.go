package app

import (
	"io"
	"net/http"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/Jeevan-J/smart-contract-deployer/internal/templates"
)

type templateQuery struct {
	TemplateName string `schema:"template_name,required"`
}

func (a *App) listTemplatesHandler(r *http.Request, w http.ResponseWriter) (interface{}, Response) {
	names, err := a.templates.List()
	if err != nil {
		log.Error().Err(err).Send()
		return nil, InternalServerError(errors.New("failed to list templates"))
	}

	return struct {
		Templates []string `json:"templates"`
	}{Templates: names}, Ok()
}

func (a *App) templateCodeHandler(r *http.Request, w http.ResponseWriter) (interface{}, Response) {
	input := templateQuery{}
	if err := parseQueryParams(r, &input); err != nil {
		return nil, BadRequest(errors.New("template_name is required"))
	}

	code, err := a.templates.Code(input.TemplateName)
	if errors.Is(err, templates.ErrTemplateNotFound) {
		return nil, NotFound(errors.Errorf("template %q not found", input.TemplateName))
	}
	if err != nil {
		return nil, BadRequest(err)
	}

	return struct {
		TemplateName string `json:"template_name"`
		TemplateCode string `json:"template_code"`
	}{
		TemplateName: input.TemplateName,
		TemplateCode: code,
	}, Ok()
}

func (a *App) addTemplateHandler(r *http.Request, w http.ResponseWriter) (interface{}, Response) {
	input := templateQuery{}
	if err := parseQueryParams(r, &input); err != nil {
		return nil, BadRequest(errors.New("template_name is required"))
	}

	code, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, BadRequest(errors.New("failed to read template code"))
	}
	if len(code) == 0 {
		return nil, BadRequest(errors.New("template code is empty"))
	}

	fileName, err := a.templates.Add(input.TemplateName, code)
	if errors.Is(err, templates.ErrTemplateExists) {
		return nil, Conflict(errors.Errorf("template %q already exists", input.TemplateName))
	}
	if err != nil {
		return nil, BadRequest(err)
	}

	log.Info().Str("template", fileName).Msg("template added")

	return struct {
		TemplateName string `json:"template_name"`
	}{TemplateName: fileName}, Created()
}

func (a *App) deleteTemplateHandler(r *http.Request, w http.ResponseWriter) (interface{}, Response) {
	input := templateQuery{}
	if err := parseQueryParams(r, &input); err != nil {
		return nil, BadRequest(errors.New("template_name is required"))
	}

	fileName, err := a.templates.Delete(input.TemplateName)
	if errors.Is(err, templates.ErrTemplateNotFound) {
		return nil, NotFound(errors.Errorf("template %q not found", input.TemplateName))
	}
	if err != nil {
		return nil, BadRequest(err)
	}

	return struct {
		TemplateName string `json:"template_name"`
	}{TemplateName: fileName}, Ok()
}
