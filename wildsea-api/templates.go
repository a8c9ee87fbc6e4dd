package wildseaapi

import (
	"context"

	"github.com/jarrod-lowe/wildsea-sub001/game"
	"github.com/jarrod-lowe/wildsea-sub001/identity"
)

type GetCharacterTemplateInput struct {
	GameType     string `validate:"required,max=64"`
	TemplateName string `validate:"required,max=64"`
	Language     *string
}

type ListCharacterTemplatesInput struct {
	GameType string `validate:"required,max=64"`
	Language *string
}

// CharacterTemplate is the API shape of a template with its sections.
type CharacterTemplate struct {
	TemplateName string
	DisplayName  string
	GameType     string
	Language     string
	Sections     []game.TemplateSection
}

// TemplateSummary is a template without its sections, as listed.
type TemplateSummary struct {
	TemplateName string
	DisplayName  string
	GameType     string
	Language     string
}

// GetCharacterTemplate fetches a template's section list. The language
// defaults to the request's negotiated language; lookups fall back to
// English.
func (r *Resolver) GetCharacterTemplate(ctx context.Context, args struct{ Input GetCharacterTemplateInput }) (*CharacterTemplate, error) {
	if _, err := identity.RequireSub(ctx); err != nil {
		return nil, err
	}
	if err := checkInput(args.Input); err != nil {
		return nil, err
	}

	lang := language(ctx)
	if args.Input.Language != nil {
		lang = *args.Input.Language
	}

	template, err := r.templates.Get(ctx, args.Input.GameType, args.Input.TemplateName, lang)
	if err != nil {
		return nil, storageError(ctx, err)
	}
	if template == nil {
		return nil, game.NotFound(message(ctx, "template.notFound"))
	}

	sections := template.Sections
	if sections == nil {
		sections = []game.TemplateSection{}
	}
	return &CharacterTemplate{
		TemplateName: template.TemplateName,
		DisplayName:  template.DisplayName,
		GameType:     template.GameType,
		Language:     template.Language,
		Sections:     sections,
	}, nil
}

// ListCharacterTemplates lists the templates available for a game system.
func (r *Resolver) ListCharacterTemplates(ctx context.Context, args struct{ Input ListCharacterTemplatesInput }) ([]TemplateSummary, error) {
	if _, err := identity.RequireSub(ctx); err != nil {
		return nil, err
	}
	if err := checkInput(args.Input); err != nil {
		return nil, err
	}

	lang := language(ctx)
	if args.Input.Language != nil {
		lang = *args.Input.Language
	}

	templates, err := r.templates.List(ctx, args.Input.GameType, lang)
	if err != nil {
		return nil, storageError(ctx, err)
	}

	summaries := make([]TemplateSummary, 0, len(templates))
	for _, template := range templates {
		summaries = append(summaries, TemplateSummary{
			TemplateName: template.TemplateName,
			DisplayName:  template.DisplayName,
			GameType:     template.GameType,
			Language:     template.Language,
		})
	}
	return summaries, nil
}
