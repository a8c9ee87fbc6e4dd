// Package templatedao reads character templates: pre-canned section lists a
// new sheet can be seeded from. Templates are keyed by game system and
// language, with an English fallback when a localised copy is missing.
package templatedao

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
	"github.com/savaki/ddb"

	"github.com/jarrod-lowe/wildsea-sub001/game"
)

// Record is the storage shape of a template row. Sections holds the section
// list as a JSON document.
type Record struct {
	PK string `dynamodbav:"PK" ddb:"hash"`
	SK string `dynamodbav:"SK" ddb:"range"`

	TemplateName string `dynamodbav:"templateName"`
	DisplayName  string `dynamodbav:"displayName"`
	GameType     string `dynamodbav:"gameType"`
	Language     string `dynamodbav:"language"`
	Sections     string `dynamodbav:"sections"`
	Type         string `dynamodbav:"type"`
}

// Template is the parsed form of a template record.
type Template struct {
	TemplateName string
	DisplayName  string
	GameType     string
	Language     string
	Sections     []game.TemplateSection
}

// DAO provides read access to character templates.
type DAO struct {
	table *ddb.Table
}

// New creates a template DAO on the given table.
func New(api dynamodbiface.DynamoDBAPI, tableName string) *DAO {
	return &DAO{
		table: ddb.New(api).MustTable(tableName, Record{}),
	}
}

// Get returns the named template in the requested language, falling back to
// English, or nil when neither exists.
func (d *DAO) Get(ctx context.Context, gameType, name, language string) (*Template, error) {
	rec, err := d.get(ctx, gameType, name, language)
	if err != nil {
		return nil, err
	}
	if rec == nil && language != "en" {
		rec, err = d.get(ctx, gameType, name, "en")
		if err != nil {
			return nil, err
		}
	}
	if rec == nil {
		return nil, nil
	}
	return rec.parse()
}

// List returns the template names available for a game system in the given
// language, falling back to English when the language has none.
func (d *DAO) List(ctx context.Context, gameType, language string) ([]Template, error) {
	records, err := d.list(ctx, gameType, language)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 && language != "en" {
		records, err = d.list(ctx, gameType, "en")
		if err != nil {
			return nil, err
		}
	}

	templates := make([]Template, 0, len(records))
	for _, rec := range records {
		templates = append(templates, Template{
			TemplateName: rec.TemplateName,
			DisplayName:  rec.DisplayName,
			GameType:     rec.GameType,
			Language:     rec.Language,
		})
	}
	return templates, nil
}

func (d *DAO) get(ctx context.Context, gameType, name, language string) (*Record, error) {
	var rec Record
	err := d.table.Get(game.TemplatePK(gameType, language)).
		Range(game.TemplateSK(name)).
		ScanWithContext(ctx, &rec)
	if err != nil {
		if ddb.IsItemNotFoundError(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get template %v/%v: %w", gameType, name, err)
	}
	return &rec, nil
}

func (d *DAO) list(ctx context.Context, gameType, language string) ([]Record, error) {
	var records []Record
	err := d.table.Query("#PK = ?", game.TemplatePK(gameType, language)).
		FindAllWithContext(ctx, &records)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates for %v: %w", gameType, err)
	}
	return records, nil
}

func (r *Record) parse() (*Template, error) {
	var sections []game.TemplateSection
	if r.Sections != "" {
		if err := json.Unmarshal([]byte(r.Sections), &sections); err != nil {
			return nil, fmt.Errorf("failed to parse template %v: %w", r.TemplateName, err)
		}
	}
	return &Template{
		TemplateName: r.TemplateName,
		DisplayName:  r.DisplayName,
		GameType:     r.GameType,
		Language:     r.Language,
		Sections:     sections,
	}, nil
}
