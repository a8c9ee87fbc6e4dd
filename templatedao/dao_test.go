package templatedao

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/savaki/ddb"
	"github.com/tj/assert"

	"github.com/jarrod-lowe/wildsea-sub001/game"
)

func withTable(t *testing.T, callback func(ctx context.Context, table *ddb.Table, dao *DAO)) {
	if os.Getenv("DYNAMODB_LOCAL") == "" {
		t.Skip("set DYNAMODB_LOCAL to run tests against a local dynamodb")
	}

	var (
		s = session.Must(session.NewSession(aws.NewConfig().
			WithCredentials(credentials.NewStaticCredentials("blah", "blah", "")).
			WithEndpoint("http://localhost:8000").
			WithRegion("us-west-2")))
		api       = dynamodb.New(s)
		client    = ddb.New(api)
		tableName = fmt.Sprintf("table-%v", time.Now().UnixNano())
		table     = client.MustTable(tableName, Record{})
		dao       = New(api, tableName)
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	err := table.CreateTableIfNotExists(ctx)
	assert.Nil(t, err)
	defer table.DeleteTableIfExists(ctx)

	callback(ctx, table, dao)
}

func templateRecord(name, language string) Record {
	return Record{
		PK:           game.TemplatePK("wildsea", language),
		SK:           game.TemplateSK(name),
		TemplateName: name,
		DisplayName:  "Display " + name,
		GameType:     "wildsea",
		Language:     language,
		Sections:     `[{"sectionName":"Edges","sectionType":"TRACKABLE","content":"{}"}]`,
		Type:         game.TypeTemplate,
	}
}

func TestGetTemplate(t *testing.T) {
	withTable(t, func(ctx context.Context, table *ddb.Table, dao *DAO) {
		err := table.Put(templateRecord("ironclad", "en")).RunWithContext(ctx)
		assert.Nil(t, err)

		tmpl, err := dao.Get(ctx, "wildsea", "ironclad", "en")
		assert.Nil(t, err)
		assert.NotNil(t, tmpl)
		assert.Equal(t, "ironclad", tmpl.TemplateName)
		assert.Len(t, tmpl.Sections, 1)
		assert.Equal(t, "Edges", tmpl.Sections[0].SectionName)

		// missing language falls back to english
		tmpl, err = dao.Get(ctx, "wildsea", "ironclad", "tlh")
		assert.Nil(t, err)
		assert.NotNil(t, tmpl)
		assert.Equal(t, "en", tmpl.Language)

		tmpl, err = dao.Get(ctx, "wildsea", "no-such-template", "en")
		assert.Nil(t, err)
		assert.Nil(t, tmpl)
	})
}

func TestListTemplates(t *testing.T) {
	withTable(t, func(ctx context.Context, table *ddb.Table, dao *DAO) {
		assert.Nil(t, table.Put(templateRecord("ironclad", "en")).RunWithContext(ctx))
		assert.Nil(t, table.Put(templateRecord("surgeon", "en")).RunWithContext(ctx))

		templates, err := dao.List(ctx, "wildsea", "en")
		assert.Nil(t, err)
		assert.Len(t, templates, 2)

		// english fallback when the language has no templates
		templates, err = dao.List(ctx, "wildsea", "tlh")
		assert.Nil(t, err)
		assert.Len(t, templates, 2)
	})
}

func TestParse(t *testing.T) {
	rec := templateRecord("ironclad", "en")
	tmpl, err := rec.parse()
	assert.Nil(t, err)
	assert.Len(t, tmpl.Sections, 1)
	assert.Equal(t, "TRACKABLE", tmpl.Sections[0].SectionType)

	rec.Sections = ""
	tmpl, err = rec.parse()
	assert.Nil(t, err)
	assert.Len(t, tmpl.Sections, 0)

	rec.Sections = "not json"
	_, err = rec.parse()
	assert.NotNil(t, err)
}
