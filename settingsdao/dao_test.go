package settingsdao

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
)

func withTable(t *testing.T, callback func(ctx context.Context, dao *DAO)) {
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

	callback(ctx, dao)
}

func TestSettingsRoundTrip(t *testing.T) {
	withTable(t, func(ctx context.Context, dao *DAO) {
		settings, err := dao.Get(ctx, "u1")
		assert.Nil(t, err)
		assert.Nil(t, settings)

		t1 := time.Now().UTC().Format(time.RFC3339)
		saved, err := dao.Put(ctx, "u1", `{"theme":"dark"}`, t1)
		assert.Nil(t, err)
		assert.Equal(t, "u1", saved.UserID)
		assert.Equal(t, `{"theme":"dark"}`, saved.Settings)
		assert.Equal(t, t1, saved.CreatedAt)

		// overwrite keeps the original createdAt
		t2 := time.Now().UTC().Add(time.Second).Format(time.RFC3339)
		saved, err = dao.Put(ctx, "u1", `{"theme":"light"}`, t2)
		assert.Nil(t, err)
		assert.Equal(t, `{"theme":"light"}`, saved.Settings)
		assert.Equal(t, t1, saved.CreatedAt)
		assert.Equal(t, t2, saved.UpdatedAt)

		settings, err = dao.Get(ctx, "u1")
		assert.Nil(t, err)
		assert.NotNil(t, settings)
		assert.Equal(t, `{"theme":"light"}`, settings.Settings)
	})
}
