// Package settingsdao stores per-user settings blobs. Settings live in the
// games table under their own partition so a user's preferences survive any
// individual game.
package settingsdao

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbattribute"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
	"github.com/savaki/ddb"

	"github.com/jarrod-lowe/wildsea-sub001/game"
)

// Record is the storage shape of a settings row.
type Record struct {
	PK string `dynamodbav:"PK" ddb:"hash"`
	SK string `dynamodbav:"SK" ddb:"range"`

	UserID    string `dynamodbav:"userId"`
	Settings  string `dynamodbav:"settings"`
	Type      string `dynamodbav:"type"`
	CreatedAt string `dynamodbav:"createdAt"`
	UpdatedAt string `dynamodbav:"updatedAt"`
}

// Public reshapes the record into its API form.
func (r Record) Public() *game.UserSettings {
	return &game.UserSettings{
		UserID:    r.UserID,
		Settings:  r.Settings,
		Type:      r.Type,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// DAO provides access to user settings.
type DAO struct {
	table     *ddb.Table
	api       dynamodbiface.DynamoDBAPI
	tableName string
}

// New creates a settings DAO on the given table.
func New(api dynamodbiface.DynamoDBAPI, tableName string) *DAO {
	return &DAO{
		table:     ddb.New(api).MustTable(tableName, Record{}),
		api:       api,
		tableName: tableName,
	}
}

// Get returns the user's settings, or nil when they have never been saved.
func (d *DAO) Get(ctx context.Context, sub string) (*game.UserSettings, error) {
	var rec Record
	err := d.table.Get(game.SettingsPK(sub)).Range(game.SettingsSK()).ScanWithContext(ctx, &rec)
	if err != nil {
		if ddb.IsItemNotFoundError(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get settings for user: %w", err)
	}
	return rec.Public(), nil
}

// Put upserts the user's settings blob, preserving the original createdAt on
// overwrite.
func (d *DAO) Put(ctx context.Context, sub, settings, now string) (*game.UserSettings, error) {
	output, err := d.api.UpdateItemWithContext(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(d.tableName),
		Key: map[string]*dynamodb.AttributeValue{
			"PK": {S: aws.String(game.SettingsPK(sub))},
			"SK": {S: aws.String(game.SettingsSK())},
		},
		UpdateExpression: aws.String(
			"SET settings = :settings, userId = :userId, #type = :type, " +
				"updatedAt = :now, createdAt = if_not_exists(createdAt, :now)"),
		ExpressionAttributeNames: map[string]*string{
			"#type": aws.String("type"),
		},
		ExpressionAttributeValues: map[string]*dynamodb.AttributeValue{
			":settings": {S: aws.String(settings)},
			":userId":   {S: aws.String(sub)},
			":type":     {S: aws.String(game.TypeSettings)},
			":now":      {S: aws.String(now)},
		},
		ReturnValues: aws.String(dynamodb.ReturnValueAllNew),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save settings for user: %w", err)
	}

	var rec Record
	if err := dynamodbattribute.UnmarshalMap(output.Attributes, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal settings record: %w", err)
	}
	return rec.Public(), nil
}
