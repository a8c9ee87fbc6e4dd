// Package notificationdao stores the site-wide system notification. There is
// exactly one, kept under a fixed key in the games table so the change stream
// carries updates to every connected client.
package notificationdao

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

// Record is the storage shape of the notification row.
type Record struct {
	PK string `dynamodbav:"PK" ddb:"hash"`
	SK string `dynamodbav:"SK" ddb:"range"`

	Message   string `dynamodbav:"message"`
	Urgent    bool   `dynamodbav:"urgent"`
	Type      string `dynamodbav:"type"`
	CreatedAt string `dynamodbav:"createdAt"`
	UpdatedAt string `dynamodbav:"updatedAt"`
}

// Public reshapes the record into its API form.
func (r Record) Public() *game.SystemNotification {
	return &game.SystemNotification{
		Message:   r.Message,
		Urgent:    r.Urgent,
		Type:      r.Type,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// DAO provides access to the system notification.
type DAO struct {
	table     *ddb.Table
	api       dynamodbiface.DynamoDBAPI
	tableName string
}

// New creates a notification DAO on the given table.
func New(api dynamodbiface.DynamoDBAPI, tableName string) *DAO {
	return &DAO{
		table:     ddb.New(api).MustTable(tableName, Record{}),
		api:       api,
		tableName: tableName,
	}
}

// Get returns the current notification, or nil when none has been set.
func (d *DAO) Get(ctx context.Context) (*game.SystemNotification, error) {
	var rec Record
	err := d.table.Get(game.NotificationPK()).Range(game.NotificationSK()).ScanWithContext(ctx, &rec)
	if err != nil {
		if ddb.IsItemNotFoundError(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get system notification: %w", err)
	}
	return rec.Public(), nil
}

// Set upserts the notification, preserving the original createdAt on
// overwrite.
func (d *DAO) Set(ctx context.Context, message string, urgent bool, now string) (*game.SystemNotification, error) {
	output, err := d.api.UpdateItemWithContext(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(d.tableName),
		Key: map[string]*dynamodb.AttributeValue{
			"PK": {S: aws.String(game.NotificationPK())},
			"SK": {S: aws.String(game.NotificationSK())},
		},
		// "message" is a reserved word in update expressions
		UpdateExpression: aws.String(
			"SET #message = :message, urgent = :urgent, #type = :type, " +
				"updatedAt = :now, createdAt = if_not_exists(createdAt, :now)"),
		ExpressionAttributeNames: map[string]*string{
			"#message": aws.String("message"),
			"#type":    aws.String("type"),
		},
		ExpressionAttributeValues: map[string]*dynamodb.AttributeValue{
			":message": {S: aws.String(message)},
			":urgent":  {BOOL: aws.Bool(urgent)},
			":type":    {S: aws.String(game.TypeNotification)},
			":now":     {S: aws.String(now)},
		},
		ReturnValues: aws.String(dynamodb.ReturnValueAllNew),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to set system notification: %w", err)
	}

	var rec Record
	if err := dynamodbattribute.UnmarshalMap(output.Attributes, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal notification record: %w", err)
	}
	return rec.Public(), nil
}
