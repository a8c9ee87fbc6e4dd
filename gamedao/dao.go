// Package gamedao provides access to the Wildsea single-table layout: game
// records, player sheets, and sheet sections, all sharing a game-scoped
// partition, plus the GSI1 index for join codes and per-user lookups.
//
// Every ownership rule that gates a write is attached to the write itself as
// a condition expression, so a race against a concurrent delete or transfer
// cannot slip past the check. IsConditionalCheckFailed lets callers remap
// those failures without inspecting storage error codes themselves.
package gamedao

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbattribute"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
	"github.com/savaki/ddb"

	"github.com/jarrod-lowe/wildsea-sub001/game"
)

// DAO provides access to the games table.
type DAO struct {
	table     *ddb.Table
	api       dynamodbiface.DynamoDBAPI
	tableName string
}

// New creates a game DAO on the given table.
func New(api dynamodbiface.DynamoDBAPI, tableName string) *DAO {
	return &DAO{
		table:     ddb.New(api).MustTable(tableName, game.Record{}),
		api:       api,
		tableName: tableName,
	}
}

// GetGameRecords returns every record in the game's partition, in storage
// order.
func (d *DAO) GetGameRecords(ctx context.Context, gameID string) ([]game.Record, error) {
	var records []game.Record
	err := d.table.Query("#PK = ?", game.GamePK(gameID)).FindAllWithContext(ctx, &records)
	if err != nil {
		return nil, fmt.Errorf("failed to query game %v: %w", gameID, err)
	}
	return records, nil
}

// GetGameMeta returns the game record alone, or nil when absent.
func (d *DAO) GetGameMeta(ctx context.Context, gameID string) (*game.Record, error) {
	var rec game.Record
	err := d.table.Get(game.GamePK(gameID)).Range(game.GameSK()).ScanWithContext(ctx, &rec)
	if err != nil {
		if ddb.IsItemNotFoundError(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get game %v: %w", gameID, err)
	}
	return &rec, nil
}

// GetPlayerSheet returns a player sheet record, or nil when absent.
func (d *DAO) GetPlayerSheet(ctx context.Context, gameID, userID string) (*game.Record, error) {
	var rec game.Record
	err := d.table.Get(game.GamePK(gameID)).Range(game.PlayerSK(userID)).ScanWithContext(ctx, &rec)
	if err != nil {
		if ddb.IsItemNotFoundError(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get sheet %v/%v: %w", gameID, userID, err)
	}
	return &rec, nil
}

// GetGameByJoinCode resolves a join code to its game record via GSI1, or nil
// when no game carries the code.
func (d *DAO) GetGameByJoinCode(ctx context.Context, joinCode string) (*game.Record, error) {
	var records []game.Record
	err := d.table.Query("#GSI1PK = ?", game.JoinGSI1(joinCode)).
		IndexName("GSI1").
		FindAllWithContext(ctx, &records)
	if err != nil {
		return nil, fmt.Errorf("failed to query join code: %w", err)
	}
	for i := range records {
		if records[i].Type == game.TypeGame {
			return &records[i], nil
		}
	}
	return nil, nil
}

// ListUserGames returns the player's sheet records across all games via GSI1.
func (d *DAO) ListUserGames(ctx context.Context, sub string) ([]game.Record, error) {
	var records []game.Record
	err := d.table.Query("#GSI1PK = ?", game.UserGSI1(sub)).
		IndexName("GSI1").
		FindAllWithContext(ctx, &records)
	if err != nil {
		return nil, fmt.Errorf("failed to query games for user: %w", err)
	}
	return records, nil
}

// CountUserGames returns how many games the player currently has a sheet in.
func (d *DAO) CountUserGames(ctx context.Context, sub string) (int64, error) {
	output, err := d.api.QueryWithContext(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(d.tableName),
		IndexName:              aws.String("GSI1"),
		KeyConditionExpression: aws.String("GSI1PK = :gsi1pk"),
		ExpressionAttributeValues: map[string]*dynamodb.AttributeValue{
			":gsi1pk": {S: aws.String(game.UserGSI1(sub))},
		},
		Select: aws.String(dynamodb.SelectCount),
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count games for user: %w", err)
	}
	return *output.Count, nil
}

// ListPlayerSections returns the section records owned by one player within a
// game.
func (d *DAO) ListPlayerSections(ctx context.Context, gameID, userID string) ([]game.Record, error) {
	output, err := d.api.QueryWithContext(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(d.tableName),
		KeyConditionExpression: aws.String("PK = :pk AND begins_with(SK, :sk)"),
		FilterExpression:       aws.String("userId = :userId"),
		ExpressionAttributeValues: map[string]*dynamodb.AttributeValue{
			":pk":     {S: aws.String(game.GamePK(gameID))},
			":sk":     {S: aws.String(game.PrefixSection + "#")},
			":userId": {S: aws.String(userID)},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query sections for %v/%v: %w", gameID, userID, err)
	}

	records := make([]game.Record, 0, len(output.Items))
	for _, item := range output.Items {
		var rec game.Record
		if err := dynamodbattribute.UnmarshalMap(item, &rec); err != nil {
			return nil, fmt.Errorf("failed to unmarshal section record: %w", err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// CreateGame writes the game record and the owner's firefly sheet in one
// transaction. The guard on the game key makes a UUID collision fail closed.
func (d *DAO) CreateGame(ctx context.Context, gameItem GameItem, fireflyItem SheetItem) error {
	gameAttrs, err := dynamodbattribute.MarshalMap(gameItem)
	if err != nil {
		return fmt.Errorf("failed to marshal game record: %w", err)
	}
	sheetAttrs, err := dynamodbattribute.MarshalMap(fireflyItem)
	if err != nil {
		return fmt.Errorf("failed to marshal firefly sheet: %w", err)
	}

	_, err = d.api.TransactWriteItemsWithContext(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []*dynamodb.TransactWriteItem{
			{Put: &dynamodb.Put{
				TableName:           aws.String(d.tableName),
				Item:                gameAttrs,
				ConditionExpression: aws.String("attribute_not_exists(PK)"),
			}},
			{Put: &dynamodb.Put{
				TableName: aws.String(d.tableName),
				Item:      sheetAttrs,
			}},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create game %v: %w", gameItem.GameID, err)
	}
	return nil
}

// JoinGame adds the player to the game's set and creates their sheet, all or
// nothing. The sheet put is guarded against an existing sheet so a concurrent
// double join cannot apply twice.
func (d *DAO) JoinGame(ctx context.Context, gameID string, sheetItem SheetItem, now string) error {
	sheetAttrs, err := dynamodbattribute.MarshalMap(sheetItem)
	if err != nil {
		return fmt.Errorf("failed to marshal player sheet: %w", err)
	}

	_, err = d.api.TransactWriteItemsWithContext(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []*dynamodb.TransactWriteItem{
			{Update: &dynamodb.Update{
				TableName:           aws.String(d.tableName),
				Key:                 gameKey(gameID),
				ConditionExpression: aws.String("attribute_exists(PK)"),
				UpdateExpression:    aws.String("ADD players :player SET updatedAt = :updatedAt"),
				ExpressionAttributeValues: map[string]*dynamodb.AttributeValue{
					":player":    {SS: []*string{aws.String(sheetItem.UserID)}},
					":updatedAt": {S: aws.String(now)},
				},
			}},
			{Put: &dynamodb.Put{
				TableName:           aws.String(d.tableName),
				Item:                sheetAttrs,
				ConditionExpression: aws.String("attribute_not_exists(PK)"),
			}},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to join game %v: %w", gameID, err)
	}
	return nil
}

// CreateSection writes a new section record, transactionally checked against
// the owning sheet. The sheet must still exist at commit time, so a section
// cannot land after a concurrent player deletion, and it must belong to the
// caller or be a shared ship sheet. Service callers skip the ownership half.
func (d *DAO) CreateSection(ctx context.Context, item SectionItem, callerSub string, asService bool) error {
	attrs, err := dynamodbattribute.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("failed to marshal section: %w", err)
	}

	check := &dynamodb.ConditionCheck{
		TableName:           aws.String(d.tableName),
		Key:                 playerKey(item.GameID, item.UserID),
		ConditionExpression: aws.String("attribute_exists(PK)"),
	}
	if !asService {
		check.ConditionExpression = aws.String("attribute_exists(PK) AND (userId = :caller OR #type = :ship)")
		check.ExpressionAttributeNames = map[string]*string{"#type": aws.String("type")}
		check.ExpressionAttributeValues = map[string]*dynamodb.AttributeValue{
			":caller": {S: aws.String(callerSub)},
			":ship":   {S: aws.String(game.TypeShip)},
		}
	}

	_, err = d.api.TransactWriteItemsWithContext(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []*dynamodb.TransactWriteItem{
			{ConditionCheck: check},
			{Put: &dynamodb.Put{
				TableName:           aws.String(d.tableName),
				Item:                attrs,
				ConditionExpression: aws.String("attribute_not_exists(PK)"),
			}},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create section %v: %w", item.SectionID, err)
	}
	return nil
}

// UpdateSection applies the non-nil fields with a SET expression,
// conditioned on the caller owning the section or the section belonging to a
// shared ship sheet.
func (d *DAO) UpdateSection(ctx context.Context, spec UpdateSectionSpec, callerSub, now string) (*game.Record, error) {
	sets := []string{"updatedAt = :updatedAt"}
	values := map[string]*dynamodb.AttributeValue{
		":updatedAt":  {S: aws.String(now)},
		":caller":     {S: aws.String(callerSub)},
		":playerType": {S: aws.String(game.TypeShip)},
	}
	if spec.SectionName != nil {
		sets = append(sets, "sectionName = :sectionName")
		values[":sectionName"] = &dynamodb.AttributeValue{S: aws.String(*spec.SectionName)}
	}
	if spec.Content != nil {
		sets = append(sets, "content = :content")
		values[":content"] = &dynamodb.AttributeValue{S: aws.String(*spec.Content)}
	}
	if spec.Position != nil {
		sets = append(sets, "#position = :position")
		values[":position"] = &dynamodb.AttributeValue{N: aws.String(fmt.Sprintf("%d", *spec.Position))}
	}

	input := &dynamodb.UpdateItemInput{
		TableName:                 aws.String(d.tableName),
		Key:                       sectionKey(spec.GameID, spec.SectionID),
		ConditionExpression:       aws.String("userId = :caller OR playerType = :playerType"),
		UpdateExpression:          aws.String("SET " + strings.Join(sets, ", ")),
		ExpressionAttributeValues: values,
		ReturnValues:              aws.String(dynamodb.ReturnValueAllNew),
	}
	if spec.Position != nil {
		input.ExpressionAttributeNames = map[string]*string{"#position": aws.String("position")}
	}

	output, err := d.api.UpdateItemWithContext(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to update section %v: %w", spec.SectionID, err)
	}
	return unmarshalRecord(output.Attributes)
}

// DeleteSection removes a section under the same ownership condition as
// UpdateSection and returns the removed record.
func (d *DAO) DeleteSection(ctx context.Context, gameID, sectionID, callerSub string) (*game.Record, error) {
	output, err := d.api.DeleteItemWithContext(ctx, &dynamodb.DeleteItemInput{
		TableName:           aws.String(d.tableName),
		Key:                 sectionKey(gameID, sectionID),
		ConditionExpression: aws.String("userId = :caller OR playerType = :playerType"),
		ExpressionAttributeValues: map[string]*dynamodb.AttributeValue{
			":caller":     {S: aws.String(callerSub)},
			":playerType": {S: aws.String(game.TypeShip)},
		},
		ReturnValues: aws.String(dynamodb.ReturnValueAllOld),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to delete section %v: %w", sectionID, err)
	}
	return unmarshalRecord(output.Attributes)
}

// CreateShip writes a ship sheet record.
func (d *DAO) CreateShip(ctx context.Context, item SheetItem) error {
	attrs, err := dynamodbattribute.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("failed to marshal ship sheet: %w", err)
	}
	_, err = d.api.PutItemWithContext(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(d.tableName),
		Item:                attrs,
		ConditionExpression: aws.String("attribute_not_exists(PK)"),
	})
	if err != nil {
		return fmt.Errorf("failed to create ship sheet %v: %w", item.UserID, err)
	}
	return nil
}

// UpdatePlayerSheet renames a sheet, conditioned on the caller owning it or
// the sheet being a shared ship.
func (d *DAO) UpdatePlayerSheet(ctx context.Context, gameID, userID, callerSub, characterName, now string) (*game.Record, error) {
	output, err := d.api.UpdateItemWithContext(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(d.tableName),
		Key:                 playerKey(gameID, userID),
		ConditionExpression: aws.String("userId = :caller OR #type = :ship"),
		UpdateExpression:    aws.String("SET characterName = :characterName, updatedAt = :updatedAt"),
		ExpressionAttributeNames: map[string]*string{
			"#type": aws.String("type"),
		},
		ExpressionAttributeValues: map[string]*dynamodb.AttributeValue{
			":caller":        {S: aws.String(callerSub)},
			":ship":          {S: aws.String(game.TypeShip)},
			":characterName": {S: aws.String(characterName)},
			":updatedAt":     {S: aws.String(now)},
		},
		ReturnValues: aws.String(dynamodb.ReturnValueAllNew),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update sheet %v/%v: %w", gameID, userID, err)
	}
	return unmarshalRecord(output.Attributes)
}

// DeletePlayer removes the player's sections and sheet and retracts them from
// the game's player set, all in one transaction. The authorization rules ride
// on the transaction items, so state observed before the call cannot go stale
// under it: the sheet must still exist and must not have become a firefly
// sheet, a self-removal re-asserts the sheet's owner, and an owner-driven
// removal re-asserts game ownership on the roster update. Service callers
// skip the firefly and ownership conditions.
func (d *DAO) DeletePlayer(ctx context.Context, gameID, userID, callerSub string, asService bool, sectionIDs []string, now string) error {
	var items []*dynamodb.TransactWriteItem
	for _, sectionID := range sectionIDs {
		items = append(items, &dynamodb.TransactWriteItem{Delete: &dynamodb.Delete{
			TableName: aws.String(d.tableName),
			Key:       sectionKey(gameID, sectionID),
		}})
	}

	sheetDelete := &dynamodb.Delete{
		TableName:           aws.String(d.tableName),
		Key:                 playerKey(gameID, userID),
		ConditionExpression: aws.String("attribute_exists(PK)"),
	}
	if !asService {
		cond := "attribute_exists(PK) AND #type <> :firefly"
		values := map[string]*dynamodb.AttributeValue{
			":firefly": {S: aws.String(game.TypeFirefly)},
		}
		if callerSub == userID {
			cond += " AND userId = :caller"
			values[":caller"] = &dynamodb.AttributeValue{S: aws.String(callerSub)}
		}
		sheetDelete.ConditionExpression = aws.String(cond)
		sheetDelete.ExpressionAttributeNames = map[string]*string{"#type": aws.String("type")}
		sheetDelete.ExpressionAttributeValues = values
	}

	rosterUpdate := &dynamodb.Update{
		TableName:           aws.String(d.tableName),
		Key:                 gameKey(gameID),
		ConditionExpression: aws.String("attribute_exists(PK)"),
		UpdateExpression:    aws.String("DELETE players :player SET updatedAt = :updatedAt"),
		ExpressionAttributeValues: map[string]*dynamodb.AttributeValue{
			":player":    {SS: []*string{aws.String(userID)}},
			":updatedAt": {S: aws.String(now)},
		},
	}
	if !asService && callerSub != userID {
		rosterUpdate.ConditionExpression = aws.String("attribute_exists(PK) AND fireflyUserId = :caller")
		rosterUpdate.ExpressionAttributeValues[":caller"] = &dynamodb.AttributeValue{S: aws.String(callerSub)}
	}

	items = append(items,
		&dynamodb.TransactWriteItem{Delete: sheetDelete},
		&dynamodb.TransactWriteItem{Update: rosterUpdate},
	)

	_, err := d.api.TransactWriteItemsWithContext(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: items,
	})
	if err != nil {
		return fmt.Errorf("failed to delete player %v/%v: %w", gameID, userID, err)
	}
	return nil
}

// PutDiceRoll writes a roll record into the game's partition. Rolls are
// immutable once written, so a plain put suffices; membership is checked by
// the caller against the roller's sheet.
func (d *DAO) PutDiceRoll(ctx context.Context, item DiceRollItem) error {
	attrs, err := dynamodbattribute.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("failed to marshal dice roll: %w", err)
	}
	_, err = d.api.PutItemWithContext(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(d.tableName),
		Item:      attrs,
	})
	if err != nil {
		return fmt.Errorf("failed to put dice roll for game %v: %w", item.GameID, err)
	}
	return nil
}

// UpdateGame renames a game, owner-only.
func (d *DAO) UpdateGame(ctx context.Context, gameID, callerSub, name, description, now string) (*game.Record, error) {
	output, err := d.api.UpdateItemWithContext(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(d.tableName),
		Key:                 gameKey(gameID),
		ConditionExpression: aws.String("fireflyUserId = :caller"),
		UpdateExpression:    aws.String("SET gameName = :gameName, gameDescription = :gameDescription, updatedAt = :updatedAt"),
		ExpressionAttributeValues: map[string]*dynamodb.AttributeValue{
			":caller":          {S: aws.String(callerSub)},
			":gameName":        {S: aws.String(name)},
			":gameDescription": {S: aws.String(description)},
			":updatedAt":       {S: aws.String(now)},
		},
		ReturnValues: aws.String(dynamodb.ReturnValueAllNew),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update game %v: %w", gameID, err)
	}
	return unmarshalRecord(output.Attributes)
}

// UpdateJoinCode rotates a game's join code and its index entry, owner-only.
func (d *DAO) UpdateJoinCode(ctx context.Context, gameID, callerSub, joinCode, now string) (*game.Record, error) {
	output, err := d.api.UpdateItemWithContext(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(d.tableName),
		Key:                 gameKey(gameID),
		ConditionExpression: aws.String("fireflyUserId = :caller"),
		UpdateExpression:    aws.String("SET joinCode = :joinCode, GSI1PK = :gsi1pk, updatedAt = :updatedAt"),
		ExpressionAttributeValues: map[string]*dynamodb.AttributeValue{
			":caller":    {S: aws.String(callerSub)},
			":joinCode":  {S: aws.String(joinCode)},
			":gsi1pk":    {S: aws.String(game.JoinGSI1(joinCode))},
			":updatedAt": {S: aws.String(now)},
		},
		ReturnValues: aws.String(dynamodb.ReturnValueAllNew),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update join code for game %v: %w", gameID, err)
	}
	return unmarshalRecord(output.Attributes)
}

// DeleteGame removes the game record (owner-only, conditionally) and then
// sweeps the rest of the partition with batched deletes. The sweep is not
// atomic with the record delete; once the game record is gone the partition
// is unreachable through the API, so stragglers are only storage garbage.
func (d *DAO) DeleteGame(ctx context.Context, gameID, callerSub string) (*game.Record, error) {
	output, err := d.api.DeleteItemWithContext(ctx, &dynamodb.DeleteItemInput{
		TableName:           aws.String(d.tableName),
		Key:                 gameKey(gameID),
		ConditionExpression: aws.String("fireflyUserId = :caller"),
		ExpressionAttributeValues: map[string]*dynamodb.AttributeValue{
			":caller": {S: aws.String(callerSub)},
		},
		ReturnValues: aws.String(dynamodb.ReturnValueAllOld),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to delete game %v: %w", gameID, err)
	}

	rec, err := unmarshalRecord(output.Attributes)
	if err != nil {
		return nil, err
	}
	if err := d.deletePartition(ctx, gameID); err != nil {
		return nil, err
	}
	return rec, nil
}

func (d *DAO) deletePartition(ctx context.Context, gameID string) error {
	records, err := d.GetGameRecords(ctx, gameID)
	if err != nil {
		return err
	}

	// Batch delete in chunks of 25 (DynamoDB limit)
	const batchSize = 25
	for i := 0; i < len(records); i += batchSize {
		end := i + batchSize
		if end > len(records) {
			end = len(records)
		}
		chunk := records[i:end]

		writeRequests := make([]*dynamodb.WriteRequest, len(chunk))
		for j, rec := range chunk {
			writeRequests[j] = &dynamodb.WriteRequest{
				DeleteRequest: &dynamodb.DeleteRequest{Key: map[string]*dynamodb.AttributeValue{
					"PK": {S: aws.String(rec.PK)},
					"SK": {S: aws.String(rec.SK)},
				}},
			}
		}

		_, err := d.api.BatchWriteItemWithContext(ctx, &dynamodb.BatchWriteItemInput{
			RequestItems: map[string][]*dynamodb.WriteRequest{
				d.tableName: writeRequests,
			},
		})
		if err != nil {
			return fmt.Errorf("failed to sweep partition for game %v: %w", gameID, err)
		}
	}
	return nil
}

func gameKey(gameID string) map[string]*dynamodb.AttributeValue {
	return map[string]*dynamodb.AttributeValue{
		"PK": {S: aws.String(game.GamePK(gameID))},
		"SK": {S: aws.String(game.GameSK())},
	}
}

func playerKey(gameID, userID string) map[string]*dynamodb.AttributeValue {
	return map[string]*dynamodb.AttributeValue{
		"PK": {S: aws.String(game.GamePK(gameID))},
		"SK": {S: aws.String(game.PlayerSK(userID))},
	}
}

func sectionKey(gameID, sectionID string) map[string]*dynamodb.AttributeValue {
	return map[string]*dynamodb.AttributeValue{
		"PK": {S: aws.String(game.GamePK(gameID))},
		"SK": {S: aws.String(game.SectionSK(sectionID))},
	}
}

func unmarshalRecord(attrs map[string]*dynamodb.AttributeValue) (*game.Record, error) {
	var rec game.Record
	if err := dynamodbattribute.UnmarshalMap(attrs, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal record: %w", err)
	}
	return &rec, nil
}

// IsConditionalCheckFailed reports whether err was caused by a condition
// expression failing, directly or inside a cancelled transaction.
func IsConditionalCheckFailed(err error) bool {
	return err != nil && strings.Contains(err.Error(), "ConditionalCheckFailed")
}
