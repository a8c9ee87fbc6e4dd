package settingsdao

import (
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"

	"github.com/jarrod-lowe/wildsea-sub001/gamedao"
)

// Build creates a settings DAO on the standard games table for the given
// environment.
func Build(api dynamodbiface.DynamoDBAPI, env string) *DAO {
	return New(api, gamedao.TableName(env))
}
