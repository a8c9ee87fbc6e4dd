package main

import (
	"log"
	"os"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/urfave/cli/v2"

	"github.com/jarrod-lowe/wildsea-sub001/gamedao"
	"github.com/jarrod-lowe/wildsea-sub001/notificationdao"
	"github.com/jarrod-lowe/wildsea-sub001/settingsdao"
	"github.com/jarrod-lowe/wildsea-sub001/templatedao"
	wildseaapi "github.com/jarrod-lowe/wildsea-sub001/wildsea-api"
	wildseacli "github.com/jarrod-lowe/wildsea-sub001/wildsea-cli"
	wildseaddb "github.com/jarrod-lowe/wildsea-sub001/wildsea-ddb"
	wildseagql "github.com/jarrod-lowe/wildsea-sub001/wildsea-gql"
	wildseasecret "github.com/jarrod-lowe/wildsea-sub001/wildsea-secret"
)

var service = wildseacli.NewService("wildsea-api")

var jwtSecret string

func main() {
	app := wildseacli.App(
		service,
		action,
		append(
			append(
				wildseacli.CommonFlags,
				wildseacli.PortFlag(5001),
				&wildseacli.MaxGamesFlag,
				&wildseacli.MaxSettingsBytesFlag,
				wildseacli.StringFlag("jwt-secret", "HMAC secret for console-mode token verification", &jwtSecret),
			),
			wildseaddb.DDBFlags...,
		)...,
	)
	if err := app.Run(os.Args); err != nil {
		log.Fatalln(err)
	}
}

func action(_ *cli.Context) error {
	sess := session.Must(session.NewSession(aws.NewConfig()))
	api, err := wildseaddb.DynamoDBAPI(sess)
	if err != nil {
		return err
	}

	env := wildseacli.CommonOpts.Env

	base := wildseagql.NewConfig(service)
	if wildseacli.CommonOpts.Console {
		// In lambda mode the gateway validates tokens; locally we verify
		// them ourselves.
		secret := []byte(jwtSecret)
		if len(secret) == 0 {
			secret, err = wildseasecret.LoadJWTSecret(sess, env)
			if err != nil {
				return err
			}
		}
		base.JWTSecret = secret
	}

	resolver := wildseaapi.New(
		base,
		gamedao.Build(api, env),
		settingsdao.Build(api, env),
		templatedao.Build(api, env),
		notificationdao.Build(api, env),
		int32(wildseacli.CommonOpts.MaxGames),
		wildseacli.CommonOpts.MaxSettingsBytes,
	)
	return wildseagql.Webserver(resolver)
}
