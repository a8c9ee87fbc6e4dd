package main

import (
	"fmt"
	"log"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/urfave/cli/v2"

	"github.com/jarrod-lowe/wildsea-sub001/gamedao"
	wildseacli "github.com/jarrod-lowe/wildsea-sub001/wildsea-cli"
	wildseasecret "github.com/jarrod-lowe/wildsea-sub001/wildsea-secret"
	wildseaws "github.com/jarrod-lowe/wildsea-sub001/wildsea-ws"
	"github.com/jarrod-lowe/wildsea-sub001/wildsea-ws/connectiondao"
	"github.com/jarrod-lowe/wildsea-sub001/wildsea-ws/subscriptiondao"
)

var service = wildseacli.NewService("wildsea-ws")

func main() {
	app := wildseacli.App(
		service,
		action,
		wildseacli.CommonFlags...,
	)
	if err := app.Run(os.Args); err != nil {
		log.Fatalln(err)
	}
}

func action(_ *cli.Context) error {
	if wildseacli.CommonOpts.Console {
		return fmt.Errorf("%v only runs behind an API Gateway WebSocket; console mode is not supported", service.Name)
	}

	sess := session.Must(session.NewSession(aws.NewConfig()))
	api := dynamodb.New(sess)
	env := wildseacli.CommonOpts.Env

	// connection_init tokens arrive on the $default route, which the gateway
	// authorizer never sees, so the handler verifies them itself.
	secret, err := wildseasecret.LoadJWTSecret(sess, env)
	if err != nil {
		return err
	}

	handler := &wildseaws.Handler{
		Connections: connectiondao.Build(api, env),
		Subs:        subscriptiondao.Build(api, env),
		Games:       gamedao.Build(api, env),
		Topics:      wildseaws.Topics{},
		JWTSecret:   secret,
		Logger:      wildseacli.Logger(service),
	}
	lambda.Start(handler.HandleEvent)
	return nil
}
