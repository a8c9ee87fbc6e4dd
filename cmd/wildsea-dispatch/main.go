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

	wildseacli "github.com/jarrod-lowe/wildsea-sub001/wildsea-cli"
	wildseaws "github.com/jarrod-lowe/wildsea-sub001/wildsea-ws"
	"github.com/jarrod-lowe/wildsea-sub001/wildsea-ws/connectiondao"
	"github.com/jarrod-lowe/wildsea-sub001/wildsea-ws/subscriptiondao"
)

var service = wildseacli.NewService("wildsea-dispatch")

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
		return fmt.Errorf("%v only runs from a Kinesis trigger; console mode is not supported", service.Name)
	}

	sess := session.Must(session.NewSession(aws.NewConfig()))
	api := dynamodb.New(sess)
	env := wildseacli.CommonOpts.Env

	dispatcher := &wildseaws.Dispatcher{
		Connections: connectiondao.Build(api, env),
		Subs:        subscriptiondao.Build(api, env),
		Logger:      wildseacli.Logger(service),
	}
	lambda.Start(dispatcher.HandleKinesisEvent)
	return nil
}
