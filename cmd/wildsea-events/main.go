package main

import (
	"context"
	"log"
	"os"

	"github.com/urfave/cli/v2"

	wildseacli "github.com/jarrod-lowe/wildsea-sub001/wildsea-cli"
	wildseaddb "github.com/jarrod-lowe/wildsea-sub001/wildsea-ddb"
	"github.com/jarrod-lowe/wildsea-sub001/wildsea-ws/publish"
)

var service = wildseacli.NewService("wildsea-events")

func main() {
	app := wildseacli.App(
		service,
		action,
		append(
			wildseacli.CommonFlags,
			wildseaddb.DDBFlags...,
		)...,
	)
	if err := app.Run(os.Args); err != nil {
		log.Fatalln(err)
	}
}

// drySender logs instead of publishing, for --dry runs against a real table.
type drySender struct{}

func (drySender) Send(ctx context.Context, topic string, payload interface{}) error {
	logger := wildseacli.Logger(service)
	logger.Info().Str("topic", topic).Msg("dry run, not publishing")
	return nil
}

func action(_ *cli.Context) error {
	var sender wildseaddb.Sender = publish.Build(wildseacli.CommonOpts.Env)
	if wildseacli.CommonOpts.Dry {
		sender = drySender{}
	}

	publisher := &wildseaddb.ChangePublisher{
		Publisher: sender,
		Logger:    wildseacli.Logger(service),
	}

	handler := wildseaddb.NewHandler(service, publisher.OnInsert, publisher.OnUpdate, publisher.OnDelete)
	return handler.Start()
}
