package wildseagql

import (
	"os"

	wildseacli "github.com/jarrod-lowe/wildsea-sub001/wildsea-cli"
	"github.com/rs/zerolog"
)

type BaseConfig struct {
	Logger    zerolog.Logger
	Service   wildseacli.Service
	JWTSecret []byte // nil in lambda mode; the gateway validates tokens there
}

func NewConfig(service wildseacli.Service) BaseConfig {
	return BaseConfig{
		Logger: zerolog.New(os.Stdout).With().
			Str("service", service.Name).
			Str("version", service.Version).
			Logger(),
		Service: service,
	}
}
