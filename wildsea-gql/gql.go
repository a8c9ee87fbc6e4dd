// Package wildseagql provides the GraphQL server plumbing: a chi router with
// CORS and logging middleware, relay handler construction, and serving either
// as a local webserver or as a Lambda function behind API Gateway.
package wildseagql

import (
	wildseacli "github.com/jarrod-lowe/wildsea-sub001/wildsea-cli"
)

func AllowIntrospection() bool {
	return wildseacli.CommonOpts.Env != "prod" || wildseacli.CommonOpts.Console
}

type Resolver interface {
	Schema() string
	Config() *BaseConfig
}
