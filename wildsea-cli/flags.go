package wildseacli

import "github.com/urfave/cli/v2"

var CommonOpts struct {
	Console          bool
	Dry              bool
	Env              string
	Port             int
	MaxGames         int
	MaxSettingsBytes int
}

var ConsoleFlag = cli.BoolFlag{
	Name:        "console",
	Usage:       "whether to run in console mode or lambda mode",
	Value:       false,
	EnvVars:     []string{"CONSOLE"},
	Destination: &CommonOpts.Console,
}
var DryFlag = cli.BoolFlag{
	Name:        "dry",
	Usage:       "whether to actually persist any records or not",
	Value:       false,
	EnvVars:     []string{"DRY"},
	Destination: &CommonOpts.Dry,
}
var EnvFlag = cli.StringFlag{
	Name:        "env",
	Usage:       "environment",
	Value:       "local",
	EnvVars:     []string{"ENV"},
	Destination: &CommonOpts.Env,
}
var MaxGamesFlag = cli.IntFlag{
	Name:        "max-games",
	Usage:       "maximum number of games a player may be in at once",
	Value:       10,
	EnvVars:     []string{"MAX_GAMES_PER_PLAYER"},
	Destination: &CommonOpts.MaxGames,
}
var MaxSettingsBytesFlag = cli.IntFlag{
	Name:        "max-settings-bytes",
	Usage:       "maximum size of a user's settings blob",
	Value:       10240,
	EnvVars:     []string{"MAX_USER_SETTINGS_BYTES"},
	Destination: &CommonOpts.MaxSettingsBytes,
}
var PortFlag = func(p int) *cli.IntFlag {
	return &cli.IntFlag{
		Name:        "port",
		Usage:       "Port to listen to, if running locally",
		Value:       p,
		EnvVars:     []string{"PORT"},
		Destination: &CommonOpts.Port,
	}
}

func StringFlag(name, usage string, dest *string) *cli.StringFlag {
	return &cli.StringFlag{
		Name:        name,
		Usage:       usage,
		EnvVars:     []string{envVarName(name)},
		Destination: dest,
	}
}

func envVarName(flagName string) string {
	out := make([]byte, 0, len(flagName))
	for i := 0; i < len(flagName); i++ {
		c := flagName[i]
		switch {
		case c == '-':
			out = append(out, '_')
		case c >= 'a' && c <= 'z':
			out = append(out, c-'a'+'A')
		default:
			out = append(out, c)
		}
	}
	return string(out)
}

var CommonFlags = []cli.Flag{
	&ConsoleFlag,
	&DryFlag,
	&EnvFlag,
}
