package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
)

var version = "dev"

// Globals are flags shared by every command.
type Globals struct {
	EnvFile string `help:"Dotenv file read before the environment. Missing files are ignored." default:".env" type:"path"`
}

type rootCmd struct {
	Globals

	Version kong.VersionFlag `help:"Print version and exit."`
	Serve   ServeCmd         `cmd:"" help:"Run the HTTP API." default:"1"`
	Migrate MigrateCmd       `cmd:"" help:"Create or update the database schema and exit."`
}

func parserOptions() []kong.Option {
	return []kong.Option{
		kong.Name("weeklychallenges"),
		kong.Description("Weekly challenges API server"),
		kong.UsageOnError(),
		kong.Vars{"version": version},
	}
}

func main() {
	var cli rootCmd
	ctx := kong.Parse(&cli, parserOptions()...)
	if err := ctx.Run(&cli.Globals); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
