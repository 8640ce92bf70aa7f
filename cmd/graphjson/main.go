// Command graphjson formats, queries and maps Graph API JSON documents and
// can fetch them from the API.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/alecthomas/kong"
	"golang.org/x/term"

	"github.com/restfb/restfb-sub000/internal/config"
)

var version = "dev"

type CLI struct {
	config.Globals

	Version kong.VersionFlag `kong:"short='v',help='Show version and exit.'"`

	Fmt    FmtCmd    `kong:"cmd,help='Reformat a JSON document.'"`
	Query  QueryCmd  `kong:"cmd,help='Evaluate a JSONPath expression.'"`
	Map    MapCmd    `kong:"cmd,help='Map a document into a resource type and print it back.'"`
	Schema SchemaCmd `kong:"cmd,help='Print the JSON Schema of a resource type.'"`
	Fetch  FetchCmd  `kong:"cmd,help='Fetch an object or connection from the Graph API.'"`
	Types  TypesCmd  `kong:"cmd,help='List the resource type names.'"`
}

func configPaths() []string {
	var paths []string
	if wd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(wd, ".graphjson.yaml"))
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".graphjson.yaml"))
	}
	return paths
}

func main() {
	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("graphjson"),
		kong.Description("Format, query and map Graph API JSON."),
		kong.Configuration(config.YAML, configPaths()...),
		kong.Vars{"version": version},
		kong.UsageOnError(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	color := !cli.NoColor && term.IsTerminal(int(os.Stderr.Fd()))
	ctx = config.SetupLogging(ctx, os.Stderr, cli.LogLevel, color)
	cli.ApplyDriver()

	kctx.BindTo(ctx, (*context.Context)(nil))
	if err := kctx.Run(&cli.Globals); err != nil {
		fmt.Fprintln(os.Stderr, "graphjson:", err)
		os.Exit(1)
	}
}
