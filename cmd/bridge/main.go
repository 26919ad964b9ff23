package main

import (
	"context"
	"log"
	"os"

	"github.com/rxtech-lab/argo-bridge/internal/version"
	"github.com/urfave/cli/v3"
)

func newCommand() *cli.Command {
	configFlag := &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to the configuration `FILE` (defaults to ./config.yaml when present)",
		Sources: cli.EnvVars("ARGO_BRIDGE_CONFIG"),
	}

	return &cli.Command{
		Name:    "bridge",
		Usage:   "Serve trading account statistics over HTTP and monitor the server",
		Version: version.GetVersion(),
		Flags:   []cli.Flag{configFlag},
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "Run the API server with the terminal dashboard",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "headless",
						Usage: "Run without the dashboard and log to stdout",
					},
				},
				Action: serveAction,
			},
			{
				Name:  "dashboard",
				Usage: "Monitor a running server (runtime settings are read-only)",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "url",
						Usage: "Monitor endpoint, e.g. http://10.0.0.5:5000/monitor",
					},
					&cli.DurationFlag{
						Name:  "interval",
						Usage: "Poll interval",
					},
				},
				Action: dashboardAction,
			},
			{
				Name:  "providers",
				Usage: "List the supported data source providers",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "schema",
						Usage: "Print the JSON schema of the named `PROVIDER`'s settings instead",
					},
				},
				Action: providersAction,
			},
			{
				Name:  "config",
				Usage: "Inspect the configuration",
				Commands: []*cli.Command{
					{
						Name:   "schema",
						Usage:  "Print the JSON schema of the configuration file",
						Action: configSchemaAction,
					},
					{
						Name:   "show",
						Usage:  "Print the effective configuration as YAML",
						Action: configShowAction,
					},
				},
			},
			{
				Name:   "version",
				Usage:  "Print the build version",
				Action: versionAction,
			},
		},
	}
}

func main() {
	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
