package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rxtech-lab/argo-bridge/internal/config"
	"github.com/rxtech-lab/argo-bridge/internal/dashboard"
	"github.com/rxtech-lab/argo-bridge/internal/datasource"
	"github.com/rxtech-lab/argo-bridge/internal/version"
	"github.com/urfave/cli/v3"
)

// dashboardAction monitors a remote server. Without a config store the runtime settings are read-only.
func dashboardAction(ctx context.Context, cmd *cli.Command) error {
	cfg, _, err := loadConfig(cmd.String("config"))
	if err != nil {
		return err
	}

	url := cmd.String("url")
	if url == "" {
		url = cfg.Dashboard.MonitorURL
	}

	interval := cmd.Duration("interval")
	if interval <= 0 {
		interval = cfg.Dashboard.PollInterval
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	model := dashboard.NewModel(
		dashboard.NewMonitorClient(url, cfg.Dashboard.RequestTimeout),
		dashboard.NewPublicIPResolver(cfg.Dashboard.PublicIPURL, cfg.Dashboard.PublicIPTimeout),
		dashboard.Options{PollInterval: interval},
	)

	return dashboard.Run(ctx, model)
}

func providersAction(_ context.Context, cmd *cli.Command) error {
	if name := cmd.String("schema"); name != "" {
		schema, err := datasource.GetProviderConfigSchema(name)
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.Root().Writer, schema)

		return nil
	}

	for _, name := range datasource.GetSupportedProviders() {
		info, err := datasource.GetProviderInfo(name)
		if err != nil {
			return err
		}

		live := ""
		if info.IsLive {
			live = " (live)"
		}

		fmt.Fprintf(cmd.Root().Writer, "%-26s %s%s\n    %s\n", info.Name, info.DisplayName, live, info.Description)
	}

	return nil
}

func configSchemaAction(_ context.Context, cmd *cli.Command) error {
	schema, err := config.Schema()
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.Root().Writer, schema)

	return nil
}

func configShowAction(_ context.Context, cmd *cli.Command) error {
	cfg, loader, err := loadConfig(cmd.String("config"))
	if err != nil {
		return err
	}

	out, err := config.ToYAML(cfg)
	if err != nil {
		return err
	}

	if file := loader.ConfigFile(); file != "" {
		fmt.Fprintf(cmd.Root().Writer, "# loaded from %s\n", file)
	}

	fmt.Fprint(cmd.Root().Writer, out)

	return nil
}

func versionAction(_ context.Context, cmd *cli.Command) error {
	fmt.Fprintln(cmd.Root().Writer, version.GetVersion())

	return nil
}
