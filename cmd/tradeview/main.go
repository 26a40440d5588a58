package main

import (
	"context"
	"fmt"
	"os"

	"TradeView/internal/config"
	"TradeView/internal/logging"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"
)

func main() {
	configFlag := &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to the YAML config `FILE`",
		Value:   config.DefaultPath,
		Sources: cli.EnvVars("CONFIG_PATH"),
	}

	cmd := &cli.Command{
		Name:   "tradeview",
		Usage:  "Seasonality charts for historical market prices",
		Flags:  []cli.Flag{configFlag},
		Action: serveAction,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP dashboard",
				Action: serveAction,
			},
			{
				Name:  "render",
				Usage: "Load the data once and render a chart to a file",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "exchange", Aliases: []string{"e"}, Usage: "Exchange name", Required: true},
					&cli.StringFlag{Name: "instrument", Aliases: []string{"i"}, Usage: "Instrument name", Required: true},
					&cli.StringFlag{Name: "type", Aliases: []string{"t"}, Usage: "Chart type (line, candlestick)", Value: "line"},
					&cli.StringFlag{Name: "years", Aliases: []string{"y"}, Usage: "Comma separated years to draw. Defaults to all."},
					&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "Output `FILE`; .png or .svg", Value: "chart.svg"},
				},
				Action: renderAction,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup loads and validates config and builds the logger.
func setup(cmd *cli.Command) (*config.Config, *logrus.Logger, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("config validation: %w", err)
	}
	logger, err := logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}
