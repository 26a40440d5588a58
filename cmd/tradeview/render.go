package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"TradeView/internal/apperrors"
	"TradeView/internal/chart"
	"TradeView/internal/collector"
	"TradeView/internal/model"
	"TradeView/internal/seasonal"
	"TradeView/internal/settings"

	"github.com/urfave/cli/v3"
)

func renderAction(ctx context.Context, cmd *cli.Command) error {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}

	ct, err := model.ParseChartType(cmd.String("type"))
	if err != nil {
		return err
	}
	years, err := parseYearsFlag(cmd.String("years"))
	if err != nil {
		return err
	}
	out := cmd.String("out")
	format, err := chart.ParseFormat(strings.TrimPrefix(strings.ToLower(filepath.Ext(out)), "."))
	if err != nil {
		return err
	}

	rows, err := collector.NewCollector(newFetcher(cfg), logger).Collect(ctx)
	if err != nil {
		return err
	}

	rdb := newRedis(ctx, cfg, logger)
	kv := openStore(cfg, rdb, logger)
	defer kv.Close()
	if rdb != nil && cfg.Storage.Driver != "redis" {
		defer rdb.Close()
	}
	s := settings.NewManager(ctx, kv, logger).Get()

	sel := model.Selection{
		Exchange:   cmd.String("exchange"),
		Instrument: cmd.String("instrument"),
		ChartType:  ct,
		Years:      years,
	}
	img, series, err := renderChart(rows, sel, s, format, cfg.Chart.Width, cfg.Chart.Height)
	if err != nil {
		return err
	}
	if err := os.WriteFile(out, img, 0644); err != nil {
		return apperrors.Wrapf(apperrors.CodeRenderFailed, err, "write %s", out)
	}
	logger.WithField("file", out).Infof("rendered %d series", series)
	return nil
}

// renderChart draws sel from rows. Nothing to draw is a CodeNoData error.
func renderChart(rows []model.PriceRow, sel model.Selection, s model.Settings, format chart.Format, width, height int) ([]byte, int, error) {
	plan := chart.NewPlan(seasonal.Build(rows, sel.Exchange, sel.Instrument), sel, s.Scheme)

	var buf bytes.Buffer
	err := chart.Render(&buf, plan, chart.Options{
		Format: format,
		Width:  width,
		Height: height,
		Mode:   s.Mode,
	})
	if errors.Is(err, chart.ErrNoData) {
		return nil, 0, apperrors.Newf(apperrors.CodeNoData, "no data for %s / %s", sel.Exchange, sel.Instrument)
	}
	if err != nil {
		return nil, 0, err
	}
	return buf.Bytes(), len(plan.Series), nil
}

func parseYearsFlag(v string) ([]int, error) {
	if strings.TrimSpace(v) == "" {
		return nil, nil
	}
	var years []int
	for _, part := range strings.Split(v, ",") {
		y, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("invalid year %q", part)
		}
		years = append(years, y)
	}
	return years, nil
}
