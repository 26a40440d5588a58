package collector

import (
	"context"

	"TradeView/internal/apperrors"
	"TradeView/internal/model"

	"github.com/sirupsen/logrus"
)

// Collector fetches the price CSV and parses it into rows.
type Collector struct {
	Fetcher Fetcher
	Log     logrus.FieldLogger
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, log logrus.FieldLogger) *Collector {
	return &Collector{
		Fetcher: fetcher,
		Log:     log.WithField("component", "collector"),
	}
}

// Collect downloads and parses the CSV. Malformed rows are dropped; a failed
// fetch or an unreadable file is returned as an error.
func (c *Collector) Collect(ctx context.Context) ([]model.PriceRow, error) {
	body, err := c.Fetcher.Fetch(ctx)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeFetchFailed, "fetch "+c.Fetcher.Name(), err)
	}
	defer body.Close()

	rows, stats, err := ParseCSV(body)
	if err != nil {
		return nil, err
	}
	entry := c.Log.WithFields(logrus.Fields{
		"source":  c.Fetcher.Name(),
		"rows":    stats.Kept,
		"dropped": stats.Dropped,
	})
	if stats.Dropped > 0 {
		entry.Debugf("dropped %d malformed rows", stats.Dropped)
	}
	entry.Infof("parsed price csv: %s", stats)
	return rows, nil
}
