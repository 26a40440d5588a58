package collector

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"TradeView/internal/apperrors"
	"TradeView/internal/model"

	"github.com/gocarina/gocsv"
)

// RequiredColumns must all be present in the CSV header.
var RequiredColumns = []string{"date", "exchange", "instrument_name", "open", "high", "low", "close"}

// dateLayouts are tried in order; the first match wins.
var dateLayouts = []string{
	"2006-01-02",
	"2006-1-2",
	"2006/01/02",
	"2006/1/2",
	"01/02/2006",
	time.RFC3339,
	"2006-01-02 15:04:05",
}

// ParseStats reports what happened to the body rows of a CSV.
type ParseStats struct {
	Total   int
	Kept    int
	Dropped int
}

// csvLine is the raw textual shape of a CSV row. Everything is read as text
// so a bad cell drops its row instead of failing the whole file.
type csvLine struct {
	Date           string `csv:"date"`
	Exchange       string `csv:"exchange"`
	InstrumentName string `csv:"instrument_name"`
	Open           string `csv:"open"`
	High           string `csv:"high"`
	Low            string `csv:"low"`
	Close          string `csv:"close"`
}

// headerReader cleans up and remembers the header row before gocsv sees it.
type headerReader struct {
	*csv.Reader
	header []string
}

func (h *headerReader) Read() ([]string, error) {
	rec, err := h.Reader.Read()
	if err == nil && h.header == nil {
		h.header = normalizeHeader(rec)
		rec = h.header
	}
	return rec, err
}

func (h *headerReader) ReadAll() ([][]string, error) {
	recs, err := h.Reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(recs) > 0 {
		h.header = normalizeHeader(recs[0])
		recs[0] = h.header
	}
	return recs, nil
}

func normalizeHeader(rec []string) []string {
	out := make([]string, len(rec))
	for i, name := range rec {
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		out[i] = strings.TrimSpace(name)
	}
	return out
}

// ParseCSV turns a CSV blob into price rows. Rows with a missing or
// unparseable date or price are dropped and counted, never reported.
func ParseCSV(r io.Reader) ([]model.PriceRow, ParseStats, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	hr := &headerReader{Reader: reader}

	var lines []*csvLine
	if err := gocsv.UnmarshalCSV(hr, &lines); err != nil {
		return nil, ParseStats{}, apperrors.Wrap(apperrors.CodeParseFailed, "read csv", err)
	}
	if missing := missingColumns(hr.header); len(missing) > 0 {
		return nil, ParseStats{}, apperrors.Newf(apperrors.CodeParseFailed, "csv header missing columns: %s", strings.Join(missing, ", "))
	}

	stats := ParseStats{Total: len(lines)}
	rows := make([]model.PriceRow, 0, len(lines))
	for _, l := range lines {
		row, ok := l.toRow()
		if !ok {
			stats.Dropped++
			continue
		}
		rows = append(rows, row)
	}
	stats.Kept = len(rows)
	return rows, stats, nil
}

func missingColumns(header []string) []string {
	var missing []string
	for _, c := range RequiredColumns {
		if !slices.Contains(header, c) {
			missing = append(missing, c)
		}
	}
	return missing
}

func (l *csvLine) toRow() (model.PriceRow, bool) {
	date, ok := parseDate(l.Date)
	if !ok {
		return model.PriceRow{}, false
	}
	var prices [4]float64
	for i, cell := range []string{l.Open, l.High, l.Low, l.Close} {
		v, ok := parsePrice(cell)
		if !ok {
			return model.PriceRow{}, false
		}
		prices[i] = v
	}
	return model.PriceRow{
		Date:           date,
		Exchange:       strings.TrimSpace(l.Exchange),
		InstrumentName: strings.TrimSpace(l.InstrumentName),
		Open:           prices[0],
		High:           prices[1],
		Low:            prices[2],
		Close:          prices[3],
	}, true
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func parsePrice(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// String is used in log lines.
func (s ParseStats) String() string {
	return fmt.Sprintf("%d rows, %d kept, %d dropped", s.Total, s.Kept, s.Dropped)
}
