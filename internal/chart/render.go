package chart

import (
	"errors"
	"fmt"
	"io"
	"time"

	"TradeView/internal/apperrors"
	"TradeView/internal/model"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ErrNoData is returned when a plan has nothing to draw.
var ErrNoData = errors.New("no chart data")

// Format is the image encoding.
type Format string

const (
	FormatSVG Format = "svg"
	FormatPNG Format = "png"
)

// ParseFormat maps user input to a Format. Empty input means SVG.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "", FormatSVG:
		return FormatSVG, nil
	case FormatPNG:
		return FormatPNG, nil
	}
	return "", fmt.Errorf("unknown image format %q", s)
}

// ContentType is the MIME type of the encoded image.
func (f Format) ContentType() string {
	if f == FormatPNG {
		return "image/png"
	}
	return "image/svg+xml"
}

// Options control the output image.
type Options struct {
	Format Format
	Width  int
	Height int
	Mode   model.ThemeMode
}

// Render draws p to w.
func Render(w io.Writer, p Plan, opts Options) error {
	if p.Empty() {
		return ErrNoData
	}
	low, high, err := valueRange(p)
	if err != nil {
		return ErrNoData
	}
	low, high = padRange(low, high)

	th := themeFor(opts.Mode)
	axisStyle := gochart.Style{FontColor: th.foreground, StrokeColor: th.foreground}
	gridStyle := gochart.Style{StrokeColor: th.grid, StrokeWidth: 1}

	ch := gochart.Chart{
		Title:      p.Title,
		TitleStyle: gochart.Style{FontColor: th.foreground},
		Width:      opts.Width,
		Height:     opts.Height,
		Background: gochart.Style{
			FillColor: th.background,
			Padding:   gochart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16},
		},
		Canvas: gochart.Style{FillColor: th.background},
		XAxis: gochart.XAxis{
			Style:          axisStyle,
			Range:          &gochart.ContinuousRange{Min: gochart.TimeToFloat64(yearStart()), Max: gochart.TimeToFloat64(yearEnd())},
			Ticks:          monthTicks(),
			GridMajorStyle: gridStyle,
			GridLines:      monthGridLines(),
		},
		YAxis: gochart.YAxis{
			Style:          axisStyle,
			Range:          &gochart.ContinuousRange{Min: low, Max: high},
			GridMajorStyle: gridStyle,
			ValueFormatter: gochart.FloatValueFormatter,
		},
	}

	for _, s := range p.Series {
		ch.Series = append(ch.Series, toGoChart(p.Type, s, th))
	}
	ch.Elements = []gochart.Renderable{gochart.Legend(&ch, gochart.Style{
		FillColor:   th.background,
		FontColor:   th.foreground,
		StrokeColor: th.grid,
	})}

	provider := gochart.SVG
	if opts.Format == FormatPNG {
		provider = gochart.PNG
	}
	if err := ch.Render(provider, w); err != nil {
		return apperrors.Wrap(apperrors.CodeRenderFailed, "render chart", err)
	}
	return nil
}

func toGoChart(ct model.ChartType, s Series, th theme) gochart.Series {
	name := fmt.Sprintf("Year %d", s.Year)
	color := drawing.ColorFromHex(s.Color)
	xs := make([]time.Time, len(s.Days))
	for i, d := range s.Days {
		xs[i] = d.Time()
	}

	if ct == model.ChartCandlestick {
		cs := candleSeries{
			Name:    name,
			Style:   gochart.Style{StrokeColor: color, FillColor: color, StrokeWidth: 1},
			Hollow:  th.background,
			XValues: xs,
		}
		for _, c := range s.Candles {
			cs.Open = append(cs.Open, c.Open)
			cs.High = append(cs.High, c.High)
			cs.Low = append(cs.Low, c.Low)
			cs.Close = append(cs.Close, c.Close)
		}
		return cs
	}
	return gochart.TimeSeries{
		Name:    name,
		Style:   gochart.Style{StrokeColor: color, StrokeWidth: 2},
		XValues: xs,
		YValues: s.Close,
	}
}

func yearStart() time.Time {
	return time.Date(model.ReferenceYear, time.January, 1, 0, 0, 0, 0, time.UTC)
}

func yearEnd() time.Time {
	return time.Date(model.ReferenceYear, time.December, 31, 0, 0, 0, 0, time.UTC)
}

func monthTicks() []gochart.Tick {
	ticks := make([]gochart.Tick, 0, 13)
	for m := time.January; m <= time.December; m++ {
		k := model.DayKey{Month: m, Day: 1}
		ticks = append(ticks, gochart.Tick{Value: gochart.TimeToFloat64(k.Time()), Label: k.Label()})
	}
	end := model.DayKeyOf(yearEnd())
	return append(ticks, gochart.Tick{Value: gochart.TimeToFloat64(yearEnd()), Label: end.Label()})
}

func monthGridLines() []gochart.GridLine {
	lines := make([]gochart.GridLine, 0, 12)
	for m := time.February; m <= time.December; m++ {
		t := time.Date(model.ReferenceYear, m, 1, 0, 0, 0, 0, time.UTC)
		lines = append(lines, gochart.GridLine{Value: gochart.TimeToFloat64(t)})
	}
	return lines
}
