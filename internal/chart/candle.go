package chart

import (
	"fmt"
	"time"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// candleSeries draws one candle per day: a wick from low to high and a body
// from open to close. Down days are filled with the series colour, up days
// are hollow.
type candleSeries struct {
	Name    string
	Style   gochart.Style
	Hollow  drawing.Color
	XValues []time.Time
	Open    []float64
	High    []float64
	Low     []float64
	Close   []float64
}

func (cs candleSeries) GetName() string             { return cs.Name }
func (cs candleSeries) GetStyle() gochart.Style     { return cs.Style }
func (cs candleSeries) GetYAxis() gochart.YAxisType { return gochart.YAxisPrimary }
func (cs candleSeries) Len() int                    { return len(cs.XValues) }

// GetBoundedValues lets go-chart size the axes from the wick extremes.
func (cs candleSeries) GetBoundedValues(i int) (x, y1, y2 float64) {
	return gochart.TimeToFloat64(cs.XValues[i]), cs.High[i], cs.Low[i]
}

func (cs candleSeries) Validate() error {
	n := len(cs.XValues)
	if n == 0 {
		return fmt.Errorf("candle series %q has no values", cs.Name)
	}
	if len(cs.Open) != n || len(cs.High) != n || len(cs.Low) != n || len(cs.Close) != n {
		return fmt.Errorf("candle series %q has mismatched lengths", cs.Name)
	}
	return nil
}

func (cs candleSeries) Render(r gochart.Renderer, canvasBox gochart.Box, xrange, yrange gochart.Range, defaults gochart.Style) {
	style := cs.Style.InheritFrom(defaults)
	color := style.GetStrokeColor()

	half := canvasBox.Width() / 366 / 2
	if half < 1 {
		half = 1
	}
	y := func(v float64) int { return canvasBox.Bottom - yrange.Translate(v) }

	for i := range cs.XValues {
		x := canvasBox.Left + xrange.Translate(gochart.TimeToFloat64(cs.XValues[i]))

		r.SetStrokeColor(color)
		r.SetStrokeWidth(1)
		r.MoveTo(x, y(cs.High[i]))
		r.LineTo(x, y(cs.Low[i]))
		r.Stroke()

		top, bottom := y(cs.Open[i]), y(cs.Close[i])
		if top > bottom {
			top, bottom = bottom, top
		}
		if bottom == top {
			bottom = top + 1
		}
		fill := color
		if cs.Close[i] > cs.Open[i] {
			fill = cs.Hollow
		}
		r.SetFillColor(fill)
		r.SetStrokeColor(color)
		r.MoveTo(x-half, top)
		r.LineTo(x+half, top)
		r.LineTo(x+half, bottom)
		r.LineTo(x-half, bottom)
		r.LineTo(x-half, top)
		r.Close()
		r.FillStroke()
	}
}
