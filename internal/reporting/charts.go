package reporting

import (
	"bytes"
	"fmt"
	"math"

	"github.com/wcharczuk/go-chart/v2"

	"github.com/frahmantamala/hr-management/internal"
)

const (
	attendanceChartTitle = "Employee Attendance Frequency Bar Graph"
	leaveChartTitle      = "Leave Request Status Distribution"

	barWidth       = 60
	minChartWidth  = 1200
	barChartHeight = 600
	pieChartSize   = 600
)

// RenderAttendanceChart draws one bar per employee.
func RenderAttendanceChart(counts []NameCount) ([]byte, error) {
	if len(counts) == 0 {
		return nil, internal.ErrNoDataToPlot
	}

	bars := make([]chart.Value, 0, len(counts))
	var highest float64
	for _, c := range counts {
		v := float64(c.Count)
		if v > highest {
			highest = v
		}
		bars = append(bars, chart.Value{
			Label: c.Name,
			Value: v,
			Style: chart.Style{
				FillColor:   chart.ColorBlue,
				StrokeColor: chart.ColorBlue,
			},
		})
	}

	width := len(bars) * (barWidth + 40)
	if width < minChartWidth {
		width = minChartWidth
	}

	graph := chart.BarChart{
		Title:      attendanceChartTitle,
		Background: chart.Style{Padding: chart.Box{Top: 50, Bottom: 20}},
		Width:      width,
		Height:     barChartHeight,
		BarWidth:   barWidth,
		XAxis:      chart.Style{TextRotationDegrees: 45.0},
		YAxis: chart.YAxis{
			Name: "Attendance Count",
			// an explicit range keeps single-valued data from collapsing the axis
			Range: &chart.ContinuousRange{Min: 0, Max: highest + 1},
		},
		Bars: bars,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, internal.NewRenderError("failed to render attendance chart", err)
	}
	return buf.Bytes(), nil
}

// ValidatePieCounts rejects count vectors that cannot be drawn as a pie.
func ValidatePieCounts(counts []float64) error {
	if len(counts) == 0 {
		return internal.ErrInvalidChartData
	}
	var total float64
	for _, c := range counts {
		if math.IsNaN(c) || math.IsInf(c, 0) || c < 0 {
			return internal.ErrInvalidChartData
		}
		total += c
	}
	if total == 0 {
		return internal.ErrNoDataToPlot
	}
	return nil
}

// RenderPieChart draws labels[i] with counts[i]. Zero slices are left out.
func RenderPieChart(labels []string, counts []float64) ([]byte, error) {
	if len(labels) != len(counts) {
		return nil, internal.ErrInvalidChartData
	}
	if err := ValidatePieCounts(counts); err != nil {
		return nil, err
	}

	var total float64
	for _, c := range counts {
		total += c
	}

	values := make([]chart.Value, 0, len(counts))
	for i, c := range counts {
		if c == 0 {
			continue
		}
		values = append(values, chart.Value{
			Label: fmt.Sprintf("%s (%.1f%%)", labels[i], c/total*100),
			Value: c,
		})
	}

	pie := chart.PieChart{
		Title:  leaveChartTitle,
		Width:  pieChartSize,
		Height: pieChartSize,
		Values: values,
	}

	var buf bytes.Buffer
	if err := pie.Render(chart.PNG, &buf); err != nil {
		return nil, internal.NewRenderError("failed to render leave status chart", err)
	}
	return buf.Bytes(), nil
}
