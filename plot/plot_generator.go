package plot

import (
	"bytes"
	"fmt"
	"math"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

func calculateGridStep(maxValue float64) float64 {
	if maxValue <= 0 {
		return 0
	}
	// Обработка очень маленьких чисел
	if maxValue < 1e-10 {
		return 1e-10
	}

	// Находим порядок величины и нормализуем к [1, 10)
	magnitude := math.Pow(10, math.Floor(math.Log10(maxValue)))
	normalized := maxValue / magnitude

	var step float64
	switch {
	case normalized <= 1:
		step = 0.2
	case normalized <= 2:
		step = 0.5
	case normalized <= 5:
		step = 1.0
	default:
		step = 2.0
	}

	finalStep := step * magnitude
	// Округляем большие шаги до "красивых" чисел
	if finalStep >= 1000 {
		return math.Round(finalStep/100) * 100
	}
	if finalStep >= 100 {
		return math.Round(finalStep/10) * 10
	}
	return finalStep
}

func generateGrid(max float64, percent bool) []chart.Tick {
	gridStep := calculateGridStep(max)
	if gridStep <= 0 {
		return nil
	}
	var ticks []chart.Tick
	for i := 0.0; i <= max+gridStep/2; i += gridStep {
		label := fmt.Sprintf("%.1f", i)
		if percent {
			label += "%"
		}
		ticks = append(ticks, chart.Tick{Value: i, Label: label})
	}
	return ticks
}

// chartDimensions sizes the canvas from the bar count, 16:9.
func chartDimensions(bars, values int, minBarWidth float64) (width, height int) {
	if values == 0 || bars <= 0 || minBarWidth <= 0 {
		return 0, 0
	}
	x := 1.1
	if bars < 2 {
		x = 10.0
	} else if bars < 10 {
		x = 3.0
	}
	const (
		paddingY     = 100
		spacingRatio = 0.2
		aspectRatio  = 9.0 / 16.0
	)
	barSpacing := minBarWidth * spacingRatio
	totalWidth := (minBarWidth+barSpacing)*float64(bars) + paddingY
	width = int(totalWidth*x) + paddingY
	height = int(float64(width) * aspectRatio)
	return width, height
}

type BarOptions struct {
	Theme    Theme
	ShowGrid bool
	Percent  bool
}

func DrawPlotBar(data dataForGraph, o BarOptions) ([]byte, error) {
	barValues := data.generateBarValues(o.Theme)
	if len(barValues) == 0 {
		return nil, fmt.Errorf("nothing to draw")
	}
	paddingX := customizePaddingXBottom(barValues)
	width, height := data.calculateChartDimensions(100)

	maxY := findMaxValue(data.getYValues())
	if maxY <= 0 {
		maxY = 1
	}
	gridStep := calculateGridStep(maxY)
	maxY = math.Ceil(maxY/gridStep) * gridStep

	gridStyle := chart.Style{
		Hidden:          !o.ShowGrid,
		StrokeColor:     o.Theme.Text.WithAlpha(80),
		StrokeWidth:     0.5,
		StrokeDashArray: []float64{5.0, 5.0},
	}
	bar := chart.BarChart{
		Title: data.GetNameGraph(),
		TitleStyle: chart.Style{
			FontColor: o.Theme.Text,
			FontSize:  16,
		},
		Background: chart.Style{
			FillColor:   o.Theme.Background,
			StrokeColor: o.Theme.Text,
			Padding: chart.Box{
				Bottom: paddingX,
				Top:    50,
			},
		},
		Canvas:   chart.Style{FillColor: o.Theme.Background},
		Height:   height + 50,
		Width:    width + paddingX + 50,
		BarWidth: 60,
		Bars:     barValues,
		YAxis: chart.YAxis{
			Name: data.getNameYAxis(),
			Range: &chart.ContinuousRange{
				Min: 0.0,
				Max: maxY,
			},
			Style: chart.Style{
				StrokeWidth: 2,
				StrokeColor: o.Theme.Text,
				FontColor:   o.Theme.Text,
				FontSize:    12,
			},
			Ticks:          generateGrid(maxY, o.Percent),
			GridMajorStyle: gridStyle,
			GridMinorStyle: gridStyle,
		},
		XAxis: chart.Style{
			StrokeWidth:         2,
			StrokeColor:         o.Theme.Text,
			FontColor:           o.Theme.Text,
			TextRotationDegrees: 45,
			FontSize:            12,
		},
	}
	buffer := bytes.NewBuffer([]byte{})
	if err := bar.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("error rendering chart: %w", err)
	}
	return buffer.Bytes(), nil
}

func DrawPlotPie(data dataSharesForGraph, theme Theme) ([]byte, error) {
	values := data.generatePieValues(theme)
	if len(values) == 0 {
		return nil, fmt.Errorf("nothing to draw")
	}
	pie := chart.PieChart{
		Title: data.GetNameGraph(),
		TitleStyle: chart.Style{
			FontColor: theme.Text,
			FontSize:  18,
		},
		Width:  1024,
		Height: 1024,
		Background: chart.Style{
			FillColor: theme.Background,
			Padding:   chart.Box{Top: 60, Left: 20, Right: 20, Bottom: 20},
		},
		Canvas: chart.Style{FillColor: theme.Background},
		SliceStyle: chart.Style{
			FontColor:   theme.SliceText,
			FontSize:    12,
			StrokeColor: drawing.ColorTransparent,
		},
		Values: values,
	}
	buffer := bytes.NewBuffer([]byte{})
	if err := pie.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("error rendering chart: %w", err)
	}
	return buffer.Bytes(), nil
}

func findMaxValue(y []float64) float64 {
	if len(y) == 0 {
		return 0
	}
	max := y[0]
	for _, v := range y {
		if v > max {
			max = v
		}
	}
	return max
}

func customizePaddingXBottom(values []chart.Value) int {
	count := 0
	for _, v := range values {
		if len(v.Label) > count {
			count = len(v.Label)
		}
	}
	return count * 8
}
