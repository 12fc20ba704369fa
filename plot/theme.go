package plot

import (
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/pivolan/telecom_charts/domain/models"
)

// set3 is the qualitative palette used for companies.
var set3 = []string{
	"#8dd3c7", "#ffffb3", "#bebada", "#fb8072", "#80b1d3", "#fdb462",
	"#b3de69", "#fccde5", "#d9d9d9", "#bc80bd", "#ccebc5", "#ffed6f",
}

const (
	previousColor = "#87ceeb" // skyblue
	currentColor  = "#4169e1" // royalblue
	changeColor   = "#90ee90" // lightgreen
)

type Theme struct {
	BackgroundHex string
	TextHex       string
	Background    drawing.Color
	Text          drawing.Color
	SliceText     drawing.Color
}

func ThemeFor(bg models.Background) Theme {
	if bg == models.BackgroundWhite {
		return Theme{
			BackgroundHex: "#ffffff",
			TextHex:       "#000000",
			Background:    drawing.ColorWhite,
			Text:          drawing.ColorBlack,
			SliceText:     drawing.ColorBlack,
		}
	}
	return Theme{
		BackgroundHex: "#000000",
		TextHex:       "#ffffff",
		Background:    drawing.ColorBlack,
		Text:          drawing.ColorWhite,
		SliceText:     drawing.ColorBlack,
	}
}

func paletteColor(i int) drawing.Color {
	return drawing.ColorFromHex(set3[i%len(set3)][1:])
}
