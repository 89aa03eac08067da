package model

// SlideStyle is the per-slide visual style used by the editor and the
// exporter. It is never persisted with history.
type SlideStyle struct {
	BackgroundColor   string `json:"backgroundColor"`
	TitleColor        string `json:"titleColor"`
	ContentColor      string `json:"contentColor"`
	AccentColor       string `json:"accentColor"`
	TitleFontSize     int    `json:"titleFontSize"`
	ContentFontSize   int    `json:"contentFontSize"`
	TitleFontFamily   string `json:"titleFontFamily"`
	ContentFontFamily string `json:"contentFontFamily"`
}

// Font size bounds, in points.
const (
	MinTitleFontSize   = 20
	MaxTitleFontSize   = 72
	MinContentFontSize = 12
	MaxContentFontSize = 36
)

// ContentSlideStyle is the default for every slide but the first.
var ContentSlideStyle = SlideStyle{
	BackgroundColor:   "#FFFFFF",
	TitleColor:        "#4472C4",
	ContentColor:      "#363636",
	AccentColor:       "#4472C4",
	TitleFontSize:     32,
	ContentFontSize:   18,
	TitleFontFamily:   "Arial",
	ContentFontFamily: "Arial",
}

// TitleSlideStyle is the default for slide index 0.
var TitleSlideStyle = SlideStyle{
	BackgroundColor:   "#4472C4",
	TitleColor:        "#FFFFFF",
	ContentColor:      "#FFFFFF",
	AccentColor:       "#FFFFFF",
	TitleFontSize:     48,
	ContentFontSize:   28,
	TitleFontFamily:   "Arial",
	ContentFontFamily: "Arial",
}

// DefaultStyle returns the default style for the slide at index.
func DefaultStyle(index int) SlideStyle {
	if index == 0 {
		return TitleSlideStyle
	}
	return ContentSlideStyle
}

// DefaultStyles returns one default style per slide.
func DefaultStyles(n int) []SlideStyle {
	styles := make([]SlideStyle, n)
	for i := range styles {
		styles[i] = DefaultStyle(i)
	}
	return styles
}
