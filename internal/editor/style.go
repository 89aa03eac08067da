package editor

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/capitalize-ai/ai-slides/internal/model"
)

// Font size bounds for the style sliders.
const (
	MinTitleFontSize   = model.MinTitleFontSize
	MaxTitleFontSize   = model.MaxTitleFontSize
	MinContentFontSize = model.MinContentFontSize
	MaxContentFontSize = model.MaxContentFontSize
)

// FontFamilies are the selectable typefaces.
var FontFamilies = []string{
	"Arial",
	"Helvetica",
	"Times New Roman",
	"Georgia",
	"Verdana",
	"Tahoma",
	"Trebuchet MS",
	"Impact",
	"Comic Sans MS",
	"Courier New",
}

// ColorPresets is the fixed palette offered next to free-form input.
var ColorPresets = []string{
	"#4472C4",
	"#E74C3C",
	"#2ECC71",
	"#F39C12",
	"#9B59B6",
	"#1ABC9C",
	"#34495E",
	"#E67E22",
	"#3498DB",
	"#95A5A6",
}

var (
	ErrInvalidColor = errors.New("colour must be #RGB or #RRGGBB")
	ErrUnknownFont  = errors.New("unknown font family")
)

var colorPattern = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// ValidColor reports whether c is a #RGB or #RRGGBB colour.
func ValidColor(c string) bool {
	return colorPattern.MatchString(c)
}

// ColorField names a colour property of a slide style.
type ColorField int

const (
	BackgroundColor ColorField = iota
	TitleColor
	ContentColor
	AccentColor
)

func (f ColorField) String() string {
	switch f {
	case BackgroundColor:
		return "background"
	case TitleColor:
		return "title"
	case ContentColor:
		return "content"
	case AccentColor:
		return "accent"
	}
	return fmt.Sprintf("ColorField(%d)", int(f))
}

// TextField names the text block a font setting applies to.
type TextField int

const (
	TitleText TextField = iota
	ContentText
)

func (f TextField) String() string {
	if f == TitleText {
		return "title"
	}
	return "content"
}

func setColor(s *model.SlideStyle, field ColorField, value string) error {
	if !ValidColor(value) {
		return ErrInvalidColor
	}
	switch field {
	case BackgroundColor:
		s.BackgroundColor = value
	case TitleColor:
		s.TitleColor = value
	case ContentColor:
		s.ContentColor = value
	case AccentColor:
		s.AccentColor = value
	default:
		return fmt.Errorf("unknown colour field %d", int(field))
	}
	return nil
}

func setFontFamily(s *model.SlideStyle, field TextField, family string) error {
	known := false
	for _, f := range FontFamilies {
		if f == family {
			known = true
			break
		}
	}
	if !known {
		return fmt.Errorf("%w: %q", ErrUnknownFont, family)
	}
	if field == TitleText {
		s.TitleFontFamily = family
	} else {
		s.ContentFontFamily = family
	}
	return nil
}

// setFontSize clamps size to the field's bounds and returns the stored value.
func setFontSize(s *model.SlideStyle, field TextField, size int) int {
	if field == TitleText {
		s.TitleFontSize = clamp(size, MinTitleFontSize, MaxTitleFontSize)
		return s.TitleFontSize
	}
	s.ContentFontSize = clamp(size, MinContentFontSize, MaxContentFontSize)
	return s.ContentFontSize
}
