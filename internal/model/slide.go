// Package model defines data structures for the slide generation service.
package model

// Slide is a title plus an ordered list of bullet points.
type Slide struct {
	Title   string   `json:"title" jsonschema:"description=Slide title"`
	Content []string `json:"content" jsonschema:"description=Bullet points shown on the slide"`
}

// Deck is the payload the text model is asked to produce.
type Deck struct {
	Slides []Slide `json:"slides" jsonschema:"required"`
}

// Clone returns a deep copy of the slide.
func (s Slide) Clone() Slide {
	content := make([]string, len(s.Content))
	copy(content, s.Content)
	return Slide{Title: s.Title, Content: content}
}

// CloneSlides deep-copies a slide slice. A nil input stays nil.
func CloneSlides(slides []Slide) []Slide {
	if slides == nil {
		return nil
	}
	out := make([]Slide, len(slides))
	for i, s := range slides {
		out[i] = s.Clone()
	}
	return out
}
