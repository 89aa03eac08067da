package editor

import (
	"errors"

	"github.com/capitalize-ai/ai-slides/internal/model"
)

// ErrNoArtifact is returned when no rendered deck is available to download.
var ErrNoArtifact = errors.New("no presentation has been rendered")

// ArtifactSource yields the last rendered deck.
type ArtifactSource interface {
	Artifact() ([]byte, bool)
}

// Preview is the read-only paginated view.
type Preview struct {
	slides   []model.Slide
	pager    Pager
	artifact ArtifactSource
}

// NewPreview creates a preview over slides.
func NewPreview(slides []model.Slide, artifact ArtifactSource) *Preview {
	return &Preview{
		slides:   model.CloneSlides(slides),
		pager:    NewPager(len(slides)),
		artifact: artifact,
	}
}

// Current returns the slide on screen.
func (p *Preview) Current() (model.Slide, bool) {
	if len(p.slides) == 0 {
		return model.Slide{}, false
	}
	return p.slides[p.pager.Index()].Clone(), true
}

// Index returns the current slide index.
func (p *Preview) Index() int { return p.pager.Index() }

// Len returns the slide count.
func (p *Preview) Len() int { return len(p.slides) }

// Next moves to the following slide.
func (p *Preview) Next() bool { return p.pager.Next() }

// Prev moves to the preceding slide.
func (p *Preview) Prev() bool { return p.pager.Prev() }

// Download returns the last rendered deck.
func (p *Preview) Download() ([]byte, error) {
	if p.artifact == nil {
		return nil, ErrNoArtifact
	}
	data, ok := p.artifact.Artifact()
	if !ok || len(data) == 0 {
		return nil, ErrNoArtifact
	}
	return data, nil
}
