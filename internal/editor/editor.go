package editor

import (
	"errors"
	"fmt"

	"github.com/capitalize-ai/ai-slides/internal/model"
)

const (
	newSlideTitle   = "New Slide"
	newSlideContent = "Add your content here"
	newBullet       = "New point"
)

var (
	ErrLastSlide  = errors.New("cannot delete the only slide")
	ErrLastBullet = errors.New("cannot remove the only bullet")
	ErrNotEditing = errors.New("no slide is being edited")
	ErrNoSlides   = errors.New("deck has no slides")
)

// RegenerateFunc rebuilds the exportable artifact from the current slides.
type RegenerateFunc func(slides []model.Slide) error

// Editor is the mutable editing view. Edits to a slide's text happen on a
// scratch copy that is committed by Save or dropped by Cancel. Styles are
// kept one per slide and follow slide insertions and deletions.
type Editor struct {
	slides  []model.Slide
	styles  []model.SlideStyle
	pager   Pager
	scratch *model.Slide
	regen   RegenerateFunc
}

// New creates an editor over a copy of slides. regen may be nil.
func New(slides []model.Slide, regen RegenerateFunc) *Editor {
	return &Editor{
		slides: model.CloneSlides(slides),
		styles: model.DefaultStyles(len(slides)),
		pager:  NewPager(len(slides)),
		regen:  regen,
	}
}

// Slides returns a copy of the slides.
func (e *Editor) Slides() []model.Slide { return model.CloneSlides(e.slides) }

// Styles returns a copy of the per-slide styles.
func (e *Editor) Styles() []model.SlideStyle {
	out := make([]model.SlideStyle, len(e.styles))
	copy(out, e.styles)
	return out
}

// Index returns the current slide index.
func (e *Editor) Index() int { return e.pager.Index() }

// Len returns the slide count.
func (e *Editor) Len() int { return len(e.slides) }

// Next moves to the following slide.
func (e *Editor) Next() bool { return e.pager.Next() }

// Prev moves to the preceding slide.
func (e *Editor) Prev() bool { return e.pager.Prev() }

// Current returns the slide on screen.
func (e *Editor) Current() (model.Slide, bool) {
	if len(e.slides) == 0 {
		return model.Slide{}, false
	}
	return e.slides[e.pager.Index()].Clone(), true
}

// Style returns the style of the slide on screen.
func (e *Editor) Style() model.SlideStyle {
	if len(e.styles) == 0 {
		return model.ContentSlideStyle
	}
	return e.styles[e.pager.Index()]
}

// Editing reports whether a scratch copy is open.
func (e *Editor) Editing() bool { return e.scratch != nil }

// BeginEdit opens a scratch copy of the current slide.
func (e *Editor) BeginEdit() error {
	cur, ok := e.Current()
	if !ok {
		return ErrNoSlides
	}
	e.scratch = &cur
	return nil
}

// Scratch returns the slide being edited.
func (e *Editor) Scratch() (model.Slide, bool) {
	if e.scratch == nil {
		return model.Slide{}, false
	}
	return e.scratch.Clone(), true
}

// SetScratchTitle changes the title of the scratch copy.
func (e *Editor) SetScratchTitle(title string) error {
	if e.scratch == nil {
		return ErrNotEditing
	}
	e.scratch.Title = title
	return nil
}

// SetScratchBullet changes one bullet of the scratch copy.
func (e *Editor) SetScratchBullet(i int, text string) error {
	if e.scratch == nil {
		return ErrNotEditing
	}
	if i < 0 || i >= len(e.scratch.Content) {
		return fmt.Errorf("bullet %d out of range", i)
	}
	e.scratch.Content[i] = text
	return nil
}

// SetScratchContent replaces every bullet of the scratch copy. A slide keeps
// at least one bullet.
func (e *Editor) SetScratchContent(bullets []string) error {
	if e.scratch == nil {
		return ErrNotEditing
	}
	if len(bullets) == 0 {
		return ErrLastBullet
	}
	e.scratch.Content = append([]string(nil), bullets...)
	return nil
}

// AddBullet appends a placeholder bullet to the scratch copy.
func (e *Editor) AddBullet() error {
	if e.scratch == nil {
		return ErrNotEditing
	}
	e.scratch.Content = append(e.scratch.Content, newBullet)
	return nil
}

// RemoveBullet deletes bullet i from the scratch copy. The last bullet
// cannot be removed.
func (e *Editor) RemoveBullet(i int) error {
	if e.scratch == nil {
		return ErrNotEditing
	}
	if i < 0 || i >= len(e.scratch.Content) {
		return fmt.Errorf("bullet %d out of range", i)
	}
	if len(e.scratch.Content) <= 1 {
		return ErrLastBullet
	}
	e.scratch.Content = append(e.scratch.Content[:i], e.scratch.Content[i+1:]...)
	return nil
}

// Save commits the scratch copy to the current slide.
func (e *Editor) Save() error {
	if e.scratch == nil {
		return ErrNotEditing
	}
	e.slides[e.pager.Index()] = e.scratch.Clone()
	e.scratch = nil
	return e.regenerate()
}

// Cancel drops the scratch copy.
func (e *Editor) Cancel() {
	e.scratch = nil
}

// AddSlide appends a placeholder slide and moves to it.
func (e *Editor) AddSlide() error {
	e.slides = append(e.slides, model.Slide{Title: newSlideTitle, Content: []string{newSlideContent}})
	e.styles = append(e.styles, model.DefaultStyle(len(e.styles)))
	e.pager.SetCount(len(e.slides))
	e.pager.Go(len(e.slides) - 1)
	return e.regenerate()
}

// Duplicate inserts a copy of the current slide right after it and moves to
// the copy.
func (e *Editor) Duplicate() error {
	cur, ok := e.Current()
	if !ok {
		return ErrNoSlides
	}
	i := e.pager.Index()
	cur.Title += " (Copy)"
	e.slides = insertAt(e.slides, i+1, cur)
	e.styles = insertAt(e.styles, i+1, e.styles[i])
	e.pager.SetCount(len(e.slides))
	e.pager.Go(i + 1)
	return e.regenerate()
}

// Delete removes the current slide and moves to the one before it. It is
// refused when only one slide remains.
func (e *Editor) Delete() error {
	if len(e.slides) == 0 {
		return ErrNoSlides
	}
	if len(e.slides) == 1 {
		return ErrLastSlide
	}
	i := e.pager.Index()
	e.slides = append(e.slides[:i], e.slides[i+1:]...)
	e.styles = append(e.styles[:i], e.styles[i+1:]...)
	e.pager.SetCount(len(e.slides))
	e.pager.Go(max(0, i-1))
	return e.regenerate()
}

// SetColor sets a colour of the current slide's style.
func (e *Editor) SetColor(field ColorField, value string) error {
	if len(e.styles) == 0 {
		return ErrNoSlides
	}
	if err := setColor(&e.styles[e.pager.Index()], field, value); err != nil {
		return err
	}
	return e.regenerate()
}

// SetFontFamily sets a typeface of the current slide's style.
func (e *Editor) SetFontFamily(field TextField, family string) error {
	if len(e.styles) == 0 {
		return ErrNoSlides
	}
	if err := setFontFamily(&e.styles[e.pager.Index()], field, family); err != nil {
		return err
	}
	return e.regenerate()
}

// SetFontSize sets a font size of the current slide's style, clamped to the
// field's bounds. It returns the stored size.
func (e *Editor) SetFontSize(field TextField, size int) (int, error) {
	if len(e.styles) == 0 {
		return 0, ErrNoSlides
	}
	stored := setFontSize(&e.styles[e.pager.Index()], field, size)
	return stored, e.regenerate()
}

func (e *Editor) regenerate() error {
	if e.regen == nil {
		return nil
	}
	return e.regen(e.Slides())
}

func insertAt[T any](s []T, i int, v T) []T {
	s = append(s, v)
	copy(s[i+1:], s[i:])
	s[i] = v
	return s
}
