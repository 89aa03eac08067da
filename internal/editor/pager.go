// Package editor holds the preview and editor view state for a deck.
package editor

// Pager tracks the current slide index, clamped to [0, count-1].
type Pager struct {
	index int
	count int
}

// NewPager creates a pager over count slides.
func NewPager(count int) Pager {
	p := Pager{}
	p.SetCount(count)
	return p
}

// Index returns the current index.
func (p *Pager) Index() int { return p.index }

// Count returns the number of pages.
func (p *Pager) Count() int { return p.count }

// Next advances one page. It reports whether the index moved.
func (p *Pager) Next() bool {
	if p.index+1 >= p.count {
		return false
	}
	p.index++
	return true
}

// Prev moves back one page. It reports whether the index moved.
func (p *Pager) Prev() bool {
	if p.index == 0 {
		return false
	}
	p.index--
	return true
}

// Go jumps to i, clamped to the valid range.
func (p *Pager) Go(i int) {
	p.index = clamp(i, 0, max(0, p.count-1))
}

// SetCount changes the number of pages and re-clamps the index.
func (p *Pager) SetCount(n int) {
	if n < 0 {
		n = 0
	}
	p.count = n
	p.Go(p.index)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
