package triptych

import "fmt"

// Edge tells a content provider which end of a page's content should be
// visible when the page first appears.
type Edge int

const (
	// EdgeBeginning shows the start of the page.
	EdgeBeginning Edge = iota
	// EdgeEnd shows the end of the page, used when a page is entered backwards.
	EdgeEnd
)

// String returns the edge name.
func (e Edge) String() string {
	switch e {
	case EdgeBeginning:
		return "beginning"
	case EdgeEnd:
		return "end"
	default:
		return fmt.Sprintf("Edge(%d)", int(e))
	}
}

// View is a materialized page. The manager positions it on the paging
// surface by assigning its frame.
type View interface {
	SetFrame(frame Rect)
}

// Sizer is implemented by views that report their content extent. The extent
// must be the viewport's height and a positive multiple of its width.
type Sizer interface {
	Size() Vec2
}

// Detacher is implemented by views that want to know when they leave the
// window. The manager holds no reference to a view after detaching it.
type Detacher interface {
	Detach()
}

// sidesKind enumerates which halves of a Sides value are present.
type sidesKind uint8

const (
	sidesNone sidesKind = iota
	sidesFirst
	sidesSecond
	sidesBoth
)

// Sides holds an optional first value and an optional second value.
// The zero value holds neither.
type Sides[A, B any] struct {
	kind   sidesKind
	first  A
	second B
}

// Neither returns a Sides holding no values.
func Neither[A, B any]() Sides[A, B] {
	return Sides[A, B]{}
}

// FirstOnly returns a Sides holding only a first value.
func FirstOnly[A, B any](a A) Sides[A, B] {
	return Sides[A, B]{kind: sidesFirst, first: a}
}

// SecondOnly returns a Sides holding only a second value.
func SecondOnly[A, B any](b B) Sides[A, B] {
	return Sides[A, B]{kind: sidesSecond, second: b}
}

// Both returns a Sides holding both values.
func Both[A, B any](a A, b B) Sides[A, B] {
	return Sides[A, B]{kind: sidesBoth, first: a, second: b}
}

// First returns the first value if present.
func (s Sides[A, B]) First() (A, bool) {
	return s.first, s.kind == sidesFirst || s.kind == sidesBoth
}

// Second returns the second value if present.
func (s Sides[A, B]) Second() (B, bool) {
	return s.second, s.kind == sidesSecond || s.kind == sidesBoth
}

// Len returns how many values are present.
func (s Sides[A, B]) Len() int {
	switch s.kind {
	case sidesFirst, sidesSecond:
		return 1
	case sidesBoth:
		return 2
	default:
		return 0
	}
}

// Neighbors are the views on either side of the current page:
// first is the previous page, second the next.
type Neighbors = Sides[View, View]

// Window is the set of materialized views and their slot arrangement.
// It is one of Single, Pair or Triple.
type Window interface {
	// Views returns the views left to right.
	Views() []View
	// Len returns the number of slots.
	Len() int
	// Indices returns the absolute page index of each slot, left to right,
	// given the index the window was built for.
	Indices(current int) []int

	window()
}

// Single is the window of a one-page sequence.
type Single struct {
	View View
}

// Pair is the window of a two-page sequence: always page 0 then page 1.
type Pair struct {
	Start View
	End   View
}

// Triple is the window of a sequence of three or more pages: the current
// page plus whichever neighbors exist.
type Triple struct {
	Current   View
	Neighbors Neighbors
}

func (Single) window() {}
func (Pair) window()   {}
func (Triple) window() {}

func (w Single) Views() []View { return []View{w.View} }
func (w Single) Len() int      { return 1 }

func (w Single) Indices(int) []int { return []int{0} }

func (w Pair) Views() []View { return []View{w.Start, w.End} }
func (w Pair) Len() int      { return 2 }

func (w Pair) Indices(int) []int { return []int{0, 1} }

func (w Triple) Views() []View {
	views := make([]View, 0, 3)
	if prev, ok := w.Neighbors.First(); ok {
		views = append(views, prev)
	}
	views = append(views, w.Current)
	if next, ok := w.Neighbors.Second(); ok {
		views = append(views, next)
	}
	return views
}

func (w Triple) Len() int { return 1 + w.Neighbors.Len() }

func (w Triple) Indices(current int) []int {
	indices := make([]int, 0, 3)
	if _, ok := w.Neighbors.First(); ok {
		indices = append(indices, current-1)
	}
	indices = append(indices, current)
	if _, ok := w.Neighbors.Second(); ok {
		indices = append(indices, current+1)
	}
	return indices
}

// ResolveFunc produces the view for a page index.
type ResolveFunc func(index int, edge Edge) View

// viewsByIndex maps each view of w to its absolute page index.
func viewsByIndex(w Window, current int) map[int]View {
	if w == nil {
		return nil
	}
	views := w.Views()
	indices := w.Indices(current)
	byIndex := make(map[int]View, len(views))
	for i, v := range views {
		byIndex[indices[i]] = v
	}
	return byIndex
}

// ComputeWindow returns the window for current in a sequence of pageCount
// pages. Views of prior (built for priorIndex) are reused for every page
// index they already cover; resolve is called only for the rest, at most
// once per index. When prior is non-nil and priorIndex equals current,
// prior is returned unchanged.
//
// ComputeWindow panics if current is outside [0, pageCount).
func ComputeWindow(pageCount, current int, prior Window, priorIndex int, resolve ResolveFunc) Window {
	if pageCount < 1 || current < 0 || current >= pageCount {
		panic(fmt.Sprintf("triptych: index %d out of range for %d pages", current, pageCount))
	}
	if prior != nil && priorIndex == current {
		return prior
	}

	reusable := viewsByIndex(prior, priorIndex)
	resolved := make(map[int]View, 3)
	view := func(index int, edge Edge) View {
		if index < 0 || index >= pageCount {
			panic(fmt.Sprintf("triptych: resolve index %d out of range for %d pages", index, pageCount))
		}
		if v, ok := resolved[index]; ok {
			return v
		}
		v, ok := reusable[index]
		if !ok {
			v = resolve(index, edge)
		}
		resolved[index] = v
		return v
	}

	switch {
	case pageCount == 1:
		return Single{View: view(0, EdgeBeginning)}
	case pageCount == 2:
		if current == 0 {
			start := view(0, EdgeBeginning)
			return Pair{Start: start, End: view(1, EdgeBeginning)}
		}
		start := view(0, EdgeEnd)
		return Pair{Start: start, End: view(1, EdgeBeginning)}
	}

	cur := view(current, EdgeBeginning)
	switch current {
	case 0:
		return Triple{Current: cur, Neighbors: SecondOnly[View](view(1, EdgeBeginning))}
	case pageCount - 1:
		return Triple{Current: cur, Neighbors: FirstOnly[View, View](view(current-1, EdgeEnd))}
	default:
		prev := view(current-1, EdgeEnd)
		next := view(current+1, EdgeBeginning)
		return Triple{Current: cur, Neighbors: Both(prev, next)}
	}
}
