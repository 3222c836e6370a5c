package widget

// List is a growable list of ids for a variable number of sibling widgets.
type List struct {
	ids []ID
}

// Len returns the number of ids held.
func (l *List) Len() int { return len(l.ids) }

// IDs returns the held ids. The slice is owned by the list.
func (l *List) IDs() []ID { return l.ids }

// At returns the i'th id.
func (l *List) At(i int) ID { return l.ids[i] }

// Resize grows the list to n ids, generating new ones as needed, or
// truncates it to n. Truncated ids are forgotten by the list but remain
// valid in the graph.
func (l *List) Resize(n int, gen Generator) {
	for len(l.ids) < n {
		l.ids = append(l.ids, gen.Next())
	}
	if len(l.ids) > n {
		l.ids = l.ids[:n]
	}
}

// Walk returns a cursor that yields the list's ids in order.
func (l *List) Walk() *ListWalk { return &ListWalk{} }

// ListWalk yields ids from a [List], growing it when the walk runs past the
// end.
type ListWalk struct {
	i int
}

// Next returns the next id, generating one if the list is exhausted.
func (w *ListWalk) Next(l *List, gen Generator) ID {
	for w.i >= len(l.ids) {
		l.ids = append(l.ids, gen.Next())
	}
	id := l.ids[w.i]
	w.i++
	return id
}
