package cst

// Text reconstructs the exact source spanned by id by concatenating
// every leaf token beneath it in document order (the lossless-CST
// invariant of spec §8 Testable Property 1, exposed as a helper for
// round-trip tests and diagnostic rendering).
func Text(t *Tree, id ElementID) string {
	if t.IsToken(id) {
		return t.Text(id)
	}
	buf := make([]byte, 0, t.Span(id).Len())
	for _, c := range t.Children(id) {
		buf = append(buf, Text(t, c)...)
	}
	return string(buf)
}
