package builtins

import (
	"github.com/dustin/go-humanize"

	"github.com/recmo/olus/internal/eval"
)

// humanizeValue backs the stats built-in: numbers print with thousands
// separators (humanize.Comma) the way a long-running trace's counters
// are meant to be read, rather than Print's raw decimal rendering.
func humanizeValue(v eval.Value[Tag]) string {
	switch v.Kind {
	case eval.ValueNumber:
		return humanize.Comma(int64(v.Number))
	default:
		return formatValue(v)
	}
}
