package render

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/dpup/brunnels/internal/lib/brunnel"
	"github.com/dpup/brunnels/internal/lib/route"
)

// Listing writes a plain-text table of the retained crossings in route order,
// followed by a short summary of how many candidates were filtered and why.
func Listing(w io.Writer, r *route.Route, res *brunnel.Result) {
	var reps []*brunnel.Brunnel
	for _, b := range res.Representatives() {
		if b.Included() {
			reps = append(reps, b)
		}
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", "Kind", "Name", "Start", "End", "Length", "Group"})

	for i, b := range reps {
		t.AppendRow(table.Row{
			i + 1,
			b.Kind,
			displayName(b),
			fmt.Sprintf("%.0f m", b.Span.Start),
			fmt.Sprintf("%.0f m", b.Span.End),
			fmt.Sprintf("%.0f m", b.Span.Length()),
			groupLabel(b),
		})
	}
	t.Render()

	counts := make(map[brunnel.ExclusionReason]int)
	for _, b := range res.Brunnels {
		if !b.Included() {
			counts[b.Reason]++
		}
	}

	fmt.Fprintf(w, "route: %.1f km, %d candidates, %d crossings retained\n",
		r.Length()/1000, len(res.Brunnels), len(reps))
	for _, reason := range []brunnel.ExclusionReason{
		brunnel.ExclusionOutsideCorridor,
		brunnel.ExclusionMisaligned,
		brunnel.ExclusionSupersededByOverlap,
	} {
		if counts[reason] > 0 {
			fmt.Fprintf(w, "  excluded %s: %d\n", reason, counts[reason])
		}
	}
}

func groupLabel(b *brunnel.Brunnel) string {
	if b.Compound != nil {
		return fmt.Sprintf("compound of %d", b.Compound.Size())
	}
	return ""
}
