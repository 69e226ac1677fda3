// Package brunnel implements the crossing analysis pipeline: deciding which
// bridge and tunnel candidates genuinely belong to a route, where along the
// route they lie, and how they group into compound structures and competing
// overlaps.
package brunnel

import (
	"sort"

	"github.com/dpup/brunnels/internal/lib/geo"
)

// Kind discriminates bridges from tunnels. Compound grouping never mixes
// kinds.
type Kind int

const (
	KindBridge Kind = iota
	KindTunnel
)

func (k Kind) String() string {
	switch k {
	case KindBridge:
		return "bridge"
	case KindTunnel:
		return "tunnel"
	default:
		return "unknown"
	}
}

// ExclusionReason records why a candidate was filtered out. ExclusionNone
// means the candidate is included in the final result.
type ExclusionReason int

const (
	ExclusionNone ExclusionReason = iota
	ExclusionOutsideCorridor
	ExclusionMisaligned
	ExclusionSupersededByOverlap
)

func (r ExclusionReason) String() string {
	switch r {
	case ExclusionNone:
		return "none"
	case ExclusionOutsideCorridor:
		return "outside-corridor"
	case ExclusionMisaligned:
		return "misaligned"
	case ExclusionSupersededByOverlap:
		return "superseded-by-overlap"
	default:
		return "unknown"
	}
}

// Span is the interval of cumulative route distance a candidate projects
// onto, in meters. Start <= End always holds once set.
type Span struct {
	Start float64
	End   float64
}

// Overlaps reports whether the two spans share interior. Touching endpoints
// do not count as overlapping.
func (s Span) Overlaps(o Span) bool {
	return !(s.End <= o.Start || o.End <= s.Start)
}

// Length returns the span's extent in meters.
func (s Span) Length() float64 { return s.End - s.Start }

// Brunnel is a candidate crossing. The input fields are set once from the
// source data; the analysis fields are written in place by the pipeline
// stages, each field owned by exactly one stage.
type Brunnel struct {
	ID      string
	Kind    Kind
	Name    string
	Points  []geo.Point
	Tags    map[string]string
	NodeIDs []int64

	// index is the candidate's stable position in the input set, used as the
	// arena index for group membership and for input-order tie-breaks.
	index int

	Span     *Span
	Reason   ExclusionReason
	Compound *Group
	Overlap  *Group
}

// Index returns the candidate's stable position in the analyzed input set.
func (b *Brunnel) Index() int { return b.index }

// Included reports whether the candidate survived all pipeline stages so far.
func (b *Brunnel) Included() bool { return b.Reason == ExclusionNone }

// IsRepresentative reports whether this candidate stands for its compound
// group in listings and overlap resolution. Candidates without a compound
// group represent themselves.
func (b *Brunnel) IsRepresentative() bool {
	return b.Compound == nil || b.Compound.rep == b.index
}

// Group is a set of candidates identified by their arena indices. Using flat
// indices instead of object references keeps the shared group structures
// acyclic while preserving O(1) membership tests.
type Group struct {
	members []int
	set     map[int]struct{}
	rep     int
}

func newGroup(members []int) *Group {
	sorted := make([]int, len(members))
	copy(sorted, members)
	sort.Ints(sorted)

	set := make(map[int]struct{}, len(sorted))
	for _, i := range sorted {
		set[i] = struct{}{}
	}
	return &Group{members: sorted, set: set, rep: -1}
}

// Members returns the group's arena indices in ascending order.
func (g *Group) Members() []int { return g.members }

// Size returns the number of group members.
func (g *Group) Size() int { return len(g.members) }

// Contains reports whether the arena index belongs to the group.
func (g *Group) Contains(index int) bool {
	_, ok := g.set[index]
	return ok
}

// Representative returns the arena index of the group's designated member,
// or -1 if none has been chosen.
func (g *Group) Representative() int { return g.rep }
