package ringgraph

import "math"

// Partition is the ring assignment for one focal entity. The three rings are
// disjoint, ordered by roster position and never contain the focal id.
type Partition struct {
	Focal    string
	Ring1    []string
	Ring2    []string
	Ring3    []string
	Capacity int // ring-2 angular capacity used for the overflow split
}

// Members returns the ids of ring r in order. The center ring yields the focal id.
func (pt Partition) Members(r Ring) []string {
	switch r {
	case RingCenter:
		return []string{pt.Focal}
	case RingFirst:
		return pt.Ring1
	case RingSecond:
		return pt.Ring2
	case RingThird:
		return pt.Ring3
	}
	return nil
}

// RingOf returns the ring holding id.
func (pt Partition) RingOf(id string) (Ring, bool) {
	if id == pt.Focal {
		return RingCenter, true
	}
	for _, r := range []Ring{RingFirst, RingSecond, RingThird} {
		for _, m := range pt.Members(r) {
			if m == id {
				return r, true
			}
		}
	}
	return 0, false
}

// Len returns the number of ring members, excluding the focal entity.
func (pt Partition) Len() int { return len(pt.Ring1) + len(pt.Ring2) + len(pt.Ring3) }

// PartitionRings derives ring membership from the connection graph.
//
// Ring 1 is every roster member the focal entity liked. Ring 2 is every
// roster member liked by a ring-1 member, excluding the focal entity and
// ring 1 itself. Ring-2 candidates beyond floor(2π·r2/MinArcGap) overflow,
// in roster order, into ring 3. Self-likes and ids missing from the roster
// are ignored.
func PartitionRings(focal string, src Source, p Params) Partition {
	pt := Partition{Focal: focal}
	if src == nil {
		return pt
	}
	roster := src.Roster()

	direct := likedSet(src, focal)
	delete(direct, focal)
	for _, id := range roster {
		if id != focal && direct[id] {
			pt.Ring1 = append(pt.Ring1, id)
		}
	}
	first := make(map[string]bool, len(pt.Ring1))
	for _, id := range pt.Ring1 {
		first[id] = true
	}

	extended := make(map[string]bool)
	for _, f := range pt.Ring1 {
		for _, id := range src.LikedIDs(f) {
			if id != focal && id != f && !first[id] {
				extended[id] = true
			}
		}
	}
	var candidates []string
	for _, id := range roster {
		if extended[id] {
			candidates = append(candidates, id)
		}
	}

	r2 := firstRadius(len(pt.Ring1), p) + p.RingPadding
	pt.Capacity = ringCapacity(r2, p.MinArcGap)
	if len(candidates) > pt.Capacity {
		pt.Ring2 = candidates[:pt.Capacity:pt.Capacity]
		pt.Ring3 = candidates[pt.Capacity:]
	} else {
		pt.Ring2 = candidates
	}
	return pt
}

func likedSet(src Source, id string) map[string]bool {
	ids := src.LikedIDs(id)
	set := make(map[string]bool, len(ids))
	for _, l := range ids {
		set[l] = true
	}
	return set
}

// firstRadius is the ring-1 radius that keeps n nodes MinArcGap apart.
func firstRadius(n int, p Params) float64 {
	if n <= 1 {
		return p.BaseRadius
	}
	return math.Max(p.BaseRadius, math.Ceil(p.MinArcGap*float64(n)/(2*math.Pi)))
}

func ringCapacity(radius, gap float64) int {
	if gap <= 0 {
		return math.MaxInt32
	}
	return int(math.Floor(2 * math.Pi * radius / gap))
}
