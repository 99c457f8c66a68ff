package registry

import (
	"strings"

	"golang.org/x/text/cases"
)

// Penalty for a face whose style differs from the requested style. It exceeds
// any weight or stretch distance, so style mismatches are considered last.
const stylePenalty = 1000

// MatchFont selects the face best matching a descriptor.
//
// The families of the descriptor are tried in order. The first family with
// at least one loaded face determines the candidates; later families are not
// considered. Family names are compared case-insensitively. Among the
// candidates, the face with the smallest score
//
//	|Δweight| + 1000·[style differs] + |Δstretch|
//
// wins, ties going to the face loaded first. If no family has a loaded face,
// MatchFont returns false.
func (r *Registry) MatchFont(desc FontDescriptor) (FontID, bool) {
	for _, family := range desc.Families {
		key := foldFamily(family)
		best, bestScore := -1, 0
		for i, face := range r.faces {
			if face.familyKey != key {
				continue
			}
			if score := matchScore(desc, face); best < 0 || score < bestScore {
				best, bestScore = i, score
			}
		}
		if best >= 0 {
			tracer().Debugf("match %v: font #%d (%s), score %d", desc, best, r.faces[best], bestScore)
			return r.faces[best].id, true
		}
	}
	tracer().Debugf("no match for %v", desc)
	return 0, false
}

func matchScore(desc FontDescriptor, face *FontFace) int {
	score := abs(int(desc.Weight) - int(face.Weight()))
	if desc.Style != face.Style() {
		score += stylePenalty
	}
	return score + abs(int(desc.Stretch)-int(face.Stretch()))
}

// foldFamily normalizes a family name for case-insensitive comparison.
func foldFamily(family string) string {
	return cases.Fold().String(strings.TrimSpace(family))
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
