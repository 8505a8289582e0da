package narrative

import (
	"fmt"
)

// unknownIntersection is the label used when no named roads were found nearby
const unknownIntersection = "Unknown Intersection"

// maxLabelCandidates caps how many deduplicated names are retained before
// picking the label, to bound the upstream tile query's bookkeeping
const maxLabelCandidates = 6

// majorRoadClasses are the classifications promoted ahead of residential and
// service roads when choosing intersection names
var majorRoadClasses = map[string]bool{
	"motorway":  true,
	"trunk":     true,
	"primary":   true,
	"secondary": true,
	"tertiary":  true,
}

// IntersectionLabel picks a human-recognizable "Street A & Street B" label from
// roads near a point, ordered by the tile query's own proximity ranking.
//
// Names are deduplicated case-sensitively with the first occurrence winning,
// major road classes are promoted ahead of the rest with order preserved
// within each partition, and the label is built from the first two surviving
// names.
func IntersectionLabel(roads []Road) string {
	seen := make(map[string]bool)
	var major, other []string

	for _, road := range roads {
		if road.Name == "" || seen[road.Name] {
			continue
		}
		seen[road.Name] = true
		if majorRoadClasses[road.Class] {
			major = append(major, road.Name)
		} else {
			other = append(other, road.Name)
		}
		if len(major)+len(other) >= maxLabelCandidates {
			break
		}
	}

	names := append(major, other...)
	switch {
	case len(names) >= 2:
		return fmt.Sprintf("%s & %s", names[0], names[1])
	case len(names) == 1:
		return names[0]
	default:
		return unknownIntersection
	}
}
