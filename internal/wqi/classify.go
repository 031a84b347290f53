package wqi

import (
	"fmt"
	"sort"
)

// Band is one classification tier. An index belongs to the band with the
// highest Lower bound that does not exceed it.
type Band struct {
	Level int     `json:"level"`
	Label string  `json:"label"`
	Color string  `json:"color"`
	Lower float64 `json:"lower"`
}

// classifier holds bands sorted by descending lower bound
type classifier struct {
	bands []Band
}

func newClassifier(variant Variant, bands []Band) (classifier, error) {
	if len(bands) == 0 {
		return classifier{}, &ConfigurationError{Variant: variant, Reason: "no classification bands"}
	}

	sorted := make([]Band, len(bands))
	copy(sorted, bands)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Lower > sorted[j].Lower })

	for i := 1; i < len(sorted); i++ {
		if sorted[i].Lower == sorted[i-1].Lower {
			return classifier{}, &ConfigurationError{
				Variant: variant,
				Reason:  fmt.Sprintf("bands %q and %q share lower bound %v", sorted[i-1].Label, sorted[i].Label, sorted[i].Lower),
			}
		}
	}
	return classifier{bands: sorted}, nil
}

// classify returns the band for index; values under every bound fall into the lowest band
func (c classifier) classify(index float64) Band {
	for _, b := range c.bands {
		if index >= b.Lower {
			return b
		}
	}
	return c.bands[len(c.bands)-1]
}
