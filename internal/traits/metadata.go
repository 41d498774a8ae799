package traits

import "math"

// Metadata summarises a build for the front end: the compendium version and
// the spread of creature stats.
type Metadata struct {
	CompendiumVersion string         `json:"compendium_version"`
	MinStats          map[string]int `json:"min_stats"`
	MaxStats          map[string]int `json:"max_stats"`
	AverageStats      map[string]int `json:"average_stats"`
}

// Aggregate computes per-stat minimum, maximum and rounded mean over every
// record that carries stats. Means round half to even.
//
// Postcondition: all three maps are non-nil; they are empty when no record
// has stats.
func Aggregate(version string, records []Record) Metadata {
	md := Metadata{
		CompendiumVersion: version,
		MinStats:          make(map[string]int),
		MaxStats:          make(map[string]int),
		AverageStats:      make(map[string]int),
	}

	totals := make(map[string]int)
	n := 0
	for _, rec := range records {
		if rec.Stats == nil {
			continue
		}
		n++
		for k, v := range rec.Stats.Map() {
			if lo, ok := md.MinStats[k]; !ok || v < lo {
				md.MinStats[k] = v
			}
			if hi, ok := md.MaxStats[k]; !ok || v > hi {
				md.MaxStats[k] = v
			}
			totals[k] += v
		}
	}

	for k, sum := range totals {
		md.AverageStats[k] = int(math.RoundToEven(float64(sum) / float64(n)))
	}
	return md
}
