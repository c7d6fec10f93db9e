// Package estimate converts raw duration signals reported by external
// sources (page counts, playtime hours, episode runtimes) into estimated
// minutes. All functions are pure; callers validate inputs beforehand.
package estimate

import "math"

// DefaultGameStepHours is the default rounding interval for game estimates
const DefaultGameStepHours = 0.5

// BookMinutes estimates reading time for a regular book at 2.5 min/page
func BookMinutes(pages int) int {
	return int(math.Round(float64(pages) * 2.5))
}

// EducationalBookMinutes estimates reading time for a technical book at 5 min/page
func EducationalBookMinutes(pages int) int {
	return pages * 5
}

// ComicMinutes estimates reading time for a comic book at 1 min/page
func ComicMinutes(pages int) int {
	return pages
}

// GameMinutes converts a reported playtime in hours to minutes, rounding the
// hours up to the nearest stepHours first. A non-positive step falls back to
// DefaultGameStepHours.
func GameMinutes(hours, stepHours float64) int {
	if stepHours <= 0 {
		stepHours = DefaultGameStepHours
	}
	rounded := math.Ceil(hours/stepHours) * stepHours
	return int(math.Round(rounded * 60))
}

// EpisodeMinutes pads an episode runtime with 5 minutes for credits and
// recaps, then rounds up to the next 6-minute mark.
func EpisodeMinutes(runtime int) int {
	v := runtime + 5
	return v + 6 - (v % 6)
}
