/*
Package routine holds the supplement routine domain model: the items the
AI collaborator produces, the display ordering rules, and the edit log that
tracks user removals and swaps without losing the original sequence.
*/
package routine

import (
	"regexp"
	"sort"
	"strings"
)

// Time-of-day buckets as they appear in AI output and on screen.
const (
	Morning = "Morning"
	Midday  = "Midday"
	Evening = "Evening"
	Night   = "Night"
)

// timeOfDayRank fixes the display order of the buckets. Anything not listed
// here (a misbehaving model can invent labels) sorts after all known buckets.
var timeOfDayRank = map[string]int{
	Morning: 0,
	Midday:  1,
	Evening: 2,
	Night:   3,
}

// Item is a single entry in the daily supplement schedule.
type Item struct {
	// TimeOfDay is one of Morning/Midday/Evening/Night.
	TimeOfDay string `json:"timeOfDay"`

	// Supplement is the name, possibly with a "(dosage)" parenthetical,
	// e.g. "Vitamin D3 (1000 IU)".
	Supplement string `json:"supplement"`

	// Instructions explains how to take it (with food, etc.).
	Instructions string `json:"instructions"`

	// Reasoning is the scientific explanation behind the recommendation.
	Reasoning string `json:"reasoning"`

	// Time is the suggested clock time formatted "H:MM AM/PM".
	Time string `json:"time"`

	// Brand is an optional suggested brand, set on swapped-in alternatives.
	Brand string `json:"brand,omitempty"`
}

// FoodSuggestions groups meal ideas by category. Dinner is optional because
// older saved payloads predate it.
type FoodSuggestions struct {
	Breakfast []string `json:"breakfast"`
	Lunch     []string `json:"lunch"`
	Snacks    []string `json:"snacks"`
	Dinner    []string `json:"dinner,omitempty"`
}

// Entry is an Item paired with its index in the original generated routine.
// Edit operations address items by that index, so any view that filters or
// reorders the routine carries it alongside each item.
type Entry struct {
	Index int `json:"index"`
	Item
}

// Recommendation is the full result of one generation call.
type Recommendation struct {
	SupplementRoutine []Item          `json:"supplementRoutine"`
	FoodSuggestions   FoodSuggestions `json:"foodSuggestions"`
}

// EmptyFoodSuggestions returns a FoodSuggestions with all categories present
// but empty. Used when rehydrating a saved routine, where only the supplement
// schedule is persisted.
func EmptyFoodSuggestions() FoodSuggestions {
	return FoodSuggestions{
		Breakfast: []string{},
		Lunch:     []string{},
		Snacks:    []string{},
	}
}

var dosageRe = regexp.MustCompile(`\(([^)]+)\)`)

// CleanName strips the "(dosage)" parenthetical from a supplement name.
func CleanName(supplement string) string {
	return strings.TrimSpace(dosageRe.ReplaceAllString(supplement, ""))
}

// Dosage extracts the parenthetical dosage from a supplement name, or ""
// when the name carries none.
func Dosage(supplement string) string {
	m := dosageRe.FindStringSubmatch(supplement)
	if m == nil {
		return ""
	}
	return m[1]
}

// SortEntriesForDisplay orders entries Morning < Midday < Evening < Night.
// The sort is stable so two entries in the same bucket keep their original
// relative order, and each entry keeps its editable original index through
// the reordering. The input slice is not modified.
func SortEntriesForDisplay(entries []Entry) []Entry {
	out := make([]Entry, len(entries))
	copy(out, entries)
	sort.SliceStable(out, func(i, j int) bool {
		return bucketRank(out[i].TimeOfDay) < bucketRank(out[j].TimeOfDay)
	})
	return out
}

func bucketRank(timeOfDay string) int {
	if r, ok := timeOfDayRank[timeOfDay]; ok {
		return r
	}
	return len(timeOfDayRank)
}
