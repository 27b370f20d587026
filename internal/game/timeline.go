package game

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"trackline/internal/model"
)

// BuildTimelineEntries assembles the chronological board: the two fixed
// anchors plus one entry per already-revealed round. Ids missing from
// the round list are skipped. The result is sorted by year ascending,
// anchors before rounds on equal years, then by title.
func BuildTimelineEntries(timelineRoundIDs []string, rounds []model.Round) []model.TimelineEntry {
	byID := make(map[string]*model.Round, len(rounds))
	for i := range rounds {
		byID[rounds[i].ID] = &rounds[i]
	}

	entries := []model.TimelineEntry{
		{ID: "anchor-" + strconv.Itoa(AnchorYearEarly), Kind: model.TimelineAnchor, Year: AnchorYearEarly, Title: strconv.Itoa(AnchorYearEarly)},
		{ID: "anchor-" + strconv.Itoa(AnchorYearLate), Kind: model.TimelineAnchor, Year: AnchorYearLate, Title: strconv.Itoa(AnchorYearLate)},
	}

	for _, id := range timelineRoundIDs {
		r, ok := byID[id]
		if !ok {
			continue
		}
		entries = append(entries, model.TimelineEntry{
			ID:    r.ID,
			Kind:  model.TimelineRound,
			Year:  r.Year,
			Title: r.Title,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Year != b.Year {
			return a.Year < b.Year
		}
		if a.Kind != b.Kind {
			return a.Kind == model.TimelineAnchor
		}
		return a.Title < b.Title
	})

	return entries
}

// ClampInsertIndex coerces a raw client-supplied position into a valid
// insertion slot. Non-finite input clamps to 0, everything else is
// floored and clamped into [0, maxIndex].
func ClampInsertIndex(raw float64, maxIndex int) int {
	if math.IsNaN(raw) || math.IsInf(raw, 0) {
		return 0
	}
	idx := int(math.Floor(raw))
	if idx < 0 {
		return 0
	}
	if idx > maxIndex {
		return maxIndex
	}
	return idx
}

// IsInsertCorrect reports whether a round with the given year may be
// inserted at the slot. The year must fall between the neighbouring
// entries, inclusive on both ends, so a round sharing a year with its
// neighbour is accepted at either adjacent slot.
func IsInsertCorrect(entries []model.TimelineEntry, year int, insertIndex int) bool {
	idx := ClampInsertIndex(float64(insertIndex), len(entries))

	if idx > 0 && year < entries[idx-1].Year {
		return false
	}
	if idx < len(entries) && year > entries[idx].Year {
		return false
	}
	return true
}

// SlotLabel describes an insertion slot for display.
func SlotLabel(entries []model.TimelineEntry, slotIndex int) string {
	idx := ClampInsertIndex(float64(slotIndex), len(entries))

	switch {
	case len(entries) == 0:
		return "Anywhere"
	case idx == 0:
		return fmt.Sprintf("Before %d", entries[0].Year)
	case idx == len(entries):
		return fmt.Sprintf("After %d", entries[len(entries)-1].Year)
	default:
		return fmt.Sprintf("Between %d and %d", entries[idx-1].Year, entries[idx].Year)
	}
}
