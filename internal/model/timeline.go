package model

// TimelineEntryKind distinguishes fixed anchors from revealed rounds.
type TimelineEntryKind string

const (
	TimelineAnchor TimelineEntryKind = "anchor"
	TimelineRound  TimelineEntryKind = "round"
)

// TimelineEntry is one slot boundary on the chronological board a
// player places the current round into.
type TimelineEntry struct {
	ID    string            `json:"id"`
	Kind  TimelineEntryKind `json:"kind"`
	Year  int               `json:"year"`
	Title string            `json:"title"`
}
