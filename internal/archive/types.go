package archive

import "time"

// RawUpdate is one commit notification as it appeared in an archive page
type RawUpdate struct {
	Subject   string
	Author    string
	Timestamp time.Time
}

// Mode is the nesting position of the scanner
type Mode int

const (
	Outside Mode = iota
	InListItem
	InListItemInAnchor
	InStrongTag
)

func (m Mode) String() string {
	switch m {
	case InListItem:
		return "in-list-item"
	case InListItemInAnchor:
		return "in-list-item-in-anchor"
	case InStrongTag:
		return "in-strong"
	default:
		return "outside"
	}
}

// EventKind identifies a markup event fed to the scanner
type EventKind int

const (
	OpenListItem EventKind = iota
	CloseListItem
	OpenAnchor
	CloseAnchor
	OpenStrong
	CloseStrong
	Text
)

// Event is a single tag boundary or text run
type Event struct {
	Kind EventKind
	Text string
}

// Outcome is what a scanner step produced
type Outcome int

const (
	None Outcome = iota
	Emitted
	Missed
	Furniture
	BadDate
)

// State is the scanner state between events. It is a plain value; Step
// returns a new one instead of mutating its argument.
type State struct {
	Mode     Mode
	Subject  string
	Date     time.Time
	Location *time.Location

	resume  Mode
	emitted bool
	seq     int
}

// NewState creates a scanner state with a fallback date context
func NewState(fallback time.Time, loc *time.Location) State {
	if loc == nil {
		loc = time.UTC
	}
	return State{Date: fallback, Location: loc}
}

// ScanProgress reports extraction counts
type ScanProgress struct {
	Matched   int
	Missed    int
	Furniture int
	BadDates  int
}

// Total returns matched plus missed items
func (p ScanProgress) Total() int {
	return p.Matched + p.Missed
}
