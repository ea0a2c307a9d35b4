package store

import (
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Thought is one short timestamped note. Date and Time are derived from
// Timestamp once at creation and never recomputed; Date drives shard
// assignment.
type Thought struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Timestamp int64  `json:"timestamp"` // unix milliseconds
	Date      string `json:"date"`      // YYYY-MM-DD
	Time      string `json:"time"`      // HH:MM:SS
}

// NewThought builds a Thought created at now. The id is the millisecond
// timestamp as a string; concurrent sub-millisecond creation can collide,
// which is accepted.
func NewThought(text string, now time.Time) Thought {
	ms := now.UnixMilli()
	return Thought{
		ID:        strconv.FormatInt(ms, 10),
		Text:      text,
		Timestamp: ms,
		Date:      now.Format("2006-01-02"),
		Time:      now.Format("15:04:05"),
	}
}

// CheckinEvent is a tracked habit. Absent Start/End bounds mean the event is
// open-ended on that side.
type CheckinEvent struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
	Start string `json:"start,omitempty"` // YYYY-MM-DD
	End   string `json:"end,omitempty"`   // YYYY-MM-DD
}

// NewCheckinEvent creates an open-ended event.
func NewCheckinEvent(name, color string) CheckinEvent {
	return CheckinEvent{ID: uuid.NewString(), Name: name, Color: color}
}

// ActiveOn reports whether the event is active on the given ISO date: the
// closed interval [Start, End], with absent bounds open. ISO dates compare
// correctly as strings.
func (e CheckinEvent) ActiveOn(date string) bool {
	if e.Start != "" && date < e.Start {
		return false
	}
	if e.End != "" && date > e.End {
		return false
	}
	return true
}

// CheckinRecord marks (date, event) as checked in; absence means not
// checked in. Records may reference a deleted event's id.
type CheckinRecord struct {
	Date    string `json:"date"`
	EventID string `json:"eventId"`
}

// CheckinPosition is the last persisted drag offset of an event card.
// Purely cosmetic.
type CheckinPosition struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// CheckinData is the habit tracker aggregate, persisted as one document.
// Once it exists remotely, the remote copy is the sole source of truth.
type CheckinData struct {
	Events    []CheckinEvent             `json:"events"`
	Records   []CheckinRecord            `json:"records"`
	Positions map[string]CheckinPosition `json:"positions"`
}

// NewCheckinData returns an empty aggregate with non-nil collections so it
// serializes as [] and {} rather than null.
func NewCheckinData() *CheckinData {
	return &CheckinData{
		Events:    []CheckinEvent{},
		Records:   []CheckinRecord{},
		Positions: map[string]CheckinPosition{},
	}
}

// IsEmpty reports whether the aggregate holds no state at all.
func (d *CheckinData) IsEmpty() bool {
	return len(d.Events) == 0 && len(d.Records) == 0 && len(d.Positions) == 0
}

// CheckedIn reports whether a record exists for (date, eventID).
func (d *CheckinData) CheckedIn(date, eventID string) bool {
	for _, r := range d.Records {
		if r.Date == date && r.EventID == eventID {
			return true
		}
	}
	return false
}

// Toggle flips the check-in state for (date, eventID).
func (d *CheckinData) Toggle(date, eventID string) {
	for i, r := range d.Records {
		if r.Date == date && r.EventID == eventID {
			d.Records = append(d.Records[:i], d.Records[i+1:]...)
			return
		}
	}
	d.Records = append(d.Records, CheckinRecord{Date: date, EventID: eventID})
}

// SetPosition stores the drag offset for an event card.
func (d *CheckinData) SetPosition(eventID string, x, y float64) {
	if d.Positions == nil {
		d.Positions = map[string]CheckinPosition{}
	}
	d.Positions[eventID] = CheckinPosition{X: x, Y: y}
}

// RemoveEvent deletes the event with the given id. Records referencing it
// are left in place; dangling references are tolerated on read.
func (d *CheckinData) RemoveEvent(id string) {
	for i, e := range d.Events {
		if e.ID == id {
			d.Events = append(d.Events[:i], d.Events[i+1:]...)
			return
		}
	}
}

// Clone returns a deep copy, decoupling a scheduled flush from further UI
// mutation of the original.
func (d *CheckinData) Clone() *CheckinData {
	out := &CheckinData{
		Events:    make([]CheckinEvent, len(d.Events)),
		Records:   make([]CheckinRecord, len(d.Records)),
		Positions: make(map[string]CheckinPosition, len(d.Positions)),
	}
	copy(out.Events, d.Events)
	copy(out.Records, d.Records)
	for k, v := range d.Positions {
		out.Positions[k] = v
	}
	return out
}
