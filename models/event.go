package models

import "time"

// Visibility controls who may see an event: private events are visible to the
// calendar owner only, public events to anyone.
type Visibility int

const (
	Private Visibility = iota
	Public
)

// Event is a single calendar entry. Events are created through their Calendar
// and always satisfy start <= end; a mutation that would break that fails and
// leaves the event untouched.
type Event struct {
	name       string
	start      time.Time
	end        time.Time
	visibility Visibility
}

func newEvent(name string, start, end time.Time, visibility Visibility) (*Event, error) {
	if start.After(end) {
		return nil, invalidDate(start, end)
	}
	return &Event{name: name, start: start, end: end, visibility: visibility}, nil
}

func (e *Event) Name() string { return e.name }

func (e *Event) Start() time.Time { return e.start }

func (e *Event) End() time.Time { return e.end }

func (e *Event) IsPublic() bool { return e.visibility == Public }

func (e *Event) IsPrivate() bool { return e.visibility == Private }

func (e *Event) SetName(name string) { e.name = name }

// SetStart moves the start date, validating against the current end date.
func (e *Event) SetStart(start time.Time) error {
	if start.After(e.end) {
		return invalidDate(start, e.end)
	}
	e.start = start
	return nil
}

// SetEnd moves the end date, validating against the current start date.
func (e *Event) SetEnd(end time.Time) error {
	if e.start.After(end) {
		return invalidDate(e.start, end)
	}
	e.end = end
	return nil
}

func (e *Event) SetVisibility(v Visibility) { e.visibility = v }

// setRange replaces both bounds at once. Both are validated together, so a
// combined move cannot trip the single-field checks halfway through.
func (e *Event) setRange(start, end time.Time) error {
	if start.After(end) {
		return invalidDate(start, end)
	}
	e.start = start
	e.end = end
	return nil
}

// covers reports whether date falls inside the event's range, bounds included.
func (e *Event) covers(date time.Time) bool {
	return !e.start.After(date) && !e.end.Before(date)
}

// matches is the event's lookup identity within a calendar: exact (name, start).
func (e *Event) matches(name string, start time.Time) bool {
	return e.name == name && e.start.Equal(start)
}

// EventView is the read-only projection that crosses the trust boundary.
// It carries no reference back to the event or its calendar.
type EventView struct {
	Name   string    `json:"name"`
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
	Public bool      `json:"public"`
}

func (e *Event) View() EventView {
	return EventView{Name: e.name, Start: e.start, End: e.end, Public: e.IsPublic()}
}
