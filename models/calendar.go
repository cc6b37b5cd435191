package models

import (
	"iter"
	"sort"
	"time"

	"github.com/google/uuid"
)

// Calendar owns the events of a single user. Every mutating operation and every
// read that can reveal private events requires the requester to be the owner;
// the public reads take no requester and never return private events.
//
// Ownership is compared by the user's opaque ID, never by pointer identity.
type Calendar struct {
	name   string
	owner  uuid.UUID
	events []*Event
}

func newCalendar(owner uuid.UUID, name string) *Calendar {
	return &Calendar{name: name, owner: owner}
}

func (c *Calendar) Name() string { return c.name }

func (c *Calendar) requireOwner(requester uuid.UUID) error {
	if requester != c.owner {
		return accessDenied(c.name)
	}
	return nil
}

// CreateEvent appends a new event. Owner only.
func (c *Calendar) CreateEvent(name string, start, end time.Time, visibility Visibility, requester uuid.UUID) (*Event, error) {
	if err := c.requireOwner(requester); err != nil {
		return nil, err
	}
	event, err := newEvent(name, start, end, visibility)
	if err != nil {
		return nil, err
	}
	c.events = append(c.events, event)
	return event, nil
}

// GetEvent looks up an event by its exact (name, start) pair across the whole
// event set, private events included. Callers outside the calendar must gate
// access themselves; only the owner may legitimately reach this.
func (c *Calendar) GetEvent(name string, start time.Time) (*Event, error) {
	for _, e := range c.events {
		if e.matches(name, start) {
			return e, nil
		}
	}
	return nil, unknownEvent(name, start)
}

// AllEvents returns every event, private and public, sorted by start date.
// Owner only; non-owners get ErrAccessDenied, never a filtered view.
func (c *Calendar) AllEvents(requester uuid.UUID) ([]*Event, error) {
	if err := c.requireOwner(requester); err != nil {
		return nil, err
	}
	return sortedByStart(c.events), nil
}

// AllEventsOnDate returns every event whose range covers date (start <= date <= end),
// sorted by start date. Owner only.
func (c *Calendar) AllEventsOnDate(date time.Time, requester uuid.UUID) ([]*Event, error) {
	if err := c.requireOwner(requester); err != nil {
		return nil, err
	}
	var hits []*Event
	for _, e := range c.events {
		if e.covers(date) {
			hits = append(hits, e)
		}
	}
	return sortedByStart(hits), nil
}

// AllEventsStarting yields views of every event starting at or after from, in
// start-date order. Owner only. The sequence is finite and restartable.
func (c *Calendar) AllEventsStarting(from time.Time, requester uuid.UUID) (iter.Seq[EventView], error) {
	if err := c.requireOwner(requester); err != nil {
		return nil, err
	}
	return viewsStarting(sortedByStart(c.events), from), nil
}

// PublicEvents returns views of all public events sorted by start date.
// No access check: this is the one read any caller may perform.
func (c *Calendar) PublicEvents() []EventView {
	return viewsOf(sortedByStart(c.publicEvents()))
}

// PublicEventsOnDate returns views of the public events whose range covers date,
// sorted by start date. No access check.
func (c *Calendar) PublicEventsOnDate(date time.Time) []EventView {
	var hits []*Event
	for _, e := range c.publicEvents() {
		if e.covers(date) {
			hits = append(hits, e)
		}
	}
	return viewsOf(sortedByStart(hits))
}

// PublicEventsStarting yields views of public events starting at or after from,
// in start-date order. No access check; finite and restartable.
func (c *Calendar) PublicEventsStarting(from time.Time) iter.Seq[EventView] {
	return viewsStarting(sortedByStart(c.publicEvents()), from)
}

// EventChanges is the field mask for EditEvent; nil fields are left alone.
type EventChanges struct {
	Name       *string
	Start      *time.Time
	End        *time.Time
	Visibility *Visibility
}

// EditEvent applies the non-nil fields of changes to the event identified by
// (name, start). Owner only. Date changes are validated against the bounds the
// event will actually end up with, and a failed edit applies nothing at all.
func (c *Calendar) EditEvent(name string, start time.Time, changes EventChanges, requester uuid.UUID) error {
	if err := c.requireOwner(requester); err != nil {
		return err
	}
	event, err := c.GetEvent(name, start)
	if err != nil {
		return err
	}
	newStart, newEnd := event.Start(), event.End()
	if changes.Start != nil {
		newStart = *changes.Start
	}
	if changes.End != nil {
		newEnd = *changes.End
	}
	if err := event.setRange(newStart, newEnd); err != nil {
		return err
	}
	if changes.Name != nil {
		event.SetName(*changes.Name)
	}
	if changes.Visibility != nil {
		event.SetVisibility(*changes.Visibility)
	}
	return nil
}

// DeleteEvent removes the event identified by (name, start). Owner only.
func (c *Calendar) DeleteEvent(name string, start time.Time, requester uuid.UUID) error {
	if err := c.requireOwner(requester); err != nil {
		return err
	}
	for i, e := range c.events {
		if e.matches(name, start) {
			c.events = append(c.events[:i], c.events[i+1:]...)
			return nil
		}
	}
	return unknownEvent(name, start)
}

func (c *Calendar) publicEvents() []*Event {
	var public []*Event
	for _, e := range c.events {
		if e.IsPublic() {
			public = append(public, e)
		}
	}
	return public
}

// sortedByStart returns a copy ordered by start date ascending; the stable sort
// keeps insertion order for equal starts.
func sortedByStart(events []*Event) []*Event {
	out := make([]*Event, len(events))
	copy(out, events)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Start().Before(out[j].Start())
	})
	return out
}

func viewsOf(events []*Event) []EventView {
	views := make([]EventView, 0, len(events))
	for _, e := range events {
		views = append(views, e.View())
	}
	return views
}

// viewsStarting captures the views eagerly so the sequence stays valid as a
// consistent snapshot no matter when or how often it is ranged over.
func viewsStarting(sorted []*Event, from time.Time) iter.Seq[EventView] {
	var views []EventView
	for _, e := range sorted {
		if e.Start().Before(from) {
			continue
		}
		views = append(views, e.View())
	}
	return func(yield func(EventView) bool) {
		for _, v := range views {
			if !yield(v) {
				return
			}
		}
	}
}
