package models

import (
	"iter"
	"time"

	"github.com/google/uuid"
)

// User is the calendar namespace of one person. Calendar names are unique per
// user and kept in creation order. Event operations resolve the named calendar
// and delegate, supplying this user as the requester wherever an owner check
// applies, so holding a *User grants full mutation rights over its calendars.
type User struct {
	id        uuid.UUID
	name      string
	calendars []*Calendar
}

// ReadOnlyUser is the capability-reduced projection of a User that is safe to
// act on for callers who are not the owner. It reaches calendar names and
// public events only; nothing obtained through it can mutate anything.
type ReadOnlyUser interface {
	Name() string
	CalendarNames() []string
	HasCalendars() bool
	PublicEventsOnDate(calendarName string, date time.Time) ([]EventView, error)
	PublicEventsStarting(calendarName string, from time.Time) (iter.Seq[EventView], error)
}

func newUser(name string) *User {
	return &User{id: uuid.New(), name: name}
}

func (u *User) Name() string { return u.name }

// CreateCalendar adds a calendar with a per-user unique name.
func (u *User) CreateCalendar(name string) (*Calendar, error) {
	for _, c := range u.calendars {
		if c.Name() == name {
			return nil, calendarNameConflict(name)
		}
	}
	calendar := newCalendar(u.id, name)
	u.calendars = append(u.calendars, calendar)
	return calendar, nil
}

// DeleteCalendar removes the named calendar and with it all of its events.
func (u *User) DeleteCalendar(name string) error {
	for i, c := range u.calendars {
		if c.Name() == name {
			u.calendars = append(u.calendars[:i], u.calendars[i+1:]...)
			return nil
		}
	}
	return unknownCalendar(name)
}

// GetCalendar resolves a calendar by name. The handle itself is unrestricted;
// any mutation still goes through the calendar's owner check.
func (u *User) GetCalendar(name string) (*Calendar, error) {
	for _, c := range u.calendars {
		if c.Name() == name {
			return c, nil
		}
	}
	return nil, unknownCalendar(name)
}

// CalendarNames lists calendar names in creation order.
func (u *User) CalendarNames() []string {
	names := make([]string, 0, len(u.calendars))
	for _, c := range u.calendars {
		names = append(names, c.Name())
	}
	return names
}

func (u *User) HasCalendars() bool { return len(u.calendars) > 0 }

// CreatePrivateEvent creates a private event in the named calendar.
func (u *User) CreatePrivateEvent(calendarName, eventName string, start, end time.Time) (*Event, error) {
	calendar, err := u.GetCalendar(calendarName)
	if err != nil {
		return nil, err
	}
	return calendar.CreateEvent(eventName, start, end, Private, u.id)
}

// CreatePublicEvent creates a public event in the named calendar.
func (u *User) CreatePublicEvent(calendarName, eventName string, start, end time.Time) (*Event, error) {
	calendar, err := u.GetCalendar(calendarName)
	if err != nil {
		return nil, err
	}
	return calendar.CreateEvent(eventName, start, end, Public, u.id)
}

// EditEvent applies a field mask to the event identified by (eventName, start).
func (u *User) EditEvent(calendarName, eventName string, start time.Time, changes EventChanges) error {
	calendar, err := u.GetCalendar(calendarName)
	if err != nil {
		return err
	}
	return calendar.EditEvent(eventName, start, changes, u.id)
}

// DeleteEvent removes the event identified by (eventName, start).
func (u *User) DeleteEvent(calendarName, eventName string, start time.Time) error {
	calendar, err := u.GetCalendar(calendarName)
	if err != nil {
		return err
	}
	return calendar.DeleteEvent(eventName, start, u.id)
}

// AllEvents returns every event of the named calendar, sorted by start date.
func (u *User) AllEvents(calendarName string) ([]*Event, error) {
	calendar, err := u.GetCalendar(calendarName)
	if err != nil {
		return nil, err
	}
	return calendar.AllEvents(u.id)
}

// AllEventsOnDate returns every event of the named calendar covering date.
func (u *User) AllEventsOnDate(calendarName string, date time.Time) ([]*Event, error) {
	calendar, err := u.GetCalendar(calendarName)
	if err != nil {
		return nil, err
	}
	return calendar.AllEventsOnDate(date, u.id)
}

// AllEventsStarting yields every event of the named calendar starting at or
// after from.
func (u *User) AllEventsStarting(calendarName string, from time.Time) (iter.Seq[EventView], error) {
	calendar, err := u.GetCalendar(calendarName)
	if err != nil {
		return nil, err
	}
	return calendar.AllEventsStarting(from, u.id)
}

// PublicEventsOnDate returns the public events of the named calendar covering
// date. Safe for any caller.
func (u *User) PublicEventsOnDate(calendarName string, date time.Time) ([]EventView, error) {
	calendar, err := u.GetCalendar(calendarName)
	if err != nil {
		return nil, err
	}
	return calendar.PublicEventsOnDate(date), nil
}

// PublicEventsStarting yields the public events of the named calendar starting
// at or after from. Safe for any caller.
func (u *User) PublicEventsStarting(calendarName string, from time.Time) (iter.Seq[EventView], error) {
	calendar, err := u.GetCalendar(calendarName)
	if err != nil {
		return nil, err
	}
	return calendar.PublicEventsStarting(from), nil
}
