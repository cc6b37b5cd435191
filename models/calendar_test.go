package models

import (
	"errors"
	"testing"
	"time"
)

func ownedCalendar(t *testing.T) (*User, *Calendar) {
	t.Helper()
	owner := newUser("Alpha")
	calendar, err := owner.CreateCalendar("Cal")
	if err != nil {
		t.Fatalf("CreateCalendar: %v", err)
	}
	return owner, calendar
}

func TestCreateEventDeniedForNonOwner(t *testing.T) {
	_, calendar := ownedCalendar(t)
	stranger := newUser("Beta")

	_, err := calendar.CreateEvent("E1", date(2011, 1, 22), date(2011, 8, 22), Private, stranger.id)
	if !errors.Is(err, ErrAccessDenied) {
		t.Fatalf("want ErrAccessDenied, got %v", err)
	}
	// visibility makes no difference for mutation rights
	_, err = calendar.CreateEvent("E1", date(2011, 1, 22), date(2011, 8, 22), Public, stranger.id)
	if !errors.Is(err, ErrAccessDenied) {
		t.Fatalf("want ErrAccessDenied, got %v", err)
	}
}

func TestCreateAndGetEvent(t *testing.T) {
	owner, calendar := ownedCalendar(t)

	if _, err := calendar.CreateEvent("E1", date(2011, 1, 22), date(2011, 8, 22), Private, owner.id); err != nil {
		t.Fatalf("CreateEvent: %v", err)
	}

	e, err := calendar.GetEvent("E1", date(2011, 1, 22))
	if err != nil {
		t.Fatalf("GetEvent: %v", err)
	}
	if !e.IsPrivate() {
		t.Fatalf("want private event")
	}

	if _, err := calendar.GetEvent("E1", date(2011, 1, 23)); !errors.Is(err, ErrUnknownEvent) {
		t.Fatalf("want ErrUnknownEvent, got %v", err)
	}
}

func TestAllEventsSortedByStart(t *testing.T) {
	owner, calendar := ownedCalendar(t)

	// inserted 1, 3, 2 by start date
	mustCreate(t, calendar, owner, "first", date(2000, 1, 1), Private)
	mustCreate(t, calendar, owner, "third", date(2011, 8, 2), Private)
	mustCreate(t, calendar, owner, "second", date(2006, 6, 8), Public)

	events, err := calendar.AllEvents(owner.id)
	if err != nil {
		t.Fatalf("AllEvents: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("want 3 events, got %d", len(events))
	}
	for i, want := range []string{"first", "second", "third"} {
		if events[i].Name() != want {
			t.Fatalf("pos %d: want %q got %q", i, want, events[i].Name())
		}
	}
}

func TestAllEventsStableForEqualStarts(t *testing.T) {
	owner, calendar := ownedCalendar(t)

	mustCreate(t, calendar, owner, "a", date(2020, 5, 1), Private)
	mustCreate(t, calendar, owner, "b", date(2020, 5, 1), Private)
	mustCreate(t, calendar, owner, "c", date(2020, 5, 1), Private)

	events, err := calendar.AllEvents(owner.id)
	if err != nil {
		t.Fatalf("AllEvents: %v", err)
	}
	for i, want := range []string{"a", "b", "c"} {
		if events[i].Name() != want {
			t.Fatalf("tie-break not insertion order: pos %d got %q", i, events[i].Name())
		}
	}
}

func TestAllEventsDeniedForNonOwner(t *testing.T) {
	owner, calendar := ownedCalendar(t)
	stranger := newUser("Beta")
	mustCreate(t, calendar, owner, "pub", date(2020, 1, 1), Public)

	// strict deny, not a filtered view
	if _, err := calendar.AllEvents(stranger.id); !errors.Is(err, ErrAccessDenied) {
		t.Fatalf("want ErrAccessDenied, got %v", err)
	}
	if _, err := calendar.AllEventsOnDate(date(2020, 1, 1), stranger.id); !errors.Is(err, ErrAccessDenied) {
		t.Fatalf("want ErrAccessDenied, got %v", err)
	}
	if _, err := calendar.AllEventsStarting(date(2020, 1, 1), stranger.id); !errors.Is(err, ErrAccessDenied) {
		t.Fatalf("want ErrAccessDenied, got %v", err)
	}
}

func TestPublicEventsNeverIncludePrivate(t *testing.T) {
	owner, calendar := ownedCalendar(t)

	mustCreate(t, calendar, owner, "secret", date(2020, 1, 1), Private)
	mustCreate(t, calendar, owner, "open", date(2020, 2, 1), Public)

	views := calendar.PublicEvents()
	if len(views) != 1 || views[0].Name != "open" {
		t.Fatalf("public views: %+v", views)
	}
}

func TestPublicEventsOnDateWindow(t *testing.T) {
	owner, calendar := ownedCalendar(t)

	d := date(2021, 3, 10)
	if _, err := calendar.CreateEvent("P1", d, d, Public, owner.id); err != nil {
		t.Fatalf("CreateEvent: %v", err)
	}

	hits := calendar.PublicEventsOnDate(d)
	if len(hits) != 1 || hits[0].Name != "P1" {
		t.Fatalf("on date: %+v", hits)
	}
	if got := calendar.PublicEventsOnDate(d.AddDate(0, 0, -1)); len(got) != 0 {
		t.Fatalf("day before should be empty, got %+v", got)
	}
}

func TestEventsOnDateCoversFullRange(t *testing.T) {
	owner, calendar := ownedCalendar(t)
	mustCreateRange(t, calendar, owner, "span", date(2020, 1, 5), date(2020, 1, 10), Private)

	mid, err := calendar.AllEventsOnDate(date(2020, 1, 7), owner.id)
	if err != nil {
		t.Fatalf("AllEventsOnDate: %v", err)
	}
	if len(mid) != 1 {
		t.Fatalf("mid-range day should match, got %d", len(mid))
	}
	after, err := calendar.AllEventsOnDate(date(2020, 1, 11), owner.id)
	if err != nil {
		t.Fatalf("AllEventsOnDate: %v", err)
	}
	if len(after) != 0 {
		t.Fatalf("day after end should not match")
	}
}

func TestPublicEventsStartingIsSortedFiniteRestartable(t *testing.T) {
	owner, calendar := ownedCalendar(t)

	mustCreate(t, calendar, owner, "late", date(2022, 6, 1), Public)
	mustCreate(t, calendar, owner, "early", date(2022, 1, 1), Public)
	mustCreate(t, calendar, owner, "old", date(2021, 1, 1), Public)
	mustCreate(t, calendar, owner, "hidden", date(2022, 3, 1), Private)

	seq := calendar.PublicEventsStarting(date(2022, 1, 1))

	for range 2 { // restartable: ranging twice yields the same events
		var names []string
		for v := range seq {
			names = append(names, v.Name)
		}
		if len(names) != 2 || names[0] != "early" || names[1] != "late" {
			t.Fatalf("starting seq: %v", names)
		}
	}
}

func TestEditEventAppliesFieldMask(t *testing.T) {
	owner, calendar := ownedCalendar(t)
	mustCreateRange(t, calendar, owner, "e", date(2020, 1, 1), date(2020, 1, 2), Private)

	newName := "renamed"
	visibility := Public
	err := calendar.EditEvent("e", date(2020, 1, 1), EventChanges{Name: &newName, Visibility: &visibility}, owner.id)
	if err != nil {
		t.Fatalf("EditEvent: %v", err)
	}

	e, err := calendar.GetEvent("renamed", date(2020, 1, 1))
	if err != nil {
		t.Fatalf("GetEvent after edit: %v", err)
	}
	if !e.IsPublic() {
		t.Fatalf("visibility not applied")
	}
}

func TestEditEventMovesBothBoundsTogether(t *testing.T) {
	owner, calendar := ownedCalendar(t)
	mustCreateRange(t, calendar, owner, "e", date(2020, 1, 1), date(2020, 1, 2), Private)

	// the whole range moves past the old end; valid only when checked as a pair
	start := date(2020, 3, 1)
	end := date(2020, 3, 5)
	if err := calendar.EditEvent("e", date(2020, 1, 1), EventChanges{Start: &start, End: &end}, owner.id); err != nil {
		t.Fatalf("EditEvent: %v", err)
	}
	if _, err := calendar.GetEvent("e", start); err != nil {
		t.Fatalf("event not at new start: %v", err)
	}
}

func TestEditEventFailureLeavesEventUnmodified(t *testing.T) {
	owner, calendar := ownedCalendar(t)
	mustCreateRange(t, calendar, owner, "e", date(2020, 1, 5), date(2020, 1, 10), Private)

	newName := "renamed"
	badEnd := date(2020, 1, 1)
	err := calendar.EditEvent("e", date(2020, 1, 5), EventChanges{Name: &newName, End: &badEnd}, owner.id)
	if !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("want ErrInvalidDate, got %v", err)
	}

	// neither the date nor the name may have been applied
	e, err := calendar.GetEvent("e", date(2020, 1, 5))
	if err != nil {
		t.Fatalf("event lost after failed edit: %v", err)
	}
	if !e.End().Equal(date(2020, 1, 10)) {
		t.Fatalf("end mutated on failed edit: %v", e.End())
	}
}

func TestEditAndDeleteDeniedForNonOwner(t *testing.T) {
	owner, calendar := ownedCalendar(t)
	stranger := newUser("Beta")
	mustCreate(t, calendar, owner, "e", date(2020, 1, 1), Public)

	newName := "x"
	if err := calendar.EditEvent("e", date(2020, 1, 1), EventChanges{Name: &newName}, stranger.id); !errors.Is(err, ErrAccessDenied) {
		t.Fatalf("want ErrAccessDenied, got %v", err)
	}
	if err := calendar.DeleteEvent("e", date(2020, 1, 1), stranger.id); !errors.Is(err, ErrAccessDenied) {
		t.Fatalf("want ErrAccessDenied, got %v", err)
	}
}

func TestDeleteEvent(t *testing.T) {
	owner, calendar := ownedCalendar(t)
	mustCreate(t, calendar, owner, "e", date(2020, 1, 1), Private)

	if err := calendar.DeleteEvent("e", date(2020, 1, 1), owner.id); err != nil {
		t.Fatalf("DeleteEvent: %v", err)
	}
	if err := calendar.DeleteEvent("e", date(2020, 1, 1), owner.id); !errors.Is(err, ErrUnknownEvent) {
		t.Fatalf("want ErrUnknownEvent, got %v", err)
	}
}

func mustCreate(t *testing.T, c *Calendar, owner *User, name string, start time.Time, v Visibility) {
	t.Helper()
	mustCreateRange(t, c, owner, name, start, start.AddDate(0, 0, 1), v)
}

func mustCreateRange(t *testing.T, c *Calendar, owner *User, name string, start, end time.Time, v Visibility) {
	t.Helper()
	if _, err := c.CreateEvent(name, start, end, v, owner.id); err != nil {
		t.Fatalf("CreateEvent %q: %v", name, err)
	}
}
