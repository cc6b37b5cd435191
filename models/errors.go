package models

import (
	"errors"
	"fmt"
	"time"
)

// Every failure the core can produce is one of these sentinels, wrapped with the
// offending key so callers can match with errors.Is and still log something useful.
// The core never logs or swallows; presentation is the boundary's problem.
var (
	ErrUnknownUser          = errors.New("unknown user")
	ErrUsernameTaken        = errors.New("username already taken")
	ErrAccessDenied         = errors.New("access denied")
	ErrUnknownCalendar      = errors.New("unknown calendar")
	ErrCalendarNameConflict = errors.New("calendar name already in use")
	ErrUnknownEvent         = errors.New("unknown event")
	ErrInvalidDate          = errors.New("event start date after end date")
)

func unknownUser(username string) error {
	return fmt.Errorf("%w: %q", ErrUnknownUser, username)
}

func usernameTaken(username string) error {
	return fmt.Errorf("%w: %q", ErrUsernameTaken, username)
}

func accessDenied(subject string) error {
	return fmt.Errorf("%w: %q", ErrAccessDenied, subject)
}

func unknownCalendar(name string) error {
	return fmt.Errorf("%w: %q", ErrUnknownCalendar, name)
}

func calendarNameConflict(name string) error {
	return fmt.Errorf("%w: %q", ErrCalendarNameConflict, name)
}

func unknownEvent(name string, start time.Time) error {
	return fmt.Errorf("%w: %q starting %s", ErrUnknownEvent, name, start.Format(time.RFC3339))
}

func invalidDate(start, end time.Time) error {
	return fmt.Errorf("%w: %s > %s", ErrInvalidDate, start.Format(time.RFC3339), end.Format(time.RFC3339))
}
