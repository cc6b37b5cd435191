package models

import (
	"iter"
	"sync"
	"time"
)

// App is the facade the outside world talks to. It owns the Authentication
// registry and serializes everything behind one writer lock: operations on a
// single calendar appear serialized and reads observe a consistent snapshot.
// The entities themselves carry no locking.
type App struct {
	mu   sync.RWMutex
	auth *Authentication
}

func NewApp() *App {
	return &App{auth: NewAuthentication()}
}

// CreateUser registers a new user under a free username.
func (a *App) CreateUser(username, password string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	_, err := a.auth.Register(username, password)
	return err
}

// ChangePassword verifies the old password and stores the new one.
func (a *App) ChangePassword(username, oldPassword, newPassword string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.auth.ChangePassword(username, oldPassword, newPassword)
}

// DeleteUser verifies the password and removes the user together with all of
// its calendars and events.
func (a *App) DeleteUser(username, password string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.auth.Unregister(username, password)
}

// LoginUser authenticates and returns the full-access handle. This is the only
// operation that hands mutation capability across the boundary.
func (a *App) LoginUser(username, password string) (*UserHandle, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	user, err := a.auth.Authenticate(username, password)
	if err != nil {
		return nil, err
	}
	return &UserHandle{app: a, user: user}, nil
}

// Session returns the full-access handle for an already-verified principal.
// Callers must have established the identity themselves (the HTTP layer does so
// by verifying the login token); this path deliberately skips the password gate
// and must never be driven by unauthenticated input.
func (a *App) Session(username string) (*UserHandle, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	user, err := a.auth.resolve(username)
	if err != nil {
		return nil, err
	}
	return &UserHandle{app: a, user: user}, nil
}

// ListCalendarNames lists any user's calendar names in creation order.
func (a *App) ListCalendarNames(username string) ([]string, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	user, err := a.auth.ResolveReadOnly(username)
	if err != nil {
		return nil, err
	}
	return user.CalendarNames(), nil
}

// PublicEventsOnDate returns the public events of any user's calendar whose
// range covers date, sorted by start date.
func (a *App) PublicEventsOnDate(username, calendarName string, date time.Time) ([]EventView, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	user, err := a.auth.ResolveReadOnly(username)
	if err != nil {
		return nil, err
	}
	return user.PublicEventsOnDate(calendarName, date)
}

// PublicEventsStarting yields the public events of any user's calendar starting
// at or after from, in start-date order. The sequence is a snapshot taken under
// the lock; it is finite and can be ranged over any number of times.
func (a *App) PublicEventsStarting(username, calendarName string, from time.Time) (iter.Seq[EventView], error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	user, err := a.auth.ResolveReadOnly(username)
	if err != nil {
		return nil, err
	}
	return user.PublicEventsStarting(calendarName, from)
}

// UserHandle is the full-access capability a successful login yields. Every
// operation takes the App lock, so handles are safe to use concurrently.
type UserHandle struct {
	app  *App
	user *User
}

func (h *UserHandle) Username() string { return h.user.Name() }

func (h *UserHandle) CreateCalendar(name string) error {
	h.app.mu.Lock()
	defer h.app.mu.Unlock()
	_, err := h.user.CreateCalendar(name)
	return err
}

func (h *UserHandle) DeleteCalendar(name string) error {
	h.app.mu.Lock()
	defer h.app.mu.Unlock()
	return h.user.DeleteCalendar(name)
}

func (h *UserHandle) CalendarNames() []string {
	h.app.mu.RLock()
	defer h.app.mu.RUnlock()
	return h.user.CalendarNames()
}

func (h *UserHandle) HasCalendars() bool {
	h.app.mu.RLock()
	defer h.app.mu.RUnlock()
	return h.user.HasCalendars()
}

// CreateEvent creates an event in the named calendar and returns its view.
func (h *UserHandle) CreateEvent(calendarName, eventName string, start, end time.Time, public bool) (EventView, error) {
	h.app.mu.Lock()
	defer h.app.mu.Unlock()
	create := h.user.CreatePrivateEvent
	if public {
		create = h.user.CreatePublicEvent
	}
	event, err := create(calendarName, eventName, start, end)
	if err != nil {
		return EventView{}, err
	}
	return event.View(), nil
}

func (h *UserHandle) EditEvent(calendarName, eventName string, start time.Time, changes EventChanges) error {
	h.app.mu.Lock()
	defer h.app.mu.Unlock()
	return h.user.EditEvent(calendarName, eventName, start, changes)
}

func (h *UserHandle) DeleteEvent(calendarName, eventName string, start time.Time) error {
	h.app.mu.Lock()
	defer h.app.mu.Unlock()
	return h.user.DeleteEvent(calendarName, eventName, start)
}

// AllEvents returns views of every event in the named calendar, sorted by
// start date, private events included.
func (h *UserHandle) AllEvents(calendarName string) ([]EventView, error) {
	h.app.mu.RLock()
	defer h.app.mu.RUnlock()
	events, err := h.user.AllEvents(calendarName)
	if err != nil {
		return nil, err
	}
	return viewsOf(events), nil
}

// AllEventsOnDate returns views of every event covering date.
func (h *UserHandle) AllEventsOnDate(calendarName string, date time.Time) ([]EventView, error) {
	h.app.mu.RLock()
	defer h.app.mu.RUnlock()
	events, err := h.user.AllEventsOnDate(calendarName, date)
	if err != nil {
		return nil, err
	}
	return viewsOf(events), nil
}

// AllEventsStarting yields views of every event starting at or after from.
func (h *UserHandle) AllEventsStarting(calendarName string, from time.Time) (iter.Seq[EventView], error) {
	h.app.mu.RLock()
	defer h.app.mu.RUnlock()
	return h.user.AllEventsStarting(calendarName, from)
}
