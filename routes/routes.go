// routes/routes.go
package routes

import (
	"errors"
	"iter"
	"net/http"
	"slices"
	"time"

	"github.com/gin-gonic/gin"

	"calshare/middlewares"
	"calshare/models"
	"calshare/utils"
)

// deps is the handler dependency container filled in by main.
type deps struct {
	app *models.App
	inv *utils.CacheInvalidator
}

func RegisterRoutes(server *gin.Engine, app *models.App, inv *utils.CacheInvalidator) {
	d := &deps{app: app, inv: inv}

	// account lifecycle
	server.POST("/signup", d.signup)
	server.POST("/login", d.login)

	// public reads: anyone may list calendar names and public events
	server.GET("/users/:user/calendars", d.listCalendars)
	server.GET("/users/:user/calendars/:calendar/public-events", d.publicEvents)

	// owner endpoints: the verified token identity is the requester
	auth := server.Group("/")
	auth.Use(middlewares.Authenticate)

	auth.PUT("/password", d.changePassword)
	auth.DELETE("/account", d.deleteAccount)

	auth.POST("/calendars", d.createCalendar)
	auth.DELETE("/calendars/:calendar", d.deleteCalendar)

	auth.POST("/calendars/:calendar/events", d.createEvent)
	auth.GET("/calendars/:calendar/events", d.ownEvents)
	auth.PUT("/calendars/:calendar/events", d.editEvent)
	auth.DELETE("/calendars/:calendar/events", d.deleteEvent)
}

// statusFor maps core errors onto HTTP statuses; the core itself never decides
// presentation.
func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrAccessDenied):
		return http.StatusUnauthorized
	case errors.Is(err, models.ErrUsernameTaken), errors.Is(err, models.ErrCalendarNameConflict):
		return http.StatusConflict
	case errors.Is(err, models.ErrInvalidDate):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrUnknownUser), errors.Is(err, models.ErrUnknownCalendar), errors.Is(err, models.ErrUnknownEvent):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func fail(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"message": err.Error()})
}

// session resolves the full-access handle for the username the Authenticate
// middleware verified. A stale token for a deleted user ends up here.
func (d *deps) session(c *gin.Context) (*models.UserHandle, bool) {
	username := c.GetString("username")
	handle, err := d.app.Session(username)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Not authorized."})
		return nil, false
	}
	return handle, true
}

func (d *deps) purge(c *gin.Context, username string) {
	if d.inv != nil {
		d.inv.PurgeUser(c, username)
	}
}

/* --------------------- Accounts --------------------- */

// POST /signup
func (d *deps) signup(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Could not parse request data."})
		return
	}

	if err := d.app.CreateUser(req.Username, req.Password); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "user created successfully"})
}

// POST /login
func (d *deps) login(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Could not parse request data."})
		return
	}

	handle, err := d.app.LoginUser(req.Username, req.Password)
	if err != nil {
		fail(c, err)
		return
	}

	token, err := utils.GenerateToken(handle.Username())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not authenticate user."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Login successful!", "token": token})
}

// PUT /password
func (d *deps) changePassword(c *gin.Context) {
	var req struct {
		OldPassword string `json:"oldPassword" binding:"required"`
		NewPassword string `json:"newPassword" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Could not parse request data."})
		return
	}

	if err := d.app.ChangePassword(c.GetString("username"), req.OldPassword, req.NewPassword); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password changed."})
}

// DELETE /account
func (d *deps) deleteAccount(c *gin.Context) {
	var req struct {
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Could not parse request data."})
		return
	}

	username := c.GetString("username")
	if err := d.app.DeleteUser(username, req.Password); err != nil {
		fail(c, err)
		return
	}
	d.purge(c, username)
	c.JSON(http.StatusOK, gin.H{"message": "Account deleted."})
}

/* --------------------- Public reads --------------------- */

// GET /users/:user/calendars
func (d *deps) listCalendars(c *gin.Context) {
	names, err := d.app.ListCalendarNames(c.Param("user"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, names)
}

// GET /users/:user/calendars/:calendar/public-events?date=|from=
func (d *deps) publicEvents(c *gin.Context) {
	user := c.Param("user")
	calendar := c.Param("calendar")

	if q := c.Query("date"); q != "" {
		date, err := time.Parse(time.RFC3339, q)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Could not parse date."})
			return
		}
		views, err := d.app.PublicEventsOnDate(user, calendar, date)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, views)
		return
	}

	if q := c.Query("from"); q != "" {
		from, err := time.Parse(time.RFC3339, q)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Could not parse from date."})
			return
		}
		seq, err := d.app.PublicEventsStarting(user, calendar, from)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, collect(seq))
		return
	}

	c.JSON(http.StatusBadRequest, gin.H{"message": "Query parameter date or from is required."})
}

/* --------------------- Calendars --------------------- */

// POST /calendars
func (d *deps) createCalendar(c *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Could not parse request data."})
		return
	}

	handle, ok := d.session(c)
	if !ok {
		return
	}
	if err := handle.CreateCalendar(req.Name); err != nil {
		fail(c, err)
		return
	}
	d.purge(c, handle.Username())
	c.JSON(http.StatusCreated, gin.H{"message": "calendar created!", "name": req.Name})
}

// DELETE /calendars/:calendar
func (d *deps) deleteCalendar(c *gin.Context) {
	handle, ok := d.session(c)
	if !ok {
		return
	}
	if err := handle.DeleteCalendar(c.Param("calendar")); err != nil {
		fail(c, err)
		return
	}
	d.purge(c, handle.Username())
	c.JSON(http.StatusOK, gin.H{"message": "Calendar deleted."})
}

/* --------------------- Events --------------------- */

// POST /calendars/:calendar/events
func (d *deps) createEvent(c *gin.Context) {
	var req struct {
		Name   string    `json:"name" binding:"required"`
		Start  time.Time `json:"start" binding:"required"`
		End    time.Time `json:"end" binding:"required"`
		Public bool      `json:"public"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Could not parse request data."})
		return
	}

	handle, ok := d.session(c)
	if !ok {
		return
	}
	view, err := handle.CreateEvent(c.Param("calendar"), req.Name, req.Start, req.End, req.Public)
	if err != nil {
		fail(c, err)
		return
	}
	d.purge(c, handle.Username())
	c.JSON(http.StatusCreated, gin.H{"message": "event created!", "event": view})
}

// GET /calendars/:calendar/events?date=|from= — the owner view, private included
func (d *deps) ownEvents(c *gin.Context) {
	handle, ok := d.session(c)
	if !ok {
		return
	}
	calendar := c.Param("calendar")

	if q := c.Query("date"); q != "" {
		date, err := time.Parse(time.RFC3339, q)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Could not parse date."})
			return
		}
		views, err := handle.AllEventsOnDate(calendar, date)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, views)
		return
	}

	if q := c.Query("from"); q != "" {
		from, err := time.Parse(time.RFC3339, q)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Could not parse from date."})
			return
		}
		seq, err := handle.AllEventsStarting(calendar, from)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, collect(seq))
		return
	}

	views, err := handle.AllEvents(calendar)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, views)
}

// PUT /calendars/:calendar/events?name=&start=
func (d *deps) editEvent(c *gin.Context) {
	name, start, ok := eventIdentity(c)
	if !ok {
		return
	}

	var req struct {
		Name   *string    `json:"name"`
		Start  *time.Time `json:"start"`
		End    *time.Time `json:"end"`
		Public *bool      `json:"public"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Could not parse request data."})
		return
	}

	changes := models.EventChanges{Name: req.Name, Start: req.Start, End: req.End}
	if req.Public != nil {
		visibility := models.Private
		if *req.Public {
			visibility = models.Public
		}
		changes.Visibility = &visibility
	}

	handle, ok := d.session(c)
	if !ok {
		return
	}
	if err := handle.EditEvent(c.Param("calendar"), name, start, changes); err != nil {
		fail(c, err)
		return
	}
	d.purge(c, handle.Username())
	c.JSON(http.StatusOK, gin.H{"message": "Event updated successfully!"})
}

// DELETE /calendars/:calendar/events?name=&start=
func (d *deps) deleteEvent(c *gin.Context) {
	name, start, ok := eventIdentity(c)
	if !ok {
		return
	}

	handle, ok := d.session(c)
	if !ok {
		return
	}
	if err := handle.DeleteEvent(c.Param("calendar"), name, start); err != nil {
		fail(c, err)
		return
	}
	d.purge(c, handle.Username())
	c.JSON(http.StatusOK, gin.H{"message": "Event deleted successfully!"})
}

// eventIdentity reads the (name, start) pair that identifies an event within
// its calendar from the query string.
func eventIdentity(c *gin.Context) (string, time.Time, bool) {
	name := c.Query("name")
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Query parameter name is required."})
		return "", time.Time{}, false
	}
	start, err := time.Parse(time.RFC3339, c.Query("start"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Could not parse start date."})
		return "", time.Time{}, false
	}
	return name, start, true
}

func collect(seq iter.Seq[models.EventView]) []models.EventView {
	views := slices.Collect(seq)
	if views == nil {
		views = []models.EventView{}
	}
	return views
}
