package controller

import (
	"context"
	"errors"
	"net/http"

	"github.com/bassista/paddock/internal/api/middleware"
	"github.com/bassista/paddock/internal/fetch"
	"github.com/bassista/paddock/internal/logger"
	"github.com/bassista/paddock/internal/schedule"
	"github.com/bassista/paddock/internal/widget"
	"github.com/gin-gonic/gin"
)

// WidgetService builds the widget views. *widget.Service implements it.
type WidgetService interface {
	NextRace(ctx context.Context, family widget.Family) (*widget.ScheduleView, error)
	DriverStandings(ctx context.Context, family widget.Family) (*widget.StandingsView, error)
	ConstructorStandings(ctx context.Context, family widget.Family) (*widget.StandingsView, error)
	Dashboard(ctx context.Context, family widget.Family) (*widget.DashboardView, error)
}

type WidgetController struct {
	service WidgetService
}

func NewWidgetController(svc WidgetService) *WidgetController {
	return &WidgetController{service: svc}
}

// NextRace handles GET /api/schedule/next.
func (wc *WidgetController) NextRace(c *gin.Context) {
	family, ok := familyParam(c)
	if !ok {
		return
	}
	view, err := wc.service.NextRace(c.Request.Context(), family)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// DriverStandings handles GET /api/standings/drivers.
func (wc *WidgetController) DriverStandings(c *gin.Context) {
	family, ok := familyParam(c)
	if !ok {
		return
	}
	view, err := wc.service.DriverStandings(c.Request.Context(), family)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// ConstructorStandings handles GET /api/standings/constructors.
func (wc *WidgetController) ConstructorStandings(c *gin.Context) {
	family, ok := familyParam(c)
	if !ok {
		return
	}
	view, err := wc.service.ConstructorStandings(c.Request.Context(), family)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// Dashboard handles GET /api/dashboard. Failed parts are reported inside the body.
func (wc *WidgetController) Dashboard(c *gin.Context) {
	family, ok := familyParam(c)
	if !ok {
		return
	}
	view, err := wc.service.Dashboard(c.Request.Context(), family)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func familyParam(c *gin.Context) (widget.Family, bool) {
	family, err := widget.ParseFamily(c.Query("family"))
	if err != nil {
		c.JSON(http.StatusBadRequest, middleware.NewErrorResponse(widget.ErrorViewFor(err)))
		return "", false
	}
	return family, true
}

// respondError logs err in full and sends only its error view. Past the request
// deadline the response is left to RequestTimeout.
func respondError(c *gin.Context, err error) {
	log := logger.WithComponent("api").WithField("request_id", middleware.GetRequestID(c))
	if middleware.DeadlineExceeded(c) {
		log.Warnf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		_ = c.Error(err)
		return
	}

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, fetch.ErrNoDataAvailable):
		status = http.StatusServiceUnavailable
	case errors.Is(err, schedule.ErrNoUpcomingEvent):
		status = http.StatusNotFound
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		status = http.StatusGatewayTimeout
	}
	if status >= http.StatusInternalServerError {
		log.Errorf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	} else {
		log.Debugf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.JSON(status, middleware.NewErrorResponse(widget.ErrorViewFor(err)))
}
