package route

import (
	"time"

	"github.com/bassista/paddock/internal/api/controller"
	"github.com/bassista/paddock/internal/api/middleware"
	"github.com/gin-gonic/gin"
)

// NewWidgetRouter sets up the widget view routes.
func NewWidgetRouter(timeout time.Duration, group *gin.RouterGroup, svc controller.WidgetService) {
	wc := controller.NewWidgetController(svc)
	timeoutMiddleware := middleware.RequestTimeout(timeout)

	group.GET("schedule/next", timeoutMiddleware, wc.NextRace)
	group.GET("standings/drivers", timeoutMiddleware, wc.DriverStandings)
	group.GET("standings/constructors", timeoutMiddleware, wc.ConstructorStandings)
	group.GET("dashboard", timeoutMiddleware, wc.Dashboard)
}
