package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/servoctl/servoctl/internal/navigation"
)

type gotoRequest struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func registerNavigationEndpoints(rest *echo.Echo) {
	group := rest.Group("/navigation")

	group.GET("/", getNavigation)
	group.POST("/goto/", gotoTarget)
	group.POST("/halt/", haltNavigation)
}

func getNavigation(c echo.Context) error {
	tracker := navigation.Current
	if tracker == nil {
		return returnNotFound(c, "navigation")
	}
	return c.JSONPretty(http.StatusOK, tracker.Snapshot(), indentationChar)
}

// sets a new navigation target relative to the current position
func gotoTarget(c echo.Context) error {
	tracker := navigation.Current
	if tracker == nil {
		return returnNotFound(c, "navigation")
	}

	var request gotoRequest
	if err := c.Bind(&request); err != nil {
		return returnBadRequest(c, err.Error())
	}

	tracker.GoTo(request.X, request.Y)
	return c.JSONPretty(http.StatusOK, tracker.Snapshot(), indentationChar)
}

func haltNavigation(c echo.Context) error {
	tracker := navigation.Current
	if tracker == nil {
		return returnNotFound(c, "navigation")
	}

	if err := tracker.Halt(); err != nil {
		return returnError(c, err)
	}
	return c.JSONPretty(http.StatusOK, tracker.Snapshot(), indentationChar)
}
