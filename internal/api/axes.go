package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/servoctl/servoctl/internal/controller"
)

type setpointRequest struct {
	Setpoint float64 `json:"setpoint"`
}

func registerAxisEndpoints(rest *echo.Echo) {
	group := rest.Group("/axis")

	group.GET("/", getAxes)
	group.GET("/:"+urlParamId+"/", getAxis)
	group.POST("/:"+urlParamId+"/setpoint/", setAxisSetpoint)
}

// returns the current status of all configured axes
func getAxes(c echo.Context) error {
	data := map[string]controller.AxisStatus{}
	for id, contr := range controller.AxisControllerMap.Items() {
		data[id] = contr.Snapshot()
	}
	return c.JSONPretty(http.StatusOK, data, indentationChar)
}

func getAxis(c echo.Context) error {
	id := c.Param(urlParamId)

	contr, exists := controller.AxisControllerMap.Get(id)
	if !exists {
		return returnNotFound(c, id)
	}
	return c.JSONPretty(http.StatusOK, contr.Snapshot(), indentationChar)
}

// updates the setpoint of an axis. The new value is clamped to the
// configured input range and persisted across restarts.
func setAxisSetpoint(c echo.Context) error {
	id := c.Param(urlParamId)

	contr, exists := controller.AxisControllerMap.Get(id)
	if !exists {
		return returnNotFound(c, id)
	}

	var request setpointRequest
	if err := c.Bind(&request); err != nil {
		return returnBadRequest(c, err.Error())
	}

	contr.SetSetpoint(request.Setpoint)
	return c.JSONPretty(http.StatusOK, contr.Snapshot(), indentationChar)
}
