package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/qdm12/reprint"
	"github.com/servoctl/servoctl/internal/motors"
)

func registerMotorEndpoints(rest *echo.Echo) {
	group := rest.Group("/motor")

	group.GET("/", getMotors)
	group.GET("/:"+urlParamId+"/", getMotor)
}

func getMotors(c echo.Context) error {
	data := reprint.This(motors.MotorMap.Items())
	return c.JSONPretty(http.StatusOK, data, indentationChar)
}

func getMotor(c echo.Context) error {
	id := c.Param(urlParamId)

	data, exists := motors.MotorMap.Get(id)
	if !exists {
		return returnNotFound(c, id)
	}
	return c.JSONPretty(http.StatusOK, data, indentationChar)
}
