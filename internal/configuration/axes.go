package configuration

import "time"

type AxisConfig struct {
	// ID is the unique identifier of this axis
	ID string `json:"id"`
	// Sensor is the id of the sensor providing the measured process value
	Sensor string `json:"sensor"`
	// Motor is the id of the motor the correction signal is written to
	Motor string `json:"motor"`
	// PID configures the control loop of this axis
	PID PidConfig `json:"pid"`
}

type PidConfig struct {
	P float64 `json:"p"`
	I float64 `json:"i"`
	D float64 `json:"d"`

	// Setpoint is the initial target value of the loop
	Setpoint float64 `json:"setpoint"`

	// InputMin and InputMax describe the range of values expected
	// from the sensor
	InputMin float64 `json:"inputMin"`
	InputMax float64 `json:"inputMax"`

	// OutputMin and OutputMax bound the correction signal.
	// When both are zero the loop defaults to [-1, 1].
	OutputMin float64 `json:"outputMin"`
	OutputMax float64 `json:"outputMax"`

	// Continuous treats the input range as circular, e.g. for a
	// compass heading in [0, 360)
	Continuous bool `json:"continuous"`

	// Tolerance is the percentage of the input span that is
	// considered "on target"
	Tolerance float64 `json:"tolerance"`

	// Period is the nominal control period the gains are tuned for
	Period time.Duration `json:"period"`
}
