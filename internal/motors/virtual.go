package motors

import (
	"github.com/servoctl/servoctl/internal/configuration"
)

// VirtualMotor holds its output in memory, mainly useful for testing
// and for simulated axes.
type VirtualMotor struct {
	Name   string  `json:"name"`
	Output float64 `json:"output"`
}

func (motor *VirtualMotor) GetId() string {
	return motor.Name
}

func (motor *VirtualMotor) GetConfig() configuration.MotorConfig {
	return configuration.MotorConfig{}
}

func (motor *VirtualMotor) SetOutput(value float64) (err error) {
	motor.Output = value
	return nil
}

func (motor *VirtualMotor) GetOutput() (float64, error) {
	return motor.Output, nil
}

func (motor *VirtualMotor) Stop() (err error) {
	motor.Output = 0
	return nil
}
