package motors

import (
	"fmt"

	cmap "github.com/orcaman/concurrent-map/v2"
	"github.com/servoctl/servoctl/internal/configuration"
)

var (
	MotorMap = cmap.New[Motor]()
)

// Motor is the output capability of an axis: it accepts the computed
// correction signal and applies it to the physical hardware. The
// correction is expected in the output range of the control loop that
// produced it; scaling to hardware units is up to the implementation.
type Motor interface {
	GetId() string

	GetConfig() configuration.MotorConfig

	// SetOutput applies the given correction signal to the motor
	SetOutput(value float64) (err error)

	// GetOutput returns the most recently applied correction signal
	GetOutput() (float64, error)

	// Stop sets the motor output to neutral
	Stop() (err error)
}

// GetMotor returns the motor with the given id from the registry.
func GetMotor(id string) (Motor, bool) {
	return MotorMap.Get(id)
}

func NewMotor(config configuration.MotorConfig) (Motor, error) {
	if config.File != nil {
		return &FileMotor{
			Config: config,
		}, nil
	}

	if config.Cmd != nil {
		return &CmdMotor{
			Config: config,
		}, nil
	}

	return nil, fmt.Errorf("no matching motor type for motor: %s", config.ID)
}
