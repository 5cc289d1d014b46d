package sensors

import (
	"fmt"

	cmap "github.com/orcaman/concurrent-map/v2"
	"github.com/servoctl/servoctl/internal/configuration"
)

var (
	SensorMap = cmap.New[Sensor]()
)

// Sensor is the measurement capability of an axis: it produces the
// current process value on demand.
type Sensor interface {
	GetId() string

	GetConfig() configuration.SensorConfig

	// GetValue returns the current value of this sensor
	GetValue() (float64, error)

	// GetMovingAvg returns the moving average of this sensor's value
	GetMovingAvg() float64
	SetMovingAvg(avg float64)
}

// GetSensor returns the sensor with the given id from the registry.
func GetSensor(id string) (Sensor, bool) {
	return SensorMap.Get(id)
}

func NewSensor(config configuration.SensorConfig) (Sensor, error) {
	if config.File != nil {
		return &FileSensor{
			Config: config,
		}, nil
	}

	if config.Cmd != nil {
		return &CmdSensor{
			Config: config,
		}, nil
	}

	if config.Fused != nil {
		return &FusedSensor{
			Config: config,
		}, nil
	}

	return nil, fmt.Errorf("no matching sensor type for sensor: %s", config.ID)
}
