package sensors

import (
	"fmt"

	"github.com/servoctl/servoctl/internal/configuration"
	"github.com/servoctl/servoctl/internal/util"
)

// FusedSensor combines the values of multiple other sensors into one,
// e.g. averaging two redundant encoders on the same axis.
type FusedSensor struct {
	Config    configuration.SensorConfig `json:"configuration"`
	MovingAvg float64                    `json:"movingAvg"`
}

func (sensor FusedSensor) GetId() string {
	return sensor.Config.ID
}

func (sensor FusedSensor) GetConfig() configuration.SensorConfig {
	return sensor.Config
}

func (sensor FusedSensor) GetValue() (float64, error) {
	var values []float64
	for _, id := range sensor.Config.Fused.Sensors {
		referenced, exists := GetSensor(id)
		if !exists {
			return 0, fmt.Errorf("sensor %s: references unknown sensor '%s'", sensor.GetId(), id)
		}
		value, err := referenced.GetValue()
		if err != nil {
			return 0, err
		}
		values = append(values, value)
	}

	var result float64
	switch sensor.Config.Fused.Function {
	case configuration.FusedFunctionMinimum:
		result = util.Min(values)
	case configuration.FusedFunctionMaximum:
		result = util.Max(values)
	case configuration.FusedFunctionAverage:
		result = util.Avg(values)
	default:
		return 0, fmt.Errorf("sensor %s: unsupported fusion function '%s'", sensor.GetId(), sensor.Config.Fused.Function)
	}

	return result + sensor.Config.Offset, nil
}

func (sensor FusedSensor) GetMovingAvg() (avg float64) {
	return sensor.MovingAvg
}

func (sensor *FusedSensor) SetMovingAvg(avg float64) {
	sensor.MovingAvg = avg
}
