package internal

import (
	"context"
	"time"

	"github.com/servoctl/servoctl/internal/configuration"
	"github.com/servoctl/servoctl/internal/sensors"
	"github.com/servoctl/servoctl/internal/util"
)

type SensorMonitor interface {
	Run(ctx context.Context) error
}

type sensorMonitor struct {
	sensor      sensors.Sensor
	pollingRate time.Duration
}

func NewSensorMonitor(sensor sensors.Sensor, pollingRate time.Duration) SensorMonitor {
	return sensorMonitor{
		sensor:      sensor,
		pollingRate: pollingRate,
	}
}

func (s sensorMonitor) Run(ctx context.Context) error {
	tick := time.Tick(s.pollingRate)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-tick:
			err := updateSensor(s.sensor)
			if err != nil {
				return err
			}
		}
	}
}

// read the current value of a sensor and fold it into the moving average
func updateSensor(s sensors.Sensor) (err error) {
	value, err := s.GetValue()
	if err != nil {
		return err
	}

	var n = configuration.CurrentConfig.SensorRollingWindowSize
	lastAvg := s.GetMovingAvg()
	newAvg := util.UpdateSimpleMovingAvg(lastAvg, n, value)
	s.SetMovingAvg(newAvg)

	return nil
}
