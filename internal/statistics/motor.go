package statistics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/servoctl/servoctl/internal/motors"
)

const subsystemMotor = "motor"

type MotorCollector struct {
	motors []motors.Motor
	output *prometheus.Desc
}

func NewMotorCollector(motors []motors.Motor) *MotorCollector {
	return &MotorCollector{
		motors: motors,
		output: prometheus.NewDesc(prometheus.BuildFQName(namespace, subsystemMotor, "output"),
			"Current output value of the motor",
			[]string{"id"}, nil,
		),
	}
}

func (collector *MotorCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- collector.output
}

// Collect implements required collect function for all prometheus collectors
func (collector *MotorCollector) Collect(ch chan<- prometheus.Metric) {
	for _, motor := range collector.motors {
		motorId := motor.GetId()
		output, _ := motor.GetOutput()
		ch <- prometheus.MustNewConstMetric(collector.output, prometheus.GaugeValue, output, motorId)
	}
}
