package statistics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/servoctl/servoctl/internal/controller"
)

const subsystemAxis = "axis"

type AxisCollector struct {
	controllers []controller.AxisController

	setpoint *prometheus.Desc
	errorVal *prometheus.Desc
	output   *prometheus.Desc
	onTarget *prometheus.Desc
}

func NewAxisCollector(controllers []controller.AxisController) *AxisCollector {
	return &AxisCollector{
		controllers: controllers,
		setpoint: prometheus.NewDesc(prometheus.BuildFQName(namespace, subsystemAxis, "setpoint"),
			"Current setpoint of the axis control loop",
			[]string{"id"}, nil,
		),
		errorVal: prometheus.NewDesc(prometheus.BuildFQName(namespace, subsystemAxis, "error"),
			"Most recent error of the axis control loop",
			[]string{"id"}, nil,
		),
		output: prometheus.NewDesc(prometheus.BuildFQName(namespace, subsystemAxis, "output"),
			"Most recent output of the axis control loop",
			[]string{"id"}, nil,
		),
		onTarget: prometheus.NewDesc(prometheus.BuildFQName(namespace, subsystemAxis, "on_target"),
			"Whether the axis is currently within tolerance of its setpoint",
			[]string{"id"}, nil,
		),
	}
}

func (collector *AxisCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- collector.setpoint
	ch <- collector.errorVal
	ch <- collector.output
	ch <- collector.onTarget
}

// Collect implements required collect function for all prometheus collectors
func (collector *AxisCollector) Collect(ch chan<- prometheus.Metric) {
	for _, contr := range collector.controllers {
		status := contr.Snapshot()
		onTarget := 0.0
		if status.OnTarget {
			onTarget = 1.0
		}
		ch <- prometheus.MustNewConstMetric(collector.setpoint, prometheus.GaugeValue, status.Setpoint, status.ID)
		ch <- prometheus.MustNewConstMetric(collector.errorVal, prometheus.GaugeValue, status.LastError, status.ID)
		ch <- prometheus.MustNewConstMetric(collector.output, prometheus.GaugeValue, status.LastOutput, status.ID)
		ch <- prometheus.MustNewConstMetric(collector.onTarget, prometheus.GaugeValue, onTarget, status.ID)
	}
}
