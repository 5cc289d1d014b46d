package statistics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/servoctl/servoctl/internal/sensors"
)

const subsystemSensor = "sensor"

type SensorCollector struct {
	sensors []sensors.Sensor
	value   *prometheus.Desc
	avg     *prometheus.Desc
}

func NewSensorCollector(sensors []sensors.Sensor) *SensorCollector {
	return &SensorCollector{
		sensors: sensors,
		value: prometheus.NewDesc(prometheus.BuildFQName(namespace, subsystemSensor, "value"),
			"Current value of the sensor",
			[]string{"id"}, nil,
		),
		avg: prometheus.NewDesc(prometheus.BuildFQName(namespace, subsystemSensor, "moving_avg"),
			"Current moving average over the sensor values",
			[]string{"id"}, nil,
		),
	}
}

func (collector *SensorCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- collector.value
	ch <- collector.avg
}

// Collect implements required collect function for all prometheus collectors
func (collector *SensorCollector) Collect(ch chan<- prometheus.Metric) {
	for _, sensor := range collector.sensors {
		sensorId := sensor.GetId()
		value, _ := sensor.GetValue()
		ch <- prometheus.MustNewConstMetric(collector.value, prometheus.GaugeValue, value, sensorId)
		ch <- prometheus.MustNewConstMetric(collector.avg, prometheus.GaugeValue, sensor.GetMovingAvg(), sensorId)
	}
}
