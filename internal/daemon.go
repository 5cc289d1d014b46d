package internal

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/oklog/run"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/servoctl/servoctl/internal/api"
	"github.com/servoctl/servoctl/internal/configuration"
	"github.com/servoctl/servoctl/internal/controller"
	"github.com/servoctl/servoctl/internal/motors"
	"github.com/servoctl/servoctl/internal/navigation"
	"github.com/servoctl/servoctl/internal/persistence"
	"github.com/servoctl/servoctl/internal/sensors"
	"github.com/servoctl/servoctl/internal/statistics"
	"github.com/servoctl/servoctl/internal/ui"
)

func RunDaemon() {
	pers := persistence.NewPersistence(configuration.CurrentConfig.DbPath)
	if err := pers.Init(); err != nil {
		ui.Fatal("Unable to initialize persistence: %v", err)
	}

	InitializeObjects(pers)

	ctx, cancel := context.WithCancel(context.Background())

	var g run.Group
	{
		enabled := configuration.CurrentConfig.Statistics.Enabled
		if enabled {
			// === Prometheus Exporter
			g.Add(func() error {
				port := configuration.CurrentConfig.Statistics.Port
				if port <= 0 || port >= 65535 {
					port = 9000
				}
				endpoint := "/metrics"
				addr := fmt.Sprintf(":%d", port)
				handler := promhttp.Handler()
				http.Handle(endpoint, handler)
				server := &http.Server{Addr: addr, Handler: handler}
				if err := server.ListenAndServe(); err != nil {
					ui.Error("Cannot start prometheus metrics endpoint (%s)", err.Error())
				}

				<-ctx.Done()
				ui.Info("Stopping statistics server...")
				timeoutCtx, timeoutCancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer timeoutCancel()
				return server.Shutdown(timeoutCtx)
			}, func(err error) {
				if err != nil {
					ui.Warning("Error stopping statistics server: " + err.Error())
				} else {
					ui.Info("Statistics server stopped.")
				}
			})
		}
	}
	{
		enabled := configuration.CurrentConfig.Api.Enabled
		if enabled {
			// === REST api
			restService := api.CreateRestService()
			g.Add(func() error {
				apiConfig := configuration.CurrentConfig.Api
				addr := fmt.Sprintf("%s:%d", apiConfig.Host, apiConfig.Port)
				if err := restService.Start(addr); err != nil && err != http.ErrServerClosed {
					ui.Error("Cannot start REST api endpoint (%s)", err.Error())
				}

				<-ctx.Done()
				ui.Info("Stopping REST api server...")
				timeoutCtx, timeoutCancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer timeoutCancel()
				return restService.Shutdown(timeoutCtx)
			}, func(err error) {
				if err != nil {
					ui.Warning("Error stopping REST api server: " + err.Error())
				} else {
					ui.Info("REST api server stopped.")
				}
			})
		}
	}
	{
		// === sensor monitoring
		pollingRate := configuration.CurrentConfig.SensorPollingRate
		for _, sensor := range sensors.SensorMap.Items() {
			s := sensor
			mon := NewSensorMonitor(s, pollingRate)

			g.Add(func() error {
				err := mon.Run(ctx)
				ui.Info("Sensor monitor for sensor %s stopped.", s.GetId())
				return err
			}, func(err error) {
				if err != nil {
					ui.Warning("Error monitoring sensor: %v", err)
				}
			})
		}
	}
	{
		// === axis controllers
		for _, contr := range controller.AxisControllerMap.Items() {
			c := contr
			g.Add(func() error {
				err := c.Run(ctx)
				ui.Info("Axis controller for axis %s stopped.", c.GetConfig().ID)
				return err
			}, func(err error) {
				if err != nil {
					ui.Warning("Something went wrong: %v", err)
				}
			})
		}

		if controller.AxisControllerMap.Count() == 0 && configuration.CurrentConfig.Navigation == nil {
			ui.Fatal("No valid axis configurations, exiting.")
		}
	}
	{
		// === navigation
		navConfig := configuration.CurrentConfig.Navigation
		if navConfig != nil {
			tracker := createTracker(*navConfig)
			navigation.Current = tracker
			g.Add(func() error {
				err := tracker.Run(ctx)
				ui.Info("Navigation tracker stopped.")
				return err
			}, func(err error) {
				if err != nil {
					ui.Warning("Error running navigation tracker: %v", err)
				}
			})
		}
	}
	{
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

		g.Add(func() error {
			<-sig
			ui.Info("Received SIGTERM signal, exiting...")
			return nil
		}, func(err error) {
			defer close(sig)
			cancel()
		})
	}

	if err := g.Run(); err != nil {
		stopAllMotors()
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	} else {
		stopAllMotors()
		ui.Info("Done.")
		os.Exit(0)
	}
}

// InitializeObjects builds the sensor, motor and axis registries from the
// current configuration and registers the prometheus collectors.
func InitializeObjects(pers persistence.Persistence) {
	var sensorList []sensors.Sensor
	for _, config := range configuration.CurrentConfig.Sensors {
		config = restoreSensorCalibration(pers, config)
		sensor, err := sensors.NewSensor(config)
		if err != nil {
			ui.Fatal("Unable to process sensor configuration: %s", config.ID)
		}
		sensorList = append(sensorList, sensor)

		currentValue, err := sensor.GetValue()
		if err != nil {
			ui.Warning("Error reading sensor %s: %v", config.ID, err)
		}
		sensor.SetMovingAvg(currentValue)

		sensors.SensorMap.Set(config.ID, sensor)
	}

	sensorCollector := statistics.NewSensorCollector(sensorList)
	statistics.Register(sensorCollector)

	var motorList []motors.Motor
	for _, config := range configuration.CurrentConfig.Motors {
		motor, err := motors.NewMotor(config)
		if err != nil {
			ui.Fatal("Unable to process motor configuration: %s", config.ID)
		}
		motorList = append(motorList, motor)
		motors.MotorMap.Set(config.ID, motor)
	}

	motorCollector := statistics.NewMotorCollector(motorList)
	statistics.Register(motorCollector)

	var controllerList []controller.AxisController
	for _, config := range configuration.CurrentConfig.Axes {
		sensor, exists := sensors.SensorMap.Get(config.Sensor)
		if !exists {
			ui.Fatal("Axis %s references unknown sensor %s", config.ID, config.Sensor)
		}
		motor, exists := motors.MotorMap.Get(config.Motor)
		if !exists {
			ui.Fatal("Axis %s references unknown motor %s", config.ID, config.Motor)
		}

		contr, err := controller.NewAxisController(config, sensor, motor, pers)
		if err != nil {
			ui.Fatal("Unable to process axis configuration %s: %v", config.ID, err)
		}
		controllerList = append(controllerList, contr)
		controller.AxisControllerMap.Set(config.ID, contr)
	}

	axisCollector := statistics.NewAxisCollector(controllerList)
	statistics.Register(axisCollector)
}

// restoreSensorCalibration overrides the configured calibration offset
// of a sensor with a persisted one, if any exists.
func restoreSensorCalibration(pers persistence.Persistence, config configuration.SensorConfig) configuration.SensorConfig {
	offset, err := pers.LoadSensorCalibration(config.ID)
	if err == nil {
		ui.Info("Restoring calibration offset %f for sensor %s", offset, config.ID)
		config.Offset = offset
	}
	return config
}

func createTracker(config configuration.NavigationConfig) *navigation.Tracker {
	encoder, exists := sensors.SensorMap.Get(config.Encoder)
	if !exists {
		ui.Fatal("Navigation references unknown encoder sensor %s", config.Encoder)
	}
	gyro, exists := sensors.SensorMap.Get(config.Gyro)
	if !exists {
		ui.Fatal("Navigation references unknown gyro sensor %s", config.Gyro)
	}
	left, exists := motors.MotorMap.Get(config.LeftMotor)
	if !exists {
		ui.Fatal("Navigation references unknown left motor %s", config.LeftMotor)
	}
	right, exists := motors.MotorMap.Get(config.RightMotor)
	if !exists {
		ui.Fatal("Navigation references unknown right motor %s", config.RightMotor)
	}

	tracker, err := navigation.NewTracker(config, encoder, gyro, motors.NewDrive(left, right))
	if err != nil {
		ui.Fatal("Unable to process navigation configuration: %v", err)
	}
	return tracker
}

// stopAllMotors puts every configured motor into a neutral state.
func stopAllMotors() {
	for _, motor := range motors.MotorMap.Items() {
		if err := motor.Stop(); err != nil {
			ui.Warning("Unable to stop motor %s, make sure it is in a safe state!", motor.GetId())
		}
	}
}
