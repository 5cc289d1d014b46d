package controller

import (
	"context"
	"time"

	"github.com/oklog/run"
	cmap "github.com/orcaman/concurrent-map/v2"
	"github.com/servoctl/servoctl/internal/configuration"
	"github.com/servoctl/servoctl/internal/control_loop"
	"github.com/servoctl/servoctl/internal/motors"
	"github.com/servoctl/servoctl/internal/persistence"
	"github.com/servoctl/servoctl/internal/sensors"
	"github.com/servoctl/servoctl/internal/ui"
)

var (
	AxisControllerMap = cmap.New[AxisController]()
)

// how often the current tuning of an axis is snapshotted to persistence
const tuningSnapshotRate = 1 * time.Minute

type AxisController interface {
	// Run starts the control loop of this axis and blocks until
	// the given context is cancelled
	Run(ctx context.Context) error

	// UpdateCorrection advances the control loop with the current
	// sensor value and applies the result to the motor
	UpdateCorrection() error

	GetConfig() configuration.AxisConfig

	// SetSetpoint changes the target value of this axis and persists it
	SetSetpoint(value float64)

	// Snapshot returns a consistent view of the current loop state
	Snapshot() AxisStatus
}

// AxisStatus is a point-in-time view of an axis control loop.
type AxisStatus struct {
	ID         string  `json:"id"`
	Setpoint   float64 `json:"setpoint"`
	LastError  float64 `json:"lastError"`
	LastOutput float64 `json:"lastOutput"`
	OnTarget   bool    `json:"onTarget"`
}

type axisController struct {
	config      configuration.AxisConfig
	sensor      sensors.Sensor
	motor       motors.Motor
	loop        *control_loop.PassiveLoop
	persistence persistence.Persistence
	tickRate    time.Duration
}

func NewAxisController(
	config configuration.AxisConfig,
	sensor sensors.Sensor,
	motor motors.Motor,
	pers persistence.Persistence,
) (AxisController, error) {
	loop, err := NewLoopFromConfig(config.PID, control_loop.SystemClock())
	if err != nil {
		return nil, err
	}

	tickRate := config.PID.Period
	if tickRate <= 0 {
		tickRate = control_loop.DefaultPeriod
	}

	return &axisController{
		config:      config,
		sensor:      sensor,
		motor:       motor,
		loop:        loop,
		persistence: pers,
		tickRate:    tickRate,
	}, nil
}

// NewLoopFromConfig builds a control loop from an axis pid configuration.
// Inverted ranges surface as a control_loop.RangeError.
func NewLoopFromConfig(config configuration.PidConfig, clock control_loop.Clock) (*control_loop.PassiveLoop, error) {
	period := config.Period
	if period <= 0 {
		period = control_loop.DefaultPeriod
	}

	loop := control_loop.NewPassiveLoopWithClock(config.P, config.I, config.D, period, clock)

	if config.OutputMin != 0 || config.OutputMax != 0 {
		if err := loop.SetOutputRange(config.OutputMin, config.OutputMax); err != nil {
			return nil, err
		}
	}
	if config.InputMin != 0 || config.InputMax != 0 {
		if err := loop.SetInputRange(config.InputMin, config.InputMax); err != nil {
			return nil, err
		}
	}
	loop.SetContinuous(config.Continuous)
	if config.Tolerance > 0 {
		loop.SetTolerance(config.Tolerance)
	}
	loop.SetSetpoint(config.Setpoint)

	return loop, nil
}

func (a *axisController) Run(ctx context.Context) error {
	axisId := a.config.ID

	// restore tuning from a previous run, if there is any
	tuning, err := a.persistence.LoadAxisTuning(axisId)
	if err == nil {
		ui.Info("Restoring persisted tuning for axis '%s'", axisId)
		a.loop.SetGains(tuning.P, tuning.I, tuning.D)
		a.loop.SetSetpoint(tuning.Setpoint)
	}

	a.loop.Reset()

	ui.Info("Starting controller loop for axis '%s'", axisId)

	var g run.Group
	{
		// === control loop tick
		g.Add(func() error {
			// let the sensor monitors gather some data first
			time.Sleep(1 * time.Second)
			tick := time.Tick(a.tickRate)
			for {
				select {
				case <-ctx.Done():
					return nil
				case <-tick:
					err := a.UpdateCorrection()
					if err != nil {
						ui.Error("Error in AxisController for axis %s: %v", axisId, err)
						ui.Info("Trying to stop motor of axis %s...", axisId)
						if err1 := a.motor.Stop(); err1 != nil {
							ui.Warning("Unable to stop motor of axis %s, make sure it is in a safe state!", axisId)
						}
						return nil
					}
				}
			}
		}, func(err error) {
			if err != nil {
				ui.Warning("Error updating axis correction: %v", err)
			}
		})
	}
	{
		// === tuning snapshots
		g.Add(func() error {
			tick := time.Tick(tuningSnapshotRate)
			for {
				select {
				case <-ctx.Done():
					return nil
				case <-tick:
					a.saveTuning()
				}
			}
		}, func(err error) {
			if err != nil {
				ui.Warning("Error persisting axis tuning: %v", err)
			}
		})
	}

	return g.Run()
}

func (a *axisController) UpdateCorrection() error {
	measured := a.sensor.GetMovingAvg()
	correction := a.loop.Compute(measured)
	ui.Debug("Axis %s: measured: %.4f, correction: %.4f", a.config.ID, measured, correction)
	return a.motor.SetOutput(correction)
}

func (a *axisController) GetConfig() configuration.AxisConfig {
	return a.config
}

func (a *axisController) SetSetpoint(value float64) {
	a.loop.SetSetpoint(value)
	a.saveTuning()
}

func (a *axisController) saveTuning() {
	p, i, d := a.loop.Gains()
	err := a.persistence.SaveAxisTuning(a.config.ID, persistence.AxisTuning{
		P:        p,
		I:        i,
		D:        d,
		Setpoint: a.loop.Setpoint(),
	})
	if err != nil {
		ui.Warning("Failed to save tuning for axis %s: %v", a.config.ID, err)
	}
}

func (a *axisController) Snapshot() AxisStatus {
	return AxisStatus{
		ID:         a.config.ID,
		Setpoint:   a.loop.Setpoint(),
		LastError:  a.loop.LastError(),
		LastOutput: a.loop.LastOutput(),
		OnTarget:   a.loop.OnTarget(),
	}
}
