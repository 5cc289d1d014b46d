package navigation

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/asecurityteam/rolling"
	"github.com/servoctl/servoctl/internal/configuration"
	"github.com/servoctl/servoctl/internal/control_loop"
	"github.com/servoctl/servoctl/internal/controller"
	"github.com/servoctl/servoctl/internal/motors"
	"github.com/servoctl/servoctl/internal/sensors"
	"github.com/servoctl/servoctl/internal/ui"
	"github.com/servoctl/servoctl/internal/util"
)

// number of consecutive on-target steps before the target counts as reached
const settleWindowSize = 10

// Current is the tracker built from the navigation configuration,
// set by the daemon on startup. Nil when navigation is not configured.
var Current *Tracker

// Tracker drives a differential drive robot toward a target point by
// composing two control loops: a continuous heading loop on the gyro
// and a distance loop on the drive encoder. It is thin sequencing glue,
// all control logic lives in the loops themselves.
type Tracker struct {
	encoder sensors.Sensor
	gyro    sensors.Sensor
	drive   *motors.Drive

	distanceLoop *control_loop.PassiveLoop
	headingLoop  *control_loop.PassiveLoop

	tickRate time.Duration

	mu           sync.Mutex
	active       bool
	settleWindow *rolling.PointPolicy
}

// TrackerStatus is a point-in-time view of the tracker state.
type TrackerStatus struct {
	Active           bool    `json:"active"`
	HeadingSetpoint  float64 `json:"headingSetpoint"`
	HeadingError     float64 `json:"headingError"`
	DistanceSetpoint float64 `json:"distanceSetpoint"`
	DistanceError    float64 `json:"distanceError"`
	OnTarget         bool    `json:"onTarget"`
}

func NewTracker(
	config configuration.NavigationConfig,
	encoder sensors.Sensor,
	gyro sensors.Sensor,
	drive *motors.Drive,
) (*Tracker, error) {
	return NewTrackerWithClock(config, encoder, gyro, drive, control_loop.SystemClock())
}

func NewTrackerWithClock(
	config configuration.NavigationConfig,
	encoder sensors.Sensor,
	gyro sensors.Sensor,
	drive *motors.Drive,
	clock control_loop.Clock,
) (*Tracker, error) {
	distanceLoop, err := controller.NewLoopFromConfig(config.Distance, clock)
	if err != nil {
		return nil, err
	}
	headingLoop, err := controller.NewLoopFromConfig(config.Heading, clock)
	if err != nil {
		return nil, err
	}

	tickRate := config.Heading.Period
	if tickRate <= 0 {
		tickRate = control_loop.DefaultPeriod
	}

	settleWindow := util.CreateRollingWindow(settleWindowSize)
	util.FillWindow(settleWindow, settleWindowSize, 0)

	return &Tracker{
		encoder:      encoder,
		gyro:         gyro,
		drive:        drive,
		distanceLoop: distanceLoop,
		headingLoop:  headingLoop,
		tickRate:     tickRate,
		settleWindow: settleWindow,
	}, nil
}

// GoTo sets a new target point relative to the current position,
// resets the accumulated loop state and activates the tracker.
func (t *Tracker) GoTo(x float64, y float64) {
	heading := math.Mod(math.Atan2(y, x)*180/math.Pi+360, 360)
	distance := math.Hypot(x, y)

	ui.Debug("Tracker: new target (%.2f, %.2f): heading %.2f°, distance %.2f", x, y, heading, distance)

	t.headingLoop.Reset()
	t.distanceLoop.Reset()
	t.headingLoop.SetSetpoint(heading)
	t.distanceLoop.SetSetpoint(distance)

	t.mu.Lock()
	t.active = true
	util.FillWindow(t.settleWindow, settleWindowSize, 0)
	t.mu.Unlock()
}

// Halt deactivates the tracker and puts the drive into a neutral state.
func (t *Tracker) Halt() error {
	t.mu.Lock()
	t.active = false
	t.mu.Unlock()
	return t.drive.Stop()
}

func (t *Tracker) isActive() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active
}

// Step advances both loops with fresh sensor values and applies the
// mixed correction to the drive. The robot first rotates toward the
// target heading, the distance loop only engages once the heading is
// within tolerance. Once the target is reached the loops keep holding
// the position until a new target is set.
func (t *Tracker) Step() error {
	if !t.isActive() {
		return nil
	}

	heading, err := t.gyro.GetValue()
	if err != nil {
		return err
	}
	distance, err := t.encoder.GetValue()
	if err != nil {
		return err
	}

	turn := t.headingLoop.Compute(heading)

	var forward float64
	if t.headingLoop.OnTarget() {
		forward = t.distanceLoop.Compute(distance)
	}

	onTarget := 0.0
	if t.headingLoop.OnTarget() && t.distanceLoop.OnTarget() {
		onTarget = 1.0
	}
	t.mu.Lock()
	t.settleWindow.Append(onTarget)
	t.mu.Unlock()

	return t.drive.Apply(forward, turn)
}

// OnTarget indicates whether both loops have been within tolerance of
// the target point for a full settle window of steps.
func (t *Tracker) OnTarget() bool {
	if !t.headingLoop.OnTarget() || !t.distanceLoop.OnTarget() {
		return false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return util.GetWindowAvg(t.settleWindow) >= 1.0
}

func (t *Tracker) Snapshot() TrackerStatus {
	return TrackerStatus{
		Active:           t.isActive(),
		HeadingSetpoint:  t.headingLoop.Setpoint(),
		HeadingError:     t.headingLoop.LastError(),
		DistanceSetpoint: t.distanceLoop.Setpoint(),
		DistanceError:    t.distanceLoop.LastError(),
		OnTarget:         t.OnTarget(),
	}
}

// Run steps the tracker on its control cadence until the context is
// cancelled, then stops the drive.
func (t *Tracker) Run(ctx context.Context) error {
	tick := time.Tick(t.tickRate)
	for {
		select {
		case <-ctx.Done():
			return t.drive.Stop()
		case <-tick:
			err := t.Step()
			if err != nil {
				_ = t.drive.Stop()
				return err
			}
		}
	}
}
