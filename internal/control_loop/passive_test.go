package control_loop

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type manualClock struct {
	now time.Time
}

func (c *manualClock) Now() time.Time {
	return c.now
}

func (c *manualClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

// createTestLoop creates a loop whose next Compute call sees exactly one
// nominal period of elapsed time, so the time scale factor is 1.0.
func createTestLoop(p, i, d float64) (*PassiveLoop, *manualClock) {
	clock := &manualClock{now: time.Unix(1000000, 0)}
	loop := NewPassiveLoopWithClock(p, i, d, DefaultPeriod, clock)
	loop.lastTick = clock.now
	clock.Advance(DefaultPeriod)
	return loop, clock
}

func TestComputeProportional(t *testing.T) {
	// GIVEN
	loop, _ := createTestLoop(1.0, 0, 0)
	loop.SetSetpoint(10)

	// WHEN
	result := loop.Compute(0)

	// THEN
	// raw result would be 10, clamped to the default output range
	assert.Equal(t, 1.0, result)
	assert.Equal(t, 10.0, loop.LastError())
}

func TestComputeProportionalUnclamped(t *testing.T) {
	// GIVEN
	loop, _ := createTestLoop(1.0, 0, 0)
	loop.SetSetpoint(10)
	err := loop.SetOutputRange(-20, 20)
	assert.NoError(t, err)

	// WHEN
	result := loop.Compute(0)

	// THEN
	assert.Equal(t, 10.0, result)
	assert.Equal(t, 10.0, loop.LastOutput())
}

func TestComputeDerivative(t *testing.T) {
	// GIVEN
	loop, clock := createTestLoop(0, 0, 1.0)
	loop.SetSetpoint(10)
	err := loop.SetOutputRange(-100, 100)
	assert.NoError(t, err)

	// WHEN
	first := loop.Compute(0)
	clock.Advance(DefaultPeriod)
	second := loop.Compute(0)

	// THEN
	// error jumps from 0 to 10, then stays constant
	assert.Equal(t, 10.0, first)
	assert.Equal(t, 0.0, second)
}

func TestComputeTimeScaling(t *testing.T) {
	// GIVEN
	loop, clock := createTestLoop(1.0, 0, 0)
	loop.SetSetpoint(10)
	err := loop.SetOutputRange(-20, 20)
	assert.NoError(t, err)

	// WHEN
	result := loop.Compute(0)
	// the next tick arrives twice as late as the nominal period
	clock.Advance(2 * DefaultPeriod)
	lateResult := loop.Compute(0)

	// THEN
	assert.Equal(t, 10.0, result)
	assert.Equal(t, 5.0, lateResult)
}

func TestComputeZeroElapsedTime(t *testing.T) {
	// GIVEN
	loop, _ := createTestLoop(1.0, 0, 0)
	loop.SetSetpoint(10)

	// WHEN
	first := loop.Compute(0)
	// clock is not advanced before the second call
	second := loop.Compute(5)

	// THEN
	assert.Equal(t, first, second)
	assert.Equal(t, 10.0, loop.LastError())
}

func TestOutputClamping(t *testing.T) {
	// GIVEN
	loop, clock := createTestLoop(2.0, 0.5, 0.1)
	loop.SetSetpoint(50)
	err := loop.SetInputRange(0, 100)
	assert.NoError(t, err)

	for _, measured := range []float64{0, 100, 50, 25, 75, -1000, 1000} {
		// WHEN
		result := loop.Compute(measured)

		// THEN
		assert.GreaterOrEqual(t, result, -1.0)
		assert.LessOrEqual(t, result, 1.0)

		clock.Advance(DefaultPeriod)
	}
}

func TestAntiWindup(t *testing.T) {
	// GIVEN
	loop, clock := createTestLoop(0, 0.01, 0)
	loop.SetSetpoint(10)

	// WHEN
	// sustained large error, the output saturates long before the
	// integral term could catch up
	for tick := 0; tick < 20; tick++ {
		loop.Compute(0)
		clock.Advance(DefaultPeriod)
	}

	// THEN
	// accumulation freezes once kI * (totalError + error) would leave
	// the output bounds: 90 + 10 would scale to exactly 1.0
	assert.Equal(t, 90.0, loop.totalError)
	assert.InDelta(t, 0.9, loop.LastOutput(), 1e-9)
}

func TestContinuousWraparound(t *testing.T) {
	// GIVEN
	loop, _ := createTestLoop(1.0, 0, 0)
	err := loop.SetInputRange(0, 360)
	assert.NoError(t, err)
	loop.SetContinuous(true)
	loop.SetSetpoint(350)

	// WHEN
	result := loop.Compute(10)

	// THEN
	// the raw error of 340 is rewrapped to the short way around
	assert.Equal(t, -20.0, loop.LastError())
	assert.Equal(t, -1.0, result)
}

func TestContinuousDisabled(t *testing.T) {
	// GIVEN
	loop, _ := createTestLoop(1.0, 0, 0)
	err := loop.SetInputRange(0, 360)
	assert.NoError(t, err)
	loop.SetSetpoint(350)

	// WHEN
	loop.Compute(10)

	// THEN
	assert.Equal(t, 340.0, loop.LastError())
}

func TestSetOutputRangeInverted(t *testing.T) {
	// GIVEN
	loop, _ := createTestLoop(1.0, 0, 0)
	loop.SetSetpoint(10)

	// WHEN
	err := loop.SetOutputRange(1.0, -1.0)

	// THEN
	var rangeErr RangeError
	assert.Error(t, err)
	assert.True(t, errors.As(err, &rangeErr))
	assert.Equal(t, 1.0, rangeErr.Min)
	assert.Equal(t, -1.0, rangeErr.Max)

	// the previous bounds still apply
	result := loop.Compute(0)
	assert.Equal(t, 1.0, result)
}

func TestSetInputRangeInverted(t *testing.T) {
	// GIVEN
	loop, _ := createTestLoop(1.0, 0, 0)

	// WHEN
	err := loop.SetInputRange(100, 0)

	// THEN
	var rangeErr RangeError
	assert.True(t, errors.As(err, &rangeErr))

	// the setpoint is not clamped by the rejected range
	loop.SetSetpoint(150)
	assert.Equal(t, 150.0, loop.Setpoint())
}

func TestSetpointClamping(t *testing.T) {
	// GIVEN
	loop, _ := createTestLoop(1.0, 0, 0)
	err := loop.SetInputRange(0, 100)
	assert.NoError(t, err)

	// WHEN
	loop.SetSetpoint(150)

	// THEN
	assert.Equal(t, 100.0, loop.Setpoint())

	// WHEN
	loop.SetSetpoint(-10)

	// THEN
	assert.Equal(t, 0.0, loop.Setpoint())
}

func TestSetpointUnclampedWithoutInputRange(t *testing.T) {
	// GIVEN
	loop, _ := createTestLoop(1.0, 0, 0)

	// WHEN
	loop.SetSetpoint(150)

	// THEN
	assert.Equal(t, 150.0, loop.Setpoint())
}

func TestSetInputRangeReclampsSetpoint(t *testing.T) {
	// GIVEN
	loop, _ := createTestLoop(1.0, 0, 0)
	loop.SetSetpoint(150)

	// WHEN
	err := loop.SetInputRange(0, 100)

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, 100.0, loop.Setpoint())
}

func TestOnTarget(t *testing.T) {
	// GIVEN
	loop, clock := createTestLoop(1.0, 0, 0)
	err := loop.SetInputRange(0, 100)
	assert.NoError(t, err)
	loop.SetTolerance(10)
	loop.SetSetpoint(50)

	// WHEN
	loop.Compute(35)

	// THEN
	// error of 15 exceeds 10% of the input span
	assert.False(t, loop.OnTarget())

	// WHEN
	clock.Advance(DefaultPeriod)
	loop.Compute(45)

	// THEN
	assert.True(t, loop.OnTarget())
}

func TestOnTargetWithoutInputRange(t *testing.T) {
	// GIVEN
	loop, _ := createTestLoop(1.0, 0, 0)
	loop.SetTolerance(10)
	loop.SetSetpoint(10)

	// WHEN
	loop.Compute(5)

	// THEN
	// a zero input span makes any non-zero error miss the target
	assert.False(t, loop.OnTarget())
}

func TestReset(t *testing.T) {
	// GIVEN
	loop, clock := createTestLoop(1.0, 0.01, 0.1)
	err := loop.SetInputRange(0, 100)
	assert.NoError(t, err)
	loop.SetSetpoint(50)
	for tick := 0; tick < 5; tick++ {
		loop.Compute(10)
		clock.Advance(DefaultPeriod)
	}

	// WHEN
	loop.Reset()

	// THEN
	assert.Equal(t, 0.0, loop.prevError)
	assert.Equal(t, 0.0, loop.totalError)
	assert.Equal(t, 0.0, loop.LastOutput())
	assert.True(t, loop.lastTick.IsZero())

	// gains, ranges and setpoint persist
	p, i, d := loop.Gains()
	assert.Equal(t, 1.0, p)
	assert.Equal(t, 0.01, i)
	assert.Equal(t, 0.1, d)
	assert.Equal(t, 50.0, loop.Setpoint())
	assert.Equal(t, 100.0, loop.maxInput)
}

func TestSetGains(t *testing.T) {
	// GIVEN
	loop, _ := createTestLoop(1.0, 2.0, 3.0)

	// WHEN
	loop.SetGains(4.0, 5.0, 6.0)

	// THEN
	p, i, d := loop.Gains()
	assert.Equal(t, 4.0, p)
	assert.Equal(t, 5.0, i)
	assert.Equal(t, 6.0, d)
}
