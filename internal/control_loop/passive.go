package control_loop

import (
	"fmt"
	"math"
	"sync"
	"time"
)

const (
	// DefaultPeriod is the nominal control period the loop is tuned for.
	DefaultPeriod = 50 * time.Millisecond

	// DefaultTolerance is the percentage of the input span that is
	// considered "on target" unless configured otherwise.
	DefaultTolerance = 5.0
)

// RangeError is returned when a range is configured with its
// lower bound above its upper bound.
type RangeError struct {
	Min float64
	Max float64
}

func (e RangeError) Error() string {
	return fmt.Sprintf("lower bound %v is greater than upper bound %v", e.Min, e.Max)
}

// PassiveLoop is a PID control loop that is advanced externally:
// each Compute call takes a fresh measurement and returns a correction
// clamped to the configured output range. The error is scaled by the ratio
// of the nominal period to the wall time elapsed since the previous call,
// compensating for jitter in the caller's cadence.
//
// All methods are safe for concurrent use; configuration may be changed
// from a different goroutine than the one driving Compute. NaN or Inf
// measurements are not validated and poison the accumulated state until
// Reset is called.
type PassiveLoop struct {
	mu sync.Mutex

	p float64
	i float64
	d float64

	minOutput float64
	maxOutput float64
	minInput  float64
	maxInput  float64

	// treat the input domain as circular, wrapping at minInput/maxInput
	continuous bool

	setpoint float64

	// percent of the input span considered "on target", 15.0 means 15%
	tolerance float64

	// nominal control period the gains are tuned for
	period time.Duration
	clock  Clock

	prevError  float64
	totalError float64
	lastError  float64
	lastResult float64
	lastTick   time.Time
}

// NewPassiveLoop creates a PassiveLoop with the given gains, the default
// nominal period and an output range of [-1, 1].
func NewPassiveLoop(p, i, d float64) *PassiveLoop {
	return NewPassiveLoopWithClock(p, i, d, DefaultPeriod, SystemClock())
}

// NewPassiveLoopWithClock creates a PassiveLoop with an explicit nominal
// period and clock.
func NewPassiveLoopWithClock(p, i, d float64, period time.Duration, clock Clock) *PassiveLoop {
	return &PassiveLoop{
		p:         p,
		i:         i,
		d:         d,
		minOutput: -1.0,
		maxOutput: 1.0,
		tolerance: DefaultTolerance,
		period:    period,
		clock:     clock,
	}
}

// Compute advances the loop with a fresh measurement and returns the
// clamped correction. The first call after creation or Reset produces a
// near-zero output, since the error is scaled down by the large elapsed
// time against the zero tick timestamp.
func (l *PassiveLoop) Compute(measured float64) float64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock.Now()
	elapsed := now.Sub(l.lastTick)
	if elapsed <= 0 {
		// no time passed since the previous tick, keep the last
		// output instead of dividing by zero
		return l.lastResult
	}
	timeScale := l.period.Seconds() / elapsed.Seconds()

	err := l.setpoint - measured
	if l.continuous {
		span := l.maxInput - l.minInput
		if math.Abs(err) > span/2 {
			// take the short way around the circular domain
			if err > 0 {
				err -= span
			} else {
				err += span
			}
		}
	}

	err *= timeScale

	// only accumulate the integral while it still fits within the
	// output bounds, otherwise the clamp would discard the growth and
	// cause overshoot once the error reverses
	if next := (l.totalError + err) * l.i; next < l.maxOutput && next > l.minOutput {
		l.totalError += err
	}

	result := l.p*err + l.i*l.totalError + l.d*(err-l.prevError)
	l.prevError = err

	if result > l.maxOutput {
		result = l.maxOutput
	} else if result < l.minOutput {
		result = l.minOutput
	}

	l.lastError = err
	l.lastResult = result
	l.lastTick = now

	return result
}

// SetGains replaces the proportional, integral and derivative gains.
func (l *PassiveLoop) SetGains(p, i, d float64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.p = p
	l.i = i
	l.d = d
}

// Gains returns the current proportional, integral and derivative gains.
func (l *PassiveLoop) Gains() (p, i, d float64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.p, l.i, l.d
}

// SetOutputRange sets the minimum and maximum values written to the output.
// Previously accumulated state is not re-clamped.
func (l *PassiveLoop) SetOutputRange(min, max float64) error {
	if min > max {
		return RangeError{Min: min, Max: max}
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.minOutput = min
	l.maxOutput = max
	return nil
}

// SetInputRange sets the range of values expected from the measurement
// source and re-clamps the setpoint into the new range.
func (l *PassiveLoop) SetInputRange(min, max float64) error {
	if min > max {
		return RangeError{Min: min, Max: max}
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.minInput = min
	l.maxInput = max
	l.setSetpoint(l.setpoint)
	return nil
}

// SetSetpoint sets the target value the loop drives the measurement
// toward, clamped into the input range when one has been configured.
func (l *PassiveLoop) SetSetpoint(setpoint float64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.setSetpoint(setpoint)
}

// caller must hold l.mu
func (l *PassiveLoop) setSetpoint(setpoint float64) {
	if l.maxInput > l.minInput {
		if setpoint > l.maxInput {
			setpoint = l.maxInput
		} else if setpoint < l.minInput {
			setpoint = l.minInput
		}
	}
	l.setpoint = setpoint
}

// Setpoint returns the current target value.
func (l *PassiveLoop) Setpoint() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.setpoint
}

// SetContinuous configures whether the input domain wraps around at its
// bounds, e.g. for an absolute encoder or a compass heading. With
// wraparound enabled the loop always takes the shortest route to the
// setpoint.
func (l *PassiveLoop) SetContinuous(continuous bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.continuous = continuous
}

// SetTolerance sets the percentage of the input span that is considered
// on target. An input of 15.0 means 15 percent.
func (l *PassiveLoop) SetTolerance(percent float64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.tolerance = percent
}

// OnTarget indicates whether the most recent error is smaller than the
// tolerance percentage of the input span. This assumes the input range
// has been configured; with a zero span it only holds for a zero error.
func (l *PassiveLoop) OnTarget() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return math.Abs(l.lastError) < l.tolerance/100*(l.maxInput-l.minInput)
}

// LastOutput returns the most recent clamped correction.
func (l *PassiveLoop) LastOutput() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lastResult
}

// LastError returns the most recent (possibly wrapped and time-scaled) error.
func (l *PassiveLoop) LastError() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lastError
}

// Reset clears the tick timestamp, the previous error, the integral
// accumulator and the last output. Gains, ranges and the setpoint persist.
func (l *PassiveLoop) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lastTick = time.Time{}
	l.prevError = 0
	l.totalError = 0
	l.lastResult = 0
}
