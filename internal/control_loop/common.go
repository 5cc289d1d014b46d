package control_loop

// ControlLoop converts a measured process value into a bounded correction signal.
type ControlLoop interface {
	// Compute advances the control loop with a fresh measurement and
	// returns the correction, clamped to the configured output range.
	Compute(measured float64) float64

	// OnTarget indicates whether the most recent error is within the
	// configured tolerance of the input span.
	OnTarget() bool

	// Reset clears the accumulated loop state, keeping gains,
	// ranges and the setpoint.
	Reset()
}
