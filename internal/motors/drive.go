package motors

import (
	"github.com/servoctl/servoctl/internal/util"
)

// Drive is a differential drive with two motors driven in tank
// configuration. A pure heading correction rotates the robot in place,
// a forward component is mixed on top of it.
type Drive struct {
	Left  Motor
	Right Motor
}

func NewDrive(left Motor, right Motor) *Drive {
	return &Drive{
		Left:  left,
		Right: right,
	}
}

// ApplyCorrection rotates the robot in place with the given correction
// signal: positive values turn toward positive headings.
func (d *Drive) ApplyCorrection(correction float64) error {
	return d.Apply(0, correction)
}

// Apply mixes a forward speed and a turn correction into the two motor
// outputs, each coerced to [-1, 1].
func (d *Drive) Apply(forward float64, turn float64) error {
	left := util.Coerce(forward-turn, -1, 1)
	right := util.Coerce(forward+turn, -1, 1)

	if err := d.Left.SetOutput(left); err != nil {
		return err
	}
	return d.Right.SetOutput(right)
}

// Stop sets both motors to neutral.
func (d *Drive) Stop() error {
	if err := d.Left.Stop(); err != nil {
		return err
	}
	return d.Right.Stop()
}
