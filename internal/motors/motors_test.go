package motors

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/servoctl/servoctl/internal/configuration"
	"github.com/stretchr/testify/assert"
)

func TestNewMotorFile(t *testing.T) {
	// GIVEN
	config := configuration.MotorConfig{
		ID:   "lift",
		File: &configuration.FileMotorConfig{Path: "/tmp/lift"},
	}

	// WHEN
	motor, err := NewMotor(config)

	// THEN
	assert.NoError(t, err)
	assert.IsType(t, &FileMotor{}, motor)
	assert.Equal(t, "lift", motor.GetId())
}

func TestNewMotorWithoutBackend(t *testing.T) {
	// GIVEN
	config := configuration.MotorConfig{
		ID: "lift",
	}

	// WHEN
	_, err := NewMotor(config)

	// THEN
	assert.Error(t, err)
}

func TestFileMotorSetOutput(t *testing.T) {
	// GIVEN
	path := filepath.Join(t.TempDir(), "motor")
	err := os.WriteFile(path, []byte("0"), 0644)
	assert.NoError(t, err)

	motor := FileMotor{
		Config: configuration.MotorConfig{
			ID:   "lift",
			File: &configuration.FileMotorConfig{Path: path},
		},
	}

	// WHEN
	err = motor.SetOutput(0.5)

	// THEN
	assert.NoError(t, err)
	value, err := motor.GetOutput()
	assert.NoError(t, err)
	assert.Equal(t, 0.5, value)
}

func TestFileMotorInverted(t *testing.T) {
	// GIVEN
	path := filepath.Join(t.TempDir(), "motor")
	err := os.WriteFile(path, []byte("0"), 0644)
	assert.NoError(t, err)

	motor := FileMotor{
		Config: configuration.MotorConfig{
			ID:       "left",
			File:     &configuration.FileMotorConfig{Path: path},
			Inverted: true,
		},
	}

	// WHEN
	err = motor.SetOutput(0.5)

	// THEN
	assert.NoError(t, err)
	raw, err := readRawOutput(path)
	assert.NoError(t, err)
	assert.Equal(t, -0.5, raw)

	// the logical output reported by the motor is not inverted
	value, err := motor.GetOutput()
	assert.NoError(t, err)
	assert.Equal(t, 0.5, value)
}

func readRawOutput(path string) (float64, error) {
	motor := FileMotor{
		Config: configuration.MotorConfig{
			File: &configuration.FileMotorConfig{Path: path},
		},
	}
	return motor.GetOutput()
}

func TestFileMotorStop(t *testing.T) {
	// GIVEN
	path := filepath.Join(t.TempDir(), "motor")
	err := os.WriteFile(path, []byte("1"), 0644)
	assert.NoError(t, err)

	motor := FileMotor{
		Config: configuration.MotorConfig{
			ID:   "lift",
			File: &configuration.FileMotorConfig{Path: path},
		},
	}

	// WHEN
	err = motor.Stop()

	// THEN
	assert.NoError(t, err)
	value, err := motor.GetOutput()
	assert.NoError(t, err)
	assert.Equal(t, 0.0, value)
}

func TestCmdMotorArgsDoNotAliasConfig(t *testing.T) {
	// GIVEN
	configArgs := make([]string, 1, 4)
	configArgs[0] = "--set"
	motor := CmdMotor{
		Config: configuration.MotorConfig{
			ID: "lift",
			Cmd: &configuration.CmdMotorConfig{
				Exec: "/usr/bin/lift-motor",
				Args: configArgs,
			},
		},
	}

	// WHEN
	first := motor.commandArgs(0.5)
	second := motor.commandArgs(-0.5)

	// THEN
	assert.Equal(t, []string{"--set", "0.5"}, first)
	assert.Equal(t, []string{"--set", "-0.5"}, second)
	assert.Equal(t, []string{"--set"}, motor.Config.Cmd.Args)
}

func TestDriveApplyCorrection(t *testing.T) {
	// GIVEN
	left := &VirtualMotor{Name: "left"}
	right := &VirtualMotor{Name: "right"}
	drive := NewDrive(left, right)

	// WHEN
	err := drive.ApplyCorrection(0.5)

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, -0.5, left.Output)
	assert.Equal(t, 0.5, right.Output)
}

func TestDriveApplyMixesAndClamps(t *testing.T) {
	// GIVEN
	left := &VirtualMotor{Name: "left"}
	right := &VirtualMotor{Name: "right"}
	drive := NewDrive(left, right)

	// WHEN
	err := drive.Apply(0.8, 0.5)

	// THEN
	assert.NoError(t, err)
	assert.InDelta(t, 0.3, left.Output, 1e-9)
	assert.Equal(t, 1.0, right.Output)
}

func TestDriveStop(t *testing.T) {
	// GIVEN
	left := &VirtualMotor{Name: "left", Output: 0.5}
	right := &VirtualMotor{Name: "right", Output: -0.5}
	drive := NewDrive(left, right)

	// WHEN
	err := drive.Stop()

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, 0.0, left.Output)
	assert.Equal(t, 0.0, right.Output)
}
