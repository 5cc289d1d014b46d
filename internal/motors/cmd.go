package motors

import (
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/servoctl/servoctl/internal/configuration"
	"github.com/servoctl/servoctl/internal/util"
)

type CmdMotor struct {
	Config configuration.MotorConfig `json:"configuration"`

	mu         sync.Mutex
	lastOutput float64
}

func (motor *CmdMotor) GetId() string {
	return motor.Config.ID
}

func (motor *CmdMotor) GetConfig() configuration.MotorConfig {
	return motor.Config
}

func (motor *CmdMotor) SetOutput(value float64) (err error) {
	applied := value
	if motor.Config.Inverted {
		applied = -applied
	}

	timeout := 2 * time.Second
	exec := motor.Config.Cmd.Exec
	_, err = util.SafeCmdExecution(exec, motor.commandArgs(applied), timeout)
	if err != nil {
		return fmt.Errorf("motor %s: %s", motor.GetId(), err.Error())
	}

	motor.mu.Lock()
	motor.lastOutput = value
	motor.mu.Unlock()
	return nil
}

// commandArgs copies the configured args so concurrent callers
// never share the config slice's backing array.
func (motor *CmdMotor) commandArgs(value float64) []string {
	args := append([]string{}, motor.Config.Cmd.Args...)
	return append(args, strconv.FormatFloat(value, 'f', -1, 64))
}

func (motor *CmdMotor) GetOutput() (float64, error) {
	motor.mu.Lock()
	defer motor.mu.Unlock()
	return motor.lastOutput, nil
}

func (motor *CmdMotor) Stop() (err error) {
	return motor.SetOutput(0)
}
