package motors

import (
	"os/user"
	"path/filepath"
	"strings"

	"github.com/servoctl/servoctl/internal/configuration"
	"github.com/servoctl/servoctl/internal/util"
)

type FileMotor struct {
	Config configuration.MotorConfig `json:"configuration"`
}

func (motor FileMotor) GetId() string {
	return motor.Config.ID
}

func (motor FileMotor) GetConfig() configuration.MotorConfig {
	return motor.Config
}

func (motor *FileMotor) SetOutput(value float64) (err error) {
	if motor.Config.Inverted {
		value = -value
	}
	return util.WriteFloatToFileAtomic(value, motor.filePath())
}

func (motor FileMotor) GetOutput() (float64, error) {
	value, err := util.ReadFloatFromFile(motor.filePath())
	if err != nil {
		return 0, err
	}
	if motor.Config.Inverted {
		value = -value
	}
	return value, nil
}

func (motor *FileMotor) Stop() (err error) {
	return util.WriteFloatToFileAtomic(0, motor.filePath())
}

func (motor FileMotor) filePath() string {
	filePath := motor.Config.File.Path
	// resolve home dir path
	if strings.HasPrefix(filePath, "~") {
		currentUser, err := user.Current()
		if err != nil {
			return filePath
		}

		filePath = filepath.Join(currentUser.HomeDir, filePath[1:])
	}
	return filePath
}
