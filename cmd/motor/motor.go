package motor

import (
	"fmt"

	"github.com/servoctl/servoctl/internal/configuration"
	"github.com/servoctl/servoctl/internal/motors"
	"github.com/servoctl/servoctl/internal/ui"
	"github.com/spf13/cobra"
)

var motorId string

var Command = &cobra.Command{
	Use:              "motor",
	Short:            "Motor related commands",
	Long:             ``,
	TraverseChildren: true,
}

func init() {
	Command.PersistentFlags().StringVarP(
		&motorId,
		"id", "i",
		"",
		"Motor ID as specified in the config",
	)
	_ = Command.MarkPersistentFlagRequired("id")
}

func getMotor(id string) (motors.Motor, error) {
	configPath := configuration.DetectConfigFile()
	ui.Info("Using configuration file at: %s", configPath)
	configuration.LoadConfig()
	err := configuration.Validate(configPath)
	if err != nil {
		ui.Fatal("%v", err)
	}

	availableMotorIds := []string{}
	for _, config := range configuration.CurrentConfig.Motors {
		availableMotorIds = append(availableMotorIds, config.ID)
		if config.ID == id {
			return motors.NewMotor(config)
		}
	}

	return nil, fmt.Errorf("no motor with id found: %s, options: %s", id, availableMotorIds)
}
