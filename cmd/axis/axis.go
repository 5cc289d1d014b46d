package axis

import (
	"fmt"

	"github.com/servoctl/servoctl/internal/configuration"
	"github.com/servoctl/servoctl/internal/ui"
	"github.com/spf13/cobra"
)

var Command = &cobra.Command{
	Use:              "axis",
	Short:            "Axis related commands",
	Long:             ``,
	TraverseChildren: true,
}

func getAxisConfig(id string) (configuration.AxisConfig, error) {
	configPath := configuration.DetectConfigFile()
	ui.Info("Using configuration file at: %s", configPath)
	configuration.LoadConfig()
	err := configuration.Validate(configPath)
	if err != nil {
		ui.Fatal("%v", err)
	}

	availableAxisIds := []string{}
	for _, config := range configuration.CurrentConfig.Axes {
		availableAxisIds = append(availableAxisIds, config.ID)
		if config.ID == id {
			return config, nil
		}
	}

	return configuration.AxisConfig{}, fmt.Errorf("no axis with id found: %s, options: %s", id, availableAxisIds)
}
