package motor

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Put a motor into a neutral state",
	Long:  ``,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		pterm.DisableOutput()

		motor, err := getMotor(motorId)
		if err != nil {
			return err
		}

		return motor.Stop()
	},
}

func init() {
	Command.AddCommand(stopCmd)
}
