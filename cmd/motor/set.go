package motor

import (
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var setCmd = &cobra.Command{
	Use:   "set",
	Short: "Set the output of a motor to the given value ([-1..1])",
	Long:  ``,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pterm.DisableOutput()

		value, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return err
		}

		motor, err := getMotor(motorId)
		if err != nil {
			return err
		}

		return motor.SetOutput(value)
	},
}

func init() {
	Command.AddCommand(setCmd)
}
