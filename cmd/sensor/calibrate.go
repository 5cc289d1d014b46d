package sensor

import (
	"strconv"

	"github.com/servoctl/servoctl/internal/configuration"
	"github.com/servoctl/servoctl/internal/persistence"
	"github.com/servoctl/servoctl/internal/ui"
	"github.com/spf13/cobra"
)

var clearCalibration bool

var calibrateCmd = &cobra.Command{
	Use:   "calibrate [offset]",
	Short: "Persist a calibration offset for a sensor",
	Long:  ``,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := getSensor(sensorId)
		if err != nil {
			return err
		}

		pers := persistence.NewPersistence(configuration.CurrentConfig.DbPath)
		if err = pers.Init(); err != nil {
			return err
		}

		if clearCalibration {
			if err = pers.DeleteSensorCalibration(sensorId); err != nil {
				return err
			}
			ui.Success("Cleared calibration offset for sensor %s", sensorId)
			return nil
		}

		if len(args) < 1 {
			return cmd.Help()
		}
		offset, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return err
		}

		if err = pers.SaveSensorCalibration(sensorId, offset); err != nil {
			return err
		}
		ui.Success("Saved calibration offset %f for sensor %s", offset, sensorId)
		return nil
	},
}

func init() {
	calibrateCmd.Flags().BoolVar(
		&clearCalibration,
		"clear",
		false,
		"Remove the persisted calibration offset",
	)
	Command.AddCommand(calibrateCmd)
}
