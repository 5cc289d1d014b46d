package axis

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/mgutz/ansi"
	"github.com/servoctl/servoctl/cmd/global"
	"github.com/servoctl/servoctl/internal/configuration"
	"github.com/servoctl/servoctl/internal/ui"
	"github.com/spf13/cobra"
	"github.com/tomlazar/table"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the configured axes to console",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		configPath := configuration.DetectConfigFile()
		ui.Info("Using configuration file at: %s", configPath)
		configuration.LoadConfig()

		err = configuration.Validate(configPath)
		if err != nil {
			ui.Fatal(err.Error())
		}

		var rows [][]string
		for _, config := range configuration.CurrentConfig.Axes {
			rows = append(rows, []string{
				config.ID,
				config.Sensor,
				config.Motor,
				fmt.Sprintf("%.4f", config.PID.P),
				fmt.Sprintf("%.4f", config.PID.I),
				fmt.Sprintf("%.4f", config.PID.D),
				fmt.Sprintf("%.2f", config.PID.Setpoint),
				strconv.FormatBool(config.PID.Continuous),
			})
		}

		tab := table.Table{
			Headers: []string{"ID", "Sensor", "Motor", "P", "I", "D", "Setpoint", "Continuous"},
			Rows:    rows,
		}
		var buf bytes.Buffer
		tableErr := tab.WriteTable(&buf, &table.Config{
			ShowIndex:       false,
			Color:           !global.NoColor,
			AlternateColors: true,
			TitleColorCode:  ansi.ColorCode("white+buf"),
			AltColorCodes: []string{
				ansi.ColorCode("white"),
				ansi.ColorCode("white:236"),
			},
		})
		if tableErr != nil {
			panic(tableErr)
		}
		ui.Printfln(buf.String())

		return nil
	},
}

func init() {
	Command.AddCommand(listCmd)
}
