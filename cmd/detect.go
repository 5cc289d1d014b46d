package cmd

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/md14454/gosensors"
	"github.com/mgutz/ansi"
	"github.com/servoctl/servoctl/cmd/global"
	"github.com/servoctl/servoctl/internal/ui"
	"github.com/spf13/cobra"
	"github.com/tomlazar/table"
)

var detectCmd = &cobra.Command{
	Use:   "detect",
	Short: "Detect devices",
	Long:  `Detects sensor chips usable as position feedback and prints their input files as a list`,
	Run: func(cmd *cobra.Command, args []string) {
		gosensors.Init()
		defer gosensors.Cleanup()
		chips := gosensors.GetDetectedChips()

		// === Print detected devices ===
		tableConfig := &table.Config{
			ShowIndex:       false,
			Color:           !global.NoColor,
			AlternateColors: true,
			TitleColorCode:  ansi.ColorCode("white+buf"),
			AltColorCodes: []string{
				ansi.ColorCode("white"),
				ansi.ColorCode("white:236"),
			},
		}

		for i := 0; i < len(chips); i++ {
			chip := chips[i]

			features := chip.GetFeatures()
			if len(features) <= 0 {
				continue
			}

			ui.Printfln("> %s (%s)", chip.Prefix, chip.Path)

			var rows [][]string
			for j := 0; j < len(features); j++ {
				feature := features[j]

				subfeatures := feature.GetSubFeatures()
				for _, subfeature := range subfeatures {
					valueText := strconv.FormatFloat(subfeature.GetValue(), 'f', 2, 64)

					inputPath := fmt.Sprintf("%s/%s", chip.Path, subfeature.Name)
					rows = append(rows, []string{
						"", feature.GetLabel(), inputPath, valueText,
					})
				}
			}

			sensorTable := table.Table{
				Headers: []string{"Inputs ", "Label", "File", "Value"},
				Rows:    rows,
			}

			if sensorTable.Rows == nil {
				continue
			}
			var buf bytes.Buffer
			tableErr := sensorTable.WriteTable(&buf, tableConfig)
			if tableErr != nil {
				ui.Fatal("Error printing table: %v", tableErr)
			}
			ui.Printfln(buf.String())
		}
	},
}

func init() {
	rootCmd.AddCommand(detectCmd)
}
