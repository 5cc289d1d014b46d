package axis

import (
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/servoctl/servoctl/internal/control_loop"
	"github.com/servoctl/servoctl/internal/controller"
	"github.com/servoctl/servoctl/internal/ui"
	"github.com/spf13/cobra"
)

const responseSteps = 150

var axisId string

// simClock is advanced manually by the simulation so the loop sees
// exactly one nominal period per step
type simClock struct {
	now time.Time
}

func (c *simClock) Now() time.Time {
	return c.now
}

var responseCmd = &cobra.Command{
	Use:   "response",
	Short: "Plot the simulated step response of an axis control loop",
	Long: `Simulates the configured control loop of an axis against an idealized
plant and prints the resulting position trajectory to console.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := getAxisConfig(axisId)
		if err != nil {
			return err
		}

		period := config.PID.Period
		if period <= 0 {
			period = control_loop.DefaultPeriod
		}

		clock := &simClock{now: time.Now()}
		loop, err := controller.NewLoopFromConfig(config.PID, clock)
		if err != nil {
			return err
		}

		span := config.PID.InputMax - config.PID.InputMin
		if span <= 0 {
			span = 100
		}

		// idealized plant: full output moves the axis across the whole
		// input span in 100 loop periods
		measured := config.PID.InputMin
		loop.Compute(measured)

		values := make([]float64, 0, responseSteps)
		for i := 0; i < responseSteps; i++ {
			clock.now = clock.now.Add(period)
			correction := loop.Compute(measured)
			measured += correction * span / 100
			values = append(values, measured)
		}

		caption := "position / loop period"
		graph := asciigraph.Plot(values, asciigraph.Height(15), asciigraph.Width(100), asciigraph.Caption(caption))
		ui.Printfln(graph)

		return nil
	},
}

func init() {
	responseCmd.Flags().StringVarP(
		&axisId,
		"id", "i",
		"",
		"Axis ID as specified in the config",
	)
	_ = responseCmd.MarkFlagRequired("id")

	Command.AddCommand(responseCmd)
}
