package configuration

type SensorConfig struct {
	// ID is the unique identifier of this sensor
	ID string `json:"id"`

	File  *FileSensorConfig  `json:"file,omitempty"`
	Cmd   *CmdSensorConfig   `json:"cmd,omitempty"`
	Fused *FusedSensorConfig `json:"fused,omitempty"`

	// Offset is a calibration offset added to every raw reading
	Offset float64 `json:"offset"`
}

type FileSensorConfig struct {
	// Path of a file to read the current value from
	Path string `json:"path"`
}

type CmdSensorConfig struct {
	// Exec is the path of an executable that prints the current value
	Exec string `json:"exec"`
	// Args to pass to the executable
	Args []string `json:"args"`
}

const (
	FusedFunctionAverage = "average"
	FusedFunctionMinimum = "minimum"
	FusedFunctionMaximum = "maximum"
)

type FusedSensorConfig struct {
	// Function used to combine the referenced sensor values,
	// one of: average | minimum | maximum
	Function string `json:"function"`
	// Sensors referenced by this fused sensor
	Sensors []string `json:"sensors"`
}
