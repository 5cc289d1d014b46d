package configuration

type MotorConfig struct {
	// ID is the unique identifier of this motor
	ID string `json:"id"`

	File *FileMotorConfig `json:"file,omitempty"`
	Cmd  *CmdMotorConfig  `json:"cmd,omitempty"`

	// Inverted flips the sign of every output written to this motor
	Inverted bool `json:"inverted"`
}

type FileMotorConfig struct {
	// Path of a file to write the correction signal to
	Path string `json:"path"`
}

type CmdMotorConfig struct {
	// Exec is the path of an executable that applies the correction
	// signal, which is appended as the last argument
	Exec string `json:"exec"`
	// Args to pass to the executable before the correction value
	Args []string `json:"args"`
}
