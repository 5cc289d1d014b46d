package configuration

import (
	"os"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/mitchellh/mapstructure"
	"github.com/servoctl/servoctl/internal/ui"
	"github.com/spf13/viper"
)

type Configuration struct {
	DbPath string `json:"dbPath"`

	SensorPollingRate       time.Duration `json:"sensorPollingRate"`
	SensorRollingWindowSize int           `json:"sensorRollingWindowSize"`

	Statistics StatisticsConfig `json:"statistics"`
	Api        ApiConfig        `json:"api"`

	Axes       []AxisConfig      `json:"axes"`
	Sensors    []SensorConfig    `json:"sensors"`
	Motors     []MotorConfig     `json:"motors"`
	Navigation *NavigationConfig `json:"navigation"`
}

var CurrentConfig Configuration

// InitConfig reads in config file and ENV variables if set.
func InitConfig(cfgFile string) {
	viper.SetConfigName("servoctl")

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			ui.Error("Couldn't detect home directory: %v", err)
			os.Exit(1)
		}

		viper.AddConfigPath(".")
		viper.AddConfigPath(home)
		viper.AddConfigPath("/etc/servoctl/")
	}

	viper.AutomaticEnv() // read in environment variables that match

	setDefaultValues()
}

func setDefaultValues() {
	viper.SetDefault("dbpath", "/etc/servoctl/servoctl.db")
	viper.SetDefault("SensorPollingRate", 200*time.Millisecond)
	viper.SetDefault("SensorRollingWindowSize", 50)

	viper.SetDefault("statistics.enabled", false)
	viper.SetDefault("statistics.port", 9673)
	viper.SetDefault("api.enabled", false)
	viper.SetDefault("api.host", "localhost")
	viper.SetDefault("api.port", 9674)

	viper.SetDefault("axes", []AxisConfig{})
	viper.SetDefault("sensors", []SensorConfig{})
	viper.SetDefault("motors", []MotorConfig{})
}

// DetectConfigFile returns the path of the configuration file
// that will be used for loading the configuration.
func DetectConfigFile() string {
	err := viper.ReadInConfig()
	if err != nil {
		ui.Fatal("Error reading config file, %s", err)
	}
	return GetFilePath()
}

// GetFilePath this is only populated _after_ viper.ReadInConfig()
func GetFilePath() string {
	return viper.ConfigFileUsed()
}

// LoadConfig parses the already read configuration file into the
// Configuration struct.
func LoadConfig() {
	err := viper.Unmarshal(
		&CurrentConfig,
		viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
			gainScheduleHookFunc(),
		)),
	)
	if err != nil {
		ui.Fatal("unable to decode into struct, %v", err)
	}
}
