package configuration

type NavigationConfig struct {
	// Encoder is the id of the sensor measuring the travelled distance
	Encoder string `json:"encoder"`
	// Gyro is the id of the sensor measuring the heading in [0, 360)
	Gyro string `json:"gyro"`

	// LeftMotor and RightMotor make up the differential drive
	LeftMotor  string `json:"leftMotor"`
	RightMotor string `json:"rightMotor"`

	// Distance configures the loop driving the travelled distance
	Distance PidConfig `json:"distance"`
	// Heading configures the loop driving the robot heading
	Heading PidConfig `json:"heading"`
}
