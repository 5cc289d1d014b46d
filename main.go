package main

import (
	"github.com/servoctl/servoctl/cmd"
)

func main() {
	cmd.Execute()
}
