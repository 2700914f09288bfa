package main

import "github.com/oshokin/speaker-autogroup/cmd/speaker-bridge-sim/cmd"

func main() {
	cmd.Execute()
}
