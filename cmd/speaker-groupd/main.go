package main

import "github.com/oshokin/speaker-autogroup/cmd/speaker-groupd/cmd"

func main() {
	cmd.Execute()
}
