package main

import "github.com/kozaktomas/face-stream/cmd"

func main() {
	cmd.Execute()
}
