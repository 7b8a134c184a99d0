package main

import "github.com/LavenderBridge/knowpoint/cmd"

func main() {
	cmd.Execute()
}
