package main

import "github.com/doronpers/sonotheia-enhanced/cmd"

func main() {
	cmd.Execute()
}
