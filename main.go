package main

import "github.com/dzjyyds666/cascade/cmd"

func main() {
	cmd.Execute()
}
