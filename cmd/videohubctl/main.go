package main

import "videohub/cmd/videohubctl/command"

func main() {
	command.Execute()
}
