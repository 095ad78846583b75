package main

import "github.com/1broseidon/x11stage/cmd/x11stage/commands"

func main() {
	commands.Execute()
}
