package main

import "showcase/cmd/server/commands"

func main() {
	commands.Execute()
}
