package main

import "github.com/skypie-oracle/precomputer/cmd/skypie-oracle/commands"

func main() {
	commands.Execute()
}
