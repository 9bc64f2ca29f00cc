package main

import "github.com/ringkeep/chordnode/cmd/chordnode/command"

func main() {
	command.Execute()
}
