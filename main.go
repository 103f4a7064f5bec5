package main

import "github.com/bradford-hamilton/chip8term/cmd"

func main() {
	cmd.Execute()
}
