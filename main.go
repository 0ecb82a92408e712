package main

import "github.com/chriserin/ftgrammar/cmd"

func main() {
	cmd.Execute()
}
