package main

import "github.com/AxelMcKenna/Liquorfy-sub000/commands"

func main() {
	commands.Execute()
}
