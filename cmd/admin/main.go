package main

import "yatube/cmd/admin/commands"

func main() {
	commands.Execute()
}
