package main

import "github.com/tristendillon/ruml/cmd"

func main() {
	cmd.Execute()
}
