package main

import "github.com/upwell-app/upwell/cmd"

func main() {
	cmd.Execute()
}
