package main

import "github.com/itemo/cmd"

func main() {
	cmd.Execute()
}
