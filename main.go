package main

import "devdiag/cmd"

func main() {
	cmd.Execute()
}
