package main

import "capstack/cmd"

func main() {
	cmd.Execute()
}
