package main

import "print-exporter/cmd"

func main() {
	cmd.Execute()
}
