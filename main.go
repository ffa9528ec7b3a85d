package main

import "github.com/rnwolfe/prio/cmd"

func main() {
	cmd.Execute()
}
