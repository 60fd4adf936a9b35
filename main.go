package main

import (
	"github.com/lomloe-tools/curfill/cmd"
)

func main() {
	cmd.Execute()
}
