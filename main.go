package main

import (
	"synthcheck/cmd"
)

func main() {
	cmd.Execute()
}
