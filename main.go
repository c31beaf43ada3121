package main

import "github.com/rakshanetra/rakshanetra-cli/cmd"

func main() {
	cmd.Execute()
}
