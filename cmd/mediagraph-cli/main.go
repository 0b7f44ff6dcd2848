package main

import "mediagraph/cmd/mediagraph-cli/cmd"

func main() {
	cmd.Execute()
}
