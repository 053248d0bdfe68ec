package main

import "github.com/climagraph/climagraph/cmd"

func main() {
	cmd.Execute()
}
