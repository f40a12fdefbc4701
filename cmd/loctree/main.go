package main

import "github.com/loctree/loctree/cmd"

func main() {
	cmd.Execute()
}
