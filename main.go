package main

import "github.com/loomchat/loom/cmd"

func main() {
	cmd.Execute()
}
