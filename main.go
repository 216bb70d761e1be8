package main

import "github.com/brickchat/brickchat/cmd"

func main() {
	cmd.Execute()
}
