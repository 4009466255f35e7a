package main

import "github.com/Bitlatte/docnav/cmd"

func main() {
	cmd.Execute()
}
