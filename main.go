package main

import "github.com/phamducminh/relay-cli/cmd"

func main() {
	cmd.Execute()
}
