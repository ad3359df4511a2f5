package main

import "github.com/alexrudd2/midas/cmd"

func main() {
	cmd.Execute()
}
