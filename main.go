package main

import "github.com/gaurav-prasanna/fetchpipe/cmd"

func main() {
	cmd.Execute()
}
