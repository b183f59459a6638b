package main

import "github.com/fasalmitra/agroadvisor/cmd"

func main() {
	cmd.Execute()
}
