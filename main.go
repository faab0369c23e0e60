package main

import "github.com/qrave1/MemStudy/cmd"

func main() {
	cmd.Execute()
}
