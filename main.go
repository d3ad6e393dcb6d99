package main

import "github.com/pders01/capsule/cmd"

func main() {
	cmd.Execute()
}
