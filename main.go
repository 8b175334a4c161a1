/*
Copyright © 2025 reyyanxjanbaz
*/
package main

import "github.com/reyyanxjanbaz/tody/cmd"

func main() {
	cmd.Execute()
}
