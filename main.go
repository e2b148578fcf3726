/*
	Copyright 2023 Markus Papenbrock
*/

package main

import "github.com/mpapenbr/iracelog-trackreplay/cmd"

func main() {
	cmd.Execute()
}
