/*
	Copyright 2026 Gridfantasy

	Fantasy motorsport league manager.
*/

package main

import "github.com/gridfantasy/fantasy-league-manager-go/cmd"

func main() {
	cmd.Execute()
}
