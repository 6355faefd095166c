// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-03-09
// Last Modified: 2026-03-09

// Package main is the entry point for the simili-triage CLI.
package main

import (
	"os"

	"github.com/similigh/simili-triage/cmd/triage/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
