// Package main is the entry point for the playerreport CLI, which loads
// per-match player statistics from CSV files and reports season metrics.
package main

import "github.com/pable/go-player-report/cmd"

func main() {
	cmd.Execute()
}
