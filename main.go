// Package main is the entry point for the wolfstats CLI tool, which
// syncs social-deduction match logs and computes per-player statistics,
// percentile rankings and titles.
package main

import "github.com/lupercal/wolfstats/cmd"

func main() {
	cmd.Execute()
}
