// Package main is the entry point of the chartscope CLI.
package main

import (
	"github.com/huangsam/chartscope/cmd"
	"github.com/huangsam/chartscope/internal/contract"
)

func main() {
	if err := cmd.Execute(); err != nil {
		contract.LogFatal("Command failed", err)
	}
}
