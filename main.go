// Package main is the entry point for ythdp.
package main

import (
	"github.com/samber/lo"
	"github.com/ythdp/ythdp/cmd"
	"github.com/ythdp/ythdp/config"
	"github.com/ythdp/ythdp/log"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	cmd.Execute()
}
