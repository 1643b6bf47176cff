// Package main is the single-binary entrypoint for kudos.
// kudos decides when to compliment a learner and when to nudge them about a buddy.
package main

import "github.com/tutu-network/kudos/internal/cli"

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	cli.Execute(version)
}
