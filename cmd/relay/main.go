// Package main provides the entry point for the relay demo command.
//
// relay exercises the coordination core from the terminal: a
// producer-consumer pipeline, a shared counter round and a parallel
// for-each.
//
// Usage:
//
//	relay [options] [messages|counter|foreach]
//
// For detailed usage information, run: relay -h
package main

import (
	"fmt"
	"os"

	"github.com/ib-77/relay/internal/cli"
)

func main() {
	if err := cli.Run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
