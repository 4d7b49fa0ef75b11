// Command crx2rnx converts Compact RINEX files back to RINEX observation files.
//
// Usage:
//
//	crx2rnx [-o dir] [-d] [-f] [-s] [-e order] [-j jobs] [-z framing] [-c config.yaml] [-verify] [-metrics file.prom] [file ...]
//
// With no file arguments it filters stdin to stdout.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/arloliu/crinex/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cli.Run(ctx, cli.ToRinex, os.Args[1:], cli.Env{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr})
	stop()

	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		log.Fatalln("[fatal]", err)
	}
}
