// Command mpsc runs three producers and one consumer over an mpsc channel
// and prints how many messages the consumer counted per producer.
//
// Usage:
//
//	mpsc <num>
//
// Each producer sends its tag num times. Diagnostics go to stderr.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"

	"github.com/abbycin/mpsc/tally"
)

func main() {
	os.Exit(run(os.Args, os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) < 2 {
		name := "mpsc"
		if len(args) > 0 {
			name = args[0]
		}
		fmt.Fprintf(stdout, "%s num\n", name)
		return 1
	}

	n, err := strconv.ParseUint(args[1], 10, 64)
	if err != nil {
		panic(err)
	}

	logger := log.New(stderr, "mpsc: ", log.LstdFlags|log.Lmicroseconds)
	_, err = tally.Run(context.Background(), n,
		tally.WithOutput(stdout),
		tally.WithLogger(logger),
	)
	if err != nil {
		panic(err)
	}
	return 0
}
