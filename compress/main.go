package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/fumin/arith"
	"github.com/pkg/errors"
)

var uniform = flag.Bool("uniform", false, "code with the uniform table instead of counting byte frequencies")
var verbose = flag.Bool("verbose", false, "verbosity")

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] filename\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	name := flag.Arg(0)
	if name == "" {
		flag.Usage()
		os.Exit(1)
	}
	log.SetFlags(log.LstdFlags | log.Lmicroseconds | log.Lshortfile)

	if err := run(name); err != nil {
		log.Fatalf("%+v", err)
	}
}

func run(name string) error {
	f, err := os.Open(name)
	if err != nil {
		return errors.Wrap(err, "")
	}
	defer f.Close()

	stats, err := arith.CompressStats(os.Stdout, f, *uniform)
	if err != nil {
		return errors.Wrap(err, "")
	}
	if *verbose {
		ratio := 0.0
		if stats.Original > 0 {
			ratio = float64(stats.Compressed) / float64(stats.Original)
		}
		log.Printf("original: %d bytes, compressed: %d bytes (table %d bytes), ratio: %.4f", stats.Original, stats.Compressed, stats.Header, ratio)
	}
	return nil
}
