package main

import (
	"flag"
	"log"
	"os"

	"github.com/fumin/arith"
)

func main() {
	flag.Parse()
	log.SetFlags(log.LstdFlags | log.Lmicroseconds | log.Lshortfile)
	if err := arith.Decompress(os.Stdout, os.Stdin); err != nil {
		log.Fatalf("%+v", err)
	}
}
