// nafinfo prints the header and column manifest of a NAF archive.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"

	"github.com/nafio/naf/naf"
)

var (
	codecFlag = flag.String("codec", "zstd", "Block codec the archive was written with; 'zstd' or 'snappy'")
)

func nafinfoUsage() {
	fmt.Printf("Usage: %s [OPTIONS] path.naf\n", os.Args[0])
	flag.PrintDefaults()
}

func main() {
	flag.Usage = nafinfoUsage
	shutdown := grail.Init()
	defer shutdown()

	if flag.NArg() != 1 {
		log.Fatalf("exactly one NAF path required")
	}
	path := flag.Arg(0)

	f, err := os.Open(path)
	if err != nil {
		log.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()

	var codec naf.Decompressor
	switch *codecFlag {
	case "zstd":
		codec = naf.ZstdCodec{}
	case "snappy":
		codec = naf.SnappyCodec{}
	default:
		log.Fatalf("unknown -codec %q", *codecFlag)
	}

	rd, err := naf.Open(f, codec, naf.Limits{})
	if err != nil {
		log.Fatalf("%s: %v", path, err)
	}

	h := rd.Header()
	fmt.Printf("version:    %d\n", h.Version)
	fmt.Printf("type:       %s\n", h.SequenceType)
	fmt.Printf("separator:  %q\n", string(h.NameSeparator))
	fmt.Printf("line_length:%d\n", h.LineLength)
	fmt.Printf("sequences:  %d\n", h.NumSequences)
	fmt.Printf("columns:    %v\n", h.Flags.Kinds())

	if title, err := rd.Title(); err == nil && title != "" {
		fmt.Printf("title:      %s\n", title)
	}
}
