// Package main provides a command-line utility to inspect a feed file:
// its header fields and every packet it contains.
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/scigolib/tinylog"
)

func main() {
	quick := flag.Bool("quick", false, "use GetBytesQuick instead of verified GetBytes")
	flag.Parse()

	args := flag.Args()
	if len(args) < 1 {
		fmt.Println("Usage: tinylog-dump [flags] <feed.log>")
		fmt.Println("Flags:")
		flag.PrintDefaults()
		return
	}

	path := args[0]
	f, err := tinylog.Open(path)
	if err != nil {
		log.Fatalf("failed to open feed: %v", err)
	}

	fmt.Printf("feed %s\n", path)
	fmt.Printf("  fid=%x\n", f.Fid)
	fmt.Printf("  parent_id=%x parent_seq=%d\n", f.ParentID, f.ParentSeq)
	fmt.Printf("  anchor_seq=%d front_seq=%d\n", f.AnchorSeq, f.FrontSeq)

	ended, err := f.HasEnded()
	if err != nil {
		log.Fatalf("checking end-of-feed: %v", err)
	}
	fmt.Printf("  ended=%v\n", ended)

	for seq := int64(f.AnchorSeq) + 1; seq <= int64(f.FrontSeq); seq++ {
		p, err := f.Get(seq)
		if err != nil {
			log.Printf("seq %d: %v", seq, err)
			continue
		}

		var payload []byte
		if *quick {
			payload, err = f.GetBytesQuick(seq)
		} else {
			payload, err = f.GetBytes(seq)
		}
		if err != nil {
			log.Printf("seq %d: %v", seq, err)
			continue
		}
		fmt.Printf("  seq=%d kind=%s mid=%x payload=%d bytes\n", seq, p.Kind, p.Mid, len(payload))
	}
}
