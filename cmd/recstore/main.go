package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/google/gops/agent"
	"github.com/viant/recstore"
	"github.com/viant/recstore/codec"
	"github.com/viant/recstore/direct"
)

func main() {
	startGops()
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "stats":
		statsCmd(os.Args[2:])
	case "compact":
		compactCmd(os.Args[2:])
	case "get":
		getCmd(os.Args[2:])
	case "put":
		putCmd(os.Args[2:])
	case "dump":
		dumpCmd(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: recstore <command> [options]")
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  stats    Print storage statistics")
	fmt.Fprintln(os.Stderr, "  compact  Rewrite both files densely, dropping free space")
	fmt.Fprintln(os.Stderr, "  get      Print a record payload to stdout")
	fmt.Fprintln(os.Stderr, "  put      Store stdin as a new record, print its recid")
	fmt.Fprintln(os.Stderr, "  dump     List live recids with payload sizes")
}

// openStore resolves the store path from --path or --config.
func openStore(flags *flag.FlagSet, args []string, readOnly bool) *direct.Store {
	path := flags.String("path", "", "index file path")
	configPath := flags.String("config", "", "config yaml (optional)")
	flags.Parse(args)

	var opts []recstore.Option
	target := *path
	if *configPath != "" {
		cfg, err := recstore.LoadConfig(*configPath)
		if err != nil {
			log.Fatalf("load config: %v", err)
		}
		opts = cfg.Options()
		if target == "" {
			target = cfg.Path
		}
	}
	if target == "" {
		log.Fatalf("either --path or --config with path is required")
	}
	if readOnly {
		opts = append(opts, recstore.WithReadOnly(true))
	}
	store, err := direct.Open(target, opts...)
	if err != nil {
		log.Fatalf("open %s: %v", target, err)
	}
	return store
}

func statsCmd(args []string) {
	flags := flag.NewFlagSet("stats", flag.ExitOnError)
	store := openStore(flags, args, true)
	defer store.Close()
	report, err := store.Stats()
	if err != nil {
		log.Fatalf("stats: %v", err)
	}
	fmt.Print(report)
}

func compactCmd(args []string) {
	flags := flag.NewFlagSet("compact", flag.ExitOnError)
	store := openStore(flags, args, false)
	defer store.Close()
	before := store.CurrSize()
	if err := store.Compact(); err != nil {
		log.Fatalf("compact: %v", err)
	}
	fmt.Printf("compacted: %d -> %d bytes\n", before, store.CurrSize())
}

func getCmd(args []string) {
	flags := flag.NewFlagSet("get", flag.ExitOnError)
	recid := flags.Int64("recid", 0, "record id (required)")
	store := openStore(flags, args, true)
	defer store.Close()
	if *recid <= 0 {
		log.Fatalf("--recid is required")
	}
	data, err := store.GetRaw(*recid)
	if err != nil {
		log.Fatalf("get %d: %v", *recid, err)
	}
	if _, err := os.Stdout.Write(data); err != nil {
		log.Fatalf("write: %v", err)
	}
}

func putCmd(args []string) {
	flags := flag.NewFlagSet("put", flag.ExitOnError)
	store := openStore(flags, args, false)
	defer store.Close()
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		log.Fatalf("read stdin: %v", err)
	}
	recid, err := store.Put(data, codec.Bytes{})
	if err != nil {
		log.Fatalf("put: %v", err)
	}
	if err := store.Commit(); err != nil {
		log.Fatalf("commit: %v", err)
	}
	fmt.Println(recid)
}

func dumpCmd(args []string) {
	flags := flag.NewFlagSet("dump", flag.ExitOnError)
	store := openStore(flags, args, true)
	defer store.Close()
	max := store.MaxRecid()
	for recid := int64(1); recid <= max; recid++ {
		data, err := store.GetRaw(recid)
		if err != nil {
			log.Fatalf("get %d: %v", recid, err)
		}
		if data == nil {
			continue
		}
		fmt.Printf("%d\t%d\n", recid, len(data))
	}
}

func startGops() {
	if err := agent.Listen(agent.Options{ShutdownCleanup: true}); err != nil {
		log.Printf("gops: %v", err)
	}
}
