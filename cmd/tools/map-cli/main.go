package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/annel0/blockplay/internal/storage"
	"github.com/annel0/blockplay/internal/vec"
	"github.com/annel0/blockplay/internal/world"
)

const (
	backendFile   = "file"
	backendBadger = "badger"
)

func main() {
	var (
		command  = flag.String("cmd", "stats", "Command: stats, dump, convert")
		from     = flag.String("from", backendFile, "Source backend: file, badger")
		src      = flag.String("src", "data/map.dat", "Source path (file or badger dir)")
		to       = flag.String("to", backendBadger, "Target backend for convert")
		dst      = flag.String("dst", "data/badger", "Target path for convert")
		compress = flag.Bool("compress", true, "Compress target file (zstd)")
		limit    = flag.Int("limit", 0, "Maximum number of blocks to dump (0 - all)")
	)
	flag.Parse()

	ctx := context.Background()

	source, closeSource, err := openStore(*from, *src, false)
	if err != nil {
		log.Fatalf("❌ Failed to open source: %v", err)
	}
	defer closeSource()

	positions, err := source.LoadBlocks(ctx)
	if err != nil {
		log.Fatalf("❌ Failed to load blocks: %v", err)
	}

	switch *command {
	case "stats":
		printStats(positions)

	case "dump":
		for i, p := range positions {
			if *limit > 0 && i >= *limit {
				fmt.Printf("... %d more\n", len(positions)-i)
				break
			}
			fmt.Println(p)
		}

	case "convert":
		target, closeTarget, err := openStore(*to, *dst, *compress)
		if err != nil {
			log.Fatalf("❌ Failed to open target: %v", err)
		}
		defer closeTarget()

		if err := target.SaveBlocks(ctx, positions); err != nil {
			log.Fatalf("❌ Convert failed: %v", err)
		}
		fmt.Printf("✅ %d blocks: %s:%s -> %s:%s\n", len(positions), *from, *src, *to, *dst)

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", *command)
		flag.Usage()
		os.Exit(2)
	}
}

func openStore(backend, path string, compress bool) (world.MapStore, func(), error) {
	switch backend {
	case backendFile:
		return storage.NewFileMapStore(path, compress), func() {}, nil
	case backendBadger:
		store, err := storage.NewBadgerMapStore(path)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown backend %q", backend)
	}
}

func printStats(positions []vec.Vec3) {
	fmt.Printf("📊 Blocks: %d\n", len(positions))
	if len(positions) == 0 {
		return
	}

	lo, hi := positions[0], positions[0]
	for _, p := range positions[1:] {
		lo = vec.Vec3{X: min(lo.X, p.X), Y: min(lo.Y, p.Y), Z: min(lo.Z, p.Z)}
		hi = vec.Vec3{X: max(hi.X, p.X), Y: max(hi.Y, p.Y), Z: max(hi.Z, p.Z)}
	}
	fmt.Printf("   Min: %s\n", lo)
	fmt.Printf("   Max: %s\n", hi)
}
