package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"lintang/indexheap/pkg/extsort"
	"lintang/indexheap/pkg/merge"

	"github.com/cockroachdb/pebble"
	"github.com/k0kubun/go-ansi"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/exp/rand"
)

var (
	itemCount = flag.Int("n", 2_000_000, "how many random float64 keys to sort")
	chunkSize = flag.Int("chunk", 200_000, "in-memory run size in items")
	workers   = flag.Int("workers", 4, "concurrent run sorters")
	dbDir     = flag.String("db", "", "pebble scratch dir (default: a temp dir, removed afterwards)")
	seed      = flag.Uint64("seed", 1, "rng seed for the generated keys")
)

func main() {
	flag.Parse()

	dir := *dbDir
	if dir == "" {
		tmp, err := os.MkdirTemp("", "extsortDB")
		if err != nil {
			log.Fatal(err)
		}
		defer os.RemoveAll(tmp)
		dir = tmp
	}

	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	sorter, err := extsort.NewSorter[float64](db, *chunkSize, *workers)
	if err != nil {
		log.Fatal(err)
	}

	bar := progressbar.NewOptions(*itemCount,
		progressbar.OptionSetWriter(ansi.NewAnsiStdout()),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(15),
		progressbar.OptionSetDescription("[cyan][1/2][reset] staging sorted runs..."),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))

	rng := rand.New(rand.NewSource(*seed))
	fed := 0
	input := func() (float64, bool) {
		if fed == *itemCount {
			return 0, false
		}
		fed++
		bar.Add(1)
		return rng.Float64(), true
	}

	outBar := progressbar.NewOptions(*itemCount,
		progressbar.OptionSetWriter(ansi.NewAnsiStdout()),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(15),
		progressbar.OptionSetDescription("[cyan][2/2][reset] merging runs..."),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))

	start := time.Now()
	emitted := 0
	prev := -1.0
	err = sorter.Sort(merge.Puller[float64](input), func(v float64) error {
		if v < prev {
			return fmt.Errorf("output out of order at item %d: %f after %f", emitted, v, prev)
		}
		prev = v
		emitted++
		outBar.Add(1)
		return nil
	})
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println("")
	fmt.Printf("sorted %d keys in %s (%d workers, chunk %d)\n",
		emitted, time.Since(start).Round(time.Millisecond), *workers, *chunkSize)
}
