// qset-probe counts the TCP and UDP ports seen in a pcap capture with a
// quickset and prints the busiest ones.
//
// Usage Examples
// ==============
//
// The ten busiest destination ports:
//
//	qset-probe -file trace.pcap
//
// Source ports, ranked by a sorted window, with ties going to the newest:
//
//	qset-probe -file trace.pcap -src -mode winsum -fifo -top 20
//
// Count locally, then replay the counters into a running qset-server:
//
//	qset-probe -file trace.pcap -push localhost:6479 -key ports
//
// Exit Codes
// ==========
//
// 0: The capture was read to the end (and pushed, if -push was given).
// 1: Bad flags, an unreadable or truncated capture, or a failed push.

package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"qset.lopezb.com/internal/quickset"
)

// maxPort is the span of the port domain.
const maxPort = 65535

type options struct {
	file    string
	top     int
	mode    string
	fifo    bool
	freq    int
	src     bool
	push    string
	key     string
	timeout time.Duration
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run is main without the process exit, so tests can drive it.
func run(args []string, stdout, stderr io.Writer) int {
	var opts options

	fs := flag.NewFlagSet("qset-probe", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.file, "file", "", "Path to the pcap capture")
	fs.IntVar(&opts.top, "top", 10, "Rank window size (1-64)")
	fs.StringVar(&opts.mode, "mode", string(quickset.MinSum), "Ranking discipline: minsum or winsum")
	fs.BoolVar(&opts.fifo, "fifo", false, "Admit ties with the window minimum")
	fs.IntVar(&opts.freq, "freq", quickset.DefaultFreq, "Counts must exceed this to be ranked")
	fs.BoolVar(&opts.src, "src", false, "Count source ports instead of destination ports")
	fs.StringVar(&opts.push, "push", "", "qset-server address to push the counters to")
	fs.StringVar(&opts.key, "key", "ports", "Set name used with -push")
	fs.DurationVar(&opts.timeout, "timeout", 5*time.Second, "Dial timeout for -push")
	if err := fs.Parse(args); err != nil {
		return 1
	}

	if opts.file == "" {
		fmt.Fprintln(stderr, "[err] -file is required")
		return 1
	}
	if opts.top < 1 || opts.top > quickset.MaxSlots {
		fmt.Fprintf(stderr, "[err] -top must be in [1, %d]\n", quickset.MaxSlots)
		return 1
	}

	set, err := quickset.New(quickset.Config{
		Mode: quickset.Mode(opts.mode),
		Span: maxPort,
		Slot: opts.top,
		High: quickset.MaxHigh,
		Freq: opts.freq,
		FIFO: opts.fifo,
	})
	if err != nil {
		fmt.Fprintf(stderr, "[err] %v\n", err)
		return 1
	}

	f, err := os.Open(opts.file)
	if err != nil {
		fmt.Fprintf(stderr, "[err] Cannot open file: %v\n", err)
		return 1
	}
	defer func() { _ = f.Close() }()

	start := time.Now()
	stats, err := countPorts(f, opts.src, set)
	if err != nil {
		fmt.Fprintf(stderr, "[err] %v\n", err)
		return 1
	}

	direction := "destination"
	if opts.src {
		direction = "source"
	}
	fmt.Fprintf(stdout, "Read %s: %d packets, %d bytes in %v\n",
		opts.file, stats.Packets, stats.Bytes, time.Since(start).Round(time.Millisecond))
	fmt.Fprintf(stdout, "Counted %d %s ports, skipped %d packets without TCP or UDP\n",
		stats.Counted, direction, stats.Skipped)
	fmt.Fprintf(stdout, "Distinct ports: %d\n\n", set.Len())

	printTop(stdout, set)

	if opts.push == "" {
		return 0
	}

	p, err := dialPusher(opts.push, opts.timeout)
	if err != nil {
		fmt.Fprintf(stderr, "[err] Cannot connect to %s: %v\n", opts.push, err)
		return 1
	}
	defer func() { _ = p.Close() }()

	batches, err := p.push(opts.key, set)
	if err != nil {
		fmt.Fprintf(stderr, "[err] Push failed: %v\n", err)
		return 1
	}
	fmt.Fprintf(stdout, "\nPushed %d ports to %s key %q in %d batches\n", set.Len(), opts.push, opts.key, batches)
	return 0
}

// printTop writes the rank window as a table.
func printTop(w io.Writer, set *quickset.Set) {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tPORT\tPACKETS")
	for i, e := range set.Top(0) {
		fmt.Fprintf(tw, "%d\t%d\t%d\n", i+1, e.Key, e.Count)
	}
	_ = tw.Flush()
}
