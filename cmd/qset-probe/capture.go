package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"

	"qset.lopezb.com/internal/quickset"
)

// countingReader tracks the byte offset into the capture so errors can name
// the position where decoding stopped.
type countingReader struct {
	r     io.Reader
	count int64
}

func (cr *countingReader) Read(p []byte) (int, error) {
	n, err := cr.r.Read(p)
	cr.count += int64(n)
	return n, err
}

// captureStats summarizes one pass over a capture file.
type captureStats struct {
	Packets int   // packets read
	Counted int   // packets with a TCP or UDP port
	Skipped int   // packets with neither
	Bytes   int64 // bytes consumed from the file
}

// portOf returns the TCP or UDP port of packet, the destination port unless
// src is set. IPv4 and IPv6 are handled alike.
func portOf(packet gopacket.Packet, src bool) (int, bool) {
	if l := packet.Layer(layers.LayerTypeTCP); l != nil {
		tcp := l.(*layers.TCP)
		if src {
			return int(tcp.SrcPort), true
		}
		return int(tcp.DstPort), true
	}
	if l := packet.Layer(layers.LayerTypeUDP); l != nil {
		udp := l.(*layers.UDP)
		if src {
			return int(udp.SrcPort), true
		}
		return int(udp.DstPort), true
	}
	return 0, false
}

// countPorts reads a pcap stream and feeds the port of every TCP and UDP
// packet to set.
func countPorts(r io.Reader, src bool, set *quickset.Set) (captureStats, error) {
	var stats captureStats

	counter := &countingReader{r: r}
	pr, err := pcapgo.NewReader(bufio.NewReader(counter))
	if err != nil {
		return stats, fmt.Errorf("failed to read pcap header: %w", err)
	}
	linkType := pr.LinkType()

	for {
		data, _, err := pr.ReadPacketData()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			stats.Bytes = counter.count
			return stats, fmt.Errorf("failed to read packet %d near offset %d: %w", stats.Packets+1, counter.count, err)
		}
		stats.Packets++

		packet := gopacket.NewPacket(data, linkType, gopacket.DecodeOptions{Lazy: true, NoCopy: true})
		port, ok := portOf(packet, src)
		if !ok {
			stats.Skipped++
			continue
		}
		stats.Counted++
		set.Incr(port)
	}

	stats.Bytes = counter.count
	return stats, nil
}
