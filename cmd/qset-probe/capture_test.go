package main

import (
	"bytes"
	"net"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"

	"qset.lopezb.com/internal/quickset"
)

var (
	srcMAC = net.HardwareAddr{0x02, 0, 0, 0, 0, 1}
	dstMAC = net.HardwareAddr{0x02, 0, 0, 0, 0, 2}
)

// frame is one packet of a synthetic capture.
type frame struct {
	udp     bool
	v6      bool
	arp     bool
	srcPort uint16
	dstPort uint16
}

func serialize(t *testing.T, f frame) []byte {
	t.Helper()

	buf := gopacket.NewSerializeBuffer()
	opts := gopacket.SerializeOptions{FixLengths: true, ComputeChecksums: true}

	eth := &layers.Ethernet{SrcMAC: srcMAC, DstMAC: dstMAC, EthernetType: layers.EthernetTypeIPv4}

	if f.arp {
		eth.EthernetType = layers.EthernetTypeARP
		arp := &layers.ARP{
			AddrType:          layers.LinkTypeEthernet,
			Protocol:          layers.EthernetTypeIPv4,
			HwAddressSize:     6,
			ProtAddressSize:   4,
			Operation:         layers.ARPRequest,
			SourceHwAddress:   srcMAC,
			SourceProtAddress: []byte{10, 0, 0, 1},
			DstHwAddress:      []byte{0, 0, 0, 0, 0, 0},
			DstProtAddress:    []byte{10, 0, 0, 2},
		}
		if err := gopacket.SerializeLayers(buf, opts, eth, arp); err != nil {
			t.Fatalf("serialize arp: %v", err)
		}
		return buf.Bytes()
	}

	proto := layers.IPProtocolTCP
	if f.udp {
		proto = layers.IPProtocolUDP
	}

	var network gopacket.NetworkLayer
	var ip gopacket.SerializableLayer
	if f.v6 {
		eth.EthernetType = layers.EthernetTypeIPv6
		ip6 := &layers.IPv6{
			Version:    6,
			HopLimit:   64,
			NextHeader: proto,
			SrcIP:      net.ParseIP("2001:db8::1"),
			DstIP:      net.ParseIP("2001:db8::2"),
		}
		network, ip = ip6, ip6
	} else {
		ip4 := &layers.IPv4{
			Version:  4,
			TTL:      64,
			Protocol: proto,
			SrcIP:    net.IPv4(10, 0, 0, 1),
			DstIP:    net.IPv4(10, 0, 0, 2),
		}
		network, ip = ip4, ip4
	}

	payload := gopacket.Payload("qset")
	var err error
	if f.udp {
		udp := &layers.UDP{SrcPort: layers.UDPPort(f.srcPort), DstPort: layers.UDPPort(f.dstPort)}
		_ = udp.SetNetworkLayerForChecksum(network)
		err = gopacket.SerializeLayers(buf, opts, eth, ip, udp, payload)
	} else {
		tcp := &layers.TCP{SrcPort: layers.TCPPort(f.srcPort), DstPort: layers.TCPPort(f.dstPort), SYN: true, Window: 1024}
		_ = tcp.SetNetworkLayerForChecksum(network)
		err = gopacket.SerializeLayers(buf, opts, eth, ip, tcp, payload)
	}
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	return buf.Bytes()
}

// capture writes frames as a pcap stream.
func capture(t *testing.T, frames []frame) []byte {
	t.Helper()

	var out bytes.Buffer
	w := pcapgo.NewWriter(&out)
	if err := w.WriteFileHeader(65536, layers.LinkTypeEthernet); err != nil {
		t.Fatalf("write header: %v", err)
	}

	ts := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, f := range frames {
		data := serialize(t, f)
		ci := gopacket.CaptureInfo{
			Timestamp:     ts.Add(time.Duration(i) * time.Millisecond),
			CaptureLength: len(data),
			Length:        len(data),
		}
		if err := w.WritePacket(ci, data); err != nil {
			t.Fatalf("write packet: %v", err)
		}
	}
	return out.Bytes()
}

// webTraffic is 5 packets to 443, 3 to 53 over UDP, 2 to 80 over IPv6 and
// one ARP request.
func webTraffic() []frame {
	var frames []frame
	for range 5 {
		frames = append(frames, frame{srcPort: 40000, dstPort: 443})
	}
	for range 3 {
		frames = append(frames, frame{udp: true, srcPort: 40001, dstPort: 53})
	}
	for range 2 {
		frames = append(frames, frame{v6: true, srcPort: 40002, dstPort: 80})
	}
	return append(frames, frame{arp: true})
}

func newPortSet(t *testing.T, mode quickset.Mode, slot int) *quickset.Set {
	t.Helper()
	set, err := quickset.New(quickset.Config{Mode: mode, Span: maxPort, Slot: slot, High: quickset.MaxHigh, Freq: 1})
	if err != nil {
		t.Fatalf("quickset.New: %v", err)
	}
	return set
}

func TestPortOf(t *testing.T) {
	tests := []struct {
		name   string
		frame  frame
		src    bool
		want   int
		wantOK bool
	}{
		{"tcp dst", frame{srcPort: 1234, dstPort: 443}, false, 443, true},
		{"tcp src", frame{srcPort: 1234, dstPort: 443}, true, 1234, true},
		{"udp dst", frame{udp: true, srcPort: 5353, dstPort: 53}, false, 53, true},
		{"ipv6 tcp", frame{v6: true, srcPort: 1, dstPort: 8080}, false, 8080, true},
		{"arp", frame{arp: true}, false, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			packet := gopacket.NewPacket(serialize(t, tt.frame), layers.LinkTypeEthernet, gopacket.Default)
			got, ok := portOf(packet, tt.src)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("got (%d, %v), want (%d, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestCountPorts(t *testing.T) {
	data := capture(t, webTraffic())
	set := newPortSet(t, quickset.WinSum, 2)

	stats, err := countPorts(bytes.NewReader(data), false, set)
	if err != nil {
		t.Fatalf("countPorts: %v", err)
	}

	if stats.Packets != 11 || stats.Counted != 10 || stats.Skipped != 1 {
		t.Errorf("stats: got %+v", stats)
	}
	if stats.Bytes != int64(len(data)) {
		t.Errorf("bytes: got %d, want %d", stats.Bytes, len(data))
	}

	want := []quickset.Entry{{Key: 443, Count: 5}, {Key: 53, Count: 3}}
	if got := set.Top(0); !slices.Equal(got, want) {
		t.Errorf("Top: got %v, want %v", got, want)
	}
	if got := set.Get(80); got != 2 {
		t.Errorf("port 80: got %d, want 2", got)
	}
}

func TestCountPortsSource(t *testing.T) {
	set := newPortSet(t, quickset.MinSum, 4)

	if _, err := countPorts(bytes.NewReader(capture(t, webTraffic())), true, set); err != nil {
		t.Fatalf("countPorts: %v", err)
	}
	if got := set.Keys(0); !slices.Equal(got, []int{40000, 40001, 40002}) {
		t.Errorf("Keys: got %v", got)
	}
}

func TestCountPortsErrors(t *testing.T) {
	set := newPortSet(t, quickset.MinSum, 1)

	if _, err := countPorts(strings.NewReader("not a pcap"), false, set); err == nil {
		t.Error("expected an error for a bad header")
	}

	data := capture(t, webTraffic())
	truncated := data[:len(data)-10]
	stats, err := countPorts(bytes.NewReader(truncated), false, set)
	if err == nil {
		t.Fatal("expected an error for a truncated capture")
	}
	if !strings.Contains(err.Error(), "failed to read packet 11") {
		t.Errorf("error should name the packet: %v", err)
	}
	if stats.Packets != 10 {
		t.Errorf("packets before truncation: got %d, want 10", stats.Packets)
	}
}

func TestRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.pcap")
	if err := os.WriteFile(path, capture(t, webTraffic()), 0o644); err != nil {
		t.Fatal(err)
	}

	var stdout, stderr bytes.Buffer
	if code := run([]string{"-file", path, "-mode", "winsum", "-top", "3"}, &stdout, &stderr); code != 0 {
		t.Fatalf("exit code %d, stderr %q", code, stderr.String())
	}

	out := stdout.String()
	for _, want := range []string{"11 packets", "Counted 10 destination ports, skipped 1", "Distinct ports: 3", "RANK"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	// Ranked best first.
	var rows [][]string
	for _, line := range strings.Split(out, "\n") {
		if f := strings.Fields(line); len(f) == 3 && isNumber(f[0]) {
			rows = append(rows, f)
		}
	}
	want := [][]string{{"1", "443", "5"}, {"2", "53", "3"}, {"3", "80", "2"}}
	if !slices.EqualFunc(rows, want, slices.Equal[[]string]) {
		t.Errorf("table rows: got %v, want %v", rows, want)
	}
}

func TestRunErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no file", nil, "-file is required"},
		{"top too large", []string{"-file", "x", "-top", "65"}, "-top must be in [1, 64]"},
		{"bad mode", []string{"-file", "x", "-mode", "median"}, "invalid mode"},
		{"missing file", []string{"-file", filepath.Join(t.TempDir(), "none.pcap")}, "Cannot open file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			if code := run(tt.args, &stdout, &stderr); code != 1 {
				t.Errorf("exit code: got %d, want 1", code)
			}
			if !strings.Contains(stderr.String(), tt.want) {
				t.Errorf("stderr %q should contain %q", stderr.String(), tt.want)
			}
		})
	}
}

func isNumber(s string) bool {
	_, err := strconv.Atoi(s)
	return err == nil
}
