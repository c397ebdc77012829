package discovery

import (
	"net"
	"testing"

	"github.com/grandcat/zeroconf"
)

func TestServer_String(t *testing.T) {
	server := &Server{Name: "kitchen-pi", IP: "192.168.1.50", Port: 8470}

	want := `catman server "kitchen-pi" at 192.168.1.50:8470`
	if got := server.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestServer_BaseURL(t *testing.T) {
	server := &Server{IP: "192.168.1.50", Port: 8470}

	if got := server.BaseURL(); got != "http://192.168.1.50:8470" {
		t.Errorf("BaseURL() = %q, want http://192.168.1.50:8470", got)
	}
}

func TestServer_GetMetadata(t *testing.T) {
	server := &Server{
		Metadata: map[string]string{"version": "0.3.0"},
	}

	if got := server.GetMetadata("version"); got != "0.3.0" {
		t.Errorf("GetMetadata(version) = %q, want 0.3.0", got)
	}
	if got := server.GetMetadata("missing"); got != "" {
		t.Errorf("GetMetadata(missing) = %q, want empty", got)
	}

	var nilMeta Server
	if got := nilMeta.GetMetadata("version"); got != "" {
		t.Errorf("GetMetadata() on nil map = %q, want empty", got)
	}
}

func TestServer_Version(t *testing.T) {
	server := &Server{Metadata: map[string]string{"version": "0.3.0"}}
	if got := server.Version(); got != "0.3.0" {
		t.Errorf("Version() = %q, want 0.3.0", got)
	}

	if got := (&Server{}).Version(); got != "" {
		t.Errorf("Version() without metadata = %q, want empty", got)
	}
}

func TestParseServiceEntry(t *testing.T) {
	entry := &zeroconf.ServiceEntry{
		ServiceRecord: zeroconf.ServiceRecord{
			Instance: "kitchen-pi",
		},
		HostName: "kitchen-pi.local.",
		Port:     8470,
		Text:     []string{"version=0.3.0", "flag"},
		AddrIPv4: []net.IP{net.ParseIP("192.168.1.50")},
		AddrIPv6: []net.IP{net.ParseIP("fe80::1")},
	}

	server := parseServiceEntry(entry)
	if server == nil {
		t.Fatal("parseServiceEntry() returned nil")
	}

	if server.Name != "kitchen-pi" {
		t.Errorf("Name = %q, want kitchen-pi", server.Name)
	}
	if server.IP != "192.168.1.50" {
		t.Errorf("IP = %q, want the IPv4 address preferred", server.IP)
	}
	if server.Port != 8470 {
		t.Errorf("Port = %d, want 8470", server.Port)
	}
	if got := server.GetMetadata("version"); got != "0.3.0" {
		t.Errorf("version metadata = %q, want 0.3.0", got)
	}
	if _, ok := server.Metadata["flag"]; !ok {
		t.Error("valueless TXT entries should be kept with an empty value")
	}
	if server.DiscoveredAt.IsZero() {
		t.Error("DiscoveredAt should be set")
	}
}

func TestParseServiceEntry_IPv6Fallback(t *testing.T) {
	entry := &zeroconf.ServiceEntry{
		ServiceRecord: zeroconf.ServiceRecord{Instance: "office"},
		Port:          8470,
		AddrIPv6:      []net.IP{net.ParseIP("fe80::1")},
	}

	server := parseServiceEntry(entry)
	if server == nil {
		t.Fatal("parseServiceEntry() returned nil")
	}
	if server.IP != "fe80::1" {
		t.Errorf("IP = %q, want the IPv6 fallback", server.IP)
	}
}

func TestParseServiceEntry_NoAddress(t *testing.T) {
	entry := &zeroconf.ServiceEntry{
		ServiceRecord: zeroconf.ServiceRecord{Instance: "ghost"},
		Port:          8470,
	}

	if server := parseServiceEntry(entry); server != nil {
		t.Errorf("parseServiceEntry() = %+v, want nil for an entry with no address", server)
	}
}

func TestNewScanner_Defaults(t *testing.T) {
	scanner := NewScanner()
	if scanner.Timeout != DefaultScanTimeout {
		t.Errorf("Timeout = %v, want %v", scanner.Timeout, DefaultScanTimeout)
	}
}
