// Package discovery provides mDNS-based discovery of catman catalog servers.
//
// Catalog servers announce themselves on the local network using the
// "_catman._tcp" service type, so clients can find a server without being
// told its address. This package covers both sides: servers call Announce
// to register themselves, and clients use a Scanner to find servers.
//
// # Usage Example
//
//	// Find servers with the default 5-second timeout
//	servers, err := discovery.ScanForServers(discovery.DefaultScanTimeout)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for _, srv := range servers {
//	    fmt.Printf("Found: %s at %s:%d\n", srv.Name, srv.IP, srv.Port)
//	}
//
// # Network Requirements
//
// - Requires multicast support on the network interface
// - Servers must be on the same local network segment
// - Firewall must allow mDNS (UDP port 5353)
package discovery
