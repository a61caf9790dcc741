package msgnet

import (
	"fmt"
	"log"
	"net"
	"sync"
	"time"

	"github.com/hashicorp/mdns"
)

// discoveryService is the mDNS service name TCPComm ranks advertise
// under, mirroring the roj-node-go discovery package's ServiceName
// convention (an underscore-prefixed service, transport suffix).
const discoveryService = "_mapfcbs._tcp"

// PeerInfo is one rank discovered via mDNS: its advertised rank number
// and dial-able address.
type PeerInfo struct {
	Rank     int
	Addr     *net.TCPAddr
	LastSeen time.Time
}

// Discovery announces this rank's listen address over mDNS and collects
// the addresses other ranks announce, so a TCPComm group can be formed
// without a shared config file.
type Discovery struct {
	runID string
	rank  int
	port  int

	server *mdns.Server

	mu      sync.RWMutex
	peers   map[int]*PeerInfo
	stopCh  chan struct{}
	stopped bool
}

// NewDiscovery returns a Discovery for rank, scoped to runID so unrelated
// solves on the same LAN don't cross-discover each other.
func NewDiscovery(runID string, rank, port int) *Discovery {
	return &Discovery{
		runID:  runID,
		rank:   rank,
		port:   port,
		peers:  make(map[int]*PeerInfo),
		stopCh: make(chan struct{}),
	}
}

// Announce starts advertising this rank's TCP listen port.
func (d *Discovery) Announce() error {
	ips, err := localIPs()
	if err != nil {
		return fmt.Errorf("msgnet: discovery announce: %w", err)
	}

	info := []string{
		fmt.Sprintf("run=%s", d.runID),
		fmt.Sprintf("rank=%d", d.rank),
	}
	service, err := mdns.NewMDNSService(fmt.Sprintf("%s-rank-%d", d.runID, d.rank), discoveryService, "", "", d.port, ips, info)
	if err != nil {
		return fmt.Errorf("msgnet: build mdns service: %w", err)
	}
	server, err := mdns.NewServer(&mdns.Config{Zone: service})
	if err != nil {
		return fmt.Errorf("msgnet: start mdns server: %w", err)
	}
	d.server = server
	log.Printf("[INFO] msgnet: rank %d announcing on %s", d.rank, discoveryService)
	return nil
}

// Browse polls for peer announcements in the background until Stop is
// called.
func (d *Discovery) Browse() {
	go func() {
		entries := make(chan *mdns.ServiceEntry, 16)
		go func() {
			for entry := range entries {
				d.handleEntry(entry)
			}
		}()

		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-d.stopCh:
				close(entries)
				return
			case <-ticker.C:
				params := mdns.DefaultParams(discoveryService)
				params.Entries = entries
				params.Timeout = 500 * time.Millisecond
				params.DisableIPv6 = true
				if err := mdns.Query(params); err != nil {
					log.Printf("[WARN] msgnet: mdns query failed: %v", err)
				}
			}
		}
	}()
}

func (d *Discovery) handleEntry(entry *mdns.ServiceEntry) {
	var runID string
	var rank = -1
	for _, txt := range entry.InfoFields {
		switch {
		case len(txt) > 4 && txt[:4] == "run=":
			runID = txt[4:]
		case len(txt) > 5 && txt[:5] == "rank=":
			fmt.Sscanf(txt[5:], "%d", &rank)
		}
	}
	if runID != d.runID || rank < 0 || rank == d.rank {
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.peers[rank] = &PeerInfo{
		Rank:     rank,
		Addr:     &net.TCPAddr{IP: entry.AddrV4, Port: entry.Port},
		LastSeen: time.Now(),
	}
}

// WaitForPeers blocks until every rank in [0,size) other than this one has
// been discovered, or timeout elapses.
func (d *Discovery) WaitForPeers(size int, timeout time.Duration) (map[int]*PeerInfo, error) {
	deadline := time.Now().Add(timeout)
	for {
		d.mu.RLock()
		found := len(d.peers)
		peers := make(map[int]*PeerInfo, len(d.peers))
		for k, v := range d.peers {
			peers[k] = v
		}
		d.mu.RUnlock()

		if found >= size-1 {
			return peers, nil
		}
		if time.Now().After(deadline) {
			return peers, fmt.Errorf("msgnet: discovered %d/%d peers before timeout", found, size-1)
		}
		time.Sleep(100 * time.Millisecond)
	}
}

// Stop shuts down announcement and browsing.
func (d *Discovery) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	d.stopped = true
	close(d.stopCh)
	if d.server != nil {
		d.server.Shutdown()
	}
}

func localIPs() ([]net.IP, error) {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return nil, err
	}
	var ips []net.IP
	for _, addr := range addrs {
		if ipnet, ok := addr.(*net.IPNet); ok && !ipnet.IP.IsLoopback() && ipnet.IP.To4() != nil {
			ips = append(ips, ipnet.IP)
		}
	}
	if len(ips) == 0 {
		return nil, fmt.Errorf("no non-loopback IPv4 address found")
	}
	return ips, nil
}
