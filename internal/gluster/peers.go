// Package gluster parses the text output of the gluster CLI.
//
// Parsing is lenient: malformed lines are not rejected, they produce records
// with empty or odd fields. ValidatePeers and ValidateVolumeInfo report such
// records without changing them.
package gluster

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"glustermon/pkg/models"
)

// PoolListCommand lists the trusted storage pool
const PoolListCommand = "gluster pool list"

// localHostname is how `gluster pool list` reports the node it runs on
const localHostname = "localhost"

// ParsePeers parses `gluster pool list` output. The header line is dropped
// and a "localhost" hostname is replaced by connectingIP.
//
//	UUID					Hostname	State
//	953f8259-5ddf-4459-9846-933433cc7787	192.168.0.202	Connected
//	1ec28018-92ea-4662-b3da-fcb11c128c07	localhost	Connected
func ParsePeers(output, connectingIP string) []models.Peer {
	lines := strings.Split(strings.TrimSpace(output), "\n")
	peers := make([]models.Peer, 0, len(lines))

	for _, line := range lines[1:] {
		fields := strings.Split(line, "\t")
		for i := range fields {
			fields[i] = strings.TrimSpace(fields[i])
		}

		peer := models.Peer{
			UUID:     field(fields, 0),
			Hostname: field(fields, 1),
			State:    field(fields, 2),
		}
		if peer.Hostname == localHostname {
			peer.Hostname = connectingIP
		}

		peers = append(peers, peer)
	}

	SortPeers(peers)
	return peers
}

// SortPeers orders peers by hostname using locale-aware collation
func SortPeers(peers []models.Peer) {
	// Collators keep internal buffers, so each call gets its own.
	c := collate.New(language.Und)
	sort.SliceStable(peers, func(i, j int) bool {
		return c.CompareString(peers[i].Hostname, peers[j].Hostname) < 0
	})
}

func field(fields []string, i int) string {
	if i < len(fields) {
		return fields[i]
	}
	return ""
}
