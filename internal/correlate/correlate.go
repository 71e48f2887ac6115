// Package correlate attaches neighbor table MAC addresses to gluster records
// by exact IP address match.
package correlate

import (
	"context"

	"glustermon/internal/arp"
	"glustermon/pkg/models"
	"glustermon/pkg/utils"
)

// Peers sets MAC on the first peer whose hostname equals an entry's IP
func Peers(ctx context.Context, src arp.Source, peers []models.Peer) error {
	return consume(ctx, src, func(n models.Neighbor) {
		for i := range peers {
			if peers[i].Hostname == n.IP {
				peers[i].MAC = n.MAC
				return
			}
		}
	})
}

// Bricks sets MAC on the first brick whose address part equals an entry's IP
func Bricks(ctx context.Context, src arp.Source, info *models.VolumeInfo) error {
	return consume(ctx, src, func(n models.Neighbor) {
		for i := range info.Bricks {
			if utils.BrickHost(info.Bricks[i].Config) == n.IP {
				info.Bricks[i].MAC = n.MAC
				return
			}
		}
	})
}

// consume applies fn to every entry and waits for the end of the table
func consume(ctx context.Context, src arp.Source, fn func(models.Neighbor)) error {
	entries, errc := src.Entries(ctx)

	for n := range entries {
		fn(n)
	}

	return <-errc
}
