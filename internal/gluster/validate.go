package gluster

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"glustermon/pkg/models"
	"glustermon/pkg/utils"
)

// ValidatePeers reports peers that look like the product of a malformed line
func ValidatePeers(peers []models.Peer) []error {
	var errors []error

	for i, peer := range peers {
		if _, err := uuid.Parse(peer.UUID); err != nil {
			errors = append(errors, fmt.Errorf("peer %d: invalid uuid %q: %w", i+1, peer.UUID, err))
		}
		if peer.Hostname == "" {
			errors = append(errors, fmt.Errorf("peer %d: empty hostname", i+1))
		}
		if peer.State == "" {
			errors = append(errors, fmt.Errorf("peer %d: empty state", i+1))
		}
	}

	return errors
}

// ValidateVolumeInfo reports lines without a key and bricks without an
// address:path value
func ValidateVolumeInfo(info *models.VolumeInfo) []error {
	var errors []error

	if _, ok := info.Fields[""]; ok {
		errors = append(errors, fmt.Errorf("line without key"))
	}
	if _, ok := info.Fields["Volume Name"]; !ok {
		errors = append(errors, fmt.Errorf("missing Volume Name"))
	}
	for i, brick := range info.Bricks {
		if !strings.Contains(brick.Config, ":") || utils.BrickHost(brick.Config) == "" {
			errors = append(errors, fmt.Errorf("brick %d: %q is not address:path", i+1, brick.Config))
		}
	}

	return errors
}
