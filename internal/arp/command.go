package arp

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"glustermon/pkg/models"
	"glustermon/pkg/utils"
)

// CommandSource runs `arp -an`, for systems without /proc/net/arp
type CommandSource struct {
	Binary string
}

// NewCommandSource returns a source running binary, "arp" when empty
func NewCommandSource(binary string) *CommandSource {
	if binary == "" {
		binary = "arp"
	}
	return &CommandSource{Binary: binary}
}

func (s *CommandSource) Entries(ctx context.Context) (<-chan models.Neighbor, <-chan error) {
	return emit(ctx, s.Binary+" -an", func(ctx context.Context) ([]models.Neighbor, error) {
		cmd := exec.CommandContext(ctx, s.Binary, "-an")

		var stderr bytes.Buffer
		cmd.Stderr = &stderr

		output, err := cmd.Output()
		if err != nil {
			if msg := strings.TrimSpace(stderr.String()); msg != "" {
				return nil, fmt.Errorf("%w: %s", err, msg)
			}
			return nil, err
		}
		return ParseARPCommand(string(output)), nil
	})
}

// ParseARPCommand parses BSD style `arp -an` output:
//
//	? (192.168.0.202) at 52:54:00:12:34:56 [ether] on eth0
//	? (192.168.0.9) at <incomplete> on eth0
func ParseARPCommand(output string) []models.Neighbor {
	var neighbors []models.Neighbor

	for _, line := range strings.Split(output, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 4 || fields[2] != "at" {
			continue
		}

		ip := strings.TrimSuffix(strings.TrimPrefix(fields[1], "("), ")")
		mac := fields[3]
		if strings.HasPrefix(mac, "<") || utils.IsZeroMAC(mac) {
			continue
		}

		neighbors = append(neighbors, models.Neighbor{
			IP:  ip,
			MAC: utils.NormalizeMAC(mac),
		})
	}

	return neighbors
}
