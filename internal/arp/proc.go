package arp

import (
	"context"
	"os"
	"strings"

	"glustermon/pkg/models"
	"glustermon/pkg/utils"
)

// ProcSource reads a /proc/net/arp formatted file
type ProcSource struct {
	Path string
}

// NewProcSource returns a source for path, /proc/net/arp when empty
func NewProcSource(path string) *ProcSource {
	if path == "" {
		path = "/proc/net/arp"
	}
	return &ProcSource{Path: path}
}

func (s *ProcSource) Entries(ctx context.Context) (<-chan models.Neighbor, <-chan error) {
	return emit(ctx, s.Path, func(context.Context) ([]models.Neighbor, error) {
		content, err := os.ReadFile(s.Path)
		if err != nil {
			return nil, err
		}
		return ParseProcARP(string(content)), nil
	})
}

// ParseProcARP parses the kernel table:
//
//	IP address       HW type     Flags       HW address            Mask     Device
//	192.168.0.202    0x1         0x2         52:54:00:12:34:56     *        eth0
//
// Incomplete entries (flags 0x0 or an all-zero address) are skipped.
func ParseProcARP(content string) []models.Neighbor {
	var neighbors []models.Neighbor

	for i, line := range strings.Split(content, "\n") {
		if i == 0 {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 4 {
			continue
		}
		if fields[2] == "0x0" || utils.IsZeroMAC(fields[3]) {
			continue
		}

		neighbors = append(neighbors, models.Neighbor{
			IP:  fields[0],
			MAC: utils.NormalizeMAC(fields[3]),
		})
	}

	return neighbors
}
