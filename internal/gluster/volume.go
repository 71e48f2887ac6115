package gluster

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"glustermon/pkg/models"
)

var brickKey = regexp.MustCompile(`^Brick([0-9]+)$`)

// VolumeInfoCommand returns the command describing volume name
func VolumeInfoCommand(name string) string {
	return "gluster volume info " + name
}

// ParseVolumeInfo parses `gluster volume info <name>` output into its
// key/value fields. Only the first colon of a line separates key from value,
// so "Brick1: 192.168.0.201:/bricks/brick1/xosan1" keeps its full value.
// Repeated keys keep the last value.
func ParseVolumeInfo(output string) *models.VolumeInfo {
	info := &models.VolumeInfo{Fields: make(map[string]string)}

	for _, line := range strings.Split(strings.TrimSpace(output), "\n") {
		tokens := strings.Split(line, ":")
		for i := range tokens {
			tokens[i] = strings.TrimSpace(tokens[i])
		}
		info.Fields[tokens[0]] = strings.Join(tokens[1:], ":")
	}

	info.Bricks = bricks(info.Fields)
	return info
}

type numberedKey struct {
	key string
	n   uint64
}

// bricks collects BrickN fields ordered by N, not by key text
func bricks(fields map[string]string) []models.Brick {
	var keys []numberedKey
	for key := range fields {
		m := brickKey.FindStringSubmatch(key)
		if m == nil {
			continue
		}
		n, err := strconv.ParseUint(m[1], 10, 64)
		if err != nil {
			// too many digits for uint64; order it last
			n = ^uint64(0)
		}
		keys = append(keys, numberedKey{key: key, n: n})
	}

	sort.Slice(keys, func(i, j int) bool {
		if keys[i].n != keys[j].n {
			return keys[i].n < keys[j].n
		}
		return keys[i].key < keys[j].key
	})

	result := make([]models.Brick, 0, len(keys))
	for _, k := range keys {
		result = append(result, models.Brick{Config: fields[k.key]})
	}
	return result
}
