package models

import (
	"encoding/json"
	"time"
)

// Peer represents a member of the gluster trusted storage pool
type Peer struct {
	UUID     string `json:"uuid"`
	Hostname string `json:"hostname"`
	State    string `json:"state"`
	MAC      string `json:"mac,omitempty"`
}

// Brick is a single storage contribution of a volume, "address:path"
type Brick struct {
	Config string `json:"config"`
	MAC    string `json:"mac,omitempty"`
}

// VolumeInfo holds the key/value output of `gluster volume info` plus the
// bricks derived from the BrickN keys, in numeric order.
type VolumeInfo struct {
	Fields map[string]string
	Bricks []Brick
}

// Get returns the raw value of a field
func (v *VolumeInfo) Get(key string) (string, bool) {
	value, ok := v.Fields[key]
	return value, ok
}

// MarshalJSON encodes the volume as a flat object; "Bricks" holds the derived
// brick list and shadows the empty "Bricks:" header line.
func (v VolumeInfo) MarshalJSON() ([]byte, error) {
	flat := make(map[string]interface{}, len(v.Fields)+1)
	for key, value := range v.Fields {
		flat[key] = value
	}

	bricks := v.Bricks
	if bricks == nil {
		bricks = []Brick{}
	}
	flat["Bricks"] = bricks

	return json.Marshal(flat)
}

// Neighbor is one entry of the local address resolution table
type Neighbor struct {
	IP  string `json:"ip"`
	MAC string `json:"mac"`
}

// OUIEntry represents MAC address vendor information
type OUIEntry struct {
	OUI         string `json:"oui"`
	Private     bool   `json:"isPrivate"`
	Company     string `json:"companyName"`
	Address     string `json:"companyAddress"`
	CountryCode string `json:"countryCode"`
	BlockSize   string `json:"assignmentBlockSize"`
	Created     string `json:"dateCreated"`
	Updated     string `json:"dateUpdated"`
}

// LogEntry records one operation call
type LogEntry struct {
	Timestamp time.Time     `json:"when"`
	UnixTime  int64         `json:"utime"`
	Method    string        `json:"method"`
	Caller    string        `json:"caller"`
	Elapsed   time.Duration `json:"elapsed"`
	Success   bool          `json:"success"`
	Message   string        `json:"message,omitempty"`
}
