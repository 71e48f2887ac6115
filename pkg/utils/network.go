package utils

import (
	"net"
	"strings"
)

// IsPrivateMAC checks if a MAC address is a locally administered (private) MAC
func IsPrivateMAC(mac net.HardwareAddr) bool {
	if len(mac) == 0 {
		return false
	}
	// Check if the locally administered bit (bit 1 of the first octet) is set
	return (mac[0] & 0x02) != 0
}

// NormalizeMAC normalizes a MAC address string to lowercase with colons.
// Unparseable input is returned unchanged.
func NormalizeMAC(mac string) string {
	if hwAddr, err := net.ParseMAC(mac); err == nil {
		return hwAddr.String()
	}
	return mac
}

// IsZeroMAC reports whether mac is the all-zero address the kernel uses for
// unresolved neighbors.
func IsZeroMAC(mac string) bool {
	hwAddr, err := net.ParseMAC(mac)
	if err != nil {
		return false
	}
	for _, b := range hwAddr {
		if b != 0 {
			return false
		}
	}
	return true
}

// BrickHost returns the address part of a brick "address:path" string
func BrickHost(config string) string {
	host, _, _ := strings.Cut(config, ":")
	return host
}
