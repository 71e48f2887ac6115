// Package mac resolves MAC address vendors from an OUI database file of
// JSON lines (macaddress.io export format).
package mac

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"glustermon/pkg/models"
	"glustermon/pkg/utils"
)

var (
	unknownEntry = &models.OUIEntry{
		OUI:     "00:00:00:00:00:00",
		Company: "UNKNOWN",
		Address: "UNKNOWN",
	}
	privateEntry = &models.OUIEntry{
		Private: true,
		Company: "Local/Privacy MAC",
		Address: "UNKNOWN",
	}
)

// Database handles MAC address OUI lookups
type Database struct {
	filename  string
	preload   bool
	cache     map[string]*models.OUIEntry
	preloaded bool
	mu        sync.RWMutex
	logger    zerolog.Logger
}

// NewDatabase creates a new MAC database instance
func NewDatabase(filename string, preload bool, logger zerolog.Logger) (*Database, error) {
	if _, err := os.Stat(filename); err != nil {
		return nil, fmt.Errorf("failed to open MAC database: %w", err)
	}

	db := &Database{
		filename: filename,
		preload:  preload,
		cache:    make(map[string]*models.OUIEntry),
		logger:   logger,
	}

	if preload {
		if err := db.Reload(); err != nil {
			logger.Warn().Err(err).Msg("failed to preload MAC database")
		}
	}

	return db, nil
}

// Filename returns the path of the backing file
func (db *Database) Filename() string {
	return db.filename
}

// Reload drops cached entries and, when preloading, reads the file again
func (db *Database) Reload() error {
	if !db.preload {
		db.mu.Lock()
		db.cache = make(map[string]*models.OUIEntry)
		db.mu.Unlock()
		return nil
	}

	cache := make(map[string]*models.OUIEntry)
	err := db.scan(func(prefix string, entry *models.OUIEntry) bool {
		cache[prefix] = entry
		return true
	})
	if err != nil {
		return err
	}

	db.mu.Lock()
	db.cache = cache
	db.preloaded = true
	db.mu.Unlock()

	db.logger.Info().Int("entries", len(cache)).Str("file", db.filename).Msg("loaded MAC database")
	return nil
}

// Lookup finds OUI information for a MAC address
func (db *Database) Lookup(mac string) *models.OUIEntry {
	mac = strings.ToUpper(utils.NormalizeMAC(mac))

	db.mu.RLock()
	// Try cache first with progressively shorter prefixes
	for i := len(mac); i > 0; i-- {
		if entry, exists := db.cache[mac[:i]]; exists {
			db.mu.RUnlock()
			return entry
		}
	}
	preloaded := db.preloaded
	db.mu.RUnlock()

	if !preloaded {
		if entry := db.searchFile(mac); entry != nil {
			return entry
		}
	}

	// registered OUIs such as QEMU's 52:54:00 also carry the local bit
	if hw, err := net.ParseMAC(mac); err == nil && utils.IsPrivateMAC(hw) {
		return privateEntry
	}
	return unknownEntry
}

// searchFile searches the database file for a MAC prefix and caches a hit
func (db *Database) searchFile(mac string) *models.OUIEntry {
	var found *models.OUIEntry
	var foundPrefix string

	err := db.scan(func(prefix string, entry *models.OUIEntry) bool {
		if strings.HasPrefix(mac, prefix) {
			found, foundPrefix = entry, prefix
			return false
		}
		return true
	})
	if err != nil {
		db.logger.Warn().Err(err).Msg("MAC database search failed")
	}

	if found != nil {
		db.mu.Lock()
		db.cache[foundPrefix] = found
		db.mu.Unlock()
	}
	return found
}

// scan calls fn for every well-formed line until fn returns false
func (db *Database) scan(fn func(prefix string, entry *models.OUIEntry) bool) error {
	file, err := os.Open(db.filename)
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		var entry models.OUIEntry
		if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil || entry.OUI == "" {
			continue
		}
		if !fn(strings.ToUpper(entry.OUI), &entry) {
			return nil
		}
	}
	return scanner.Err()
}
