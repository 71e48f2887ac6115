package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/ini.v1"
)

// Neighbor table sources
const (
	ARPSourceProc    = "proc"
	ARPSourceCommand = "command"
)

// Config holds all application configuration
type Config struct {
	// Remote execution
	SSHBinary  string
	SSHUser    string
	SSHOptions []string

	// Neighbor table
	ARPSource  string
	ARPFile    string
	ARPCommand string

	// HTTP API
	HTTPListen        string
	AdminUser         string
	AdminPasswordHash string

	// Vendor database
	MACDBFile    string
	MACDBPreload bool

	// Logging
	LogLevel  string
	LogOutput string
	Debug     bool
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		SSHBinary:  "ssh",
		SSHUser:    "root",
		ARPSource:  ARPSourceProc,
		ARPFile:    "/proc/net/arp",
		ARPCommand: "arp",
		HTTPListen: "127.0.0.1:8068",
		AdminUser:  "admin",
		LogLevel:   "info",
		LogOutput:  "stdout",
	}
}

// LoadFromFile loads configuration from INI file
func (c *Config) LoadFromFile(filename string) error {
	cfg, err := ini.LoadSources(ini.LoadOptions{Insensitive: true}, filename)
	if err != nil {
		return err
	}

	section := cfg.Section("")
	c.SSHBinary = section.Key("sshbinary").MustString(c.SSHBinary)
	c.SSHUser = section.Key("sshuser").MustString(c.SSHUser)
	if section.HasKey("sshoptions") {
		c.SSHOptions = strings.Fields(section.Key("sshoptions").String())
	}
	c.ARPSource = section.Key("arpsource").MustString(c.ARPSource)
	c.ARPFile = section.Key("arpfile").MustString(c.ARPFile)
	c.ARPCommand = section.Key("arpcommand").MustString(c.ARPCommand)
	c.HTTPListen = section.Key("httplisten").MustString(c.HTTPListen)
	c.AdminUser = section.Key("adminuser").MustString(c.AdminUser)
	c.AdminPasswordHash = section.Key("adminpasswordhash").MustString(c.AdminPasswordHash)
	c.MACDBFile = section.Key("macdbfile").MustString(c.MACDBFile)
	c.MACDBPreload = section.Key("macdbpreload").MustBool(c.MACDBPreload)
	c.LogLevel = section.Key("loglevel").MustString(c.LogLevel)
	c.LogOutput = section.Key("logoutput").MustString(c.LogOutput)
	c.Debug = section.Key("debug").MustBool(c.Debug)

	return nil
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() {
	if v := os.Getenv("SSHBINARY"); v != "" {
		c.SSHBinary = v
	}
	if v := os.Getenv("SSHUSER"); v != "" {
		c.SSHUser = v
	}
	if v := os.Getenv("SSHOPTIONS"); v != "" {
		c.SSHOptions = strings.Fields(v)
	}
	if v := os.Getenv("ARPSOURCE"); v != "" {
		c.ARPSource = v
	}
	if v := os.Getenv("ARPFILE"); v != "" {
		c.ARPFile = v
	}
	if v := os.Getenv("ARPCOMMAND"); v != "" {
		c.ARPCommand = v
	}
	if v := os.Getenv("HTTPLISTEN"); v != "" {
		c.HTTPListen = v
	}
	if v := os.Getenv("ADMINUSER"); v != "" {
		c.AdminUser = v
	}
	if v := os.Getenv("ADMINPASSWORDHASH"); v != "" {
		c.AdminPasswordHash = v
	}
	if v := os.Getenv("MACDBFILE"); v != "" {
		c.MACDBFile = v
	}
	if v := os.Getenv("MACDBPRELOAD"); v != "" {
		c.MACDBPreload, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("LOGLEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("LOGOUTPUT"); v != "" {
		c.LogOutput = v
	}
	if v := os.Getenv("DEBUG"); v != "" {
		c.Debug, _ = strconv.ParseBool(v)
	}
}

// Validate checks values that have a closed set of choices
func (c *Config) Validate() error {
	switch c.ARPSource {
	case ARPSourceProc, ARPSourceCommand:
	default:
		return fmt.Errorf("unknown arpsource %q (want %q or %q)", c.ARPSource, ARPSourceProc, ARPSourceCommand)
	}
	if c.SSHBinary == "" {
		return fmt.Errorf("sshbinary must not be empty")
	}
	return nil
}

// New creates a new configuration instance. A missing config file is not an
// error; the returned bool reports whether the file was read.
func New(configFile string) (*Config, bool, error) {
	cfg := DefaultConfig()

	loaded := false
	if configFile != "" {
		if _, err := os.Stat(configFile); err == nil {
			if err := cfg.LoadFromFile(configFile); err != nil {
				return nil, false, fmt.Errorf("failed to load config file %s: %w", configFile, err)
			}
			loaded = true
		}
	}

	// Override with environment variables
	cfg.LoadFromEnv()

	if err := cfg.Validate(); err != nil {
		return nil, loaded, err
	}

	return cfg, loaded, nil
}
