// Package xosan implements the gluster administration operations: peer
// discovery and volume info, both enriched with neighbor table MACs.
package xosan

import (
	"context"
	"errors"
	"regexp"

	"github.com/rs/zerolog"

	"glustermon/internal/arp"
	"glustermon/internal/correlate"
	"glustermon/internal/gluster"
	"glustermon/internal/remote"
	"glustermon/pkg/models"
	"glustermon/pkg/utils"
)

var (
	ErrInvalidVolumeName = errors.New("invalid volume name")
	ErrMissingHost       = errors.New("host address is required")
)

// volume names end up in a remote shell command line
var volumeName = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// Service runs the operations. It holds no per-call state and is safe for
// concurrent use.
type Service struct {
	executor  remote.Executor
	neighbors arp.Source
	logger    zerolog.Logger
}

// NewService creates a new service
func NewService(executor remote.Executor, neighbors arp.Source, logger zerolog.Logger) *Service {
	return &Service{
		executor:  executor,
		neighbors: neighbors,
		logger:    logger,
	}
}

// GetPeers lists the trusted storage pool as seen from ip
func (s *Service) GetPeers(ctx context.Context, ip string) ([]models.Peer, error) {
	if ip == "" {
		return nil, ErrMissingHost
	}

	output, err := s.executor.Run(ctx, ip, gluster.PoolListCommand)
	if err != nil {
		return nil, err
	}

	peers := gluster.ParsePeers(output, ip)
	for _, verr := range gluster.ValidatePeers(peers) {
		utils.CheckWarn(s.logger.With().Str("host", ip).Logger(), verr, "suspicious pool list line")
	}

	if err := correlate.Peers(ctx, s.neighbors, peers); err != nil {
		return nil, err
	}

	s.logger.Debug().Str("host", ip).Int("peers", len(peers)).Msg("listed peers")
	return peers, nil
}

// GetVolumeInfo describes volume name as seen from ip
func (s *Service) GetVolumeInfo(ctx context.Context, ip, name string) (*models.VolumeInfo, error) {
	if ip == "" {
		return nil, ErrMissingHost
	}
	if !volumeName.MatchString(name) {
		return nil, utils.WrapError(ErrInvalidVolumeName, name)
	}

	output, err := s.executor.Run(ctx, ip, gluster.VolumeInfoCommand(name))
	if err != nil {
		return nil, err
	}

	info := gluster.ParseVolumeInfo(output)
	for _, verr := range gluster.ValidateVolumeInfo(info) {
		utils.CheckWarn(s.logger.With().Str("host", ip).Str("volume", name).Logger(), verr, "suspicious volume info line")
	}

	if err := correlate.Bricks(ctx, s.neighbors, info); err != nil {
		return nil, err
	}

	s.logger.Debug().Str("host", ip).Str("volume", name).Int("bricks", len(info.Bricks)).Msg("read volume info")
	return info, nil
}
