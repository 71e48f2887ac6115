package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"time"

	"glustermon/internal/arp"
	"glustermon/internal/remote"
	"glustermon/internal/xosan"
	"glustermon/pkg/models"
)

// maxBodyBytes bounds request bodies; params are a handful of short strings
const maxBodyBytes = 64 << 10

// APIResponse is the envelope of every API answer
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// PeerJSON is a peer with its MAC vendor
type PeerJSON struct {
	models.Peer
	Vendor string `json:"vendor,omitempty"`
}

// BrickJSON is a brick with its MAC vendor
type BrickJSON struct {
	models.Brick
	Vendor string `json:"vendor,omitempty"`
}

// handleMethods lists the available methods
func (s *Server) handleMethods(w http.ResponseWriter, r *http.Request) {
	methods := make([]*xosan.Method, 0, len(s.methods))
	for _, m := range s.methods {
		methods = append(methods, m)
	}
	sort.Slice(methods, func(i, j int) bool { return methods[i].Name < methods[j].Name })

	s.writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: methods})
}

// handleHistory lists recent calls; it exposes hosts, so it is admin only
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if err := s.authorizeAdmin(r); err != nil {
		w.Header().Set("WWW-Authenticate", `Basic realm="glustermon"`)
		s.writeJSONError(w, err.Error(), http.StatusUnauthorized)
		return
	}

	s.writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: s.history.GetLogs()})
}

// handleCall dispatches POST /api/{method} with a JSON object of params
func (s *Server) handleCall(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("method")
	method, exists := s.methods[name]
	if !exists {
		s.writeJSONError(w, fmt.Sprintf("unknown method %q", name), http.StatusNotFound)
		return
	}

	if method.Permission == xosan.PermissionAdmin {
		if err := s.authorizeAdmin(r); err != nil {
			s.logger.Warn().Str("remote", r.RemoteAddr).Str("method", name).Err(err).Msg("unauthorized call")
			w.Header().Set("WWW-Authenticate", `Basic realm="glustermon"`)
			s.writeJSONError(w, err.Error(), http.StatusUnauthorized)
			return
		}
	}

	params, err := s.decodeParams(w, r, method)
	if err != nil {
		s.writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	start := time.Now()
	result, err := method.Call(r.Context(), params)
	s.history.Record(name, r.RemoteAddr, time.Since(start), err)
	if err != nil {
		s.writeCallError(w, name, err)
		return
	}

	s.writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: s.decorate(result)})
}

// decodeParams reads the request body and checks it against the method params
func (s *Server) decodeParams(w http.ResponseWriter, r *http.Request, method *xosan.Method) (map[string]string, error) {
	var raw map[string]interface{}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&raw); err != nil {
		return nil, fmt.Errorf("invalid JSON request: %w", err)
	}

	params := make(map[string]string, len(raw))
	for key, value := range raw {
		param, declared := method.Params[key]
		if !declared {
			return nil, fmt.Errorf("unexpected parameter %q", key)
		}
		str, ok := value.(string)
		if param.Type == "string" && !ok {
			return nil, fmt.Errorf("parameter %q must be a string", key)
		}
		params[key] = str
	}

	if err := method.CheckParams(params); err != nil {
		return nil, err
	}
	return params, nil
}

// writeCallError maps operation failures to HTTP statuses
func (s *Server) writeCallError(w http.ResponseWriter, name string, err error) {
	var rce *remote.RemoteCommandError
	var enumErr *arp.EnumerationError

	switch {
	case errors.As(err, &rce):
		s.logger.Error().Err(err).Str("method", name).Msg("remote command failed")
		s.writeJSONError(w, rce.Stderr, http.StatusBadGateway)
	case errors.As(err, &enumErr):
		s.logger.Error().Err(err).Str("method", name).Msg("neighbor table enumeration failed")
		s.writeJSONError(w, err.Error(), http.StatusInternalServerError)
	case errors.Is(err, xosan.ErrInvalidVolumeName), errors.Is(err, xosan.ErrMissingHost):
		s.writeJSONError(w, err.Error(), http.StatusBadRequest)
	default:
		s.logger.Error().Err(err).Str("method", name).Msg("method failed")
		s.writeJSONError(w, err.Error(), http.StatusInternalServerError)
	}
}

// decorate adds MAC vendors to operation results
func (s *Server) decorate(result interface{}) interface{} {
	switch v := result.(type) {
	case []models.Peer:
		peers := make([]PeerJSON, len(v))
		for i, peer := range v {
			peers[i] = PeerJSON{Peer: peer, Vendor: s.vendor(peer.MAC)}
		}
		return peers
	case *models.VolumeInfo:
		flat := make(map[string]interface{}, len(v.Fields)+1)
		for key, value := range v.Fields {
			flat[key] = value
		}
		bricks := make([]BrickJSON, len(v.Bricks))
		for i, brick := range v.Bricks {
			bricks[i] = BrickJSON{Brick: brick, Vendor: s.vendor(brick.MAC)}
		}
		flat["Bricks"] = bricks
		return flat
	default:
		return result
	}
}

func (s *Server) vendor(mac string) string {
	if s.vendors == nil || mac == "" {
		return ""
	}
	if entry := s.vendors.Lookup(mac); entry != nil {
		return entry.Company
	}
	return ""
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, response APIResponse) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		s.logger.Error().Err(err).Msg("failed to encode JSON response")
	}
}

// writeJSONError writes an error response
func (s *Server) writeJSONError(w http.ResponseWriter, message string, statusCode int) {
	s.writeJSON(w, statusCode, APIResponse{Success: false, Error: message})
}
