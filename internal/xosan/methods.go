package xosan

import (
	"context"
	"fmt"
	"sort"
)

// PermissionAdmin marks methods reserved to administrators
const PermissionAdmin = "admin"

// Param describes one method parameter
type Param struct {
	Type     string `json:"type"`
	Optional bool   `json:"optional,omitempty"`
}

// Method is an operation exposed to the API and CLI layers
type Method struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Permission  string           `json:"permission"`
	Params      map[string]Param `json:"params"`

	Call func(ctx context.Context, params map[string]string) (interface{}, error) `json:"-"`
}

// CheckParams verifies that every required parameter is present
func (m *Method) CheckParams(params map[string]string) error {
	names := make([]string, 0, len(m.Params))
	for name := range m.Params {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if m.Params[name].Optional {
			continue
		}
		if _, ok := params[name]; !ok {
			return fmt.Errorf("missing parameter %q", name)
		}
	}
	return nil
}

// Methods returns the operations backed by s, keyed by name
func (s *Service) Methods() map[string]*Method {
	methods := []*Method{
		{
			Name:        "xosan.getPeers",
			Description: "find a gluster server peers",
			Permission:  PermissionAdmin,
			Params: map[string]Param{
				"ip": {Type: "string"},
			},
			Call: func(ctx context.Context, params map[string]string) (interface{}, error) {
				return s.GetPeers(ctx, params["ip"])
			},
		},
		{
			Name:        "xosan.getVolumeInfo",
			Description: "info on gluster volume",
			Permission:  PermissionAdmin,
			Params: map[string]Param{
				"ip":         {Type: "string"},
				"volumeName": {Type: "string"},
			},
			Call: func(ctx context.Context, params map[string]string) (interface{}, error) {
				return s.GetVolumeInfo(ctx, params["ip"], params["volumeName"])
			},
		},
	}

	byName := make(map[string]*Method, len(methods))
	for _, m := range methods {
		byName[m.Name] = m
	}
	return byName
}
