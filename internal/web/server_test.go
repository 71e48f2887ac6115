package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"glustermon/internal/arp"
	"glustermon/internal/config"
	"glustermon/internal/remote"
	"glustermon/internal/xosan"
	"glustermon/pkg/models"
)

type fakeExecutor struct {
	outputs map[string]string
	err     error
}

func (f *fakeExecutor) Run(_ context.Context, _, command string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.outputs[command], nil
}

type fakeSource struct {
	neighbors []models.Neighbor
	err       error
}

func (f *fakeSource) Entries(context.Context) (<-chan models.Neighbor, <-chan error) {
	entries := make(chan models.Neighbor, len(f.neighbors))
	errc := make(chan error, 1)
	for _, n := range f.neighbors {
		entries <- n
	}
	close(entries)
	if f.err != nil {
		errc <- &arp.EnumerationError{Source: "fake", Err: f.err}
	} else {
		errc <- nil
	}
	close(errc)
	return entries, errc
}

type fakeVendors map[string]string

func (f fakeVendors) Lookup(mac string) *models.OUIEntry {
	return &models.OUIEntry{Company: f[mac]}
}

const (
	adminUser     = "admin"
	adminPassword = "s3cret"
)

const poolList = "UUID\tHostname\tState\n" +
	"953f8259-5ddf-4459-9846-933433cc7787\t192.168.0.202\tConnected\n" +
	"1ec28018-92ea-4662-b3da-fcb11c128c07\tlocalhost\tConnected\n"

const volumeInfo = "Volume Name: xosan\nBricks:\nBrick2: 192.168.0.202:/bricks/b1\nBrick1: 192.168.0.201:/bricks/b1\n"

func newTestServer(t *testing.T, exec remote.Executor, src arp.Source) http.Handler {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.MinCost)
	require.NoError(t, err)

	cfg := config.DefaultConfig()
	cfg.AdminUser = adminUser
	cfg.AdminPasswordHash = string(hash)

	svc := xosan.NewService(exec, src, zerolog.Nop())
	vendors := fakeVendors{"52:54:00:aa:bb:01": "QEMU virtual NIC"}

	return NewServer(cfg, svc.Methods(), vendors, zerolog.Nop()).Handler()
}

func call(t *testing.T, h http.Handler, method, body string, auth bool) (*httptest.ResponseRecorder, APIResponse) {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/api/"+method, strings.NewReader(body))
	if auth {
		req.SetBasicAuth(adminUser, adminPassword)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var resp APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec, resp
}

func defaultExecutor() *fakeExecutor {
	return &fakeExecutor{outputs: map[string]string{
		"gluster pool list":         poolList,
		"gluster volume info xosan": volumeInfo,
	}}
}

var neighbors = []models.Neighbor{{IP: "192.168.0.201", MAC: "52:54:00:aa:bb:01"}}

func TestGetPeers(t *testing.T) {
	h := newTestServer(t, defaultExecutor(), &fakeSource{neighbors: neighbors})

	rec, resp := call(t, h, "xosan.getPeers", `{"ip":"192.168.0.201"}`, true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, resp.Success)

	assert.Equal(t, []interface{}{
		map[string]interface{}{
			"uuid":     "1ec28018-92ea-4662-b3da-fcb11c128c07",
			"hostname": "192.168.0.201",
			"state":    "Connected",
			"mac":      "52:54:00:aa:bb:01",
			"vendor":   "QEMU virtual NIC",
		},
		map[string]interface{}{
			"uuid":     "953f8259-5ddf-4459-9846-933433cc7787",
			"hostname": "192.168.0.202",
			"state":    "Connected",
		},
	}, resp.Data)
}

func TestGetVolumeInfo(t *testing.T) {
	h := newTestServer(t, defaultExecutor(), &fakeSource{neighbors: neighbors})

	rec, resp := call(t, h, "xosan.getVolumeInfo", `{"ip":"192.168.0.201","volumeName":"xosan"}`, true)
	require.Equal(t, http.StatusOK, rec.Code)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "xosan", data["Volume Name"])
	assert.Equal(t, "192.168.0.202:/bricks/b1", data["Brick2"])
	assert.Equal(t, []interface{}{
		map[string]interface{}{"config": "192.168.0.201:/bricks/b1", "mac": "52:54:00:aa:bb:01", "vendor": "QEMU virtual NIC"},
		map[string]interface{}{"config": "192.168.0.202:/bricks/b1"},
	}, data["Bricks"])
}

func TestRequiresAdmin(t *testing.T) {
	h := newTestServer(t, defaultExecutor(), &fakeSource{})

	rec, resp := call(t, h, "xosan.getPeers", `{"ip":"192.168.0.201"}`, false)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, resp.Success)
	assert.NotEmpty(t, rec.Header().Get("WWW-Authenticate"))

	req := httptest.NewRequest(http.MethodPost, "/api/xosan.getPeers", strings.NewReader(`{"ip":"h"}`))
	req.SetBasicAuth(adminUser, "wrong")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminDisabledWithoutHash(t *testing.T) {
	cfg := config.DefaultConfig()
	svc := xosan.NewService(defaultExecutor(), &fakeSource{}, zerolog.Nop())
	h := NewServer(cfg, svc.Methods(), nil, zerolog.Nop()).Handler()

	rec, resp := call(t, h, "xosan.getPeers", `{"ip":"192.168.0.201"}`, true)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, errAdminDisabled.Error(), resp.Error)
}

func TestParamValidation(t *testing.T) {
	h := newTestServer(t, defaultExecutor(), &fakeSource{})

	for _, tc := range []struct {
		method string
		body   string
	}{
		{"xosan.getPeers", `not json`},
		{"xosan.getPeers", `{}`},
		{"xosan.getPeers", `{"ip": 42}`},
		{"xosan.getPeers", `{"ip": "h", "extra": "x"}`},
		{"xosan.getVolumeInfo", `{"ip": "h"}`},
		{"xosan.getVolumeInfo", `{"ip": "h", "volumeName": "x; rm -rf /"}`},
	} {
		rec, resp := call(t, h, tc.method, tc.body, true)
		assert.Equal(t, http.StatusBadRequest, rec.Code, tc.body)
		assert.False(t, resp.Success, tc.body)
	}
}

func TestUnknownMethod(t *testing.T) {
	h := newTestServer(t, defaultExecutor(), &fakeSource{})

	rec, _ := call(t, h, "xosan.reboot", `{}`, true)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRemoteFailureSurfacesStderr(t *testing.T) {
	exec := &fakeExecutor{err: &remote.RemoteCommandError{ExitCode: 1, Stderr: "connection refused"}}
	h := newTestServer(t, exec, &fakeSource{})

	rec, resp := call(t, h, "xosan.getPeers", `{"ip":"192.168.0.201"}`, true)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "connection refused", resp.Error)
	assert.Nil(t, resp.Data)
}

func TestEnumerationFailure(t *testing.T) {
	h := newTestServer(t, defaultExecutor(), &fakeSource{err: assert.AnError})

	rec, resp := call(t, h, "xosan.getVolumeInfo", `{"ip":"192.168.0.201","volumeName":"xosan"}`, true)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Nil(t, resp.Data)
}

func TestListMethods(t *testing.T) {
	h := newTestServer(t, defaultExecutor(), &fakeSource{})

	req := httptest.NewRequest(http.MethodGet, "/api/methods", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data []xosan.Method `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 2)
	assert.Equal(t, "xosan.getPeers", resp.Data[0].Name)
	assert.Equal(t, "find a gluster server peers", resp.Data[0].Description)
	assert.Equal(t, "admin", resp.Data[1].Permission)
	assert.Contains(t, resp.Data[1].Params, "volumeName")
}

func TestHistory(t *testing.T) {
	h := newTestServer(t, defaultExecutor(), &fakeSource{})

	call(t, h, "xosan.getPeers", `{"ip":"192.168.0.201"}`, true)
	call(t, h, "xosan.getVolumeInfo", `{"ip":"192.168.0.201","volumeName":"missing"}`, true)

	req := httptest.NewRequest(http.MethodGet, "/api/history", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/history", nil)
	req.SetBasicAuth(adminUser, adminPassword)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data []models.LogEntry `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 2)
	assert.Equal(t, "xosan.getPeers", resp.Data[0].Method)
	assert.True(t, resp.Data[0].Success)
	assert.Equal(t, "xosan.getVolumeInfo", resp.Data[1].Method)
}
