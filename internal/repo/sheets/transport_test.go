package sheets

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/colinruark1/ocean-cleaning/internal/logging"
)

const disabledBody = `{"error": {
	"code": 403,
	"message": "Google Sheets API has not been used in project 123 before or it is disabled.",
	"errors": [{"message": "disabled", "domain": "usageLimits", "reason": "accessNotConfigured"}],
	"status": "PERMISSION_DENIED"
}}`

// sheetsAPI emulates the values endpoints of the Sheets REST API.
type sheetsAPI struct {
	mu       sync.Mutex
	disabled bool
	requests []string
	rows     [][]any
}

func (s *sheetsAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, r.Method+" "+r.URL.Path)
	w.Header().Set("Content-Type", "application/json")
	if s.disabled {
		w.WriteHeader(http.StatusForbidden)
		_, _ = io.WriteString(w, disabledBody)
		return
	}
	switch {
	case r.Method == http.MethodGet:
		_ = json.NewEncoder(w).Encode(map[string]any{"range": "Posts!A1:J3", "values": s.rows})
	case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, ":append"):
		var vr sheets.ValueRange
		_ = json.NewDecoder(r.Body).Decode(&vr)
		s.rows = append(s.rows, vr.Values...)
		_, _ = io.WriteString(w, `{"updates": {"updatedRows": 1}}`)
	default:
		_, _ = io.WriteString(w, `{}`)
	}
}

func newAPITransport(t *testing.T, h http.Handler) *APITransport {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	svc, err := sheets.NewService(context.Background(),
		option.WithEndpoint(srv.URL+"/"),
		option.WithoutAuthentication(),
		option.WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)
	return NewAPITransport(svc, "sheet-123")
}

// scriptApp emulates the Apps Script web app.
type scriptApp struct {
	mu       sync.Mutex
	requests []scriptRequest
	reply    string
}

func (s *scriptApp) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var req scriptRequest
	_ = json.NewDecoder(r.Body).Decode(&req)
	s.requests = append(s.requests, req)
	if s.reply != "" {
		_, _ = io.WriteString(w, s.reply)
		return
	}
	_, _ = io.WriteString(w, `{"success": true, "values": [["id","username"],["p-1","alice"],["p-2", 7]]}`)
}

func newScriptTransport(t *testing.T, h http.Handler) *ScriptTransport {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewScriptTransport(srv.URL, srv.Client())
}

func TestAPITransport(t *testing.T) {
	ctx := context.Background()
	api := &sheetsAPI{rows: [][]any{{"id", "username"}, {"p-1", "alice", 3.0}}}
	tr := newAPITransport(t, api)

	rows, err := tr.Get(ctx, "Posts!A:J")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"id", "username"}, {"p-1", "alice", "3"}}, rows)

	require.NoError(t, tr.Append(ctx, "Posts!A:J", []any{"p-2", "bob"}))
	require.NoError(t, tr.Update(ctx, "Posts!H2", [][]any{{4}}))
	require.NoError(t, tr.Clear(ctx, "Posts!A2:J2"))

	require.Len(t, api.requests, 4)
	assert.Contains(t, api.requests[0], "/v4/spreadsheets/sheet-123/values/")
	assert.Equal(t, []any{"p-2", "bob"}, api.rows[2])
}

func TestAPITransport_Disabled(t *testing.T) {
	tr := newAPITransport(t, &sheetsAPI{disabled: true})

	_, err := tr.Get(context.Background(), "Posts!A:J")
	require.Error(t, err)
	assert.True(t, IsAPIDisabled(err))
}

func TestIsAPIDisabled(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"legacy reason", &googleapi.Error{Code: 403, Errors: []googleapi.ErrorItem{{Reason: "accessNotConfigured"}}}, true},
		{"error info", &googleapi.Error{Code: 403, Details: []interface{}{map[string]interface{}{"reason": "SERVICE_DISABLED"}}}, true},
		{"message", &googleapi.Error{Code: 403, Message: "Sheets API has not been used in project 1"}, true},
		{"permission denied", &googleapi.Error{Code: 403, Message: "The caller does not have permission"}, false},
		{"not found", &googleapi.Error{Code: 404, Message: "it is disabled"}, false},
		{"other", assert.AnError, false},
		{"nil", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsAPIDisabled(tt.err))
		})
	}
}

func TestScriptTransport(t *testing.T) {
	ctx := context.Background()
	app := &scriptApp{}
	tr := newScriptTransport(t, app)

	rows, err := tr.Get(ctx, "Posts!A:J")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"id", "username"}, {"p-1", "alice"}, {"p-2", "7"}}, rows)

	require.NoError(t, tr.Append(ctx, "Posts!A:J", []any{"p-3", "kim"}))
	require.NoError(t, tr.Update(ctx, "Posts!H2", [][]any{{2}}))
	require.NoError(t, tr.Clear(ctx, "Posts!A2:J2"))

	require.Len(t, app.requests, 4)
	assert.Equal(t, scriptRequest{Action: "read", Range: "Posts!A:J"}, app.requests[0])
	assert.Equal(t, "append", app.requests[1].Action)
	assert.Equal(t, [][]any{{"p-3", "kim"}}, app.requests[1].Values)
	assert.Equal(t, "update", app.requests[2].Action)
	assert.Equal(t, "clear", app.requests[3].Action)
}

func TestScriptTransport_Failures(t *testing.T) {
	ctx := context.Background()

	tr := newScriptTransport(t, &scriptApp{reply: `{"success": false, "error": "sheet not found"}`})
	err := tr.Append(ctx, "Nope!A:J", []any{"x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sheet not found")

	tr = newScriptTransport(t, &scriptApp{reply: `<html>login</html>`})
	_, err = tr.Get(ctx, "Posts!A:J")
	assert.ErrorContains(t, err, "decode response")

	tr = newScriptTransport(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	_, err = tr.Get(ctx, "Posts!A:J")
	assert.ErrorContains(t, err, "unexpected status 500")
}

func TestFallbackTransport(t *testing.T) {
	ctx := context.Background()
	api := &sheetsAPI{disabled: true}
	app := &scriptApp{}
	tr := NewFallbackTransport(newAPITransport(t, api), newScriptTransport(t, app), logging.Discard())

	rows, err := tr.Get(ctx, "Posts!A:J")
	require.NoError(t, err)
	assert.Len(t, rows, 3)
	require.NoError(t, tr.Append(ctx, "Posts!A:J", []any{"p-3"}))
	require.NoError(t, tr.Update(ctx, "Posts!H2", [][]any{{1}}))
	require.NoError(t, tr.Clear(ctx, "Posts!A2:J2"))

	assert.Len(t, api.requests, 4, "api tried first every time")
	assert.Len(t, app.requests, 4)
}

func TestFallbackTransport_OtherErrorsPropagate(t *testing.T) {
	app := &scriptApp{}
	failing := newAPITransport(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = io.WriteString(w, `{"error": {"code": 403, "message": "The caller does not have permission", "status": "PERMISSION_DENIED"}}`)
	}))
	tr := NewFallbackTransport(failing, newScriptTransport(t, app), logging.Discard())

	_, err := tr.Get(context.Background(), "Posts!A:J")
	require.Error(t, err)
	var gerr *googleapi.Error
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, http.StatusForbidden, gerr.Code)
	assert.Empty(t, app.requests)
}

func TestNewTransport(t *testing.T) {
	ctx := context.Background()

	_, err := NewTransport(ctx, Options{SpreadsheetID: "x"}, logging.Discard())
	assert.Error(t, err)

	tr, err := NewTransport(ctx, Options{AppsScriptURL: "http://script"}, logging.Discard())
	require.NoError(t, err)
	assert.IsType(t, &ScriptTransport{}, tr)

	tr, err = NewTransport(ctx, Options{APIKey: "k", AppsScriptURL: "http://script"}, logging.Discard())
	require.NoError(t, err)
	assert.IsType(t, &FallbackTransport{}, tr)

	tr, err = NewTransport(ctx, Options{APIKey: "k"}, logging.Discard())
	require.NoError(t, err)
	assert.IsType(t, &APITransport{}, tr)
}

func TestOpen_ThroughScript(t *testing.T) {
	app := &scriptApp{reply: `{"success": true, "values": []}`}
	srv := httptest.NewServer(app)
	t.Cleanup(srv.Close)

	store, err := Open(context.Background(), Options{AppsScriptURL: srv.URL}, logging.Discard())
	require.NoError(t, err)
	require.NotNil(t, store.Users)

	// three header reads, three header writes
	require.Len(t, app.requests, 6)
	assert.Equal(t, scriptRequest{Action: "read", Range: "Users!A1:J1"}, app.requests[0])
	assert.Equal(t, "update", app.requests[1].Action)
	assert.Equal(t, "Events!A1:N1", app.requests[3].Range)
	assert.Equal(t, "Posts!A1:J1", app.requests[5].Range)
}
