package rpc

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedServer answers /jsonrpc with canned results keyed by service
// method, recording every request for inspection.
type scriptedServer struct {
	t        *testing.T
	results  map[string]string
	requests []rpcRequest
}

func newScriptedServer(t *testing.T, results map[string]string) (*scriptedServer, *httptest.Server) {
	s := &scriptedServer{t: t, results: results}
	srv := httptest.NewServer(http.HandlerFunc(s.handle))
	t.Cleanup(srv.Close)
	return s, srv
}

func (s *scriptedServer) handle(w http.ResponseWriter, r *http.Request) {
	assert.Equal(s.t, "/jsonrpc", r.URL.Path)

	var req rpcRequest
	require.NoError(s.t, json.NewDecoder(r.Body).Decode(&req))
	s.requests = append(s.requests, req)

	result, ok := s.results[req.Params.Method]
	if !ok {
		fmt.Fprintf(w, `{"jsonrpc":"2.0","error":{"code":1,"message":"no script for %s"}}`,
			req.Params.Method)
		return
	}
	fmt.Fprintf(w, `{"jsonrpc":"2.0","result":%s}`, result)
}

func login(t *testing.T, c *Client) {
	t.Helper()
	require.NoError(t, c.Authenticate())
}

func TestClientAuthenticate(t *testing.T) {
	srv, ts := newScriptedServer(t, map[string]string{"login": "7"})
	c := NewClient(ts.URL, "warehouse", "alice", "secret", false)
	login(t, c)

	require.Len(t, srv.requests, 1)
	req := srv.requests[0]
	assert.Equal(t, "2.0", req.Jsonrpc)
	assert.Equal(t, "common", req.Params.Service)
	assert.Equal(t, []any{"warehouse", "alice", "secret"}, req.Params.Args)
}

func TestClientAuthenticateRefused(t *testing.T) {
	_, ts := newScriptedServer(t, map[string]string{"login": "false"})
	c := NewClient(ts.URL, "warehouse", "alice", "wrong", false)
	assert.Error(t, c.Authenticate())
}

func TestClientCallWiresScannerArgs(t *testing.T) {
	srv, ts := newScriptedServer(t, map[string]string{
		"login":      "7",
		"execute_kw": `["U", ["hello"], false]`,
	})
	c := NewClient(ts.URL, "warehouse", "alice", "secret", false)
	login(t, c)

	reply, err := c.Call("TERM01", "action", "barcode123")
	require.NoError(t, err)
	assert.Equal(t, "U", reply.Code)
	assert.Equal(t, []string{"hello"}, reply.Lines())

	req := srv.requests[1]
	assert.Equal(t, "object", req.Params.Service)
	assert.Equal(t, "execute_kw", req.Params.Method)
	require.Len(t, req.Params.Args, 6)
	assert.Equal(t, "warehouse", req.Params.Args[0])
	assert.Equal(t, 7.0, req.Params.Args[1])
	assert.Equal(t, "scanner.hardware", req.Params.Args[3])
	assert.Equal(t, "scanner_call", req.Params.Args[4])
	assert.Equal(t,
		[]any{"TERM01", "action", "barcode123", "keyboard"},
		req.Params.Args[5])
}

func TestClientCallSendsFalseForNilMessage(t *testing.T) {
	srv, ts := newScriptedServer(t, map[string]string{
		"login":      "7",
		"execute_kw": `["F", null, false]`,
	})
	c := NewClient(ts.URL, "warehouse", "alice", "secret", false)
	login(t, c)

	_, err := c.Call("TERM01", "end", nil)
	require.NoError(t, err)

	args := srv.requests[1].Params.Args[5].([]any)
	assert.Equal(t, false, args[2])
}

func TestClientCheck(t *testing.T) {
	_, ts := newScriptedServer(t, map[string]string{
		"login":      "7",
		"execute_kw": `[42, "Inventory"]`,
	})
	c := NewClient(ts.URL, "warehouse", "alice", "secret", false)
	login(t, c)

	s, err := c.Check("TERM01")
	require.NoError(t, err)
	assert.Equal(t, 42, s.ID)
	assert.Equal(t, "Inventory", s.Name)
}

func TestClientRequiresAuthentication(t *testing.T) {
	c := NewClient("http://localhost:1", "warehouse", "alice", "secret", false)
	_, err := c.Call("TERM01", "action", nil)
	assert.Error(t, err)
}

func TestClientSurfacesServerErrorMessage(t *testing.T) {
	e := &rpcError{
		Message: "Odoo Server Error",
		Data:    json.RawMessage(`{"message": "Invalid barcode\n"}`),
	}
	assert.Equal(t, "server error: Invalid barcode", e.Error())

	e = &rpcError{Message: "boom"}
	assert.Equal(t, "server error: boom", e.Error())
}
