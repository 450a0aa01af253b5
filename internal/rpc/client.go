// Package rpc implements the remote collaborator surface of the sentinel
// client: an Odoo JSON-RPC connection to the scanner.hardware model, and
// the parsing of its replies into a normalized form.
package rpc

import (
	"bytes"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync/atomic"

	"sentinel/internal/log"
)

// inputChannel identifies this client to the server. Constant: the
// sentinel is always a keyboard-driven terminal.
const inputChannel = "keyboard"

const scannerModel = "scanner.hardware"

// Connection is the remote RPC surface consumed by the session. The
// hardware code is passed per call so the session owns terminal identity.
type Connection interface {
	// Call invokes scanner_call(code, action, message, "keyboard") and
	// returns the parsed reply. A nil message is sent as false.
	Call(hardwareCode, action string, message any) (*Reply, error)
	// Check invokes scanner_check(code) and reports the scenario the
	// server believes this terminal is in.
	Check(hardwareCode string) (Scenario, error)
}

// Scenario is the server's view of what this terminal is doing.
// A zero value means the terminal sits at the top-level menu. Active is
// set when the server reports a scenario without a concrete id.
type Scenario struct {
	ID     int
	Active bool
	Name   string
}

// InProgress reports whether any scenario is running.
func (s Scenario) InProgress() bool {
	return s.Active || s.ID != 0
}

func (s Scenario) String() string {
	switch {
	case s.ID != 0 && s.Name != "":
		return fmt.Sprintf("%d (%s)", s.ID, s.Name)
	case s.ID != 0:
		return fmt.Sprintf("%d", s.ID)
	case s.Active:
		return "active"
	default:
		return "none"
	}
}

// Client is a JSON-RPC 2.0 client for an Odoo server.
type Client struct {
	url      string
	db       string
	login    string
	password string
	uid      int
	httpc    *http.Client
	nextID   atomic.Int64
}

// NewClient builds a client for the given server. Authenticate must be
// called before any scanner method. The HTTP client carries no timeout:
// a scanner_call blocks for as long as the operator-facing step takes.
func NewClient(url, db, login, password string, insecure bool) *Client {
	transport := http.DefaultTransport
	if insecure {
		transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}
	return &Client{
		url:      strings.TrimRight(url, "/"),
		db:       db,
		login:    login,
		password: password,
		httpc:    &http.Client{Transport: transport},
	}
}

type rpcRequest struct {
	Jsonrpc string    `json:"jsonrpc"`
	Method  string    `json:"method"`
	Params  rpcParams `json:"params"`
	ID      int64     `json:"id"`
}

type rpcParams struct {
	Service string `json:"service"`
	Method  string `json:"method"`
	Args    []any  `json:"args"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

type rpcError struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (e *rpcError) Error() string {
	var data struct {
		Message string `json:"message"`
	}
	if len(e.Data) > 0 {
		if err := json.Unmarshal(e.Data, &data); err == nil && data.Message != "" {
			return fmt.Sprintf("server error: %s", strings.TrimSpace(data.Message))
		}
	}
	return fmt.Sprintf("server error: %s", e.Message)
}

// Authenticate logs in and stores the user id for subsequent calls.
func (c *Client) Authenticate() error {
	result, err := c.call("common", "login", []any{c.db, c.login, c.password})
	if err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}
	var uid int
	if err := json.Unmarshal(result, &uid); err != nil || uid == 0 {
		return fmt.Errorf("authentication refused for %q on database %q", c.login, c.db)
	}
	c.uid = uid
	return nil
}

// Call implements Connection.
func (c *Client) Call(hardwareCode, action string, message any) (*Reply, error) {
	if message == nil {
		message = false
	}
	log.Debug("scanner_call", "action", action, "message", message)
	result, err := c.execute("scanner_call", hardwareCode, action, message, inputChannel)
	if err != nil {
		return nil, err
	}
	return ParseReply(result)
}

// Check implements Connection.
func (c *Client) Check(hardwareCode string) (Scenario, error) {
	result, err := c.execute("scanner_check", hardwareCode)
	if err != nil {
		return Scenario{}, err
	}
	return parseScenario(result)
}

func (c *Client) execute(method string, args ...any) (json.RawMessage, error) {
	if c.uid == 0 {
		return nil, fmt.Errorf("not authenticated")
	}
	return c.call("object", "execute_kw", []any{
		c.db, c.uid, c.password, scannerModel, method, args,
	})
}

func (c *Client) call(service, method string, args []any) (json.RawMessage, error) {
	req := rpcRequest{
		Jsonrpc: "2.0",
		Method:  "call",
		Params:  rpcParams{Service: service, Method: method, Args: args},
		ID:      c.nextID.Add(1),
	}
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	resp, err := c.httpc.Post(c.url+"/jsonrpc", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("rpc request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rpc request failed: %s", resp.Status)
	}

	var rpcResp rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&rpcResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if rpcResp.Error != nil {
		return nil, rpcResp.Error
	}
	return rpcResp.Result, nil
}

// parseScenario decodes a scanner_check result: false, a bare id, or an
// [id, name] pair.
func parseScenario(raw json.RawMessage) (Scenario, error) {
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		if b {
			return Scenario{Active: true}, nil
		}
		return Scenario{}, nil
	}

	var id int
	if err := json.Unmarshal(raw, &id); err == nil {
		return Scenario{ID: id}, nil
	}

	var pair []any
	if err := json.Unmarshal(raw, &pair); err == nil && len(pair) >= 2 {
		s := Scenario{}
		if n, ok := pair[0].(float64); ok {
			s.ID = int(n)
		}
		if name, ok := pair[1].(string); ok {
			s.Name = name
		}
		return s, nil
	}

	return Scenario{}, fmt.Errorf("unexpected scanner_check result: %s", string(raw))
}
