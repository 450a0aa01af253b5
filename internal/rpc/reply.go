package rpc

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Framing markers embedded in reply payloads by the server.
const (
	titleMarker = "|"
	beepMarker  = "^"
)

// Entry is one selectable value of a list payload. Key is what gets
// submitted back to the server; for plain string payloads it defaults to
// the positional index.
type Entry struct {
	Key   any
	Label string
}

// Reply is the unit returned by every scanner_call: a single-character
// action code, a payload normalized into entries with any title/beep
// framing markers already stripped, and an extra value whose shape
// depends on the code. Raw keeps the undecoded payload for the
// configuration calls (screen_size, screen_colors) that do not follow
// the display-content shape.
type Reply struct {
	Code    string
	Entries []Entry
	Title   string
	Beep    bool
	Value   any
	Raw     json.RawMessage
}

// Lines returns the payload as display lines.
func (r *Reply) Lines() []string {
	lines := make([]string, len(r.Entries))
	for i, e := range r.Entries {
		lines[i] = e.Label
	}
	return lines
}

// Text returns the payload joined as one display block.
func (r *Reply) Text() string {
	return strings.Join(r.Lines(), "\n")
}

// Size decodes a screen_size payload: a [width, height] pair.
func (r *Reply) Size() (width, height int, err error) {
	var dims []int
	if err := json.Unmarshal(r.Raw, &dims); err != nil || len(dims) < 2 {
		return 0, 0, fmt.Errorf("unexpected screen_size payload: %s", string(r.Raw))
	}
	return dims[0], dims[1], nil
}

// Colors decodes a screen_colors payload: color pair names by role.
func (r *Reply) Colors() (map[string][2]string, error) {
	var colors map[string][2]string
	if err := json.Unmarshal(r.Raw, &colors); err != nil {
		return nil, fmt.Errorf("unexpected screen_colors payload: %s", string(r.Raw))
	}
	return colors, nil
}

// ParseReply decodes a scanner_call result: a [code, payload, extra]
// triple. The payload markers are stripped here, once, so the session
// never re-derives the payload shape.
func ParseReply(raw json.RawMessage) (*Reply, error) {
	var parts []json.RawMessage
	if err := json.Unmarshal(raw, &parts); err != nil {
		return nil, fmt.Errorf("malformed reply: %w", err)
	}
	if len(parts) < 3 {
		return nil, fmt.Errorf("malformed reply: expected 3 elements, got %d", len(parts))
	}

	reply := &Reply{Raw: parts[1]}

	if err := json.Unmarshal(parts[0], &reply.Code); err != nil {
		return nil, fmt.Errorf("malformed reply code: %w", err)
	}
	if err := json.Unmarshal(parts[2], &reply.Value); err != nil {
		return nil, fmt.Errorf("malformed reply value: %w", err)
	}
	if err := reply.parsePayload(parts[1]); err != nil {
		return nil, err
	}
	return reply, nil
}

// NewLocalReply builds a reply synthesized by the client itself, with
// positional-index entry keys.
func NewLocalReply(code string, lines []string, value any) *Reply {
	entries := make([]Entry, len(lines))
	for i, line := range lines {
		entries[i] = Entry{Key: i, Label: line}
	}
	return &Reply{Code: code, Entries: entries, Value: value}
}

// payloadItem is one element of a list payload before marker stripping.
type payloadItem struct {
	keyed bool
	key   any
	label string
}

func (r *Reply) parsePayload(raw json.RawMessage) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil
	}

	switch raw[0] {
	case 'n', 'f', 't': // null, false, true: no display content
		return nil
	case '{':
		items, err := parseObjectItems(raw)
		if err != nil {
			return err
		}
		r.stripMarkers(items)
		return nil
	case '[':
		items, err := parseListItems(raw)
		if err != nil {
			return err
		}
		r.stripMarkers(items)
		return nil
	default:
		// Scalar payload: a single display line.
		var v any
		if err := json.Unmarshal(raw, &v); err != nil {
			return fmt.Errorf("malformed payload: %w", err)
		}
		r.Entries = []Entry{{Key: 0, Label: stringify(v)}}
		return nil
	}
}

// parseObjectItems walks a JSON object with a token decoder so entry
// order survives; a plain map would scramble menu entries.
func parseObjectItems(raw json.RawMessage) ([]payloadItem, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	if _, err := dec.Token(); err != nil { // opening brace
		return nil, fmt.Errorf("malformed payload: %w", err)
	}

	var items []payloadItem
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("malformed payload: %w", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("malformed payload: non-string key %v", keyTok)
		}
		var value any
		if err := dec.Decode(&value); err != nil {
			return nil, fmt.Errorf("malformed payload: %w", err)
		}
		items = append(items, payloadItem{keyed: true, key: key, label: stringify(value)})
	}
	return items, nil
}

func parseListItems(raw json.RawMessage) ([]payloadItem, error) {
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil, fmt.Errorf("malformed payload: %w", err)
	}

	items := make([]payloadItem, 0, len(elems))
	for _, el := range elems {
		el = bytes.TrimSpace(el)
		if len(el) > 0 && el[0] == '[' {
			var pair []any
			if err := json.Unmarshal(el, &pair); err != nil {
				return nil, fmt.Errorf("malformed payload: %w", err)
			}
			item := payloadItem{keyed: true}
			if len(pair) > 0 {
				item.key = normalizeKey(pair[0])
			}
			if len(pair) > 1 {
				item.label = stringify(pair[1])
			}
			items = append(items, item)
			continue
		}
		var v any
		if err := json.Unmarshal(el, &v); err != nil {
			return nil, fmt.Errorf("malformed payload: %w", err)
		}
		items = append(items, payloadItem{label: stringify(v)})
	}
	return items, nil
}

// stripMarkers removes the beep marker (trailing for lists, any position
// for keyed payloads) and then the leading title marker, and converts
// what is left into entries. Unkeyed items get positional-index keys.
func (r *Reply) stripMarkers(items []payloadItem) {
	// Beep first: the marker may trail the payload or be a keyed entry.
	for i := len(items) - 1; i >= 0; i-- {
		it := items[i]
		if it.keyed && it.key == beepMarker {
			r.Beep = true
			items = append(items[:i], items[i+1:]...)
			break
		}
		if i == len(items)-1 && !it.keyed && strings.HasPrefix(it.label, beepMarker) {
			r.Beep = true
			items = items[:i]
			break
		}
	}

	// Title: a keyed entry anywhere for objects, or the first item.
	for i, it := range items {
		if it.keyed && it.key == titleMarker {
			r.Title = it.label
			items = append(items[:i], items[i+1:]...)
			break
		}
		if i == 0 && !it.keyed && strings.HasPrefix(it.label, titleMarker) {
			r.Title = strings.TrimPrefix(it.label, titleMarker)
			items = items[1:]
			break
		}
	}

	entries := make([]Entry, len(items))
	for i, it := range items {
		if it.keyed {
			entries[i] = Entry{Key: it.key, Label: it.label}
		} else {
			entries[i] = Entry{Key: i, Label: it.label}
		}
	}
	if len(entries) > 0 {
		r.Entries = entries
	}
}

// normalizeKey converts JSON numbers to int keys so server ids round-trip
// without a float representation.
func normalizeKey(v any) any {
	if f, ok := v.(float64); ok && f == float64(int(f)) {
		return int(f)
	}
	return v
}

func stringify(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}

// Truthy mirrors the server-side truthiness convention used by the E
// code branch: nil, false, zero and empty values are falsy.
func Truthy(v any) bool {
	switch v := v.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return v != ""
	case float64:
		return v != 0
	case []any:
		return len(v) > 0
	case map[string]any:
		return len(v) > 0
	default:
		return true
	}
}

// Number extracts a numeric extra value, defaulting to 0.
func Number(v any) float64 {
	switch v := v.(type) {
	case float64:
		return v
	case string:
		f, _ := strconv.ParseFloat(v, 64)
		return f
	default:
		return 0
	}
}

// TextDefault extracts the default string and optional maximum size of a
// T-coded extra value, which may be a bare string or a {default, size}
// mapping. A zero size means unlimited.
func TextDefault(v any) (def string, size int) {
	switch v := v.(type) {
	case string:
		return v, 0
	case map[string]any:
		if d, ok := v["default"].(string); ok {
			def = d
		}
		if s, ok := v["size"].(float64); ok {
			size = int(s)
		}
		return def, size
	default:
		return "", 0
	}
}
