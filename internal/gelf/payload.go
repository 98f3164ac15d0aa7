package gelf

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Payload is the decoded logical GELF log record.
type Payload struct {
	Version      string
	Host         string
	ShortMessage string
	FullMessage  string // optional, omitted when empty
	Timestamp    *float64
	Level        *int
	Facility     string // optional
	File         string // optional
	Line         string // optional; accepts string or int on decode, always emitted as string

	// AdditionalFields holds the GELF "_"-prefixed fields, keyed WITHOUT the
	// leading underscore (the underscore is restored on encode).
	AdditionalFields map[string]json.RawMessage
}

type payloadWire struct {
	Version      string          `json:"version"`
	Host         string          `json:"host"`
	ShortMessage string          `json:"short_message"`
	FullMessage  string          `json:"full_message,omitempty"`
	Timestamp    *float64        `json:"timestamp,omitempty"`
	Level        *int            `json:"level,omitempty"`
	Facility     string          `json:"facility,omitempty"`
	File         string          `json:"file,omitempty"`
	Line         json.RawMessage `json:"line,omitempty"`
}

// MarshalJSON serializes the payload, omitting unset optional fields and
// merging AdditionalFields back in with their underscore prefix, mirroring
// the graylog-hook Message.MarshalJSON merge-by-splice pattern.
func (p *Payload) MarshalJSON() ([]byte, error) {
	wire := payloadWire{
		Version:      p.Version,
		Host:         p.Host,
		ShortMessage: p.ShortMessage,
		FullMessage:  p.FullMessage,
		Timestamp:    p.Timestamp,
		Level:        p.Level,
		Facility:     p.Facility,
		File:         p.File,
	}
	if p.Line != "" {
		lb, err := json.Marshal(p.Line)
		if err != nil {
			return nil, err
		}
		wire.Line = lb
	}

	b, err := json.Marshal(wire)
	if err != nil {
		return nil, err
	}
	if len(p.AdditionalFields) == 0 {
		return b, nil
	}

	extra := make(map[string]json.RawMessage, len(p.AdditionalFields))
	for k, v := range p.AdditionalFields {
		extra["_"+k] = v
	}
	eb, err := json.Marshal(extra)
	if err != nil {
		return nil, err
	}
	// splice: drop closing '}' of b, drop opening '{' of eb, join with a comma
	b[len(b)-1] = ','
	return append(b, eb[1:]...), nil
}

// UnmarshalJSON decodes a GELF payload, sorting underscore-prefixed fields
// into AdditionalFields (keyed without the underscore) and accepting either a
// string or a number for "line".
func (p *Payload) UnmarshalJSON(data []byte) error {
	raw := make(map[string]json.RawMessage)
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	for k, v := range raw {
		if strings.HasPrefix(k, "_") {
			if p.AdditionalFields == nil {
				p.AdditionalFields = make(map[string]json.RawMessage)
			}
			p.AdditionalFields[k[1:]] = v
			continue
		}
		var err error
		switch k {
		case "version":
			err = json.Unmarshal(v, &p.Version)
		case "host":
			err = json.Unmarshal(v, &p.Host)
		case "short_message":
			err = json.Unmarshal(v, &p.ShortMessage)
		case "full_message":
			err = json.Unmarshal(v, &p.FullMessage)
		case "timestamp":
			var ts float64
			if err = json.Unmarshal(v, &ts); err == nil {
				p.Timestamp = &ts
			}
		case "level":
			var lvl int
			if err = json.Unmarshal(v, &lvl); err == nil {
				p.Level = &lvl
			}
		case "facility":
			err = json.Unmarshal(v, &p.Facility)
		case "file":
			err = json.Unmarshal(v, &p.File)
		case "line":
			p.Line, err = decodeLine(v)
		}
		if err != nil {
			return fmt.Errorf("field %q: %w", k, err)
		}
	}
	return nil
}

// decodeLine accepts either a JSON string or a JSON number for "line" and
// always returns its string form, matching original_source's deserialize_line
// visitor.
func decodeLine(raw json.RawMessage) (string, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String(), nil
	}
	return "", fmt.Errorf("line: not a string or number: %s", raw)
}

// StripField removes an additional field by name (without underscore prefix).
func (p *Payload) StripField(name string) {
	delete(p.AdditionalFields, name)
}

// BlankField replaces an additional field's value with "******" if it
// currently holds a string; non-string values and absent fields are left
// unchanged.
func (p *Payload) BlankField(name string) {
	raw, ok := p.AdditionalFields[name]
	if !ok {
		return
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return
	}
	blanked, err := json.Marshal("******")
	if err != nil {
		return
	}
	p.AdditionalFields[name] = blanked
}

// SetFieldIfAbsent adds an additional field (string value) only if it is not
// already present, matching the attach_source_info "absent" check.
func (p *Payload) SetFieldIfAbsent(name, value string) {
	if _, ok := p.AdditionalFields[name]; ok {
		return
	}
	if p.AdditionalFields == nil {
		p.AdditionalFields = make(map[string]json.RawMessage)
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	p.AdditionalFields[name] = raw
}
