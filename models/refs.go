package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// PeerRef is the minimal peer projection embedded in other entities.
type PeerRef struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
	IP   string `json:"ip,omitempty"`
}

// Label returns the name when present, falling back to the id.
func (p PeerRef) Label() string {
	if p.Name != "" {
		return p.Name
	}
	return p.ID
}

// GroupRef is the minimal group projection embedded in other entities.
type GroupRef struct {
	ID         string `json:"id"`
	Name       string `json:"name,omitempty"`
	PeersCount int    `json:"peers_count,omitempty"`
}

func (g *GroupRef) UnmarshalJSON(data []byte) error {
	fields, err := decodeObject(data)
	if err != nil {
		return err
	}

	var errs fieldErrors
	g.ID = stringField(fields, &errs, "id")
	g.Name = stringField(fields, &errs, "name")
	g.PeersCount = intField(fields, &errs, "peers_count", "peersCount")
	return errs.intoError("group reference")
}

// Label returns the name when present, falling back to the id.
func (g GroupRef) Label() string {
	if g.Name != "" {
		return g.Name
	}
	return g.ID
}

// PolicyRef is the minimal policy projection embedded in other entities.
type PolicyRef struct {
	ID      string `json:"id"`
	Name    string `json:"name,omitempty"`
	Enabled bool   `json:"enabled"`
}

// PostureCheckRef is an opaque reference to a posture check attached to a
// policy.
type PostureCheckRef struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// PeerRefList accepts either an array of reference objects or an array of
// bare peer-id strings and normalizes both to PeerRef values.
type PeerRefList []PeerRef

func (l *PeerRefList) UnmarshalJSON(data []byte) error {
	items, err := refItems(data)
	if err != nil {
		return err
	}

	out := make(PeerRefList, 0, len(items))
	for _, item := range items {
		if id, ok := refID(item); ok {
			out = append(out, PeerRef{ID: id})
			continue
		}
		var ref PeerRef
		if err := json.Unmarshal(item, &ref); err != nil {
			return fmt.Errorf("invalid peer reference: %w", err)
		}
		out = append(out, ref)
	}
	*l = out
	return nil
}

// IDs returns the referenced peer ids in order.
func (l PeerRefList) IDs() []string {
	ids := make([]string, len(l))
	for i, ref := range l {
		ids[i] = ref.ID
	}
	return ids
}

// Names returns the names that were present on the references.
func (l PeerRefList) Names() []string {
	names := make([]string, 0, len(l))
	for _, ref := range l {
		if ref.Name != "" {
			names = append(names, ref.Name)
		}
	}
	return names
}

// GroupRefList accepts either an array of reference objects or an array of
// bare group-id strings and normalizes both to GroupRef values.
type GroupRefList []GroupRef

func (l *GroupRefList) UnmarshalJSON(data []byte) error {
	items, err := refItems(data)
	if err != nil {
		return err
	}

	out := make(GroupRefList, 0, len(items))
	for _, item := range items {
		if id, ok := refID(item); ok {
			out = append(out, GroupRef{ID: id})
			continue
		}
		var ref GroupRef
		if err := ref.UnmarshalJSON(item); err != nil {
			return fmt.Errorf("invalid group reference: %w", err)
		}
		out = append(out, ref)
	}
	*l = out
	return nil
}

// IDs returns the referenced group ids in order.
func (l GroupRefList) IDs() []string {
	ids := make([]string, len(l))
	for i, ref := range l {
		ids[i] = ref.ID
	}
	return ids
}

// Names returns the names that were present on the references.
func (l GroupRefList) Names() []string {
	names := make([]string, 0, len(l))
	for _, ref := range l {
		if ref.Name != "" {
			names = append(names, ref.Name)
		}
	}
	return names
}

// Contains reports whether the list references the given group id.
func (l GroupRefList) Contains(groupID string) bool {
	for _, ref := range l {
		if ref.ID == groupID {
			return true
		}
	}
	return false
}

// PostureCheckRefList accepts reference objects or bare id strings.
type PostureCheckRefList []PostureCheckRef

func (l *PostureCheckRefList) UnmarshalJSON(data []byte) error {
	items, err := refItems(data)
	if err != nil {
		return err
	}

	out := make(PostureCheckRefList, 0, len(items))
	for _, item := range items {
		if id, ok := refID(item); ok {
			out = append(out, PostureCheckRef{ID: id})
			continue
		}
		var ref PostureCheckRef
		if err := json.Unmarshal(item, &ref); err != nil {
			return fmt.Errorf("invalid posture check reference: %w", err)
		}
		out = append(out, ref)
	}
	*l = out
	return nil
}

func refItems(data []byte) ([]json.RawMessage, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("expected a JSON array of references: %w", err)
	}
	return items, nil
}

// refID unwraps a bare id string element.
func refID(item json.RawMessage) (string, bool) {
	item = bytes.TrimSpace(item)
	if len(item) == 0 || item[0] != '"' {
		return "", false
	}
	var id string
	if err := json.Unmarshal(item, &id); err != nil {
		return "", false
	}
	return id, true
}
