package models

import (
	"encoding/json"
	"strings"

	netbird "github.com/peteraglen/netbird-go-client"
)

// Group is a named collection of peers used for policy scoping.
type Group struct {
	ID             string
	Name           string
	Description    string
	PeersCount     int
	Peers          PeerRefList // nil when the API did not embed members
	ResourcesCount int
	Type           GroupType // empty when the API omitted the field
	Issued         string
	CreatedAt      *Timestamp
	UpdatedAt      *Timestamp

	// Extra retains unrecognized API fields for forward compatibility.
	Extra map[string]json.RawMessage
}

// ParseGroup validates and normalizes a raw group payload. All violations
// are reported in a single ValidationError.
func ParseGroup(data []byte) (*Group, error) {
	fields, err := decodeObject(data)
	if err != nil {
		return nil, netbird.NewValidationError("group: " + err.Error())
	}

	var errs fieldErrors
	g := &Group{}

	g.ID = stringField(fields, &errs, "id")
	if g.ID == "" {
		errs.addf("id must be a non-empty string")
	}

	g.Name = validateName(stringField(fields, &errs, "name"), "group", &errs)
	g.Description = stringField(fields, &errs, "description")
	g.PeersCount = intField(fields, &errs, "peers_count", "peersCount")

	if raw, ok := take(fields, "peers"); ok {
		if err := g.Peers.UnmarshalJSON(raw); err != nil {
			errs.addf("peers: %v", err)
		}
	}
	if g.Peers != nil && g.PeersCount == 0 {
		g.PeersCount = len(g.Peers)
	}

	g.ResourcesCount = intField(fields, &errs, "resources_count", "resourcesCount")

	if groupType := stringField(fields, &errs, "type", "group_type"); groupType != "" {
		g.Type = ParseGroupType(groupType)
	}

	g.Issued = stringField(fields, &errs, "issued")
	g.CreatedAt = timeField(fields, &errs, "created_at", "createdAt")
	g.UpdatedAt = timeField(fields, &errs, "updated_at", "updatedAt")

	if err := errs.intoError("group"); err != nil {
		return nil, err
	}

	if len(fields) > 0 {
		g.Extra = fields
	}
	return g, nil
}

// MarshalJSON serializes the group with wire-format field names, omitting
// unset optional fields and re-emitting retained extras.
func (g *Group) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(g.Extra)+8)
	for k, v := range g.Extra {
		m[k] = v
	}

	m["id"] = g.ID
	m["name"] = g.Name
	setIfNotEmpty(m, "description", g.Description)
	m["peers_count"] = g.PeersCount
	if g.Peers != nil {
		m["peers"] = g.Peers
	}
	if g.ResourcesCount != 0 {
		m["resources_count"] = g.ResourcesCount
	}
	setIfNotEmpty(m, "type", string(g.Type))
	setIfNotEmpty(m, "issued", g.Issued)
	setIfNotNil(m, "created_at", g.CreatedAt)
	setIfNotNil(m, "updated_at", g.UpdatedAt)

	return json.Marshal(m)
}

// PeerIDs returns the ids of the embedded member references.
func (g *Group) PeerIDs() []string {
	if g.Peers == nil {
		return nil
	}
	return g.Peers.IDs()
}

// PeerNames returns the names present on the embedded member references.
func (g *Group) PeerNames() []string {
	if g.Peers == nil {
		return nil
	}
	return g.Peers.Names()
}

// HasPeer reports whether the group embeds the given peer id.
func (g *Group) HasPeer(peerID string) bool {
	for _, ref := range g.Peers {
		if ref.ID == peerID {
			return true
		}
	}
	return false
}

// HasPeerNamed reports whether the group embeds a peer with the given name.
func (g *Group) HasPeerNamed(peerName string) bool {
	for _, ref := range g.Peers {
		if ref.Name == peerName {
			return true
		}
	}
	return false
}

// IsAllGroup reports whether this is the special all-members group.
func (g *Group) IsAllGroup() bool {
	return strings.EqualFold(g.Name, "all") || g.Type == GroupTypeAll
}

// IsEmpty reports whether the group has no members.
func (g *Group) IsEmpty() bool { return g.PeersCount == 0 }

// AddPeer adds a member locally, keeping PeersCount consistent with the
// embedded list. It does not persist without an explicit update call.
func (g *Group) AddPeer(ref PeerRef) {
	if g.Peers == nil {
		g.Peers = PeerRefList{}
	}
	if g.HasPeer(ref.ID) {
		return
	}
	g.Peers = append(g.Peers, ref)
	g.PeersCount = len(g.Peers)
}

// RemovePeer removes a member locally, keeping PeersCount consistent with
// the embedded list. It reports whether the peer was present.
func (g *Group) RemovePeer(peerID string) bool {
	if g.Peers == nil {
		return false
	}

	kept := make(PeerRefList, 0, len(g.Peers))
	for _, ref := range g.Peers {
		if ref.ID != peerID {
			kept = append(kept, ref)
		}
	}

	removed := len(kept) < len(g.Peers)
	g.Peers = kept
	g.PeersCount = len(kept)
	return removed
}

// GroupList is the normalized form of a group collection response.
type GroupList []Group

// ParseGroupList validates and normalizes a raw group array.
func ParseGroupList(data []byte) (GroupList, error) {
	items, err := listItems(data, "groups")
	if err != nil {
		return nil, err
	}

	out := make(GroupList, 0, len(items))
	for i, item := range items {
		g, err := ParseGroup(item)
		if err != nil {
			return nil, listItemError("group", i, err)
		}
		out = append(out, *g)
	}
	return out, nil
}

// FindByID returns the group with the given id, or nil.
func (l GroupList) FindByID(id string) *Group {
	for i := range l {
		if l[i].ID == id {
			return &l[i]
		}
	}
	return nil
}

// FindByName returns the first group with the given name, or nil.
func (l GroupList) FindByName(name string) *Group {
	for i := range l {
		if l[i].Name == name {
			return &l[i]
		}
	}
	return nil
}

// AllGroup returns the special all-members group if present.
func (l GroupList) AllGroup() *Group {
	for i := range l {
		if l[i].IsAllGroup() {
			return &l[i]
		}
	}
	return nil
}

// NonEmpty returns the groups that have at least one member.
func (l GroupList) NonEmpty() GroupList {
	out := make(GroupList, 0, len(l))
	for _, g := range l {
		if !g.IsEmpty() {
			out = append(out, g)
		}
	}
	return out
}

// ContainingPeer returns the groups whose embedded member list includes the
// given peer id.
func (l GroupList) ContainingPeer(peerID string) GroupList {
	out := make(GroupList, 0, len(l))
	for _, g := range l {
		if g.HasPeer(peerID) {
			out = append(out, g)
		}
	}
	return out
}
