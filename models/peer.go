package models

import (
	"encoding/json"
	"net/netip"

	netbird "github.com/peteraglen/netbird-go-client"
)

// Peer is a device registered in the mesh network. Peers are created and
// updated server-side; the client only reflects their state.
type Peer struct {
	ID         string
	Name       string
	IP         string // normalized dotted-quad IPv4
	Connected  bool
	LastSeen   *Timestamp
	OS         PeerOS
	Version    string
	Hostname   string
	DNSLabel   string
	SSHEnabled bool
	UserID     string
	Groups     GroupRefList
	CreatedAt  *Timestamp
	UpdatedAt  *Timestamp

	// Extra retains unrecognized API fields for forward compatibility.
	Extra map[string]json.RawMessage
}

// ParsePeer validates and normalizes a raw peer payload. All violations are
// reported in a single ValidationError.
func ParsePeer(data []byte) (*Peer, error) {
	fields, err := decodeObject(data)
	if err != nil {
		return nil, netbird.NewValidationError("peer: " + err.Error())
	}

	var errs fieldErrors
	p := &Peer{}

	p.ID = stringField(fields, &errs, "id")
	if p.ID == "" {
		errs.addf("id must be a non-empty string")
	}

	p.Name = stringField(fields, &errs, "name")
	if p.Name == "" {
		errs.addf("name is required")
	}

	if ip := stringField(fields, &errs, "ip"); ip == "" {
		errs.addf("ip is required")
	} else if addr, err := netip.ParseAddr(ip); err != nil || !addr.Is4() {
		errs.addf("ip %q is not a valid IPv4 address", ip)
	} else {
		p.IP = addr.String()
	}

	p.Connected = flexBoolField(fields, &errs, false, "connected")
	p.LastSeen = timeField(fields, &errs, "last_seen", "lastSeen")

	if os := stringField(fields, &errs, "os"); os != "" {
		p.OS = ParsePeerOS(os)
	}

	p.Version = stringField(fields, &errs, "version")
	p.Hostname = stringField(fields, &errs, "hostname")
	p.DNSLabel = stringField(fields, &errs, "dns_label", "dnsLabel")
	p.SSHEnabled = flexBoolField(fields, &errs, false, "ssh_enabled", "sshEnabled")
	p.UserID = stringField(fields, &errs, "user_id", "userId")

	if raw, ok := take(fields, "groups"); ok {
		if err := p.Groups.UnmarshalJSON(raw); err != nil {
			errs.addf("groups: %v", err)
		}
	}

	p.CreatedAt = timeField(fields, &errs, "created_at", "createdAt")
	p.UpdatedAt = timeField(fields, &errs, "updated_at", "updatedAt")

	if err := errs.intoError("peer"); err != nil {
		return nil, err
	}

	if len(fields) > 0 {
		p.Extra = fields
	}
	return p, nil
}

// MarshalJSON serializes the peer with wire-format field names, omitting
// unset optional fields and re-emitting retained extras.
func (p *Peer) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(p.Extra)+12)
	for k, v := range p.Extra {
		m[k] = v
	}

	m["id"] = p.ID
	m["name"] = p.Name
	m["ip"] = p.IP
	m["connected"] = p.Connected
	setIfNotNil(m, "last_seen", p.LastSeen)
	setIfNotEmpty(m, "os", string(p.OS))
	setIfNotEmpty(m, "version", p.Version)
	setIfNotEmpty(m, "hostname", p.Hostname)
	setIfNotEmpty(m, "dns_label", p.DNSLabel)
	if p.SSHEnabled {
		m["ssh_enabled"] = true
	}
	setIfNotEmpty(m, "user_id", p.UserID)
	if p.Groups != nil {
		m["groups"] = p.Groups
	}
	setIfNotNil(m, "created_at", p.CreatedAt)
	setIfNotNil(m, "updated_at", p.UpdatedAt)

	return json.Marshal(m)
}

// Status reports the connection status as an enum.
func (p *Peer) Status() PeerStatus {
	if p.Connected {
		return StatusConnected
	}
	return StatusDisconnected
}

// GroupIDs returns the ids of the groups this peer belongs to.
func (p *Peer) GroupIDs() []string { return p.Groups.IDs() }

// GroupNames returns the names of the groups this peer belongs to.
func (p *Peer) GroupNames() []string { return p.Groups.Names() }

// InGroup reports whether the peer belongs to the named group.
func (p *Peer) InGroup(groupName string) bool {
	for _, name := range p.GroupNames() {
		if name == groupName {
			return true
		}
	}
	return false
}

// AddGroup is a local-only mutation helper; it does not persist without an
// explicit update call.
func (p *Peer) AddGroup(ref GroupRef) {
	if !p.Groups.Contains(ref.ID) {
		p.Groups = append(p.Groups, ref)
	}
}

// RemoveGroup is a local-only mutation helper; it does not persist without
// an explicit update call. It reports whether the group was present.
func (p *Peer) RemoveGroup(groupID string) bool {
	for i, ref := range p.Groups {
		if ref.ID == groupID {
			p.Groups = append(p.Groups[:i], p.Groups[i+1:]...)
			return true
		}
	}
	return false
}

// PeerList is the normalized form of a peer collection response.
type PeerList []Peer

// ParsePeerList validates and normalizes a raw peer array.
func ParsePeerList(data []byte) (PeerList, error) {
	items, err := listItems(data, "peers")
	if err != nil {
		return nil, err
	}

	out := make(PeerList, 0, len(items))
	for i, item := range items {
		p, err := ParsePeer(item)
		if err != nil {
			return nil, listItemError("peer", i, err)
		}
		out = append(out, *p)
	}
	return out, nil
}

// FindByID returns the peer with the given id, or nil.
func (l PeerList) FindByID(id string) *Peer {
	for i := range l {
		if l[i].ID == id {
			return &l[i]
		}
	}
	return nil
}

// FindByName returns the first peer with the given name, or nil.
func (l PeerList) FindByName(name string) *Peer {
	for i := range l {
		if l[i].Name == name {
			return &l[i]
		}
	}
	return nil
}

// FindByIP returns the peer with the given IPv4 address, or nil. The lookup
// address is normalized before comparison.
func (l PeerList) FindByIP(ip string) *Peer {
	addr, err := netip.ParseAddr(ip)
	if err != nil || !addr.Is4() {
		return nil
	}
	normalized := addr.String()
	for i := range l {
		if l[i].IP == normalized {
			return &l[i]
		}
	}
	return nil
}

// Connected returns the peers that are currently connected.
func (l PeerList) Connected() PeerList {
	out := make(PeerList, 0, len(l))
	for _, p := range l {
		if p.Connected {
			out = append(out, p)
		}
	}
	return out
}

// Disconnected returns the peers that are currently disconnected.
func (l PeerList) Disconnected() PeerList {
	out := make(PeerList, 0, len(l))
	for _, p := range l {
		if !p.Connected {
			out = append(out, p)
		}
	}
	return out
}
