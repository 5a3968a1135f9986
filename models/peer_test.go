package models

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	netbird "github.com/peteraglen/netbird-go-client"
)

func TestParsePeer(t *testing.T) {
	t.Parallel()

	data := []byte(`{
		"id": "p1",
		"name": "web-server",
		"ip": "100.64.0.1",
		"connected": "connected",
		"last_seen": "2024-05-01T10:30:00Z",
		"os": "Linux",
		"version": "0.28.0",
		"hostname": "web-server.local",
		"dns_label": "web-server.netbird.cloud",
		"ssh_enabled": true,
		"user_id": "u1",
		"groups": [{"id":"g1","name":"servers"},"g2"],
		"created_at": "2024-01-01T00:00:00Z",
		"wireguard_pub_key": "abc123"
	}`)

	p, err := ParsePeer(data)
	require.NoError(t, err)

	assert.Equal(t, "p1", p.ID)
	assert.Equal(t, "web-server", p.Name)
	assert.Equal(t, "100.64.0.1", p.IP)
	assert.True(t, p.Connected)
	assert.Equal(t, StatusConnected, p.Status())
	require.NotNil(t, p.LastSeen)
	assert.Equal(t, 2024, p.LastSeen.Year())
	assert.Equal(t, OSLinux, p.OS)
	assert.Equal(t, "0.28.0", p.Version)
	assert.True(t, p.SSHEnabled)
	assert.Equal(t, "u1", p.UserID)
	assert.Equal(t, []string{"g1", "g2"}, p.GroupIDs())
	assert.Equal(t, []string{"servers"}, p.GroupNames())
	assert.True(t, p.InGroup("servers"))
	assert.False(t, p.InGroup("nonexistent"))

	// Unrecognized fields are retained.
	require.Contains(t, p.Extra, "wireguard_pub_key")
	assert.Equal(t, `"abc123"`, string(p.Extra["wireguard_pub_key"]))
}

func TestParsePeer_CamelCaseAliases(t *testing.T) {
	t.Parallel()

	data := []byte(`{
		"id": "p1",
		"name": "web",
		"ip": "100.64.0.1",
		"lastSeen": "2024-05-01T10:30:00Z",
		"sshEnabled": "true",
		"userId": "u1",
		"dnsLabel": "web.netbird.cloud"
	}`)

	p, err := ParsePeer(data)
	require.NoError(t, err)

	require.NotNil(t, p.LastSeen)
	assert.True(t, p.SSHEnabled)
	assert.Equal(t, "u1", p.UserID)
	assert.Equal(t, "web.netbird.cloud", p.DNSLabel)
	assert.Empty(t, p.Extra)
}

func TestParsePeer_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		data     string
		contains []string
	}{
		{
			name:     "missing required fields",
			data:     `{}`,
			contains: []string{"id must be a non-empty string", "name is required", "ip is required"},
		},
		{
			name:     "invalid ip",
			data:     `{"id":"p1","name":"web","ip":"not-an-ip"}`,
			contains: []string{`ip "not-an-ip" is not a valid IPv4 address`},
		},
		{
			name:     "ipv6 rejected",
			data:     `{"id":"p1","name":"web","ip":"fd00::1"}`,
			contains: []string{"not a valid IPv4 address"},
		},
		{
			name:     "wrong field types aggregated",
			data:     `{"id":42,"name":"web","ip":"100.64.0.1","version":7}`,
			contains: []string{"id must be a string", "version must be a string"},
		},
		{
			name:     "not an object",
			data:     `[1,2,3]`,
			contains: []string{"expected a JSON object"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := ParsePeer([]byte(tt.data))
			require.Error(t, err)

			var valErr *netbird.ValidationError
			require.ErrorAs(t, err, &valErr)
			for _, fragment := range tt.contains {
				assert.True(t, strings.Contains(err.Error(), fragment),
					"expected %q in %q", fragment, err.Error())
			}
		})
	}
}

func TestParsePeer_DefaultsAndRoundTrip(t *testing.T) {
	t.Parallel()

	p, err := ParsePeer([]byte(`{"id":"p1","name":"web","ip":"100.64.0.1"}`))
	require.NoError(t, err)

	assert.False(t, p.Connected)
	assert.Equal(t, StatusDisconnected, p.Status())
	assert.Nil(t, p.LastSeen)
	assert.Equal(t, PeerOS(""), p.OS)
	assert.Nil(t, p.Groups)

	data, err := json.Marshal(p)
	require.NoError(t, err)

	again, err := ParsePeer(data)
	require.NoError(t, err)
	assert.Equal(t, p.ID, again.ID)
	assert.Equal(t, p.IP, again.IP)
}

func TestPeer_GroupMutation(t *testing.T) {
	t.Parallel()

	p := &Peer{ID: "p1", Name: "web", IP: "100.64.0.1"}

	p.AddGroup(GroupRef{ID: "g1", Name: "servers"})
	p.AddGroup(GroupRef{ID: "g1", Name: "servers"}) // duplicate ignored
	p.AddGroup(GroupRef{ID: "g2"})

	assert.Equal(t, []string{"g1", "g2"}, p.GroupIDs())

	assert.True(t, p.RemoveGroup("g1"))
	assert.False(t, p.RemoveGroup("g1"))
	assert.Equal(t, []string{"g2"}, p.GroupIDs())
}

func TestParsePeerList(t *testing.T) {
	t.Parallel()

	data := []byte(`[
		{"id":"p1","name":"web","ip":"100.64.0.1","connected":true},
		{"id":"p2","name":"db","ip":"100.64.0.2","connected":false}
	]`)

	peers, err := ParsePeerList(data)
	require.NoError(t, err)
	require.Len(t, peers, 2)

	assert.Equal(t, "web", peers.FindByID("p1").Name)
	assert.Equal(t, "p2", peers.FindByName("db").ID)
	assert.Nil(t, peers.FindByID("p9"))

	assert.Len(t, peers.Connected(), 1)
	assert.Len(t, peers.Disconnected(), 1)
}

func TestPeerList_FindByIP(t *testing.T) {
	t.Parallel()

	peers := PeerList{
		{ID: "p1", IP: "100.64.0.1"},
		{ID: "p2", IP: "100.64.0.2"},
	}

	require.NotNil(t, peers.FindByIP("100.64.0.2"))
	assert.Equal(t, "p2", peers.FindByIP("100.64.0.2").ID)
	assert.Nil(t, peers.FindByIP("100.64.0.9"))
	assert.Nil(t, peers.FindByIP("garbage"))
	assert.Nil(t, peers.FindByIP("fd00::1"))
}

func TestParsePeerList_Invalid(t *testing.T) {
	t.Parallel()

	_, err := ParsePeerList([]byte(`{"not":"an array"}`))
	assert.Error(t, err)

	_, err = ParsePeerList([]byte(`[{"id":"p1","name":"web","ip":"100.64.0.1"},{"id":"p2"}]`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "peer at index 1")
}
