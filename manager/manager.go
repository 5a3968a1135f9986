// Package manager provides typed high-level operations on top of the base
// netbird client: listing entities, group membership management and policy
// provisioning.
package manager

import (
	"context"
	"fmt"
	"strings"

	netbird "github.com/peteraglen/netbird-go-client"
	"github.com/peteraglen/netbird-go-client/models"
)

// Manager wraps a [netbird.Client] with operations that speak the typed
// models instead of raw JSON.
type Manager struct {
	client *netbird.Client
}

// New creates a manager around an existing client. The caller keeps
// ownership of the client and is responsible for closing it.
func New(client *netbird.Client) *Manager {
	return &Manager{client: client}
}

// ListPeers returns every peer in the account.
func (m *Manager) ListPeers(ctx context.Context) (models.PeerList, error) {
	raw, err := m.client.Get(ctx, "peers", nil)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return models.PeerList{}, nil
	}
	return models.ParsePeerList(raw)
}

// GetPeer returns one peer by id.
func (m *Manager) GetPeer(ctx context.Context, peerID string) (*models.Peer, error) {
	if err := checkID(peerID, "peer"); err != nil {
		return nil, err
	}
	raw, err := m.client.Get(ctx, "peers/"+peerID, nil)
	if err != nil {
		return nil, err
	}
	return models.ParsePeer(raw)
}

// UpdatePeer applies a partial update to a peer.
func (m *Manager) UpdatePeer(ctx context.Context, peerID string, update *models.PeerUpdate) (*models.Peer, error) {
	if err := checkID(peerID, "peer"); err != nil {
		return nil, err
	}
	raw, err := m.client.Put(ctx, "peers/"+peerID, update)
	if err != nil {
		return nil, err
	}
	return models.ParsePeer(raw)
}

// ListGroups returns every group in the account.
func (m *Manager) ListGroups(ctx context.Context) (models.GroupList, error) {
	raw, err := m.client.Get(ctx, "groups", nil)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return models.GroupList{}, nil
	}
	return models.ParseGroupList(raw)
}

// GetGroup returns one group by id.
func (m *Manager) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	if err := checkID(groupID, "group"); err != nil {
		return nil, err
	}
	raw, err := m.client.Get(ctx, "groups/"+groupID, nil)
	if err != nil {
		return nil, err
	}
	return models.ParseGroup(raw)
}

// GroupByName returns the group with the given name, or nil when no group
// matches.
func (m *Manager) GroupByName(ctx context.Context, name string) (*models.Group, error) {
	groups, err := m.ListGroups(ctx)
	if err != nil {
		return nil, err
	}
	return groups.FindByName(name), nil
}

// CreateGroup creates a new empty group.
func (m *Manager) CreateGroup(ctx context.Context, name, description string) (*models.Group, error) {
	create, err := models.NewGroupCreate(name, description, nil)
	if err != nil {
		return nil, err
	}

	raw, err := m.client.Post(ctx, "groups", create)
	if err != nil {
		return nil, err
	}
	return models.ParseGroup(raw)
}

// DeleteGroup deletes a group by id.
func (m *Manager) DeleteGroup(ctx context.Context, groupID string) error {
	if err := checkID(groupID, "group"); err != nil {
		return err
	}
	_, err := m.client.Delete(ctx, "groups/"+groupID)
	return err
}

// AddPeersToGroup adds the peers to the named group, preserving existing
// members. When the group does not exist it is created if createIfMissing
// is set, otherwise a ResourceNotFoundError is returned.
func (m *Manager) AddPeersToGroup(ctx context.Context, peerIDs []string, groupName string, createIfMissing bool) (*models.Group, error) {
	group, err := m.GroupByName(ctx, groupName)
	if err != nil {
		return nil, err
	}

	if group == nil {
		if !createIfMissing {
			return nil, notFound(fmt.Sprintf("group %q does not exist", groupName))
		}
		group, err = m.CreateGroup(ctx, groupName, "Auto-created group")
		if err != nil {
			return nil, err
		}
	}

	// Union of existing membership and the requested peers, existing first.
	members := group.PeerIDs()
	seen := make(map[string]struct{}, len(members)+len(peerIDs))
	for _, id := range members {
		seen[id] = struct{}{}
	}
	for _, id := range peerIDs {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			members = append(members, id)
		}
	}

	update := &models.GroupUpdate{Name: &group.Name, Peers: members}
	if err := update.Validate(); err != nil {
		return nil, err
	}

	raw, err := m.client.Put(ctx, "groups/"+group.ID, update)
	if err != nil {
		return nil, err
	}
	return models.ParseGroup(raw)
}

// ListPolicies returns every policy in the account.
func (m *Manager) ListPolicies(ctx context.Context) (models.PolicyList, error) {
	raw, err := m.client.Get(ctx, "policies", nil)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return models.PolicyList{}, nil
	}
	return models.ParsePolicyList(raw)
}

// GetPolicy returns one policy by id.
func (m *Manager) GetPolicy(ctx context.Context, policyID string) (*models.Policy, error) {
	if err := checkID(policyID, "policy"); err != nil {
		return nil, err
	}
	raw, err := m.client.Get(ctx, "policies/"+policyID, nil)
	if err != nil {
		return nil, err
	}
	return models.ParsePolicy(raw)
}

// DeletePolicy deletes a policy by id.
func (m *Manager) DeletePolicy(ctx context.Context, policyID string) error {
	if err := checkID(policyID, "policy"); err != nil {
		return err
	}
	_, err := m.client.Delete(ctx, "policies/"+policyID)
	return err
}

// CreatePolicy creates or updates a policy that allows traffic within the
// named group: a single accept rule over all protocols with the group as
// both source and destination. An existing policy with the same name is
// updated in place.
func (m *Manager) CreatePolicy(ctx context.Context, groupName, policyName, description string, bidirectional bool) (*models.Policy, error) {
	group, err := m.GroupByName(ctx, groupName)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, notFound(fmt.Sprintf("group %q does not exist", groupName))
	}

	create := &models.PolicyCreate{
		Name:        policyName,
		Description: description,
		Enabled:     true,
		Rules: []models.PolicyRuleCreate{{
			Name:          policyName,
			Description:   description,
			Enabled:       true,
			Sources:       []string{group.ID},
			Destinations:  []string{group.ID},
			Bidirectional: bidirectional,
			Protocol:      models.ProtocolAll,
			Ports:         []string{},
			Action:        models.ActionAccept,
		}},
	}
	if err := create.Validate(); err != nil {
		return nil, err
	}

	policies, err := m.ListPolicies(ctx)
	if err != nil {
		return nil, err
	}

	var raw []byte
	if existing := policies.FindByName(create.Name); existing != nil {
		raw, err = m.client.Put(ctx, "policies/"+existing.ID, create)
	} else {
		raw, err = m.client.Post(ctx, "policies", create)
	}
	if err != nil {
		return nil, err
	}
	return models.ParsePolicy(raw)
}

func checkID(id, what string) error {
	if strings.TrimSpace(id) == "" {
		return netbird.NewValidationError(what + " ID cannot be empty")
	}
	return nil
}

func notFound(message string) error {
	return &netbird.ResourceNotFoundError{APIError: netbird.APIError{Message: message}}
}
