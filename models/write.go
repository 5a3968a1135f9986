package models

import netbird "github.com/peteraglen/netbird-go-client"

// Write DTOs serialize only the fields that were explicitly set: optional
// fields are pointers with omitempty, so an unset field never appears on
// the wire.

// GroupCreate is the request body for creating a group.
type GroupCreate struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Peers       []string `json:"peers"`
}

// NewGroupCreate validates the name and builds a creation request. A nil
// peers slice is sent as an empty member list.
func NewGroupCreate(name, description string, peers []string) (*GroupCreate, error) {
	trimmed, err := checkName(name, "group")
	if err != nil {
		return nil, err
	}
	if peers == nil {
		peers = []string{}
	}
	return &GroupCreate{Name: trimmed, Description: description, Peers: peers}, nil
}

// GroupUpdate is the request body for updating a group.
type GroupUpdate struct {
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	Peers       []string `json:"peers,omitempty"`
}

// Validate checks the name rule when a name is set.
func (u *GroupUpdate) Validate() error {
	if u.Name != nil {
		trimmed, err := checkName(*u.Name, "group")
		if err != nil {
			return err
		}
		*u.Name = trimmed
	}
	return nil
}

// PeerUpdate is the request body for updating peer properties.
type PeerUpdate struct {
	Name                   *string `json:"name,omitempty"`
	SSHEnabled             *bool   `json:"ssh_enabled,omitempty"`
	LoginExpirationEnabled *bool   `json:"login_expiration_enabled,omitempty"`
	ApprovalRequired       *bool   `json:"approval_required,omitempty"`
}

// PolicyRuleCreate is one rule inside a policy creation request. Sources and
// destinations are plain group-id lists, which is the shape the API accepts
// on writes.
type PolicyRuleCreate struct {
	Name          string     `json:"name"`
	Description   string     `json:"description,omitempty"`
	Enabled       bool       `json:"enabled"`
	Sources       []string   `json:"sources"`
	Destinations  []string   `json:"destinations"`
	Bidirectional bool       `json:"bidirectional"`
	Protocol      Protocol   `json:"protocol"`
	Ports         []string   `json:"ports"`
	Action        RuleAction `json:"action"`
}

// PolicyCreate is the request body for creating a policy.
type PolicyCreate struct {
	Name                string             `json:"name"`
	Description         string             `json:"description,omitempty"`
	Enabled             bool               `json:"enabled"`
	Rules               []PolicyRuleCreate `json:"rules"`
	SourcePostureChecks []string           `json:"source_posture_checks,omitempty"`
}

// Validate checks the name rules and that at least one rule is present.
func (c *PolicyCreate) Validate() error {
	trimmed, err := checkName(c.Name, "policy")
	if err != nil {
		return err
	}
	c.Name = trimmed

	if len(c.Rules) == 0 {
		return netbird.NewValidationError("policy must have at least one rule")
	}
	for i := range c.Rules {
		trimmed, err := checkName(c.Rules[i].Name, "rule")
		if err != nil {
			return err
		}
		c.Rules[i].Name = trimmed
	}
	return nil
}

// PolicyUpdate is the request body for updating a policy.
type PolicyUpdate struct {
	Name                *string            `json:"name,omitempty"`
	Description         *string            `json:"description,omitempty"`
	Enabled             *bool              `json:"enabled,omitempty"`
	Rules               []PolicyRuleCreate `json:"rules,omitempty"`
	SourcePostureChecks []string           `json:"source_posture_checks,omitempty"`
}

// Validate checks the name rule when a name is set.
func (u *PolicyUpdate) Validate() error {
	if u.Name != nil {
		trimmed, err := checkName(*u.Name, "policy")
		if err != nil {
			return err
		}
		*u.Name = trimmed
	}
	return nil
}
