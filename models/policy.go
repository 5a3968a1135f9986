package models

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	netbird "github.com/peteraglen/netbird-go-client"
)

// PolicyRule is one access-control rule nested in a policy.
type PolicyRule struct {
	ID            string
	Name          string
	Description   string
	Enabled       bool
	Sources       GroupRefList
	Destinations  GroupRefList
	Protocol      Protocol
	Ports         PortList
	Bidirectional bool
	Action        RuleAction

	// Extra retains unrecognized API fields for forward compatibility.
	Extra map[string]json.RawMessage
}

// ParsePolicyRule validates and normalizes a raw rule payload.
func ParsePolicyRule(data []byte) (*PolicyRule, error) {
	fields, err := decodeObject(data)
	if err != nil {
		return nil, netbird.NewValidationError("policy rule: " + err.Error())
	}

	var errs fieldErrors
	r := &PolicyRule{}

	r.ID = stringField(fields, &errs, "id")
	if r.ID == "" {
		errs.addf("id must be a non-empty string")
	}

	r.Name = validateName(stringField(fields, &errs, "name"), "rule", &errs)
	r.Description = stringField(fields, &errs, "description")
	r.Enabled = flexBoolField(fields, &errs, true, "enabled")

	if raw, ok := take(fields, "sources"); ok {
		if err := r.Sources.UnmarshalJSON(raw); err != nil {
			errs.addf("sources: %v", err)
		}
	}
	if raw, ok := take(fields, "destinations"); ok {
		if err := r.Destinations.UnmarshalJSON(raw); err != nil {
			errs.addf("destinations: %v", err)
		}
	}

	r.Protocol = ParseProtocol(stringField(fields, &errs, "protocol"))

	if raw, ok := take(fields, "ports"); ok {
		if err := r.Ports.UnmarshalJSON(raw); err != nil {
			errs.addf("ports: %v", err)
		}
	}

	r.Bidirectional = flexBoolField(fields, &errs, true, "bidirectional")
	r.Action = ParseRuleAction(stringField(fields, &errs, "action"))

	if err := errs.intoError("policy rule"); err != nil {
		return nil, err
	}

	if len(fields) > 0 {
		r.Extra = fields
	}
	return r, nil
}

// MarshalJSON serializes the rule with wire-format field names.
func (r *PolicyRule) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(r.Extra)+10)
	for k, v := range r.Extra {
		m[k] = v
	}

	m["id"] = r.ID
	m["name"] = r.Name
	setIfNotEmpty(m, "description", r.Description)
	m["enabled"] = r.Enabled
	m["sources"] = r.Sources
	m["destinations"] = r.Destinations
	m["protocol"] = r.Protocol
	m["ports"] = []string(r.Ports)
	m["bidirectional"] = r.Bidirectional
	m["action"] = r.Action

	return json.Marshal(m)
}

// HasSourceGroup reports whether the rule lists the group as a source.
func (r *PolicyRule) HasSourceGroup(groupID string) bool {
	return r.Sources.Contains(groupID)
}

// HasDestinationGroup reports whether the rule lists the group as a
// destination.
func (r *PolicyRule) HasDestinationGroup(groupID string) bool {
	return r.Destinations.Contains(groupID)
}

// IsAllow reports whether the rule accepts matching traffic.
func (r *PolicyRule) IsAllow() bool { return r.Action == ActionAccept }

// IsDeny reports whether the rule drops matching traffic.
func (r *PolicyRule) IsDeny() bool { return r.Action == ActionDrop }

// PortSummary returns a human-readable port description.
func (r *PolicyRule) PortSummary() string {
	if len(r.Ports) == 0 {
		return "all ports"
	}
	return strings.Join(r.Ports, ", ")
}

// PortList normalizes the API's port field, which may be a single string or
// a list of strings and numbers.
type PortList []string

func (l *PortList) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}

	switch val := v.(type) {
	case nil:
		*l = nil
	case string:
		if port := strings.TrimSpace(val); port != "" {
			*l = PortList{port}
		}
	case []any:
		out := make(PortList, 0, len(val))
		for _, item := range val {
			port := portString(item)
			if port != "" {
				out = append(out, port)
			}
		}
		*l = out
	default:
		return fmt.Errorf("cannot interpret %T as port list", v)
	}
	return nil
}

func portString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	case float64:
		if val == float64(int64(val)) {
			return fmt.Sprintf("%d", int64(val))
		}
		return fmt.Sprintf("%v", val)
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", v))
	}
}

// Policy is a named container of ordered access rules.
type Policy struct {
	ID                  string
	Name                string
	Description         string
	Enabled             bool
	Rules               []PolicyRule
	SourcePostureChecks PostureCheckRefList
	CreatedAt           *Timestamp
	UpdatedAt           *Timestamp

	// Extra retains unrecognized API fields for forward compatibility.
	Extra map[string]json.RawMessage
}

// ParsePolicy validates and normalizes a raw policy payload. All violations,
// including those inside nested rules, are reported in a single
// ValidationError.
func ParsePolicy(data []byte) (*Policy, error) {
	fields, err := decodeObject(data)
	if err != nil {
		return nil, netbird.NewValidationError("policy: " + err.Error())
	}

	var errs fieldErrors
	p := &Policy{}

	p.ID = stringField(fields, &errs, "id")
	if p.ID == "" {
		errs.addf("id must be a non-empty string")
	}

	p.Name = validateName(stringField(fields, &errs, "name"), "policy", &errs)
	p.Description = stringField(fields, &errs, "description")
	p.Enabled = flexBoolField(fields, &errs, true, "enabled")

	if raw, ok := take(fields, "rules"); ok {
		items, err := listItems(raw, "rules")
		if err != nil {
			errs.addf("rules must be an array")
		} else {
			for i, item := range items {
				rule, err := ParsePolicyRule(item)
				if err != nil {
					errs.addf("rule %d: %v", i, err)
					continue
				}
				p.Rules = append(p.Rules, *rule)
			}
		}
	}

	if raw, ok := take(fields, "source_posture_checks", "sourcePostureChecks"); ok {
		if err := p.SourcePostureChecks.UnmarshalJSON(raw); err != nil {
			errs.addf("source_posture_checks: %v", err)
		}
	}

	p.CreatedAt = timeField(fields, &errs, "created_at", "createdAt")
	p.UpdatedAt = timeField(fields, &errs, "updated_at", "updatedAt")

	if err := errs.intoError("policy"); err != nil {
		return nil, err
	}

	if len(fields) > 0 {
		p.Extra = fields
	}
	return p, nil
}

// MarshalJSON serializes the policy with wire-format field names.
func (p *Policy) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(p.Extra)+8)
	for k, v := range p.Extra {
		m[k] = v
	}

	m["id"] = p.ID
	m["name"] = p.Name
	setIfNotEmpty(m, "description", p.Description)
	m["enabled"] = p.Enabled
	rules := p.Rules
	if rules == nil {
		rules = []PolicyRule{}
	}
	m["rules"] = rules
	if p.SourcePostureChecks != nil {
		m["source_posture_checks"] = p.SourcePostureChecks
	}
	setIfNotNil(m, "created_at", p.CreatedAt)
	setIfNotNil(m, "updated_at", p.UpdatedAt)

	return json.Marshal(m)
}

// RuleCount returns the number of rules in the policy.
func (p *Policy) RuleCount() int { return len(p.Rules) }

// EnabledRules returns the rules that are enabled.
func (p *Policy) EnabledRules() []PolicyRule {
	out := make([]PolicyRule, 0, len(p.Rules))
	for _, rule := range p.Rules {
		if rule.Enabled {
			out = append(out, rule)
		}
	}
	return out
}

// RuleByID returns the rule with the given id, or nil.
func (p *Policy) RuleByID(ruleID string) *PolicyRule {
	for i := range p.Rules {
		if p.Rules[i].ID == ruleID {
			return &p.Rules[i]
		}
	}
	return nil
}

// RuleByName returns the first rule with the given name, or nil.
func (p *Policy) RuleByName(ruleName string) *PolicyRule {
	for i := range p.Rules {
		if p.Rules[i].Name == ruleName {
			return &p.Rules[i]
		}
	}
	return nil
}

// RulesForSourceGroup returns the rules referencing the group as a source.
func (p *Policy) RulesForSourceGroup(groupID string) []PolicyRule {
	out := make([]PolicyRule, 0, len(p.Rules))
	for _, rule := range p.Rules {
		if rule.HasSourceGroup(groupID) {
			out = append(out, rule)
		}
	}
	return out
}

// RulesForDestinationGroup returns the rules referencing the group as a
// destination.
func (p *Policy) RulesForDestinationGroup(groupID string) []PolicyRule {
	out := make([]PolicyRule, 0, len(p.Rules))
	for _, rule := range p.Rules {
		if rule.HasDestinationGroup(groupID) {
			out = append(out, rule)
		}
	}
	return out
}

// SourceGroupNames returns the sorted unique source group names across all
// rules.
func (p *Policy) SourceGroupNames() []string {
	var names []string
	for _, rule := range p.Rules {
		names = append(names, rule.Sources.Names()...)
	}
	return uniqueSorted(names)
}

// DestinationGroupNames returns the sorted unique destination group names
// across all rules.
func (p *Policy) DestinationGroupNames() []string {
	var names []string
	for _, rule := range p.Rules {
		names = append(names, rule.Destinations.Names()...)
	}
	return uniqueSorted(names)
}

// HasPostureChecks reports whether any posture checks are attached.
func (p *Policy) HasPostureChecks() bool { return len(p.SourcePostureChecks) > 0 }

func uniqueSorted(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		if _, ok := seen[name]; !ok {
			seen[name] = struct{}{}
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// PolicyList is the normalized form of a policy collection response.
type PolicyList []Policy

// ParsePolicyList validates and normalizes a raw policy array.
func ParsePolicyList(data []byte) (PolicyList, error) {
	items, err := listItems(data, "policies")
	if err != nil {
		return nil, err
	}

	out := make(PolicyList, 0, len(items))
	for i, item := range items {
		p, err := ParsePolicy(item)
		if err != nil {
			return nil, listItemError("policy", i, err)
		}
		out = append(out, *p)
	}
	return out, nil
}

// FindByID returns the policy with the given id, or nil.
func (l PolicyList) FindByID(id string) *Policy {
	for i := range l {
		if l[i].ID == id {
			return &l[i]
		}
	}
	return nil
}

// FindByName returns the first policy with the given name, or nil.
func (l PolicyList) FindByName(name string) *Policy {
	for i := range l {
		if l[i].Name == name {
			return &l[i]
		}
	}
	return nil
}

// Enabled returns the policies that are enabled.
func (l PolicyList) Enabled() PolicyList {
	out := make(PolicyList, 0, len(l))
	for _, p := range l {
		if p.Enabled {
			out = append(out, p)
		}
	}
	return out
}

// Disabled returns the policies that are disabled.
func (l PolicyList) Disabled() PolicyList {
	out := make(PolicyList, 0, len(l))
	for _, p := range l {
		if !p.Enabled {
			out = append(out, p)
		}
	}
	return out
}

// UsingGroup returns the policies with any rule referencing the group as a
// source or destination.
func (l PolicyList) UsingGroup(groupID string) PolicyList {
	out := make(PolicyList, 0, len(l))
	for _, p := range l {
		for _, rule := range p.Rules {
			if rule.HasSourceGroup(groupID) || rule.HasDestinationGroup(groupID) {
				out = append(out, p)
				break
			}
		}
	}
	return out
}
