package models

import "strings"

// PeerStatus is the derived connection status of a peer.
type PeerStatus string

const (
	StatusConnected    PeerStatus = "connected"
	StatusDisconnected PeerStatus = "disconnected"
)

// PeerOS classifies a peer's operating system.
type PeerOS string

const (
	OSLinux   PeerOS = "linux"
	OSWindows PeerOS = "windows"
	OSDarwin  PeerOS = "darwin"
	OSAndroid PeerOS = "android"
	OSIOS     PeerOS = "ios"
	OSUnknown PeerOS = "unknown"
)

// ParsePeerOS matches case-insensitively; unknown values degrade to
// OSUnknown rather than failing.
func ParsePeerOS(s string) PeerOS {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "linux":
		return OSLinux
	case "windows":
		return OSWindows
	case "darwin":
		return OSDarwin
	case "android":
		return OSAndroid
	case "ios":
		return OSIOS
	}
	return OSUnknown
}

// GroupType classifies a group.
type GroupType string

const (
	GroupTypeStandard GroupType = "standard"
	GroupTypeAll      GroupType = "all"
	GroupTypeSystem   GroupType = "system"
)

// ParseGroupType matches case-insensitively; unknown values default to
// GroupTypeStandard.
func ParseGroupType(s string) GroupType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "all":
		return GroupTypeAll
	case "system":
		return GroupTypeSystem
	}
	return GroupTypeStandard
}

// Protocol is the network protocol a policy rule applies to.
type Protocol string

const (
	ProtocolAll  Protocol = "all"
	ProtocolTCP  Protocol = "tcp"
	ProtocolUDP  Protocol = "udp"
	ProtocolICMP Protocol = "icmp"
)

// ParseProtocol matches case-insensitively; unknown values default to
// ProtocolAll.
func ParseProtocol(s string) Protocol {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "tcp":
		return ProtocolTCP
	case "udp":
		return ProtocolUDP
	case "icmp":
		return ProtocolICMP
	}
	return ProtocolAll
}

// RuleAction is what a policy rule does with matching traffic.
type RuleAction string

const (
	ActionAccept RuleAction = "accept"
	ActionDrop   RuleAction = "drop"
)

// ParseRuleAction matches case-insensitively; unknown values default to
// ActionAccept.
func ParseRuleAction(s string) RuleAction {
	if strings.EqualFold(strings.TrimSpace(s), "drop") {
		return ActionDrop
	}
	return ActionAccept
}
