package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePeerOS(t *testing.T) {
	t.Parallel()

	assert.Equal(t, OSLinux, ParsePeerOS("linux"))
	assert.Equal(t, OSLinux, ParsePeerOS("Linux"))
	assert.Equal(t, OSWindows, ParsePeerOS(" WINDOWS "))
	assert.Equal(t, OSDarwin, ParsePeerOS("darwin"))
	assert.Equal(t, OSAndroid, ParsePeerOS("android"))
	assert.Equal(t, OSIOS, ParsePeerOS("iOS"))
	assert.Equal(t, OSUnknown, ParsePeerOS("templeos"))
	assert.Equal(t, OSUnknown, ParsePeerOS(""))
}

func TestParseGroupType(t *testing.T) {
	t.Parallel()

	assert.Equal(t, GroupTypeAll, ParseGroupType("all"))
	assert.Equal(t, GroupTypeAll, ParseGroupType("ALL"))
	assert.Equal(t, GroupTypeSystem, ParseGroupType("system"))
	assert.Equal(t, GroupTypeStandard, ParseGroupType("standard"))
	assert.Equal(t, GroupTypeStandard, ParseGroupType("whatever"))
}

func TestParseProtocol(t *testing.T) {
	t.Parallel()

	assert.Equal(t, ProtocolTCP, ParseProtocol("tcp"))
	assert.Equal(t, ProtocolTCP, ParseProtocol("TCP"))
	assert.Equal(t, ProtocolUDP, ParseProtocol("udp"))
	assert.Equal(t, ProtocolICMP, ParseProtocol("icmp"))
	assert.Equal(t, ProtocolAll, ParseProtocol("all"))
	assert.Equal(t, ProtocolAll, ParseProtocol("carrier-pigeon"))
}

func TestParseRuleAction(t *testing.T) {
	t.Parallel()

	assert.Equal(t, ActionDrop, ParseRuleAction("drop"))
	assert.Equal(t, ActionDrop, ParseRuleAction("DROP"))
	assert.Equal(t, ActionAccept, ParseRuleAction("accept"))
	assert.Equal(t, ActionAccept, ParseRuleAction("reject"))
	assert.Equal(t, ActionAccept, ParseRuleAction(""))
}
