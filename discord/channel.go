package discord

import (
	"sync"

	"github.com/disgoorg/snowflake/v2"
)

type ChannelType int

const (
	ChannelTypeText ChannelType = iota
	ChannelTypePrivate
	ChannelTypeVoice
	ChannelTypeGroup
	ChannelTypeCategory
	ChannelTypeUnknown ChannelType = -1
)

func ChannelTypeFromInt(i int) ChannelType {
	if i < int(ChannelTypeText) || i > int(ChannelTypeCategory) {
		return ChannelTypeUnknown
	}
	return ChannelType(i)
}

type OverwriteType string

const (
	OverwriteTypeRole    OverwriteType = "role"
	OverwriteTypeMember  OverwriteType = "member"
	OverwriteTypeUnknown OverwriteType = "unknown"
)

func OverwriteTypeFromString(s string) OverwriteType {
	switch OverwriteType(s) {
	case OverwriteTypeRole, OverwriteTypeMember:
		return OverwriteType(s)
	}
	return OverwriteTypeUnknown
}

// PermissionOverwrite overrides channel permissions for one principal,
// a role or a member, keyed in the channel by the principal's id.
type PermissionOverwrite struct {
	ID    snowflake.ID
	Type  OverwriteType
	Allow Permissions
	Deny  Permissions
}

// GuildChannel is the shared core of category, text and voice channels.
// The overwrite set sits behind a pointer so the struct can be embedded
// and copied by value without duplicating lock state.
type GuildChannel struct {
	ID       snowflake.ID
	GuildID  snowflake.ID
	Name     string
	Position int
	ParentID snowflake.ID

	overwrites *overwriteSet
}

type overwriteSet struct {
	mu sync.RWMutex
	m  map[snowflake.ID]*PermissionOverwrite
}

func NewGuildChannel(id, guildID snowflake.ID) GuildChannel {
	return GuildChannel{
		ID:      id,
		GuildID: guildID,
		overwrites: &overwriteSet{
			m: make(map[snowflake.ID]*PermissionOverwrite),
		},
	}
}

func (c *GuildChannel) Overwrite(principalID snowflake.ID) (*PermissionOverwrite, bool) {
	c.overwrites.mu.RLock()
	defer c.overwrites.mu.RUnlock()
	o, ok := c.overwrites.m[principalID]
	return o, ok
}

func (c *GuildChannel) SetOverwrite(o *PermissionOverwrite) {
	c.overwrites.mu.Lock()
	defer c.overwrites.mu.Unlock()
	c.overwrites.m[o.ID] = o
}

func (c *GuildChannel) RemoveOverwrite(principalID snowflake.ID) {
	c.overwrites.mu.Lock()
	defer c.overwrites.mu.Unlock()
	delete(c.overwrites.m, principalID)
}

// ReplaceOverwrites swaps the whole overwrite map, used when an update
// record carries the authoritative overwrite list.
func (c *GuildChannel) ReplaceOverwrites(overwrites []*PermissionOverwrite) {
	c.overwrites.mu.Lock()
	defer c.overwrites.mu.Unlock()
	c.overwrites.m = make(map[snowflake.ID]*PermissionOverwrite, len(overwrites))
	for _, o := range overwrites {
		c.overwrites.m[o.ID] = o
	}
}

func (c *GuildChannel) Overwrites() []*PermissionOverwrite {
	c.overwrites.mu.RLock()
	defer c.overwrites.mu.RUnlock()
	overwrites := make([]*PermissionOverwrite, 0, len(c.overwrites.m))
	for _, o := range c.overwrites.m {
		overwrites = append(overwrites, o)
	}
	return overwrites
}

type Category struct {
	GuildChannel
}

type TextChannel struct {
	GuildChannel
	Topic            string
	NSFW             bool
	RateLimitPerUser int
	LastMessageID    snowflake.ID
}

func (c *TextChannel) Mention() string {
	return "<#" + c.ID.String() + ">"
}

type VoiceChannel struct {
	GuildChannel
	Bitrate   int
	UserLimit int
}

// PrivateChannel is a DM channel with a single recipient. It can be faked
// from a bare channel id before the create record arrives.
type PrivateChannel struct {
	ID            snowflake.ID
	Recipient     *User
	LastMessageID snowflake.ID
	Fake          bool
}
