package codec

import (
	"github.com/bitly/go-simplejson"
	"github.com/disgoorg/snowflake/v2"
	"github.com/fuad-daoud/discord-state/discord"
	"github.com/fuad-daoud/discord-state/logger/dlog"
)

// DecodeMember builds a member from a member record. The user and the
// guild's role map are passed in resolved, decoders never reach into the
// cache themselves. Role ids missing from the map are dropped with a
// diagnostic, roles are never faked.
func DecodeMember(js *simplejson.Json, guildID snowflake.ID, user *discord.User, roles map[snowflake.ID]*discord.Role) (*discord.Member, error) {
	if user == nil {
		return nil, missingField("member", "user")
	}
	member := discord.NewMember(guildID, user)
	member.Nick = js.Get("nick").MustString()
	member.JoinedAt = optionalTime(js, "joined_at")

	for _, roleID := range idList(js, "roles") {
		role, ok := roles[roleID]
		if !ok {
			dlog.Warn("member references unknown role", "guild", guildID, "user", user.ID, "role", roleID)
			continue
		}
		member.AddRole(role)
	}
	return member, nil
}

// MemberRoleSet resolves a member update's authoritative role id list into
// a fresh role set, dropping unknown ids with a diagnostic.
func MemberRoleSet(js *simplejson.Json, guildID snowflake.ID, roles map[snowflake.ID]*discord.Role) map[snowflake.ID]*discord.Role {
	set := make(map[snowflake.ID]*discord.Role)
	for _, roleID := range idList(js, "roles") {
		role, ok := roles[roleID]
		if !ok {
			dlog.Warn("member update references unknown role", "guild", guildID, "role", roleID)
			continue
		}
		set[roleID] = role
	}
	return set
}
