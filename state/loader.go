package state

import (
	"github.com/bitly/go-simplejson"
	"github.com/disgoorg/snowflake/v2"
	"github.com/fuad-daoud/discord-state/codec"
	"github.com/fuad-daoud/discord-state/discord"
	"github.com/fuad-daoud/discord-state/logger/dlog"
)

// LoadGuild hydrates one guild snapshot. The phase order is a hard
// contract: members resolve role ids from the roles phase, channels
// resolve overwrite principals from members and roles, voice states
// resolve channels and members, presences resolve members. A record that
// cannot resolve its dependency is skipped with a diagnostic, never the
// whole phase. The guild becomes visible in the cache only after the last
// phase ran.
func (c *Cache) LoadGuild(js *simplejson.Json) (*discord.Guild, error) {
	decoded, err := codec.DecodeGuild(js)
	if err != nil {
		metricDecodeFailures.WithLabelValues("guild").Inc()
		return nil, err
	}

	guild := decoded
	if existing, ok := c.Guild(decoded.ID); ok {
		// Re-delivered snapshot (e.g. the guild came back from
		// unavailable); rehydrate the live object.
		copyGuild(existing, decoded)
		guild = existing
	}

	c.loadFeatures(guild, js)
	c.loadRoles(guild, js)
	c.loadMembers(guild, js)
	c.resolveOwner(guild)
	c.loadChannels(guild, js)
	c.loadEmotes(guild, js)
	c.loadVoiceStates(guild, js)
	c.resolveAfkSystemChannels(guild, js)
	c.loadPresences(guild, js)

	guild.Available = true
	c.PutGuild(guild)

	for _, l := range c.snapshotListeners() {
		l.OnGuild(guild)
	}
	return guild, nil
}

func (c *Cache) loadFeatures(guild *discord.Guild, js *simplejson.Json) {
	guild.Features = codec.DecodeGuildFeatures(js)
}

func (c *Cache) loadRoles(guild *discord.Guild, js *simplejson.Json) {
	roles := js.Get("roles")
	for i := range roles.MustArray() {
		role, err := codec.DecodeRole(roles.GetIndex(i), guild.ID)
		if err != nil {
			metricDecodeFailures.WithLabelValues("role").Inc()
			dlog.Warn("skipping undecodable role", "guild", guild.ID, "err", err)
			continue
		}
		guild.PutRole(role)
	}
}

func (c *Cache) loadMembers(guild *discord.Guild, js *simplejson.Json) {
	roleMap := guild.Roles()
	members := js.Get("members")
	for i := range members.MustArray() {
		memberJs := members.GetIndex(i)
		user, err := codec.DecodeUser(memberJs.Get("user"))
		if err != nil {
			metricDecodeFailures.WithLabelValues("user").Inc()
			dlog.Warn("skipping member with undecodable user", "guild", guild.ID, "err", err)
			continue
		}
		cachedUser, _ := c.PutUser(user)
		member, err := codec.DecodeMember(memberJs, guild.ID, cachedUser, roleMap)
		if err != nil {
			metricDecodeFailures.WithLabelValues("member").Inc()
			dlog.Warn("skipping undecodable member", "guild", guild.ID, "err", err)
			continue
		}
		guild.PutMember(member)
	}
}

// resolveOwner leaves the owner nil with a diagnostic when the owner id is
// not in the member map; a later member add record fills it in.
func (c *Cache) resolveOwner(guild *discord.Guild) {
	if guild.OwnerID == 0 {
		dlog.Warn("guild snapshot carries no owner id", "guild", guild.ID)
		return
	}
	owner, ok := guild.Member(guild.OwnerID)
	if !ok {
		dlog.Warn("guild owner not in member list", "guild", guild.ID, "owner", guild.OwnerID)
		return
	}
	guild.Owner = owner
}

func (c *Cache) loadChannels(guild *discord.Guild, js *simplejson.Json) {
	channels := js.Get("channels")
	for i := range channels.MustArray() {
		decoded, err := codec.DecodeGuildChannel(channels.GetIndex(i), guild.ID)
		if err != nil {
			metricDecodeFailures.WithLabelValues("channel").Inc()
			dlog.Warn("skipping undecodable channel", "guild", guild.ID, "err", err)
			continue
		}
		switch ch := decoded.(type) {
		case *discord.Category:
			guild.PutCategory(ch)
		case *discord.TextChannel:
			guild.PutTextChannel(ch)
		case *discord.VoiceChannel:
			guild.PutVoiceChannel(ch)
		}
	}
}

func (c *Cache) loadEmotes(guild *discord.Guild, js *simplejson.Json) {
	roleMap := guild.Roles()
	emotes := js.Get("emojis")
	for i := range emotes.MustArray() {
		emoteJs := emotes.GetIndex(i)
		var creator *discord.User
		if userJs, ok := emoteJs.CheckGet("user"); ok {
			if id := userJs.Get("id").MustString(); id != "" {
				if parsed, err := snowflake.Parse(id); err == nil {
					creator = c.GetOrCreateUser(parsed, userJs.Get("username").MustString())
				}
			}
		}
		emote, err := codec.DecodeEmote(emoteJs, guild.ID, creator, roleMap)
		if err != nil {
			metricDecodeFailures.WithLabelValues("emote").Inc()
			dlog.Warn("skipping undecodable emote", "guild", guild.ID, "err", err)
			continue
		}
		guild.PutEmote(emote)
	}
}

func (c *Cache) loadVoiceStates(guild *discord.Guild, js *simplejson.Json) {
	states := js.Get("voice_states")
	for i := range states.MustArray() {
		stateJs := states.GetIndex(i)
		channelID := codec.VoiceChannelID(stateJs)
		var channel *discord.VoiceChannel
		if channelID != 0 {
			var ok bool
			channel, ok = guild.VoiceChannel(channelID)
			if !ok {
				// The upstream service is known to leave stale voice
				// states behind.
				dlog.Warn("voice state names unknown channel", "guild", guild.ID, "channel", channelID)
				continue
			}
		}
		vs, err := codec.DecodeVoiceState(stateJs, guild.ID, channel)
		if err != nil {
			metricDecodeFailures.WithLabelValues("voice state").Inc()
			dlog.Warn("skipping undecodable voice state", "guild", guild.ID, "err", err)
			continue
		}
		member, ok := guild.Member(vs.UserID)
		if !ok {
			dlog.Warn("voice state names unknown member", "guild", guild.ID, "user", vs.UserID)
			continue
		}
		member.VoiceState = vs
	}
}

func (c *Cache) resolveAfkSystemChannels(guild *discord.Guild, js *simplejson.Json) {
	if afkID := optionalSnowflake(js, "afk_channel_id"); afkID != 0 {
		if ch, ok := guild.VoiceChannel(afkID); ok {
			guild.AfkChannel = ch
		} else {
			dlog.Warn("afk channel not in channel list", "guild", guild.ID, "channel", afkID)
		}
	}
	if systemID := optionalSnowflake(js, "system_channel_id"); systemID != 0 {
		if ch, ok := guild.TextChannel(systemID); ok {
			guild.SystemChannel = ch
		} else {
			dlog.Warn("system channel not in channel list", "guild", guild.ID, "channel", systemID)
		}
	}
}

func (c *Cache) loadPresences(guild *discord.Guild, js *simplejson.Json) {
	presences := js.Get("presences")
	for i := range presences.MustArray() {
		presence, err := codec.DecodePresence(presences.GetIndex(i))
		if err != nil {
			metricDecodeFailures.WithLabelValues("presence").Inc()
			dlog.Warn("skipping undecodable presence", "guild", guild.ID, "err", err)
			continue
		}
		member, ok := guild.Member(presence.UserID)
		if !ok {
			dlog.Warn("presence names unknown member", "guild", guild.ID, "user", presence.UserID)
			continue
		}
		applyPresence(member, presence)
	}
}

func applyPresence(target discord.HasOnlineStatus, presence *codec.Presence) {
	target.SetStatus(presence.Status)
	target.SetActivity(presence.Activity)
}

func optionalSnowflake(js *simplejson.Json, field string) snowflake.ID {
	s := js.Get(field).MustString()
	if s == "" {
		return 0
	}
	id, err := snowflake.Parse(s)
	if err != nil {
		return 0
	}
	return id
}
