package state

import (
	"fmt"

	"github.com/bitly/go-simplejson"
	"github.com/disgoorg/snowflake/v2"
	"github.com/fuad-daoud/discord-state/codec"
	"github.com/fuad-daoud/discord-state/discord"
	"github.com/fuad-daoud/discord-state/logger/dlog"
)

// Record is the closed set of inbound record kinds. Apply switches over it
// exhaustively, a kind without a branch is a compile-time reminder, not a
// silently ignored string.
type Record int

const (
	RecordReady Record = iota
	RecordUserUpdate
	RecordGuildCreate
	RecordGuildUpdate
	RecordGuildDelete
	RecordChannelCreate
	RecordChannelUpdate
	RecordChannelDelete
	RecordGuildRoleCreate
	RecordGuildRoleUpdate
	RecordGuildRoleDelete
	RecordGuildMemberAdd
	RecordGuildMemberUpdate
	RecordGuildMemberRemove
	RecordGuildEmojisUpdate
	RecordVoiceStateUpdate
	RecordPresenceUpdate
	RecordMessageCreate
)

var recordNames = map[string]Record{
	"READY":               RecordReady,
	"USER_UPDATE":         RecordUserUpdate,
	"GUILD_CREATE":        RecordGuildCreate,
	"GUILD_UPDATE":        RecordGuildUpdate,
	"GUILD_DELETE":        RecordGuildDelete,
	"CHANNEL_CREATE":      RecordChannelCreate,
	"CHANNEL_UPDATE":      RecordChannelUpdate,
	"CHANNEL_DELETE":      RecordChannelDelete,
	"GUILD_ROLE_CREATE":   RecordGuildRoleCreate,
	"GUILD_ROLE_UPDATE":   RecordGuildRoleUpdate,
	"GUILD_ROLE_DELETE":   RecordGuildRoleDelete,
	"GUILD_MEMBER_ADD":    RecordGuildMemberAdd,
	"GUILD_MEMBER_UPDATE": RecordGuildMemberUpdate,
	"GUILD_MEMBER_REMOVE": RecordGuildMemberRemove,
	"GUILD_EMOJIS_UPDATE": RecordGuildEmojisUpdate,
	"VOICE_STATE_UPDATE":  RecordVoiceStateUpdate,
	"PRESENCE_UPDATE":     RecordPresenceUpdate,
	"MESSAGE_CREATE":      RecordMessageCreate,
}

func RecordFromString(name string) (Record, bool) {
	r, ok := recordNames[name]
	return r, ok
}

func (r Record) String() string {
	for name, record := range recordNames {
		if record == r {
			return name
		}
	}
	return fmt.Sprintf("Record(%d)", int(r))
}

// Apply decodes one record and integrates it into the cache. It is the
// single entry point for both live gateway events and one-off REST result
// materialization. Decode errors come back to the caller; records whose
// guild is not loaded yet are deferred and replayed on guild creation.
func (c *Cache) Apply(record Record, js *simplejson.Json) (any, error) {
	switch record {
	case RecordReady:
		return c.applyReady(js)
	case RecordUserUpdate:
		return c.applyUserUpdate(js)
	case RecordGuildCreate:
		return c.LoadGuild(js)
	case RecordGuildUpdate:
		return c.applyGuildUpdate(js)
	case RecordGuildDelete:
		return c.applyGuildDelete(js)
	case RecordChannelCreate, RecordChannelUpdate:
		return c.applyChannelUpsert(js)
	case RecordChannelDelete:
		return c.applyChannelDelete(js)
	case RecordGuildRoleCreate, RecordGuildRoleUpdate:
		return c.applyRoleUpsert(record, js)
	case RecordGuildRoleDelete:
		return c.applyRoleDelete(js)
	case RecordGuildMemberAdd:
		return c.applyMemberAdd(js)
	case RecordGuildMemberUpdate:
		return c.applyMemberUpdate(js)
	case RecordGuildMemberRemove:
		return c.applyMemberRemove(js)
	case RecordGuildEmojisUpdate:
		return c.applyEmojisUpdate(js)
	case RecordVoiceStateUpdate:
		return c.applyVoiceStateUpdate(js)
	case RecordPresenceUpdate:
		return c.applyPresenceUpdate(js)
	case RecordMessageCreate:
		return c.applyMessageCreate(js)
	}
	return nil, fmt.Errorf("unknown record kind %d", int(record))
}

func (c *Cache) applyReady(js *simplejson.Json) (any, error) {
	selfUser, err := codec.DecodeUser(js.Get("user"))
	if err != nil {
		metricDecodeFailures.WithLabelValues("user").Inc()
		return nil, err
	}
	self, _ := c.PutUser(selfUser)

	channels := js.Get("private_channels")
	for i := range channels.MustArray() {
		if _, err := c.applyPrivateChannelUpsert(channels.GetIndex(i)); err != nil {
			dlog.Warn("skipping undecodable private channel in ready", "err", err)
		}
	}
	return self, nil
}

func (c *Cache) applyUserUpdate(js *simplejson.Json) (any, error) {
	user, err := codec.DecodeUser(js)
	if err != nil {
		metricDecodeFailures.WithLabelValues("user").Inc()
		return nil, err
	}
	cached, _ := c.PutUser(user)
	return cached, nil
}

func (c *Cache) applyGuildUpdate(js *simplejson.Json) (any, error) {
	decoded, err := codec.DecodeGuild(js)
	if err != nil {
		metricDecodeFailures.WithLabelValues("guild").Inc()
		return nil, err
	}
	guild, ok := c.Guild(decoded.ID)
	if !ok {
		c.Defer(KindGuild, decoded.ID, func() {
			if _, err := c.Apply(RecordGuildUpdate, js); err != nil {
				dlog.Warn("replayed guild update failed", "guild", decoded.ID, "err", err)
			}
		})
		return nil, nil
	}
	copyGuild(guild, decoded)
	guild.Available = true
	guild.Features = codec.DecodeGuildFeatures(js)
	c.resolveOwner(guild)
	c.resolveAfkSystemChannels(guild, js)
	return guild, nil
}

func (c *Cache) applyGuildDelete(js *simplejson.Json) (any, error) {
	id, err := recordID(js, "id")
	if err != nil {
		return nil, err
	}
	guild, _ := c.RemoveGuild(id)
	return guild, nil
}

func (c *Cache) applyChannelUpsert(js *simplejson.Json) (any, error) {
	if discord.ChannelTypeFromInt(js.Get("type").MustInt(-1)) == discord.ChannelTypePrivate {
		return c.applyPrivateChannelUpsert(js)
	}

	gid, err := recordID(js, "guild_id")
	if err != nil {
		return nil, err
	}
	guild, ok := c.Guild(gid)
	if !ok {
		c.Defer(KindGuild, gid, func() {
			if _, err := c.applyChannelUpsert(js); err != nil {
				dlog.Warn("replayed channel upsert failed", "guild", gid, "err", err)
			}
		})
		return nil, nil
	}
	decoded, err := codec.DecodeGuildChannel(js, gid)
	if err != nil {
		metricDecodeFailures.WithLabelValues("channel").Inc()
		return nil, err
	}
	switch ch := decoded.(type) {
	case *discord.Category:
		cached, _ := c.PutCategory(guild, ch)
		return cached, nil
	case *discord.TextChannel:
		cached, _ := c.PutTextChannel(guild, ch)
		for _, l := range c.snapshotListeners() {
			l.OnTextChannel(cached)
		}
		return cached, nil
	case *discord.VoiceChannel:
		cached, _ := c.PutVoiceChannel(guild, ch)
		for _, l := range c.snapshotListeners() {
			l.OnVoiceChannel(cached)
		}
		return cached, nil
	}
	return nil, fmt.Errorf("unreachable channel kind %T", decoded)
}

func (c *Cache) applyPrivateChannelUpsert(js *simplejson.Json) (any, error) {
	var recipient *discord.User
	recipients := js.Get("recipients")
	if len(recipients.MustArray()) > 0 {
		user, err := codec.DecodeUser(recipients.GetIndex(0))
		if err != nil {
			metricDecodeFailures.WithLabelValues("user").Inc()
			return nil, err
		}
		recipient, _ = c.PutUser(user)
	}
	decoded, err := codec.DecodePrivateChannel(js, recipient)
	if err != nil {
		metricDecodeFailures.WithLabelValues("private channel").Inc()
		return nil, err
	}
	cached, _ := c.PutPrivateChannel(decoded)
	return cached, nil
}

func (c *Cache) applyChannelDelete(js *simplejson.Json) (any, error) {
	id, err := recordID(js, "id")
	if err != nil {
		return nil, err
	}
	kind := discord.ChannelTypeFromInt(js.Get("type").MustInt(-1))
	if kind == discord.ChannelTypePrivate {
		ch, _ := c.RemovePrivateChannel(id)
		return ch, nil
	}

	gid, err := recordID(js, "guild_id")
	if err != nil {
		return nil, err
	}
	guild, ok := c.Guild(gid)
	if !ok {
		return nil, nil
	}
	switch kind {
	case discord.ChannelTypeCategory:
		ch, _ := c.RemoveCategory(guild, id)
		return ch, nil
	case discord.ChannelTypeText:
		ch, _ := c.RemoveTextChannel(guild, id)
		return ch, nil
	case discord.ChannelTypeVoice:
		ch, _ := c.RemoveVoiceChannel(guild, id)
		return ch, nil
	}
	return nil, &codec.UnsupportedKindError{Record: "channel delete", Kind: js.Get("type").MustInt(-1)}
}

func (c *Cache) applyRoleUpsert(record Record, js *simplejson.Json) (any, error) {
	gid, err := recordID(js, "guild_id")
	if err != nil {
		return nil, err
	}
	guild, ok := c.Guild(gid)
	if !ok {
		c.Defer(KindGuild, gid, func() {
			if _, err := c.Apply(record, js); err != nil {
				dlog.Warn("replayed role upsert failed", "guild", gid, "err", err)
			}
		})
		return nil, nil
	}
	role, err := codec.DecodeRole(js.Get("role"), gid)
	if err != nil {
		metricDecodeFailures.WithLabelValues("role").Inc()
		return nil, err
	}
	cached, _ := c.PutRole(guild, role)
	return cached, nil
}

func (c *Cache) applyRoleDelete(js *simplejson.Json) (any, error) {
	gid, err := recordID(js, "guild_id")
	if err != nil {
		return nil, err
	}
	roleID, err := recordID(js, "role_id")
	if err != nil {
		return nil, err
	}
	guild, ok := c.Guild(gid)
	if !ok {
		return nil, nil
	}
	role, _ := c.RemoveRole(guild, roleID)
	return role, nil
}

func (c *Cache) applyMemberAdd(js *simplejson.Json) (any, error) {
	gid, err := recordID(js, "guild_id")
	if err != nil {
		return nil, err
	}
	guild, ok := c.Guild(gid)
	if !ok {
		c.Defer(KindGuild, gid, func() {
			if _, err := c.Apply(RecordGuildMemberAdd, js); err != nil {
				dlog.Warn("replayed member add failed", "guild", gid, "err", err)
			}
		})
		return nil, nil
	}
	user, err := codec.DecodeUser(js.Get("user"))
	if err != nil {
		metricDecodeFailures.WithLabelValues("user").Inc()
		return nil, err
	}
	cachedUser, _ := c.PutUser(user)
	member, err := codec.DecodeMember(js, gid, cachedUser, guild.Roles())
	if err != nil {
		metricDecodeFailures.WithLabelValues("member").Inc()
		return nil, err
	}
	cached, _ := c.PutMember(guild, member)

	// A snapshot may have gone out with an unresolvable owner; a member
	// add for that id is the retroactive fix.
	if guild.Owner == nil && guild.OwnerID == cached.User.ID {
		guild.Owner = cached
		dlog.Info("resolved guild owner from member add", "guild", gid, "owner", cached.User.ID)
	}
	for _, l := range c.snapshotListeners() {
		l.OnMember(cached)
	}
	return cached, nil
}

func (c *Cache) applyMemberUpdate(js *simplejson.Json) (any, error) {
	gid, err := recordID(js, "guild_id")
	if err != nil {
		return nil, err
	}
	userID, err := recordID(js.Get("user"), "id")
	if err != nil {
		return nil, err
	}
	guild, ok := c.Guild(gid)
	if !ok {
		c.Defer(KindGuild, gid, func() {
			if _, err := c.Apply(RecordGuildMemberUpdate, js); err != nil {
				dlog.Warn("replayed member update failed", "guild", gid, "err", err)
			}
		})
		return nil, nil
	}
	member, ok := guild.Member(userID)
	if !ok {
		c.Defer(KindMember, userID, func() {
			if _, err := c.Apply(RecordGuildMemberUpdate, js); err != nil {
				dlog.Warn("replayed member update failed", "guild", gid, "err", err)
			}
		})
		return nil, nil
	}
	member.Nick = js.Get("nick").MustString()
	member.ReplaceRoles(codec.MemberRoleSet(js, gid, guild.Roles()))
	return member, nil
}

func (c *Cache) applyMemberRemove(js *simplejson.Json) (any, error) {
	gid, err := recordID(js, "guild_id")
	if err != nil {
		return nil, err
	}
	userID, err := recordID(js.Get("user"), "id")
	if err != nil {
		return nil, err
	}
	guild, ok := c.Guild(gid)
	if !ok {
		return nil, nil
	}
	member, _ := c.RemoveMember(guild, userID)
	if member != nil && guild.Owner == member {
		guild.Owner = nil
	}
	return member, nil
}

// applyEmojisUpdate reconciles the guild's emote map against the
// authoritative list in the record.
func (c *Cache) applyEmojisUpdate(js *simplejson.Json) (any, error) {
	gid, err := recordID(js, "guild_id")
	if err != nil {
		return nil, err
	}
	guild, ok := c.Guild(gid)
	if !ok {
		c.Defer(KindGuild, gid, func() {
			if _, err := c.Apply(RecordGuildEmojisUpdate, js); err != nil {
				dlog.Warn("replayed emojis update failed", "guild", gid, "err", err)
			}
		})
		return nil, nil
	}

	roleMap := guild.Roles()
	seen := make(map[snowflake.ID]bool)
	emotes := js.Get("emojis")
	for i := range emotes.MustArray() {
		emoteJs := emotes.GetIndex(i)
		var creator *discord.User
		if userJs, ok := emoteJs.CheckGet("user"); ok {
			if user, err := codec.DecodeUser(userJs); err == nil {
				creator, _ = c.PutUser(user)
			}
		}
		emote, err := codec.DecodeEmote(emoteJs, gid, creator, roleMap)
		if err != nil {
			metricDecodeFailures.WithLabelValues("emote").Inc()
			dlog.Warn("skipping undecodable emote", "guild", gid, "err", err)
			continue
		}
		cached, _ := c.PutEmote(guild, emote)
		seen[cached.ID] = true
	}
	for _, e := range guild.Emotes() {
		if !seen[e.ID] {
			c.RemoveEmote(guild, e.ID)
		}
	}
	return guild.Emotes(), nil
}

func (c *Cache) applyVoiceStateUpdate(js *simplejson.Json) (any, error) {
	gid, err := recordID(js, "guild_id")
	if err != nil {
		return nil, err
	}
	guild, ok := c.Guild(gid)
	if !ok {
		c.Defer(KindGuild, gid, func() {
			if _, err := c.Apply(RecordVoiceStateUpdate, js); err != nil {
				dlog.Warn("replayed voice state update failed", "guild", gid, "err", err)
			}
		})
		return nil, nil
	}

	var channel *discord.VoiceChannel
	if channelID := codec.VoiceChannelID(js); channelID != 0 {
		channel, ok = guild.VoiceChannel(channelID)
		if !ok {
			dlog.Warn("voice state names unknown channel", "guild", gid, "channel", channelID)
			return nil, nil
		}
	}
	vs, err := codec.DecodeVoiceState(js, gid, channel)
	if err != nil {
		metricDecodeFailures.WithLabelValues("voice state").Inc()
		return nil, err
	}
	member, ok := guild.Member(vs.UserID)
	if !ok {
		dlog.Warn("voice state names unknown member", "guild", gid, "user", vs.UserID)
		return nil, nil
	}
	if member.VoiceState == nil {
		member.VoiceState = vs
		return vs, nil
	}
	// Mutate the attached state in place so holders keep observing it.
	member.VoiceState.SessionID = vs.SessionID
	member.VoiceState.Channel = vs.Channel
	member.VoiceState.GuildMute = vs.GuildMute
	member.VoiceState.GuildDeaf = vs.GuildDeaf
	member.VoiceState.SelfMute = vs.SelfMute
	member.VoiceState.SelfDeaf = vs.SelfDeaf
	member.VoiceState.Suppressed = vs.Suppressed
	return member.VoiceState, nil
}

func (c *Cache) applyPresenceUpdate(js *simplejson.Json) (any, error) {
	gid, err := recordID(js, "guild_id")
	if err != nil {
		return nil, err
	}
	presence, err := codec.DecodePresence(js)
	if err != nil {
		metricDecodeFailures.WithLabelValues("presence").Inc()
		return nil, err
	}
	guild, ok := c.Guild(gid)
	if !ok {
		c.Defer(KindGuild, gid, func() {
			if _, err := c.Apply(RecordPresenceUpdate, js); err != nil {
				dlog.Warn("replayed presence update failed", "guild", gid, "err", err)
			}
		})
		return nil, nil
	}
	member, ok := guild.Member(presence.UserID)
	if !ok {
		c.Defer(KindMember, presence.UserID, func() {
			if _, err := c.Apply(RecordPresenceUpdate, js); err != nil {
				dlog.Warn("replayed presence update failed", "guild", gid, "err", err)
			}
		})
		return nil, nil
	}
	applyPresence(member, presence)
	return member, nil
}

// applyMessageCreate materializes the message's author (canonically when
// the record carries a full user object, as a placeholder otherwise) and
// returns the immutable message value. Messages themselves are not cached.
func (c *Cache) applyMessageCreate(js *simplejson.Json) (any, error) {
	authorJs := js.Get("author")
	authorID, err := recordID(authorJs, "id")
	if err != nil {
		return nil, err
	}

	var author *discord.User
	if authorJs.Get("username").MustString() != "" {
		user, err := codec.DecodeUser(authorJs)
		if err != nil {
			metricDecodeFailures.WithLabelValues("user").Inc()
			return nil, err
		}
		author, _ = c.PutUser(user)
	} else {
		author = c.GetOrCreateUser(authorID, "")
	}

	msg, err := codec.DecodeMessage(js, author, c.GetOrCreateEmote)
	if err != nil {
		metricDecodeFailures.WithLabelValues("message").Inc()
		return nil, err
	}

	if msg.GuildID == 0 {
		if _, ok := c.PrivateChannel(msg.ChannelID); !ok {
			c.GetOrCreatePrivateChannel(msg.ChannelID, author)
		}
	} else if ch, ok := c.TextChannel(msg.ChannelID); ok {
		ch.LastMessageID = msg.ID
	}

	for _, l := range c.snapshotListeners() {
		l.OnMessage(msg)
	}
	return msg, nil
}

func recordID(js *simplejson.Json, field string) (snowflake.ID, error) {
	s := js.Get(field).MustString()
	if s == "" {
		return 0, fmt.Errorf("record misses %q", field)
	}
	return snowflake.Parse(s)
}
