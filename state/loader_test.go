package state

import (
	"testing"

	"github.com/disgoorg/snowflake/v2"
	"github.com/fuad-daoud/discord-state/discord"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const guildSnapshot = `{
	"id": "1",
	"name": "ops",
	"region": "eu-west",
	"owner_id": "42",
	"verification_level": 2,
	"afk_channel_id": "301",
	"system_channel_id": "101",
	"features": ["VANITY_URL"],
	"roles": [
		{"id": "1", "name": "@everyone", "permissions": 104324673, "position": 0},
		{"id": "10", "name": "admin", "permissions": 8, "position": 5, "hoist": true}
	],
	"members": [
		{"user": {"id": "42", "username": "a"}, "nick": "boss", "roles": ["10"]},
		{"user": {"id": "43", "username": "b"}, "roles": []}
	],
	"channels": [
		{"id": "100", "type": 4, "name": "category", "position": 0},
		{"id": "101", "type": 0, "name": "general", "position": 1, "parent_id": "100"},
		{"id": "301", "type": 2, "name": "afk", "position": 2}
	],
	"emojis": [
		{"id": "77", "name": "party", "roles": ["10"], "user": {"id": "42", "username": "a"}}
	],
	"voice_states": [
		{"user_id": "43", "channel_id": "301", "session_id": "s1", "self_mute": true},
		{"user_id": "404", "channel_id": "301", "session_id": "s2"}
	],
	"presences": [
		{"user": {"id": "42"}, "status": "online", "game": {"name": "chess", "type": 0}}
	]
}`

func TestLoadGuildAllPhases(t *testing.T) {
	c := New()

	guild, err := c.LoadGuild(jsonOf(t, guildSnapshot))
	require.NoError(t, err)
	assert.True(t, guild.Available)
	assert.True(t, guild.HasFeature(discord.GuildFeatureVanityURL))

	// Roles phase ran before members, so the role reference resolved.
	boss, ok := guild.Member(snowflake.ID(42))
	require.True(t, ok)
	role, ok := boss.Role(snowflake.ID(10))
	require.True(t, ok)
	assert.Equal(t, "admin", role.Name)

	// Owner resolved from the member map.
	require.NotNil(t, guild.Owner)
	assert.Same(t, boss, guild.Owner)

	// Channel phase ran, afk/system channel references resolved after it.
	require.NotNil(t, guild.AfkChannel)
	assert.Equal(t, "afk", guild.AfkChannel.Name)
	require.NotNil(t, guild.SystemChannel)
	assert.Equal(t, "general", guild.SystemChannel.Name)

	// Emote creator resolved via the user store, restriction via roles.
	emote, ok := guild.Emote(snowflake.ID(77))
	require.True(t, ok)
	require.NotNil(t, emote.Creator)
	assert.Equal(t, "42", emote.Creator.ID.String())
	require.Len(t, emote.RestrictedTo(), 1)

	// Voice state attached for the known member, the stale one skipped.
	b, ok := guild.Member(snowflake.ID(43))
	require.True(t, ok)
	require.NotNil(t, b.VoiceState)
	assert.True(t, b.VoiceState.SelfMute)
	assert.Equal(t, "afk", b.VoiceState.Channel.Name)

	// Presence applied through the member.
	assert.Equal(t, discord.OnlineStatusOnline, boss.User.Status)
	require.NotNil(t, boss.User.Activity)
	assert.Equal(t, "chess", boss.User.Activity.Name)

	// The public role is the one sharing the guild's id.
	public, ok := guild.PublicRole()
	require.True(t, ok)
	assert.Equal(t, "@everyone", public.Name)
}

func TestLoadGuildWithoutRolesDropsMemberRoleRefs(t *testing.T) {
	c := New()

	guild, err := c.LoadGuild(jsonOf(t, `{
		"id": "1",
		"name": "ops",
		"members": [
			{"user": {"id": "42", "username": "a"}, "roles": ["10"]}
		]
	}`))
	require.NoError(t, err)

	member, ok := guild.Member(snowflake.ID(42))
	require.True(t, ok)
	assert.Empty(t, member.Roles())
}

func TestLoadGuildUnresolvableOwner(t *testing.T) {
	c := New()

	guild, err := c.LoadGuild(jsonOf(t, `{
		"id": "1",
		"name": "ops",
		"owner_id": "999",
		"members": [{"user": {"id": "42", "username": "a"}}]
	}`))
	require.NoError(t, err)
	assert.Nil(t, guild.Owner)
	assert.Equal(t, "999", guild.OwnerID.String())
}

func TestLoadGuildNotVisibleBeforeCompletion(t *testing.T) {
	c := New()

	var visibleDuringLoad bool
	c.Defer(KindUser, snowflake.ID(42), func() {
		// Runs during the members phase, before PutGuild.
		_, visibleDuringLoad = c.Guild(snowflake.ID(1))
	})

	_, err := c.LoadGuild(jsonOf(t, `{
		"id": "1",
		"members": [{"user": {"id": "42", "username": "a"}}]
	}`))
	require.NoError(t, err)
	assert.False(t, visibleDuringLoad)

	_, ok := c.Guild(snowflake.ID(1))
	assert.True(t, ok)
}

func TestLoadGuildRedeliveryKeepsIdentity(t *testing.T) {
	c := New()

	first, err := c.LoadGuild(jsonOf(t, `{"id": "1", "name": "ops"}`))
	require.NoError(t, err)

	second, err := c.LoadGuild(jsonOf(t, `{"id": "1", "name": "renamed"}`))
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, "renamed", first.Name)
}

func TestLoadGuildPromotesMemberPlaceholders(t *testing.T) {
	c := New()

	placeholder := c.GetOrCreateUser(snowflake.ID(42), "")
	require.True(t, placeholder.Fake)

	_, err := c.LoadGuild(jsonOf(t, `{
		"id": "1",
		"members": [{"user": {"id": "42", "username": "a"}}]
	}`))
	require.NoError(t, err)

	assert.False(t, placeholder.Fake)
	assert.Equal(t, "a", placeholder.Username)
}
