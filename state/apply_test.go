package state

import (
	"testing"

	"github.com/disgoorg/snowflake/v2"
	"github.com/fuad-daoud/discord-state/discord"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordFromString(t *testing.T) {
	record, ok := RecordFromString("GUILD_CREATE")
	require.True(t, ok)
	assert.Equal(t, RecordGuildCreate, record)

	_, ok = RecordFromString("SOMETHING_ELSE")
	assert.False(t, ok)
}

func TestApplyUserThenMessageThenDeferredPromotion(t *testing.T) {
	c := New()

	// User 42 arrives canonically.
	decoded, err := c.Apply(RecordUserUpdate, jsonOf(t, `{"id": "42", "username": "a"}`))
	require.NoError(t, err)
	user := decoded.(*discord.User)

	got, ok := c.Lookup(KindUser, snowflake.ID(42))
	require.True(t, ok)
	assert.Same(t, user, got)
	assert.Equal(t, "a", user.Username)

	// A message authored by 42 references the same object.
	decoded, err = c.Apply(RecordMessageCreate, jsonOf(t, `{
		"id": "500",
		"channel_id": "100",
		"guild_id": "1",
		"author": {"id": "42", "username": "a"},
		"content": "hi"
	}`))
	require.NoError(t, err)
	msg := decoded.(*discord.Message)
	assert.Same(t, user, msg.Author)

	// User 99 is only known from a partial message author so far.
	decoded, err = c.Apply(RecordMessageCreate, jsonOf(t, `{
		"id": "501",
		"channel_id": "100",
		"guild_id": "1",
		"author": {"id": "99"},
		"content": "yo"
	}`))
	require.NoError(t, err)
	earlier := decoded.(*discord.Message)

	placeholder, ok := c.Lookup(KindUser, snowflake.ID(99))
	require.True(t, ok)
	require.True(t, placeholder.(*discord.User).Fake)
	assert.Same(t, placeholder, earlier.Author)

	// The guild snapshot finally names 99 in its member list.
	_, err = c.Apply(RecordGuildCreate, jsonOf(t, `{
		"id": "1",
		"members": [{"user": {"id": "99", "username": "late"}}]
	}`))
	require.NoError(t, err)

	promoted, ok := c.Lookup(KindUser, snowflake.ID(99))
	require.True(t, ok)
	assert.Same(t, placeholder, promoted)
	assert.False(t, earlier.Author.Fake)
	assert.Equal(t, "late", earlier.Author.Username)
}

func TestApplyChannelDeferredUntilGuildCreate(t *testing.T) {
	c := New()

	decoded, err := c.Apply(RecordChannelCreate, jsonOf(t, `{
		"id": "100", "guild_id": "1", "type": 0, "name": "general"
	}`))
	require.NoError(t, err)
	assert.Nil(t, decoded)
	assert.Equal(t, 1, c.DeferredCount(KindGuild, snowflake.ID(1)))

	_, err = c.Apply(RecordGuildCreate, jsonOf(t, `{"id": "1", "name": "ops"}`))
	require.NoError(t, err)

	ch, ok := c.TextChannel(snowflake.ID(100))
	require.True(t, ok)
	assert.Equal(t, "general", ch.Name)
	assert.Zero(t, c.DeferredCount(KindGuild, snowflake.ID(1)))
}

func TestApplyMemberAddResolvesOwnerRetroactively(t *testing.T) {
	c := New()

	_, err := c.Apply(RecordGuildCreate, jsonOf(t, `{"id": "1", "owner_id": "42"}`))
	require.NoError(t, err)
	guild, _ := c.Guild(snowflake.ID(1))
	require.Nil(t, guild.Owner)

	decoded, err := c.Apply(RecordGuildMemberAdd, jsonOf(t, `{
		"guild_id": "1",
		"user": {"id": "42", "username": "a"}
	}`))
	require.NoError(t, err)
	member := decoded.(*discord.Member)
	assert.Same(t, member, guild.Owner)
}

func TestApplyMemberRemoveClearsOwner(t *testing.T) {
	c := New()

	_, err := c.Apply(RecordGuildCreate, jsonOf(t, `{
		"id": "1",
		"owner_id": "42",
		"members": [{"user": {"id": "42", "username": "a"}}]
	}`))
	require.NoError(t, err)
	guild, _ := c.Guild(snowflake.ID(1))
	require.NotNil(t, guild.Owner)

	_, err = c.Apply(RecordGuildMemberRemove, jsonOf(t, `{
		"guild_id": "1",
		"user": {"id": "42"}
	}`))
	require.NoError(t, err)
	assert.Nil(t, guild.Owner)
	_, ok := guild.Member(snowflake.ID(42))
	assert.False(t, ok)
}

func TestApplyPresenceDeferredOnUnknownMember(t *testing.T) {
	c := New()

	_, err := c.Apply(RecordGuildCreate, jsonOf(t, `{"id": "1"}`))
	require.NoError(t, err)

	decoded, err := c.Apply(RecordPresenceUpdate, jsonOf(t, `{
		"guild_id": "1",
		"user": {"id": "42"},
		"status": "dnd"
	}`))
	require.NoError(t, err)
	assert.Nil(t, decoded)
	assert.Equal(t, 1, c.DeferredCount(KindMember, snowflake.ID(42)))

	_, err = c.Apply(RecordGuildMemberAdd, jsonOf(t, `{
		"guild_id": "1",
		"user": {"id": "42", "username": "a"}
	}`))
	require.NoError(t, err)

	guild, _ := c.Guild(snowflake.ID(1))
	member, ok := guild.Member(snowflake.ID(42))
	require.True(t, ok)
	assert.Equal(t, discord.OnlineStatusDND, member.User.Status)
	assert.Zero(t, c.DeferredCount(KindMember, snowflake.ID(42)))
}

func TestApplyEmojisUpdateReconciles(t *testing.T) {
	c := New()

	_, err := c.Apply(RecordGuildCreate, jsonOf(t, `{
		"id": "1",
		"emojis": [
			{"id": "77", "name": "party"},
			{"id": "78", "name": "gone"}
		]
	}`))
	require.NoError(t, err)
	guild, _ := c.Guild(snowflake.ID(1))

	kept, ok := guild.Emote(snowflake.ID(77))
	require.True(t, ok)

	_, err = c.Apply(RecordGuildEmojisUpdate, jsonOf(t, `{
		"guild_id": "1",
		"emojis": [
			{"id": "77", "name": "renamed"},
			{"id": "79", "name": "new"}
		]
	}`))
	require.NoError(t, err)

	assert.Equal(t, "renamed", kept.Name)
	_, ok = guild.Emote(snowflake.ID(78))
	assert.False(t, ok)
	_, ok = guild.Emote(snowflake.ID(79))
	assert.True(t, ok)
}

func TestApplyVoiceStateConnectAndDisconnect(t *testing.T) {
	c := New()

	_, err := c.Apply(RecordGuildCreate, jsonOf(t, `{
		"id": "1",
		"members": [{"user": {"id": "42", "username": "a"}}],
		"channels": [{"id": "301", "type": 2, "name": "afk"}]
	}`))
	require.NoError(t, err)
	guild, _ := c.Guild(snowflake.ID(1))
	member, _ := guild.Member(snowflake.ID(42))

	_, err = c.Apply(RecordVoiceStateUpdate, jsonOf(t, `{
		"guild_id": "1",
		"user_id": "42",
		"channel_id": "301",
		"session_id": "s1"
	}`))
	require.NoError(t, err)
	require.NotNil(t, member.VoiceState)
	assert.True(t, member.VoiceState.Connected())
	attached := member.VoiceState

	_, err = c.Apply(RecordVoiceStateUpdate, jsonOf(t, `{
		"guild_id": "1",
		"user_id": "42",
		"channel_id": null,
		"session_id": "s1"
	}`))
	require.NoError(t, err)
	assert.Same(t, attached, member.VoiceState)
	assert.False(t, member.VoiceState.Connected())
}

func TestApplyRoleLifecycle(t *testing.T) {
	c := New()

	_, err := c.Apply(RecordGuildCreate, jsonOf(t, `{"id": "1"}`))
	require.NoError(t, err)
	guild, _ := c.Guild(snowflake.ID(1))

	decoded, err := c.Apply(RecordGuildRoleCreate, jsonOf(t, `{
		"guild_id": "1",
		"role": {"id": "10", "name": "admin", "position": 5}
	}`))
	require.NoError(t, err)
	role := decoded.(*discord.Role)

	updated, err := c.Apply(RecordGuildRoleUpdate, jsonOf(t, `{
		"guild_id": "1",
		"role": {"id": "10", "name": "administrator", "position": 6}
	}`))
	require.NoError(t, err)
	assert.Same(t, role, updated)
	assert.Equal(t, "administrator", role.Name)

	_, err = c.Apply(RecordGuildRoleDelete, jsonOf(t, `{"guild_id": "1", "role_id": "10"}`))
	require.NoError(t, err)
	_, ok := guild.Role(snowflake.ID(10))
	assert.False(t, ok)
}

func TestApplyGuildUpdateInPlace(t *testing.T) {
	c := New()

	_, err := c.Apply(RecordGuildCreate, jsonOf(t, `{"id": "1", "name": "ops"}`))
	require.NoError(t, err)
	guild, _ := c.Guild(snowflake.ID(1))

	updated, err := c.Apply(RecordGuildUpdate, jsonOf(t, `{
		"id": "1",
		"name": "renamed",
		"verification_level": 9
	}`))
	require.NoError(t, err)
	assert.Same(t, guild, updated)
	assert.Equal(t, "renamed", guild.Name)
	assert.Equal(t, discord.VerificationLevelUnknown, guild.VerificationLevel)
}

func TestApplyGuildDeleteDiscardsDeferred(t *testing.T) {
	c := New()

	_, err := c.Apply(RecordGuildCreate, jsonOf(t, `{"id": "1"}`))
	require.NoError(t, err)

	_, err = c.Apply(RecordGuildDelete, jsonOf(t, `{"id": "1"}`))
	require.NoError(t, err)
	_, ok := c.Guild(snowflake.ID(1))
	assert.False(t, ok)
}

func TestApplyPrivateChannelCreate(t *testing.T) {
	c := New()

	decoded, err := c.Apply(RecordChannelCreate, jsonOf(t, `{
		"id": "200",
		"type": 1,
		"recipients": [{"id": "42", "username": "a"}]
	}`))
	require.NoError(t, err)
	ch := decoded.(*discord.PrivateChannel)
	assert.Equal(t, "a", ch.Recipient.Username)

	byRecipient, ok := c.PrivateChannelByRecipient(snowflake.ID(42))
	require.True(t, ok)
	assert.Same(t, ch, byRecipient)

	_, err = c.Apply(RecordChannelDelete, jsonOf(t, `{"id": "200", "type": 1}`))
	require.NoError(t, err)
	_, ok = c.PrivateChannel(snowflake.ID(200))
	assert.False(t, ok)
}

func TestApplyDirectMessageFakesChannel(t *testing.T) {
	c := New()

	decoded, err := c.Apply(RecordMessageCreate, jsonOf(t, `{
		"id": "500",
		"channel_id": "200",
		"author": {"id": "42", "username": "a"},
		"content": "psst"
	}`))
	require.NoError(t, err)
	msg := decoded.(*discord.Message)
	assert.Zero(t, msg.GuildID)

	ch, ok := c.PrivateChannel(snowflake.ID(200))
	require.True(t, ok)
	assert.True(t, ch.Fake)
	assert.Same(t, msg.Author, ch.Recipient)
}

func TestApplyDecodeErrorSurfaces(t *testing.T) {
	c := New()

	_, err := c.Apply(RecordUserUpdate, jsonOf(t, `{"username": "no-id"}`))
	require.Error(t, err)
}

func TestApplyMessageUpdatesLastMessageID(t *testing.T) {
	c := New()

	_, err := c.Apply(RecordGuildCreate, jsonOf(t, `{
		"id": "1",
		"channels": [{"id": "100", "type": 0, "name": "general"}]
	}`))
	require.NoError(t, err)

	_, err = c.Apply(RecordMessageCreate, jsonOf(t, `{
		"id": "500",
		"channel_id": "100",
		"guild_id": "1",
		"author": {"id": "42", "username": "a"},
		"content": "hi"
	}`))
	require.NoError(t, err)

	ch, ok := c.TextChannel(snowflake.ID(100))
	require.True(t, ok)
	assert.Equal(t, "500", ch.LastMessageID.String())
}

func TestApplyUnicodeReactionsStayDistinct(t *testing.T) {
	c := New()

	decoded, err := c.Apply(RecordMessageCreate, jsonOf(t, `{
		"id": "500",
		"channel_id": "200",
		"author": {"id": "42", "username": "a"},
		"content": "nice",
		"reactions": [{"count": 1, "me": false, "emoji": {"id": null, "name": "👍"}}]
	}`))
	require.NoError(t, err)
	first := decoded.(*discord.Message)

	decoded, err = c.Apply(RecordMessageCreate, jsonOf(t, `{
		"id": "501",
		"channel_id": "200",
		"author": {"id": "42", "username": "a"},
		"content": "hot",
		"reactions": [{"count": 1, "me": false, "emoji": {"id": null, "name": "🔥"}}]
	}`))
	require.NoError(t, err)
	second := decoded.(*discord.Message)

	require.Len(t, first.Reactions, 1)
	require.Len(t, second.Reactions, 1)
	assert.Equal(t, "👍", first.Reactions[0].Name)
	assert.Equal(t, "🔥", second.Reactions[0].Name)
	assert.Nil(t, first.Reactions[0].Emote)
	assert.Nil(t, second.Reactions[0].Emote)

	// No ghost emote materializes under the null id.
	_, ok := c.Lookup(KindEmote, snowflake.ID(0))
	assert.False(t, ok)
}
