package codec

import (
	"testing"

	"github.com/disgoorg/snowflake/v2"
	"github.com/fuad-daoud/discord-state/discord"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeMessage(t *testing.T) {
	author := &discord.User{ID: snowflake.ID(42), Username: "fuad"}
	resolved := discord.NewEmote(snowflake.ID(77), "party")
	resolver := func(id snowflake.ID, name string, animated bool) *discord.Emote {
		assert.Equal(t, "77", id.String())
		assert.Equal(t, "party", name)
		return resolved
	}

	js := jsonOf(t, `{
		"id": "500",
		"channel_id": "100",
		"guild_id": "1",
		"content": "hello",
		"timestamp": "2020-01-02T15:04:05Z",
		"tts": false,
		"pinned": true,
		"mention_everyone": false,
		"embeds": [
			{
				"title": "news",
				"description": "something happened",
				"color": 255,
				"footer": {"text": "bottom"},
				"fields": [{"name": "a", "value": "b", "inline": true}]
			}
		],
		"attachments": [
			{"id": "600", "filename": "cat.png", "size": 1234, "url": "https://cdn/cat.png", "width": 100, "height": 80}
		],
		"reactions": [
			{"count": 3, "me": true, "emoji": {"id": "77", "name": "party", "animated": false}}
		]
	}`)

	msg, err := DecodeMessage(js, author, resolver)
	require.NoError(t, err)
	assert.Equal(t, "500", msg.ID.String())
	assert.Equal(t, "100", msg.ChannelID.String())
	assert.Equal(t, "1", msg.GuildID.String())
	assert.Same(t, author, msg.Author)
	assert.Equal(t, "hello", msg.Content)
	assert.True(t, msg.Pinned)

	require.Len(t, msg.Embeds, 1)
	embed := msg.Embeds[0]
	assert.Equal(t, "news", embed.Title)
	assert.Equal(t, 255, embed.Color)
	require.NotNil(t, embed.Footer)
	assert.Equal(t, "bottom", embed.Footer.Text)
	require.Len(t, embed.Fields, 1)
	assert.True(t, embed.Fields[0].Inline)

	require.Len(t, msg.Attachments, 1)
	assert.Equal(t, "cat.png", msg.Attachments[0].Filename)
	assert.Equal(t, 1234, msg.Attachments[0].Size)

	require.Len(t, msg.Reactions, 1)
	assert.Equal(t, 3, msg.Reactions[0].Count)
	assert.True(t, msg.Reactions[0].Me)
	assert.Equal(t, "party", msg.Reactions[0].Name)
	assert.Same(t, resolved, msg.Reactions[0].Emote)
}

func TestDecodeMessageUnicodeReactions(t *testing.T) {
	author := &discord.User{ID: snowflake.ID(42), Username: "fuad"}
	resolver := func(id snowflake.ID, name string, animated bool) *discord.Emote {
		t.Fatalf("resolver called for unicode emoji %q", name)
		return nil
	}

	js := jsonOf(t, `{
		"id": "500",
		"channel_id": "100",
		"reactions": [
			{"count": 2, "me": false, "emoji": {"id": null, "name": "👍"}},
			{"count": 1, "me": true, "emoji": {"id": null, "name": "🔥"}}
		]
	}`)

	msg, err := DecodeMessage(js, author, resolver)
	require.NoError(t, err)
	require.Len(t, msg.Reactions, 2)
	assert.Equal(t, "👍", msg.Reactions[0].Name)
	assert.Equal(t, "🔥", msg.Reactions[1].Name)
	assert.Nil(t, msg.Reactions[0].Emote)
	assert.Nil(t, msg.Reactions[1].Emote)
}

func TestDecodeMessageMissingChannel(t *testing.T) {
	author := &discord.User{ID: snowflake.ID(42)}
	js := jsonOf(t, `{"id": "500"}`)

	_, err := DecodeMessage(js, author, nil)
	require.Error(t, err)
}

func TestDecodeMessageNilAuthor(t *testing.T) {
	js := jsonOf(t, `{"id": "500", "channel_id": "100"}`)

	_, err := DecodeMessage(js, nil, nil)
	require.Error(t, err)
}

func TestDecodeGuildScalars(t *testing.T) {
	js := jsonOf(t, `{
		"id": "1",
		"name": "ops",
		"region": "eu-west",
		"owner_id": "42",
		"verification_level": 3,
		"default_message_notifications": 1,
		"mfa_level": 1,
		"explicit_content_filter": 2,
		"features": ["VANITY_URL", "SOMETHING_NEW"]
	}`)

	guild, err := DecodeGuild(js)
	require.NoError(t, err)
	assert.Equal(t, "ops", guild.Name)
	assert.Equal(t, "eu-west", guild.Region)
	assert.Equal(t, "42", guild.OwnerID.String())
	assert.Equal(t, discord.VerificationLevelHigh, guild.VerificationLevel)
	assert.Equal(t, discord.NotificationLevelOnlyMentions, guild.NotificationLevel)
	assert.Equal(t, discord.MFALevelElevated, guild.MFALevel)
	assert.Equal(t, discord.ExplicitContentLevelAllMembers, guild.ExplicitContentLevel)

	features := DecodeGuildFeatures(js)
	assert.Contains(t, features, discord.GuildFeatureVanityURL)
	assert.Contains(t, features, discord.GuildFeature("SOMETHING_NEW"))
}

func TestDecodeGuildUnknownLevels(t *testing.T) {
	js := jsonOf(t, `{"id": "1", "verification_level": 99, "mfa_level": -3}`)

	guild, err := DecodeGuild(js)
	require.NoError(t, err)
	assert.Equal(t, discord.VerificationLevelUnknown, guild.VerificationLevel)
	assert.Equal(t, discord.MFALevelUnknown, guild.MFALevel)
}

func TestDecodeEmote(t *testing.T) {
	guildID := snowflake.ID(1)
	creator := &discord.User{ID: snowflake.ID(42), Username: "fuad"}
	admin := &discord.Role{ID: snowflake.ID(10), GuildID: guildID}
	roles := map[snowflake.ID]*discord.Role{admin.ID: admin}

	js := jsonOf(t, `{
		"id": "77",
		"name": "party",
		"animated": true,
		"managed": false,
		"roles": ["10", "99"]
	}`)

	emote, err := DecodeEmote(js, guildID, creator, roles)
	require.NoError(t, err)
	assert.Equal(t, "party", emote.Name)
	assert.True(t, emote.Animated)
	assert.Same(t, creator, emote.Creator)
	require.Len(t, emote.RestrictedTo(), 1)
	assert.Same(t, admin, emote.RestrictedTo()[0])
	assert.Equal(t, "<a:party:77>", emote.Mention())
}
