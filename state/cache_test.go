package state

import (
	"sync"
	"testing"

	"github.com/bitly/go-simplejson"
	"github.com/disgoorg/snowflake/v2"
	"github.com/fuad-daoud/discord-state/discord"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jsonOf(t *testing.T, raw string) *simplejson.Json {
	t.Helper()
	js, err := simplejson.NewJson([]byte(raw))
	require.NoError(t, err)
	return js
}

func TestPromotionPreservesIdentity(t *testing.T) {
	c := New()

	placeholder := c.GetOrCreateUser(snowflake.ID(42), "")
	assert.True(t, placeholder.Fake)

	// A holder keeps a reference before the authoritative record arrives.
	holder := placeholder

	promoted, wasNew := c.PutUser(&discord.User{ID: snowflake.ID(42), Username: "a"})
	assert.True(t, wasNew)
	assert.Same(t, placeholder, promoted)
	assert.False(t, holder.Fake)
	assert.Equal(t, "a", holder.Username)

	got, ok := c.Lookup(KindUser, snowflake.ID(42))
	require.True(t, ok)
	assert.Same(t, holder, got)
}

func TestIdempotentUpsert(t *testing.T) {
	c := New()

	first, wasNew := c.PutUser(&discord.User{ID: snowflake.ID(42), Username: "a"})
	assert.True(t, wasNew)

	second, wasNew := c.PutUser(&discord.User{ID: snowflake.ID(42), Username: "b"})
	assert.False(t, wasNew)
	assert.Same(t, first, second)
	assert.Equal(t, "b", first.Username)
}

func TestLookupFallsBackToPlaceholders(t *testing.T) {
	c := New()

	fakeUser := c.GetOrCreateUser(snowflake.ID(1), "ghost")
	got, ok := c.Lookup(KindUser, snowflake.ID(1))
	require.True(t, ok)
	assert.Same(t, fakeUser, got)

	fakeEmote := c.GetOrCreateEmote(snowflake.ID(2), "party", false)
	gotEmote, ok := c.Lookup(KindEmote, snowflake.ID(2))
	require.True(t, ok)
	assert.Same(t, fakeEmote, gotEmote)

	_, ok = c.Lookup(KindGuild, snowflake.ID(3))
	assert.False(t, ok)
}

func TestGetOrCreateUserReturnsCanonicalFirst(t *testing.T) {
	c := New()

	canonical, _ := c.PutUser(&discord.User{ID: snowflake.ID(42), Username: "a"})
	assert.Same(t, canonical, c.GetOrCreateUser(snowflake.ID(42), "ignored"))
}

func TestPrivateChannelPromotion(t *testing.T) {
	c := New()
	recipient := c.GetOrCreateUser(snowflake.ID(42), "")

	placeholder := c.GetOrCreatePrivateChannel(snowflake.ID(200), recipient)
	assert.True(t, placeholder.Fake)

	byRecipient, ok := c.PrivateChannelByRecipient(snowflake.ID(42))
	require.True(t, ok)
	assert.Same(t, placeholder, byRecipient)

	promoted, wasNew := c.PutPrivateChannel(&discord.PrivateChannel{
		ID:        snowflake.ID(200),
		Recipient: recipient,
	})
	assert.True(t, wasNew)
	assert.Same(t, placeholder, promoted)
	assert.False(t, placeholder.Fake)

	byRecipient, ok = c.PrivateChannelByRecipient(snowflake.ID(42))
	require.True(t, ok)
	assert.Same(t, placeholder, byRecipient)
}

func TestPrivateChannelRecipientlessUpsert(t *testing.T) {
	c := New()
	recipient, _ := c.PutUser(&discord.User{ID: snowflake.ID(42), Username: "a"})
	c.PutPrivateChannel(&discord.PrivateChannel{ID: snowflake.ID(200), Recipient: recipient})

	ch, wasNew := c.PutPrivateChannel(&discord.PrivateChannel{
		ID:            snowflake.ID(200),
		LastMessageID: snowflake.ID(900),
	})
	assert.False(t, wasNew)
	assert.Same(t, recipient, ch.Recipient)
	assert.Equal(t, "900", ch.LastMessageID.String())

	byRecipient, ok := c.PrivateChannelByRecipient(snowflake.ID(42))
	require.True(t, ok)
	assert.Same(t, ch, byRecipient)
}

func TestPrivateChannelRecipientChangeMigratesIndex(t *testing.T) {
	c := New()
	first, _ := c.PutUser(&discord.User{ID: snowflake.ID(42), Username: "a"})
	second, _ := c.PutUser(&discord.User{ID: snowflake.ID(43), Username: "b"})
	c.PutPrivateChannel(&discord.PrivateChannel{ID: snowflake.ID(200), Recipient: first})

	ch, _ := c.PutPrivateChannel(&discord.PrivateChannel{ID: snowflake.ID(200), Recipient: second})
	assert.Same(t, second, ch.Recipient)

	_, ok := c.PrivateChannelByRecipient(snowflake.ID(42))
	assert.False(t, ok)
	byRecipient, ok := c.PrivateChannelByRecipient(snowflake.ID(43))
	require.True(t, ok)
	assert.Same(t, ch, byRecipient)
}

func TestUnicodeEmojiNeverCached(t *testing.T) {
	c := New()

	thumbs := c.GetOrCreateEmote(snowflake.ID(0), "👍", false)
	fire := c.GetOrCreateEmote(snowflake.ID(0), "🔥", false)
	assert.NotSame(t, thumbs, fire)
	assert.Equal(t, "👍", thumbs.Name)
	assert.Equal(t, "🔥", fire.Name)

	_, ok := c.Lookup(KindEmote, snowflake.ID(0))
	assert.False(t, ok)
}

func TestEmotePromotion(t *testing.T) {
	c := New()

	placeholder := c.GetOrCreateEmote(snowflake.ID(77), "party", false)
	assert.True(t, placeholder.Fake)

	guild := discord.NewGuild(snowflake.ID(1))
	full := discord.NewEmote(snowflake.ID(77), "party")
	full.GuildID = guild.ID
	full.Animated = true

	promoted, wasNew := c.PutEmote(guild, full)
	assert.True(t, wasNew)
	assert.Same(t, placeholder, promoted)
	assert.False(t, placeholder.Fake)
	assert.True(t, placeholder.Animated)
	assert.Equal(t, guild.ID, placeholder.GuildID)

	cached, ok := guild.Emote(snowflake.ID(77))
	require.True(t, ok)
	assert.Same(t, placeholder, cached)
}

func TestRemoveRoleScrubsMembers(t *testing.T) {
	c := New()
	guild := discord.NewGuild(snowflake.ID(1))
	c.PutGuild(guild)

	role := &discord.Role{ID: snowflake.ID(10), GuildID: guild.ID, Name: "admin"}
	c.PutRole(guild, role)

	user, _ := c.PutUser(&discord.User{ID: snowflake.ID(42), Username: "a"})
	member := discord.NewMember(guild.ID, user)
	member.AddRole(role)
	c.PutMember(guild, member)

	removed, ok := c.RemoveRole(guild, role.ID)
	require.True(t, ok)
	assert.Same(t, role, removed)
	_, ok = member.Role(role.ID)
	assert.False(t, ok)
	_, ok = c.Lookup(KindRole, role.ID)
	assert.False(t, ok)
}

func TestRemoveGuildDropsIndexes(t *testing.T) {
	c := New()
	guild := discord.NewGuild(snowflake.ID(1))
	text := &discord.TextChannel{GuildChannel: discord.NewGuildChannel(100, guild.ID)}
	guild.PutTextChannel(text)
	c.PutGuild(guild)

	_, ok := c.TextChannel(snowflake.ID(100))
	require.True(t, ok)

	_, ok = c.RemoveGuild(guild.ID)
	require.True(t, ok)
	_, ok = c.TextChannel(snowflake.ID(100))
	assert.False(t, ok)
	_, ok = c.Guild(guild.ID)
	assert.False(t, ok)
}

func TestConcurrentGetOrCreateSingleIdentity(t *testing.T) {
	c := New()

	const goroutines = 32
	results := make([]*discord.User, goroutines)
	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func(slot int) {
			defer wg.Done()
			results[slot] = c.GetOrCreateUser(snowflake.ID(42), "")
		}(i)
	}
	wg.Wait()

	for i := 1; i < goroutines; i++ {
		assert.Same(t, results[0], results[i])
	}
}

func TestResetClearsEverything(t *testing.T) {
	c := New()
	c.PutUser(&discord.User{ID: snowflake.ID(42), Username: "a"})
	c.Defer(KindGuild, snowflake.ID(1), func() {})

	c.Reset()

	_, ok := c.User(snowflake.ID(42))
	assert.False(t, ok)
	assert.Zero(t, c.DeferredCount(KindGuild, snowflake.ID(1)))
}
