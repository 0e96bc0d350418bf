package state

import (
	"sync"

	"github.com/disgoorg/snowflake/v2"
	"github.com/fuad-daoud/discord-state/discord"
	"github.com/google/uuid"
)

// Cache is the session-scoped entity store. All holders share entities by
// reference, an upsert for a known id mutates the existing object in place
// so every holder observes the update without re-resolution.
//
// The gateway delivers one event at a time, but REST-completion callbacks
// decode concurrently with that stream, so every operation here is safe
// under concurrent read and insert.
type Cache struct {
	SessionID string

	mu sync.RWMutex

	users  map[snowflake.ID]*discord.User
	guilds map[snowflake.ID]*discord.Guild

	// Global id indexes over the guild-owned collections; they hold the
	// same pointers as the guild maps.
	roles         map[snowflake.ID]*discord.Role
	categories    map[snowflake.ID]*discord.Category
	textChannels  map[snowflake.ID]*discord.TextChannel
	voiceChannels map[snowflake.ID]*discord.VoiceChannel
	emotes        map[snowflake.ID]*discord.Emote

	privateChannels    map[snowflake.ID]*discord.PrivateChannel
	privateByRecipient map[snowflake.ID]*discord.PrivateChannel

	// Placeholder namespaces. An id never appears both here and in the
	// canonical map of the same kind.
	fakeUsers              map[snowflake.ID]*discord.User
	fakePrivateChannels    map[snowflake.ID]*discord.PrivateChannel
	fakePrivateByRecipient map[snowflake.ID]*discord.PrivateChannel
	fakeEmotes             map[snowflake.ID]*discord.Emote

	events map[eventKey][]func()

	listeners []Listener
}

func New() *Cache {
	c := &Cache{SessionID: uuid.NewString()}
	c.reset()
	return c
}

// Reset drops every entity and queued closure, used at session teardown.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reset()
}

func (c *Cache) reset() {
	c.users = make(map[snowflake.ID]*discord.User)
	c.guilds = make(map[snowflake.ID]*discord.Guild)
	c.roles = make(map[snowflake.ID]*discord.Role)
	c.categories = make(map[snowflake.ID]*discord.Category)
	c.textChannels = make(map[snowflake.ID]*discord.TextChannel)
	c.voiceChannels = make(map[snowflake.ID]*discord.VoiceChannel)
	c.emotes = make(map[snowflake.ID]*discord.Emote)
	c.privateChannels = make(map[snowflake.ID]*discord.PrivateChannel)
	c.privateByRecipient = make(map[snowflake.ID]*discord.PrivateChannel)
	c.fakeUsers = make(map[snowflake.ID]*discord.User)
	c.fakePrivateChannels = make(map[snowflake.ID]*discord.PrivateChannel)
	c.fakePrivateByRecipient = make(map[snowflake.ID]*discord.PrivateChannel)
	c.fakeEmotes = make(map[snowflake.ID]*discord.Emote)
	c.events = make(map[eventKey][]func())
}

func (c *Cache) AddListener(l Listener) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, l)
}

func (c *Cache) snapshotListeners() []Listener {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]Listener(nil), c.listeners...)
}

// Lookup is the generic read entry point. For fakeable kinds it falls back
// to the placeholder namespace so callers can observe pre-promotion state.
func (c *Cache) Lookup(kind Kind, id snowflake.ID) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	switch kind {
	case KindUser:
		if u, ok := c.users[id]; ok {
			return u, true
		}
		u, ok := c.fakeUsers[id]
		return u, ok
	case KindGuild:
		g, ok := c.guilds[id]
		return g, ok
	case KindRole:
		r, ok := c.roles[id]
		return r, ok
	case KindCategory:
		ch, ok := c.categories[id]
		return ch, ok
	case KindTextChannel:
		ch, ok := c.textChannels[id]
		return ch, ok
	case KindVoiceChannel:
		ch, ok := c.voiceChannels[id]
		return ch, ok
	case KindPrivateChannel:
		if ch, ok := c.privateChannels[id]; ok {
			return ch, true
		}
		ch, ok := c.fakePrivateChannels[id]
		return ch, ok
	case KindEmote:
		if e, ok := c.emotes[id]; ok {
			return e, true
		}
		e, ok := c.fakeEmotes[id]
		return e, ok
	}
	return nil, false
}

func (c *Cache) User(id snowflake.ID) (*discord.User, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	u, ok := c.users[id]
	return u, ok
}

func (c *Cache) Guild(id snowflake.ID) (*discord.Guild, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	g, ok := c.guilds[id]
	return g, ok
}

func (c *Cache) Guilds() []*discord.Guild {
	c.mu.RLock()
	defer c.mu.RUnlock()
	guilds := make([]*discord.Guild, 0, len(c.guilds))
	for _, g := range c.guilds {
		guilds = append(guilds, g)
	}
	return guilds
}

func (c *Cache) TextChannel(id snowflake.ID) (*discord.TextChannel, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ch, ok := c.textChannels[id]
	return ch, ok
}

func (c *Cache) VoiceChannel(id snowflake.ID) (*discord.VoiceChannel, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ch, ok := c.voiceChannels[id]
	return ch, ok
}

func (c *Cache) PrivateChannel(id snowflake.ID) (*discord.PrivateChannel, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if ch, ok := c.privateChannels[id]; ok {
		return ch, true
	}
	ch, ok := c.fakePrivateChannels[id]
	return ch, ok
}

func (c *Cache) PrivateChannelByRecipient(userID snowflake.ID) (*discord.PrivateChannel, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if ch, ok := c.privateByRecipient[userID]; ok {
		return ch, true
	}
	ch, ok := c.fakePrivateByRecipient[userID]
	return ch, ok
}

func (c *Cache) Emote(id snowflake.ID) (*discord.Emote, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if e, ok := c.emotes[id]; ok {
		return e, true
	}
	e, ok := c.fakeEmotes[id]
	return e, ok
}

// PutUser upserts a canonical user. A placeholder with the same id is
// promoted in place, the object identity never changes.
func (c *Cache) PutUser(u *discord.User) (*discord.User, bool) {
	c.mu.Lock()
	if existing, ok := c.users[u.ID]; ok {
		copyUser(existing, u)
		c.mu.Unlock()
		metricUpserts.WithLabelValues(KindUser.String(), "false").Inc()
		return existing, false
	}
	target := u
	if fake, ok := c.fakeUsers[u.ID]; ok {
		copyUser(fake, u)
		fake.Fake = false
		delete(c.fakeUsers, u.ID)
		target = fake
		metricPromotions.WithLabelValues(KindUser.String()).Inc()
	}
	c.users[target.ID] = target
	drained := c.takeEventsLocked(KindUser, target.ID)
	c.mu.Unlock()
	metricUpserts.WithLabelValues(KindUser.String(), "true").Inc()
	c.replay(drained)
	return target, true
}

func copyUser(dst, src *discord.User) {
	dst.Username = src.Username
	dst.Discriminator = src.Discriminator
	dst.Avatar = src.Avatar
	dst.Bot = src.Bot
}

// GetOrCreateUser resolves a bare user reference: canonical first, then an
// existing placeholder, then a fresh placeholder built from the minimal
// fields at hand.
func (c *Cache) GetOrCreateUser(id snowflake.ID, username string) *discord.User {
	c.mu.Lock()
	defer c.mu.Unlock()
	if u, ok := c.users[id]; ok {
		return u
	}
	if u, ok := c.fakeUsers[id]; ok {
		return u
	}
	u := &discord.User{
		ID:       id,
		Username: username,
		Fake:     true,
		Status:   discord.OnlineStatusOffline,
	}
	c.fakeUsers[id] = u
	metricFakes.WithLabelValues(KindUser.String()).Inc()
	return u
}

// PutGuild publishes a fully loaded guild (or refreshes the scalar fields
// of an already published one) and indexes its collections globally.
func (c *Cache) PutGuild(g *discord.Guild) (*discord.Guild, bool) {
	c.mu.Lock()
	if existing, ok := c.guilds[g.ID]; ok && existing != g {
		copyGuild(existing, g)
		c.mu.Unlock()
		metricUpserts.WithLabelValues(KindGuild.String(), "false").Inc()
		return existing, false
	}
	_, known := c.guilds[g.ID]
	c.guilds[g.ID] = g
	c.indexGuildLocked(g)
	var drained []func()
	if !known {
		drained = c.takeEventsLocked(KindGuild, g.ID)
	}
	c.mu.Unlock()
	metricUpserts.WithLabelValues(KindGuild.String(), boolLabel(!known)).Inc()
	c.replay(drained)
	return g, !known
}

func copyGuild(dst, src *discord.Guild) {
	dst.Name = src.Name
	dst.Region = src.Region
	dst.Features = src.Features
	dst.VerificationLevel = src.VerificationLevel
	dst.NotificationLevel = src.NotificationLevel
	dst.MFALevel = src.MFALevel
	dst.ExplicitContentLevel = src.ExplicitContentLevel
	dst.OwnerID = src.OwnerID
	dst.Available = src.Available
}

func (c *Cache) indexGuildLocked(g *discord.Guild) {
	for id, r := range g.Roles() {
		c.roles[id] = r
	}
	for _, ch := range g.Categories() {
		c.categories[ch.ID] = ch
	}
	for _, ch := range g.TextChannels() {
		c.textChannels[ch.ID] = ch
	}
	for _, ch := range g.VoiceChannels() {
		c.voiceChannels[ch.ID] = ch
	}
	for _, e := range g.Emotes() {
		c.emotes[e.ID] = e
	}
}

// RemoveGuild drops the guild and everything it owns, discarding queued
// closures whose target no longer exists.
func (c *Cache) RemoveGuild(id snowflake.ID) (*discord.Guild, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	g, ok := c.guilds[id]
	if !ok {
		return nil, false
	}
	delete(c.guilds, id)
	c.discardEventsLocked(KindGuild, id)
	for roleID := range g.Roles() {
		delete(c.roles, roleID)
		c.discardEventsLocked(KindRole, roleID)
	}
	for _, ch := range g.Categories() {
		delete(c.categories, ch.ID)
		c.discardEventsLocked(KindCategory, ch.ID)
	}
	for _, ch := range g.TextChannels() {
		delete(c.textChannels, ch.ID)
		c.discardEventsLocked(KindTextChannel, ch.ID)
	}
	for _, ch := range g.VoiceChannels() {
		delete(c.voiceChannels, ch.ID)
		c.discardEventsLocked(KindVoiceChannel, ch.ID)
	}
	for _, e := range g.Emotes() {
		delete(c.emotes, e.ID)
		c.discardEventsLocked(KindEmote, e.ID)
	}
	for _, m := range g.Members() {
		c.discardEventsLocked(KindMember, m.User.ID)
	}
	return g, true
}

// PutRole upserts a role into its guild and the global index.
func (c *Cache) PutRole(g *discord.Guild, role *discord.Role) (*discord.Role, bool) {
	c.mu.Lock()
	if existing, ok := g.Role(role.ID); ok {
		copyRole(existing, role)
		c.mu.Unlock()
		metricUpserts.WithLabelValues(KindRole.String(), "false").Inc()
		return existing, false
	}
	g.PutRole(role)
	c.roles[role.ID] = role
	drained := c.takeEventsLocked(KindRole, role.ID)
	c.mu.Unlock()
	metricUpserts.WithLabelValues(KindRole.String(), "true").Inc()
	c.replay(drained)
	return role, true
}

func copyRole(dst, src *discord.Role) {
	dst.Name = src.Name
	dst.Permissions = src.Permissions
	dst.Position = src.Position
	dst.Color = src.Color
	dst.Managed = src.Managed
	dst.Hoisted = src.Hoisted
	dst.Mentionable = src.Mentionable
}

// RemoveRole also scrubs the role from every member's role set and every
// emote restriction, those hold shared references.
func (c *Cache) RemoveRole(g *discord.Guild, id snowflake.ID) (*discord.Role, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	role, ok := g.RemoveRole(id)
	if !ok {
		return nil, false
	}
	delete(c.roles, id)
	c.discardEventsLocked(KindRole, id)
	for _, m := range g.Members() {
		m.RemoveRole(id)
	}
	return role, true
}

// PutMember upserts a member into its guild; the guild must already be
// known to the caller. Draining happens on the member's user id.
func (c *Cache) PutMember(g *discord.Guild, m *discord.Member) (*discord.Member, bool) {
	c.mu.Lock()
	if existing, ok := g.Member(m.User.ID); ok {
		existing.Nick = m.Nick
		if !m.JoinedAt.IsZero() {
			existing.JoinedAt = m.JoinedAt
		}
		roleSet := make(map[snowflake.ID]*discord.Role)
		for _, r := range m.Roles() {
			roleSet[r.ID] = r
		}
		existing.ReplaceRoles(roleSet)
		c.mu.Unlock()
		metricUpserts.WithLabelValues(KindMember.String(), "false").Inc()
		return existing, false
	}
	g.PutMember(m)
	drained := c.takeEventsLocked(KindMember, m.User.ID)
	c.mu.Unlock()
	metricUpserts.WithLabelValues(KindMember.String(), "true").Inc()
	c.replay(drained)
	return m, true
}

func (c *Cache) RemoveMember(g *discord.Guild, userID snowflake.ID) (*discord.Member, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	m, ok := g.RemoveMember(userID)
	if ok {
		c.discardEventsLocked(KindMember, userID)
	}
	return m, ok
}

func (c *Cache) PutCategory(g *discord.Guild, ch *discord.Category) (*discord.Category, bool) {
	c.mu.Lock()
	if existing, ok := g.Category(ch.ID); ok {
		copyChannelCore(&existing.GuildChannel, &ch.GuildChannel)
		c.mu.Unlock()
		metricUpserts.WithLabelValues(KindCategory.String(), "false").Inc()
		return existing, false
	}
	g.PutCategory(ch)
	c.categories[ch.ID] = ch
	drained := c.takeEventsLocked(KindCategory, ch.ID)
	c.mu.Unlock()
	metricUpserts.WithLabelValues(KindCategory.String(), "true").Inc()
	c.replay(drained)
	return ch, true
}

func (c *Cache) PutTextChannel(g *discord.Guild, ch *discord.TextChannel) (*discord.TextChannel, bool) {
	c.mu.Lock()
	if existing, ok := g.TextChannel(ch.ID); ok {
		copyChannelCore(&existing.GuildChannel, &ch.GuildChannel)
		existing.Topic = ch.Topic
		existing.NSFW = ch.NSFW
		existing.RateLimitPerUser = ch.RateLimitPerUser
		if ch.LastMessageID != 0 {
			existing.LastMessageID = ch.LastMessageID
		}
		c.mu.Unlock()
		metricUpserts.WithLabelValues(KindTextChannel.String(), "false").Inc()
		return existing, false
	}
	g.PutTextChannel(ch)
	c.textChannels[ch.ID] = ch
	drained := c.takeEventsLocked(KindTextChannel, ch.ID)
	c.mu.Unlock()
	metricUpserts.WithLabelValues(KindTextChannel.String(), "true").Inc()
	c.replay(drained)
	return ch, true
}

func (c *Cache) PutVoiceChannel(g *discord.Guild, ch *discord.VoiceChannel) (*discord.VoiceChannel, bool) {
	c.mu.Lock()
	if existing, ok := g.VoiceChannel(ch.ID); ok {
		copyChannelCore(&existing.GuildChannel, &ch.GuildChannel)
		existing.Bitrate = ch.Bitrate
		existing.UserLimit = ch.UserLimit
		c.mu.Unlock()
		metricUpserts.WithLabelValues(KindVoiceChannel.String(), "false").Inc()
		return existing, false
	}
	g.PutVoiceChannel(ch)
	c.voiceChannels[ch.ID] = ch
	drained := c.takeEventsLocked(KindVoiceChannel, ch.ID)
	c.mu.Unlock()
	metricUpserts.WithLabelValues(KindVoiceChannel.String(), "true").Inc()
	c.replay(drained)
	return ch, true
}

func copyChannelCore(dst, src *discord.GuildChannel) {
	dst.Name = src.Name
	dst.Position = src.Position
	dst.ParentID = src.ParentID
	dst.ReplaceOverwrites(src.Overwrites())
}

func (c *Cache) RemoveCategory(g *discord.Guild, id snowflake.ID) (*discord.Category, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	ch, ok := g.RemoveCategory(id)
	if ok {
		delete(c.categories, id)
		c.discardEventsLocked(KindCategory, id)
	}
	return ch, ok
}

func (c *Cache) RemoveTextChannel(g *discord.Guild, id snowflake.ID) (*discord.TextChannel, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	ch, ok := g.RemoveTextChannel(id)
	if ok {
		delete(c.textChannels, id)
		c.discardEventsLocked(KindTextChannel, id)
	}
	return ch, ok
}

func (c *Cache) RemoveVoiceChannel(g *discord.Guild, id snowflake.ID) (*discord.VoiceChannel, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	ch, ok := g.RemoveVoiceChannel(id)
	if ok {
		delete(c.voiceChannels, id)
		c.discardEventsLocked(KindVoiceChannel, id)
	}
	return ch, ok
}

// PutPrivateChannel upserts a canonical DM channel, promoting a fake one in
// place and migrating the by-recipient index out of its fake keying.
func (c *Cache) PutPrivateChannel(ch *discord.PrivateChannel) (*discord.PrivateChannel, bool) {
	c.mu.Lock()
	if existing, ok := c.privateChannels[ch.ID]; ok {
		if ch.Recipient != nil {
			if existing.Recipient != nil && existing.Recipient.ID != ch.Recipient.ID {
				delete(c.privateByRecipient, existing.Recipient.ID)
			}
			existing.Recipient = ch.Recipient
			c.privateByRecipient[existing.Recipient.ID] = existing
		}
		if ch.LastMessageID != 0 {
			existing.LastMessageID = ch.LastMessageID
		}
		c.mu.Unlock()
		metricUpserts.WithLabelValues(KindPrivateChannel.String(), "false").Inc()
		return existing, false
	}
	target := ch
	if fake, ok := c.fakePrivateChannels[ch.ID]; ok {
		delete(c.fakePrivateChannels, ch.ID)
		if fake.Recipient != nil {
			delete(c.fakePrivateByRecipient, fake.Recipient.ID)
		}
		fake.Recipient = ch.Recipient
		fake.LastMessageID = ch.LastMessageID
		fake.Fake = false
		target = fake
		metricPromotions.WithLabelValues(KindPrivateChannel.String()).Inc()
	}
	c.privateChannels[target.ID] = target
	if target.Recipient != nil {
		c.privateByRecipient[target.Recipient.ID] = target
	}
	drained := c.takeEventsLocked(KindPrivateChannel, target.ID)
	c.mu.Unlock()
	metricUpserts.WithLabelValues(KindPrivateChannel.String(), "true").Inc()
	c.replay(drained)
	return target, true
}

func (c *Cache) GetOrCreatePrivateChannel(id snowflake.ID, recipient *discord.User) *discord.PrivateChannel {
	c.mu.Lock()
	defer c.mu.Unlock()
	if ch, ok := c.privateChannels[id]; ok {
		return ch
	}
	if ch, ok := c.fakePrivateChannels[id]; ok {
		return ch
	}
	ch := &discord.PrivateChannel{ID: id, Recipient: recipient, Fake: true}
	c.fakePrivateChannels[id] = ch
	if recipient != nil {
		c.fakePrivateByRecipient[recipient.ID] = ch
	}
	metricFakes.WithLabelValues(KindPrivateChannel.String()).Inc()
	return ch
}

func (c *Cache) RemovePrivateChannel(id snowflake.ID) (*discord.PrivateChannel, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	ch, ok := c.privateChannels[id]
	if ok {
		delete(c.privateChannels, id)
		if ch.Recipient != nil {
			delete(c.privateByRecipient, ch.Recipient.ID)
		}
	} else if ch, ok = c.fakePrivateChannels[id]; ok {
		delete(c.fakePrivateChannels, id)
		if ch.Recipient != nil {
			delete(c.fakePrivateByRecipient, ch.Recipient.ID)
		}
	}
	if ok {
		c.discardEventsLocked(KindPrivateChannel, id)
	}
	return ch, ok
}

// PutEmote upserts a canonical guild emote, promoting a reaction-born fake
// in place.
func (c *Cache) PutEmote(g *discord.Guild, e *discord.Emote) (*discord.Emote, bool) {
	c.mu.Lock()
	if existing, ok := c.emotes[e.ID]; ok {
		copyEmote(existing, e)
		c.mu.Unlock()
		metricUpserts.WithLabelValues(KindEmote.String(), "false").Inc()
		return existing, false
	}
	target := e
	if fake, ok := c.fakeEmotes[e.ID]; ok {
		copyEmote(fake, e)
		fake.Fake = false
		delete(c.fakeEmotes, e.ID)
		target = fake
		metricPromotions.WithLabelValues(KindEmote.String()).Inc()
	}
	c.emotes[target.ID] = target
	if g != nil {
		g.PutEmote(target)
	}
	drained := c.takeEventsLocked(KindEmote, target.ID)
	c.mu.Unlock()
	metricUpserts.WithLabelValues(KindEmote.String(), "true").Inc()
	c.replay(drained)
	return target, true
}

func copyEmote(dst, src *discord.Emote) {
	dst.GuildID = src.GuildID
	dst.Name = src.Name
	dst.Animated = src.Animated
	dst.Managed = src.Managed
	if src.Creator != nil {
		dst.Creator = src.Creator
	}
	roleSet := make(map[snowflake.ID]*discord.Role)
	for _, r := range src.RestrictedTo() {
		roleSet[r.ID] = r
	}
	dst.ReplaceRestrictions(roleSet)
}

// GetOrCreateEmote materializes a reaction emote from the partial emoji
// object inside a message record.
func (c *Cache) GetOrCreateEmote(id snowflake.ID, name string, animated bool) *discord.Emote {
	// Unicode emoji carry no id; they get a throwaway value that never
	// enters the fake namespace.
	if id == 0 {
		e := discord.NewEmote(0, name)
		e.Animated = animated
		e.Fake = true
		return e
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.emotes[id]; ok {
		return e
	}
	if e, ok := c.fakeEmotes[id]; ok {
		return e
	}
	e := discord.NewEmote(id, name)
	e.Animated = animated
	e.Fake = true
	c.fakeEmotes[id] = e
	metricFakes.WithLabelValues(KindEmote.String()).Inc()
	return e
}

func (c *Cache) RemoveEmote(g *discord.Guild, id snowflake.ID) (*discord.Emote, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.emotes[id]
	if !ok {
		return nil, false
	}
	delete(c.emotes, id)
	if g != nil {
		g.RemoveEmote(id)
	}
	c.discardEventsLocked(KindEmote, id)
	return e, true
}

func boolLabel(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
