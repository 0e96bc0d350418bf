package discord

import (
	"sync"

	"github.com/disgoorg/snowflake/v2"
)

// Guild owns the per-guild entity maps (arena style, see the state
// package). Cross-entity links inside a guild go through these maps so the
// object graph stays cycle-free from an ownership point of view.
type Guild struct {
	ID     snowflake.ID
	Name   string
	Region string

	Features []GuildFeature

	VerificationLevel    VerificationLevel
	NotificationLevel    NotificationLevel
	MFALevel             MFALevel
	ExplicitContentLevel ExplicitContentLevel

	// Owner is nil when the owner id could not be resolved against the
	// member map at load time, a later member add record fills it in.
	Owner         *Member
	OwnerID       snowflake.ID
	AfkChannel    *VoiceChannel
	SystemChannel *TextChannel

	// Available is flipped once the bulk loader ran every phase.
	Available bool

	mu            sync.RWMutex
	roles         map[snowflake.ID]*Role
	members       map[snowflake.ID]*Member
	categories    map[snowflake.ID]*Category
	textChannels  map[snowflake.ID]*TextChannel
	voiceChannels map[snowflake.ID]*VoiceChannel
	emotes        map[snowflake.ID]*Emote
}

func NewGuild(id snowflake.ID) *Guild {
	return &Guild{
		ID:            id,
		roles:         make(map[snowflake.ID]*Role),
		members:       make(map[snowflake.ID]*Member),
		categories:    make(map[snowflake.ID]*Category),
		textChannels:  make(map[snowflake.ID]*TextChannel),
		voiceChannels: make(map[snowflake.ID]*VoiceChannel),
		emotes:        make(map[snowflake.ID]*Emote),
	}
}

func (g *Guild) HasFeature(feature GuildFeature) bool {
	for _, f := range g.Features {
		if f == feature {
			return true
		}
	}
	return false
}

// PublicRole returns the implicit @everyone role, present in every fully
// loaded guild.
func (g *Guild) PublicRole() (*Role, bool) {
	return g.Role(g.ID)
}

func (g *Guild) Role(id snowflake.ID) (*Role, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	r, ok := g.roles[id]
	return r, ok
}

func (g *Guild) PutRole(r *Role) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.roles[r.ID] = r
}

func (g *Guild) RemoveRole(id snowflake.ID) (*Role, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	r, ok := g.roles[id]
	delete(g.roles, id)
	return r, ok
}

func (g *Guild) Roles() map[snowflake.ID]*Role {
	g.mu.RLock()
	defer g.mu.RUnlock()
	roles := make(map[snowflake.ID]*Role, len(g.roles))
	for id, r := range g.roles {
		roles[id] = r
	}
	return roles
}

func (g *Guild) Member(userID snowflake.ID) (*Member, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	m, ok := g.members[userID]
	return m, ok
}

func (g *Guild) PutMember(m *Member) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.members[m.User.ID] = m
}

func (g *Guild) RemoveMember(userID snowflake.ID) (*Member, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	m, ok := g.members[userID]
	delete(g.members, userID)
	return m, ok
}

func (g *Guild) Members() []*Member {
	g.mu.RLock()
	defer g.mu.RUnlock()
	members := make([]*Member, 0, len(g.members))
	for _, m := range g.members {
		members = append(members, m)
	}
	return members
}

func (g *Guild) MemberCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.members)
}

func (g *Guild) Category(id snowflake.ID) (*Category, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	c, ok := g.categories[id]
	return c, ok
}

func (g *Guild) PutCategory(c *Category) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.categories[c.ID] = c
}

func (g *Guild) RemoveCategory(id snowflake.ID) (*Category, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	c, ok := g.categories[id]
	delete(g.categories, id)
	return c, ok
}

func (g *Guild) TextChannel(id snowflake.ID) (*TextChannel, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	c, ok := g.textChannels[id]
	return c, ok
}

func (g *Guild) PutTextChannel(c *TextChannel) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.textChannels[c.ID] = c
}

func (g *Guild) RemoveTextChannel(id snowflake.ID) (*TextChannel, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	c, ok := g.textChannels[id]
	delete(g.textChannels, id)
	return c, ok
}

func (g *Guild) VoiceChannel(id snowflake.ID) (*VoiceChannel, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	c, ok := g.voiceChannels[id]
	return c, ok
}

func (g *Guild) PutVoiceChannel(c *VoiceChannel) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.voiceChannels[c.ID] = c
}

func (g *Guild) RemoveVoiceChannel(id snowflake.ID) (*VoiceChannel, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	c, ok := g.voiceChannels[id]
	delete(g.voiceChannels, id)
	return c, ok
}

func (g *Guild) TextChannels() []*TextChannel {
	g.mu.RLock()
	defer g.mu.RUnlock()
	channels := make([]*TextChannel, 0, len(g.textChannels))
	for _, c := range g.textChannels {
		channels = append(channels, c)
	}
	return channels
}

func (g *Guild) VoiceChannels() []*VoiceChannel {
	g.mu.RLock()
	defer g.mu.RUnlock()
	channels := make([]*VoiceChannel, 0, len(g.voiceChannels))
	for _, c := range g.voiceChannels {
		channels = append(channels, c)
	}
	return channels
}

func (g *Guild) Categories() []*Category {
	g.mu.RLock()
	defer g.mu.RUnlock()
	categories := make([]*Category, 0, len(g.categories))
	for _, c := range g.categories {
		categories = append(categories, c)
	}
	return categories
}

func (g *Guild) Emote(id snowflake.ID) (*Emote, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	e, ok := g.emotes[id]
	return e, ok
}

func (g *Guild) PutEmote(e *Emote) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.emotes[e.ID] = e
}

func (g *Guild) RemoveEmote(id snowflake.ID) (*Emote, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	e, ok := g.emotes[id]
	delete(g.emotes, id)
	return e, ok
}

func (g *Guild) Emotes() []*Emote {
	g.mu.RLock()
	defer g.mu.RUnlock()
	emotes := make([]*Emote, 0, len(g.emotes))
	for _, e := range g.emotes {
		emotes = append(emotes, e)
	}
	return emotes
}
