package state

import (
	"sort"

	"github.com/disgoorg/snowflake/v2"
	"github.com/fuad-daoud/discord-state/discord"
)

// GuildView is a point-in-time aggregate over one guild, built for callers
// that want a coherent listing (HTTP handlers, the graph mirror) without
// holding cache internals. The slices are fresh, the entities inside them
// are the live shared objects.
type GuildView struct {
	Guild         *discord.Guild
	Roles         []*discord.Role
	Members       []*discord.Member
	Categories    []*discord.Category
	TextChannels  []*discord.TextChannel
	VoiceChannels []*discord.VoiceChannel
	Emotes        []*discord.Emote
}

// Snapshot assembles a GuildView, ordering roles by effective position
// (highest first) and channels by position.
func (c *Cache) Snapshot(guildID snowflake.ID) (*GuildView, bool) {
	guild, ok := c.Guild(guildID)
	if !ok {
		return nil, false
	}

	view := &GuildView{
		Guild:         guild,
		Members:       guild.Members(),
		Categories:    guild.Categories(),
		TextChannels:  guild.TextChannels(),
		VoiceChannels: guild.VoiceChannels(),
		Emotes:        guild.Emotes(),
	}
	for _, r := range guild.Roles() {
		view.Roles = append(view.Roles, r)
	}

	sort.Slice(view.Roles, func(i, j int) bool {
		return view.Roles[i].EffectivePosition() > view.Roles[j].EffectivePosition()
	})
	sort.Slice(view.Members, func(i, j int) bool {
		return view.Members[i].User.ID < view.Members[j].User.ID
	})
	sort.Slice(view.Categories, func(i, j int) bool {
		return view.Categories[i].Position < view.Categories[j].Position
	})
	sort.Slice(view.TextChannels, func(i, j int) bool {
		return view.TextChannels[i].Position < view.TextChannels[j].Position
	})
	sort.Slice(view.VoiceChannels, func(i, j int) bool {
		return view.VoiceChannels[i].Position < view.VoiceChannels[j].Position
	})
	sort.Slice(view.Emotes, func(i, j int) bool {
		return view.Emotes[i].ID < view.Emotes[j].ID
	})
	return view, true
}
