package state

import "github.com/fuad-daoud/discord-state/discord"

// Listener observes cache writes after they are integrated. Used by the
// graph mirror; callbacks run on the caller's goroutine and must not call
// back into the cache.
type Listener interface {
	OnGuild(guild *discord.Guild)
	OnMember(member *discord.Member)
	OnTextChannel(channel *discord.TextChannel)
	OnVoiceChannel(channel *discord.VoiceChannel)
	OnMessage(message *discord.Message)
}
