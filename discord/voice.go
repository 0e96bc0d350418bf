package discord

import (
	"github.com/disgoorg/snowflake/v2"
)

// VoiceState is mutable and attached 1:1 to a member. Channel is nil while
// the member is not connected.
type VoiceState struct {
	GuildID   snowflake.ID
	UserID    snowflake.ID
	SessionID string

	Channel *VoiceChannel

	GuildMute  bool
	GuildDeaf  bool
	SelfMute   bool
	SelfDeaf   bool
	Suppressed bool
}

func (vs *VoiceState) Connected() bool {
	return vs.Channel != nil
}
