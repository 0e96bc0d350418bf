package codec

import (
	"github.com/bitly/go-simplejson"
	"github.com/disgoorg/snowflake/v2"
	"github.com/fuad-daoud/discord-state/discord"
)

// DecodeVoiceState builds a voice state. The channel is resolved by the
// caller and may be nil for a disconnect update.
func DecodeVoiceState(js *simplejson.Json, guildID snowflake.ID, channel *discord.VoiceChannel) (*discord.VoiceState, error) {
	userID, err := requiredID(js, "voice state", "user_id")
	if err != nil {
		return nil, err
	}
	return &discord.VoiceState{
		GuildID:    guildID,
		UserID:     userID,
		SessionID:  js.Get("session_id").MustString(),
		Channel:    channel,
		GuildMute:  js.Get("mute").MustBool(),
		GuildDeaf:  js.Get("deaf").MustBool(),
		SelfMute:   js.Get("self_mute").MustBool(),
		SelfDeaf:   js.Get("self_deaf").MustBool(),
		Suppressed: js.Get("suppress").MustBool(),
	}, nil
}

// VoiceChannelID extracts the nullable channel id of a voice state record.
func VoiceChannelID(js *simplejson.Json) snowflake.ID {
	return optionalID(js, "channel_id")
}
