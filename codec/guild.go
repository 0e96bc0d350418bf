package codec

import (
	"github.com/bitly/go-simplejson"
	"github.com/fuad-daoud/discord-state/discord"
)

// DecodeGuild reads the scalar guild fields of a guild snapshot. The
// arrays inside the snapshot (roles, members, channels, emojis, voice
// states, presences) have ordering dependencies between them and are
// consumed phase by phase by the state package's bulk loader.
func DecodeGuild(js *simplejson.Json) (*discord.Guild, error) {
	id, err := requiredID(js, "guild", "id")
	if err != nil {
		return nil, err
	}
	guild := discord.NewGuild(id)
	guild.Name = js.Get("name").MustString()
	guild.Region = js.Get("region").MustString()
	guild.OwnerID = optionalID(js, "owner_id")
	guild.VerificationLevel = discord.VerificationLevelFromInt(js.Get("verification_level").MustInt())
	guild.NotificationLevel = discord.NotificationLevelFromInt(js.Get("default_message_notifications").MustInt())
	guild.MFALevel = discord.MFALevelFromInt(js.Get("mfa_level").MustInt())
	guild.ExplicitContentLevel = discord.ExplicitContentLevelFromInt(js.Get("explicit_content_filter").MustInt())
	return guild, nil
}

func DecodeGuildFeatures(js *simplejson.Json) []discord.GuildFeature {
	arr := js.Get("features").MustArray()
	features := make([]discord.GuildFeature, 0, len(arr))
	for i := range arr {
		s := js.Get("features").GetIndex(i).MustString()
		if s == "" {
			continue
		}
		features = append(features, discord.GuildFeature(s))
	}
	return features
}
