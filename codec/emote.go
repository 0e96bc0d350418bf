package codec

import (
	"github.com/bitly/go-simplejson"
	"github.com/disgoorg/snowflake/v2"
	"github.com/fuad-daoud/discord-state/discord"
	"github.com/fuad-daoud/discord-state/logger/dlog"
)

// DecodeEmote builds a full guild emote. Creator may be nil when the
// record carried no user. Role restrictions are resolved against the
// supplied role map, unknown ids are dropped with a diagnostic.
func DecodeEmote(js *simplejson.Json, guildID snowflake.ID, creator *discord.User, roles map[snowflake.ID]*discord.Role) (*discord.Emote, error) {
	id, err := requiredID(js, "emote", "id")
	if err != nil {
		return nil, err
	}
	emote := discord.NewEmote(id, js.Get("name").MustString())
	emote.GuildID = guildID
	emote.Animated = js.Get("animated").MustBool()
	emote.Managed = js.Get("managed").MustBool()
	emote.Creator = creator

	for _, roleID := range idList(js, "roles") {
		role, ok := roles[roleID]
		if !ok {
			dlog.Warn("emote references unknown role", "guild", guildID, "emote", id, "role", roleID)
			continue
		}
		emote.RestrictTo(role)
	}
	return emote, nil
}
