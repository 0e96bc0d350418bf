package codec

import (
	"github.com/bitly/go-simplejson"
	"github.com/disgoorg/snowflake/v2"
	"github.com/fuad-daoud/discord-state/discord"
)

func DecodeRole(js *simplejson.Json, guildID snowflake.ID) (*discord.Role, error) {
	id, err := requiredID(js, "role", "id")
	if err != nil {
		return nil, err
	}
	return &discord.Role{
		ID:          id,
		GuildID:     guildID,
		Name:        js.Get("name").MustString(),
		Permissions: discord.Permissions(js.Get("permissions").MustInt64()),
		Position:    js.Get("position").MustInt(),
		Color:       js.Get("color").MustInt(),
		Managed:     js.Get("managed").MustBool(),
		Hoisted:     js.Get("hoist").MustBool(),
		Mentionable: js.Get("mentionable").MustBool(),
	}, nil
}
