package codec

import (
	"github.com/bitly/go-simplejson"
	"github.com/disgoorg/snowflake/v2"
	"github.com/fuad-daoud/discord-state/discord"
)

// DecodeGuildChannel dispatches on the record's integer channel type and
// returns a *discord.Category, *discord.TextChannel or
// *discord.VoiceChannel. Private channel records do not belong here, see
// DecodePrivateChannel.
func DecodeGuildChannel(js *simplejson.Json, guildID snowflake.ID) (any, error) {
	id, err := requiredID(js, "channel", "id")
	if err != nil {
		return nil, err
	}
	kindRaw, ok := js.CheckGet("type")
	if !ok {
		return nil, missingField("channel", "type")
	}
	kind := kindRaw.MustInt(-1)

	core := discord.NewGuildChannel(id, guildID)
	core.Name = js.Get("name").MustString()
	core.Position = js.Get("position").MustInt()
	core.ParentID = optionalID(js, "parent_id")
	decodeOverwrites(js, &core)

	switch discord.ChannelTypeFromInt(kind) {
	case discord.ChannelTypeText:
		return &discord.TextChannel{
			GuildChannel:     core,
			Topic:            js.Get("topic").MustString(),
			NSFW:             js.Get("nsfw").MustBool(),
			RateLimitPerUser: js.Get("rate_limit_per_user").MustInt(),
			LastMessageID:    optionalID(js, "last_message_id"),
		}, nil
	case discord.ChannelTypeVoice:
		return &discord.VoiceChannel{
			GuildChannel: core,
			Bitrate:      js.Get("bitrate").MustInt(),
			UserLimit:    js.Get("user_limit").MustInt(),
		}, nil
	case discord.ChannelTypeCategory:
		return &discord.Category{GuildChannel: core}, nil
	}
	return nil, &UnsupportedKindError{Record: "channel", Kind: kind}
}

func decodeOverwrites(js *simplejson.Json, core *discord.GuildChannel) {
	arr := js.Get("permission_overwrites").MustArray()
	for i := range arr {
		o := js.Get("permission_overwrites").GetIndex(i)
		id := optionalID(o, "id")
		if id == 0 {
			continue
		}
		core.SetOverwrite(&discord.PermissionOverwrite{
			ID:    id,
			Type:  discord.OverwriteTypeFromString(o.Get("type").MustString()),
			Allow: discord.Permissions(o.Get("allow").MustInt64()),
			Deny:  discord.Permissions(o.Get("deny").MustInt64()),
		})
	}
}

// DecodePrivateChannel builds a DM channel; the recipient user is resolved
// by the caller.
func DecodePrivateChannel(js *simplejson.Json, recipient *discord.User) (*discord.PrivateChannel, error) {
	id, err := requiredID(js, "private channel", "id")
	if err != nil {
		return nil, err
	}
	if recipient == nil {
		return nil, missingField("private channel", "recipients")
	}
	return &discord.PrivateChannel{
		ID:            id,
		Recipient:     recipient,
		LastMessageID: optionalID(js, "last_message_id"),
	}, nil
}
