package codec

import (
	"github.com/bitly/go-simplejson"
	"github.com/disgoorg/snowflake/v2"
	"github.com/fuad-daoud/discord-state/discord"
	"github.com/mitchellh/mapstructure"
)

// EmoteResolver hands a reaction's partial emote back to the caller, which
// either finds the real emote or fakes one. Keeps the decoder itself free
// of cache access.
type EmoteResolver func(id snowflake.ID, name string, animated bool) *discord.Emote

// DecodeMessage builds an immutable message value. Author is resolved by
// the caller; nested value objects are mapped with mapstructure from the
// record's map form.
func DecodeMessage(js *simplejson.Json, author *discord.User, resolveEmote EmoteResolver) (*discord.Message, error) {
	id, err := requiredID(js, "message", "id")
	if err != nil {
		return nil, err
	}
	channelID, err := requiredID(js, "message", "channel_id")
	if err != nil {
		return nil, err
	}
	if author == nil {
		return nil, missingField("message", "author")
	}

	msg := &discord.Message{
		ID:              id,
		ChannelID:       channelID,
		GuildID:         optionalID(js, "guild_id"),
		Author:          author,
		Content:         js.Get("content").MustString(),
		Timestamp:       optionalTime(js, "timestamp"),
		EditedTimestamp: optionalTime(js, "edited_timestamp"),
		TTS:             js.Get("tts").MustBool(),
		Pinned:          js.Get("pinned").MustBool(),
		MentionEveryone: js.Get("mention_everyone").MustBool(),
	}

	if err := decodeValueList(js, "embeds", &msg.Embeds); err != nil {
		return nil, badField("message", "embeds", err)
	}
	if err := decodeValueList(js, "attachments", &msg.Attachments); err != nil {
		return nil, badField("message", "attachments", err)
	}

	reactions := js.Get("reactions").MustArray()
	for i := range reactions {
		r := js.Get("reactions").GetIndex(i)
		emoteJs := r.Get("emoji")
		emoteID := optionalID(emoteJs, "id")
		name := emoteJs.Get("name").MustString()
		var emote *discord.Emote
		// Unicode reactions carry a null id; they stay name-only and are
		// never resolved into a cached emote.
		if emoteID != 0 && resolveEmote != nil {
			emote = resolveEmote(emoteID, name, emoteJs.Get("animated").MustBool())
		}
		msg.Reactions = append(msg.Reactions, discord.Reaction{
			Count: r.Get("count").MustInt(),
			Me:    r.Get("me").MustBool(),
			Name:  name,
			Emote: emote,
		})
	}
	return msg, nil
}

func decodeValueList(js *simplejson.Json, field string, out any) error {
	arr := js.Get(field).MustArray()
	if len(arr) == 0 {
		return nil
	}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(arr)
}
