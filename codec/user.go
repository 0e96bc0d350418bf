package codec

import (
	"github.com/bitly/go-simplejson"
	"github.com/fuad-daoud/discord-state/discord"
)

// DecodeUser builds a full user value from a user record. The returned
// object is not yet cached, insertion is the caller's job.
func DecodeUser(js *simplejson.Json) (*discord.User, error) {
	id, err := requiredID(js, "user", "id")
	if err != nil {
		return nil, err
	}
	username, err := requiredString(js, "user", "username")
	if err != nil {
		return nil, err
	}
	return &discord.User{
		ID:            id,
		Username:      username,
		Discriminator: js.Get("discriminator").MustString(),
		Avatar:        js.Get("avatar").MustString(),
		Bot:           js.Get("bot").MustBool(),
		Status:        discord.OnlineStatusOffline,
	}, nil
}
