package codec

import (
	"github.com/bitly/go-simplejson"
	"github.com/disgoorg/snowflake/v2"
	"github.com/fuad-daoud/discord-state/discord"
)

// Presence is the decoded form of a presence update, applied by the caller
// to whatever implements discord.HasOnlineStatus for the target user.
type Presence struct {
	UserID   snowflake.ID
	Status   discord.OnlineStatus
	Activity *discord.Activity
}

func DecodePresence(js *simplejson.Json) (*Presence, error) {
	userID, err := requiredID(js.Get("user"), "presence", "id")
	if err != nil {
		return nil, err
	}
	presence := &Presence{
		UserID: userID,
		Status: discord.OnlineStatusFromString(js.Get("status").MustString()),
	}
	if game, ok := js.CheckGet("game"); ok && len(game.MustMap()) > 0 {
		presence.Activity = &discord.Activity{
			Name: game.Get("name").MustString(),
			Type: discord.ActivityTypeFromInt(game.Get("type").MustInt()),
			URL:  game.Get("url").MustString(),
		}
	}
	return presence, nil
}
