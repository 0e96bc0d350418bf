package restsource

import (
	"net/http"

	"github.com/disgoorg/snowflake/v2"
	"github.com/fuad-daoud/discord-state/discord"
	"github.com/fuad-daoud/discord-state/integrations/custom_http"
	"github.com/fuad-daoud/discord-state/logger/dlog"
	"github.com/fuad-daoud/discord-state/state"
)

// Source fetches full entity payloads over REST and feeds them through the
// cache's normal record path, so a fetched user promotes the same
// placeholder a gateway record would.
type Source struct {
	client custom_http.Client
	cache  *state.Cache
}

func New(baseURL, token string, cache *state.Cache) *Source {
	return &Source{
		client: &custom_http.DefaultClient{
			Client:  &http.Client{},
			BaseURL: baseURL,
			Headers: map[string]string{
				"Authorization": "Bot " + token,
				"Content-Type":  "application/json",
			},
		},
		cache: cache,
	}
}

// CompleteUser fetches the full user object behind a placeholder and
// promotes it. The cached (possibly still fake) user is returned on fetch
// failure so callers always hold something usable.
func (s *Source) CompleteUser(id snowflake.ID) (*discord.User, error) {
	req, err := s.client.GetRequest("/users/" + id.String())
	if err != nil {
		return s.cache.GetOrCreateUser(id, ""), err
	}
	js, err := s.client.DoJson(req)
	if err != nil {
		dlog.Warn("user fetch failed", "user", id, "err", err)
		return s.cache.GetOrCreateUser(id, ""), err
	}
	cached, err := s.cache.Apply(state.RecordUserUpdate, js)
	if err != nil {
		return s.cache.GetOrCreateUser(id, ""), err
	}
	return cached.(*discord.User), nil
}

// FetchMessage fetches a single message and materializes it, promoting the
// author along the way.
func (s *Source) FetchMessage(channelID, messageID snowflake.ID) (*discord.Message, error) {
	req, err := s.client.GetRequest("/channels/" + channelID.String() + "/messages/" + messageID.String())
	if err != nil {
		return nil, err
	}
	js, err := s.client.DoJson(req)
	if err != nil {
		dlog.Warn("message fetch failed", "channel", channelID, "message", messageID, "err", err)
		return nil, err
	}
	decoded, err := s.cache.Apply(state.RecordMessageCreate, js)
	if err != nil {
		return nil, err
	}
	return decoded.(*discord.Message), nil
}

// FetchGuild fetches a guild snapshot and runs the bulk load over it.
func (s *Source) FetchGuild(id snowflake.ID) (*discord.Guild, error) {
	req, err := s.client.GetRequest("/guilds/" + id.String())
	if err != nil {
		return nil, err
	}
	js, err := s.client.DoJson(req)
	if err != nil {
		dlog.Warn("guild fetch failed", "guild", id, "err", err)
		return nil, err
	}
	return s.cache.LoadGuild(js)
}
