package discord

import (
	"time"

	"github.com/disgoorg/snowflake/v2"
)

// Message and its sub-values are immutable once decoded. They reference
// already-resolved entities (author, reaction emotes) by shared pointer but
// are never themselves updated in place.
type Message struct {
	ID              snowflake.ID
	ChannelID       snowflake.ID
	GuildID         snowflake.ID
	Author          *User
	Content         string
	Timestamp       time.Time
	EditedTimestamp time.Time
	TTS             bool
	Pinned          bool
	MentionEveryone bool
	Embeds          []Embed
	Attachments     []Attachment
	Reactions       []Reaction
}

type Embed struct {
	Title       string `mapstructure:"title"`
	Description string `mapstructure:"description"`
	URL         string `mapstructure:"url"`
	Color       int    `mapstructure:"color"`

	Footer    *EmbedFooter `mapstructure:"footer"`
	Image     *EmbedMedia  `mapstructure:"image"`
	Thumbnail *EmbedMedia  `mapstructure:"thumbnail"`
	Author    *EmbedAuthor `mapstructure:"author"`
	Fields    []EmbedField `mapstructure:"fields"`
}

type EmbedFooter struct {
	Text    string `mapstructure:"text"`
	IconURL string `mapstructure:"icon_url"`
}

type EmbedMedia struct {
	URL    string `mapstructure:"url"`
	Width  int    `mapstructure:"width"`
	Height int    `mapstructure:"height"`
}

type EmbedAuthor struct {
	Name    string `mapstructure:"name"`
	URL     string `mapstructure:"url"`
	IconURL string `mapstructure:"icon_url"`
}

type EmbedField struct {
	Name   string `mapstructure:"name"`
	Value  string `mapstructure:"value"`
	Inline bool   `mapstructure:"inline"`
}

type Attachment struct {
	ID       string `mapstructure:"id"`
	Filename string `mapstructure:"filename"`
	Size     int    `mapstructure:"size"`
	URL      string `mapstructure:"url"`
	ProxyURL string `mapstructure:"proxy_url"`
	Width    int    `mapstructure:"width"`
	Height   int    `mapstructure:"height"`
}

// Reaction always carries the emoji name. Emote is only set for custom
// emotes; unicode reactions have no id and are identified by Name alone.
type Reaction struct {
	Count int
	Me    bool
	Name  string
	Emote *Emote
}
