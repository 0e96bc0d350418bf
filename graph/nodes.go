package graph

import (
	"github.com/fuad-daoud/discord-state/discord"
)

// Node property structs. Snowflakes are stored as strings, the graph is a
// query surface, never a parse authority.

type Guild struct {
	Id     string `json:"id"`
	Name   string `json:"name"`
	Region string `json:"region"`
}

type TextChannel struct {
	Id    string `json:"id"`
	Name  string `json:"name"`
	Topic string `json:"topic"`
}

type VoiceChannel struct {
	Id   string `json:"id"`
	Name string `json:"name"`
}

type Member struct {
	Id   string `json:"id"`
	Name string `json:"name"`
}

type Message struct {
	Id          string `json:"id"`
	Text        string `json:"text"`
	CreatedDate string `json:"createdDate"`
}

func guildNode(g *discord.Guild) Guild {
	return Guild{
		Id:     g.ID.String(),
		Name:   g.Name,
		Region: g.Region,
	}
}

func textChannelNode(ch *discord.TextChannel) TextChannel {
	return TextChannel{
		Id:    ch.ID.String(),
		Name:  ch.Name,
		Topic: ch.Topic,
	}
}

func voiceChannelNode(ch *discord.VoiceChannel) VoiceChannel {
	return VoiceChannel{
		Id:   ch.ID.String(),
		Name: ch.Name,
	}
}

func memberNode(m *discord.Member) Member {
	return Member{
		Id:   m.User.ID.String(),
		Name: m.EffectiveName(),
	}
}

func messageNode(m *discord.Message) Message {
	return Message{
		Id:          m.ID.String(),
		Text:        sanitizeText(m.Content),
		CreatedDate: m.Timestamp.String(),
	}
}
