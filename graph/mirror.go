package graph

import (
	"context"
	"strings"

	"github.com/fuad-daoud/discord-state/discord"
	"github.com/fuad-daoud/discord-state/logger/dlog"
)

// Mirror projects cache mutations into the graph. It is a best-effort
// secondary surface: a failed write is logged and dropped, it never feeds
// back into the cache.
type Mirror struct {
	Conn *Connection
}

func NewMirror(conn *Connection) *Mirror {
	return &Mirror{Conn: conn}
}

func (m *Mirror) OnGuild(g *discord.Guild) {
	ctx := context.Background()
	err := m.Conn.Transaction(ctx, func(write Write) error {
		node := guildNode(g)
		if err := write(MergeN("g", node)); err != nil {
			return err
		}
		for _, member := range g.Members() {
			if err := writeMember(write, node, member); err != nil {
				return err
			}
		}
		for _, ch := range g.TextChannels() {
			if err := writeTextChannel(write, node, ch); err != nil {
				return err
			}
		}
		for _, ch := range g.VoiceChannels() {
			if err := writeVoiceChannel(write, node, ch); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		dlog.Error("Mirroring guild failed", "guild", g.ID, "err", err)
	}
}

func (m *Mirror) OnMember(member *discord.Member) {
	ctx := context.Background()
	err := m.Conn.Transaction(ctx, func(write Write) error {
		return writeMember(write, Guild{Id: member.GuildID.String()}, member)
	})
	if err != nil {
		dlog.Error("Mirroring member failed", "member", member.User.ID, "err", err)
	}
}

func (m *Mirror) OnTextChannel(ch *discord.TextChannel) {
	ctx := context.Background()
	err := m.Conn.Transaction(ctx, func(write Write) error {
		return writeTextChannel(write, Guild{Id: ch.GuildID.String()}, ch)
	})
	if err != nil {
		dlog.Error("Mirroring text channel failed", "channel", ch.ID, "err", err)
	}
}

func (m *Mirror) OnVoiceChannel(ch *discord.VoiceChannel) {
	ctx := context.Background()
	err := m.Conn.Transaction(ctx, func(write Write) error {
		return writeVoiceChannel(write, Guild{Id: ch.GuildID.String()}, ch)
	})
	if err != nil {
		dlog.Error("Mirroring voice channel failed", "channel", ch.ID, "err", err)
	}
}

func (m *Mirror) OnMessage(msg *discord.Message) {
	if msg.GuildID == 0 {
		return
	}
	ctx := context.Background()
	err := m.Conn.Transaction(ctx, func(write Write) error {
		channel := TextChannel{Id: msg.ChannelID.String()}
		author := Member{Id: msg.Author.ID.String()}
		return write(MergeN("c", channel),
			MergeN("mb", author),
			CreateN("m", messageNode(msg)),
			Merge("(c)-[:CONTAINS]->(m)-[:AUTHOR]->(mb)-[:CREATED]->(m)"))
	})
	if err != nil {
		dlog.Error("Mirroring message failed", "message", msg.ID, "err", err)
	}
}

func writeMember(write Write, guild Guild, member *discord.Member) error {
	node := memberNode(member)
	if err := write(MergeN("mb", node)); err != nil {
		return err
	}
	return write(MatchN("g", guild),
		MatchN("mb", node),
		Merge("(g)-[:HAS]->(mb)-[:MEMBER_OF]->(g)"))
}

func writeTextChannel(write Write, guild Guild, ch *discord.TextChannel) error {
	node := textChannelNode(ch)
	if err := write(MergeN("c", node)); err != nil {
		return err
	}
	return write(MatchN("g", guild),
		MatchN("c", node),
		Merge("(g)-[:HAS]->(c)"))
}

func writeVoiceChannel(write Write, guild Guild, ch *discord.VoiceChannel) error {
	node := voiceChannelNode(ch)
	if err := write(MergeN("c", node)); err != nil {
		return err
	}
	return write(MatchN("g", guild),
		MatchN("c", node),
		Merge("(g)-[:HAS]->(c)"))
}

func sanitizeText(s string) string {
	return strings.ReplaceAll(s, `"`, "'")
}
