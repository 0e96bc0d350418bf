package state

// Kind partitions the cache's id namespaces, one per entity kind.
type Kind int

const (
	KindUser Kind = iota
	KindGuild
	KindRole
	KindMember
	KindCategory
	KindTextChannel
	KindVoiceChannel
	KindPrivateChannel
	KindEmote
)

func (k Kind) String() string {
	switch k {
	case KindUser:
		return "user"
	case KindGuild:
		return "guild"
	case KindRole:
		return "role"
	case KindMember:
		return "member"
	case KindCategory:
		return "category"
	case KindTextChannel:
		return "text_channel"
	case KindVoiceChannel:
		return "voice_channel"
	case KindPrivateChannel:
		return "private_channel"
	case KindEmote:
		return "emote"
	}
	return "unknown"
}
