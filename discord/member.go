package discord

import (
	"sync"
	"time"

	"github.com/disgoorg/snowflake/v2"
)

// Member is the guild-scoped view of a user; its identity is the pair
// (guild id, user id). Roles are shared references into the guild's role
// map, never copies.
type Member struct {
	GuildID  snowflake.ID
	User     *User
	Nick     string
	JoinedAt time.Time

	rolesMu sync.RWMutex
	roles   map[snowflake.ID]*Role

	VoiceState *VoiceState
}

func NewMember(guildID snowflake.ID, user *User) *Member {
	return &Member{
		GuildID: guildID,
		User:    user,
		roles:   make(map[snowflake.ID]*Role),
	}
}

func (m *Member) EffectiveName() string {
	if m.Nick != "" {
		return m.Nick
	}
	return m.User.Username
}

func (m *Member) Role(id snowflake.ID) (*Role, bool) {
	m.rolesMu.RLock()
	defer m.rolesMu.RUnlock()
	role, ok := m.roles[id]
	return role, ok
}

func (m *Member) AddRole(role *Role) {
	m.rolesMu.Lock()
	defer m.rolesMu.Unlock()
	m.roles[role.ID] = role
}

func (m *Member) RemoveRole(id snowflake.ID) {
	m.rolesMu.Lock()
	defer m.rolesMu.Unlock()
	delete(m.roles, id)
}

func (m *Member) Roles() []*Role {
	m.rolesMu.RLock()
	defer m.rolesMu.RUnlock()
	roles := make([]*Role, 0, len(m.roles))
	for _, role := range m.roles {
		roles = append(roles, role)
	}
	return roles
}

// ReplaceRoles swaps the whole role set, used when a member update record
// carries the authoritative role id list.
func (m *Member) ReplaceRoles(roles map[snowflake.ID]*Role) {
	m.rolesMu.Lock()
	defer m.rolesMu.Unlock()
	m.roles = roles
}

func (m *Member) SetStatus(status OnlineStatus) {
	m.User.SetStatus(status)
}

func (m *Member) SetActivity(activity *Activity) {
	m.User.SetActivity(activity)
}
