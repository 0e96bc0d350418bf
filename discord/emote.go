package discord

import (
	"fmt"
	"sync"

	"github.com/disgoorg/snowflake/v2"
)

// Emote is a custom guild emote. GuildID is zero for fake emotes built from
// a message reaction that only carried id and name.
type Emote struct {
	ID       snowflake.ID
	GuildID  snowflake.ID
	Name     string
	Animated bool
	Managed  bool
	Creator  *User
	Fake     bool

	rolesMu sync.RWMutex
	roles   map[snowflake.ID]*Role
}

func NewEmote(id snowflake.ID, name string) *Emote {
	return &Emote{
		ID:    id,
		Name:  name,
		roles: make(map[snowflake.ID]*Role),
	}
}

func (e *Emote) Mention() string {
	if e.Animated {
		return fmt.Sprintf("<a:%s:%s>", e.Name, e.ID)
	}
	return fmt.Sprintf("<:%s:%s>", e.Name, e.ID)
}

// RestrictedTo lists the roles allowed to use the emote, empty means all.
func (e *Emote) RestrictedTo() []*Role {
	e.rolesMu.RLock()
	defer e.rolesMu.RUnlock()
	roles := make([]*Role, 0, len(e.roles))
	for _, role := range e.roles {
		roles = append(roles, role)
	}
	return roles
}

func (e *Emote) RestrictTo(role *Role) {
	e.rolesMu.Lock()
	defer e.rolesMu.Unlock()
	e.roles[role.ID] = role
}

func (e *Emote) ReplaceRestrictions(roles map[snowflake.ID]*Role) {
	e.rolesMu.Lock()
	defer e.rolesMu.Unlock()
	e.roles = roles
}
