package discord

import (
	"fmt"

	"github.com/disgoorg/snowflake/v2"
)

type Permissions int64

func (p Permissions) Has(other Permissions) bool {
	return p&other == other
}

const (
	PermissionAdministrator Permissions = 1 << 3
	PermissionManageGuild   Permissions = 1 << 5
	PermissionViewChannel   Permissions = 1 << 10
	PermissionSendMessages  Permissions = 1 << 11
	PermissionConnect       Permissions = 1 << 20
	PermissionSpeak         Permissions = 1 << 21
)

type Role struct {
	ID          snowflake.ID
	GuildID     snowflake.ID
	Name        string
	Permissions Permissions
	Position    int
	Color       int
	Managed     bool
	Hoisted     bool
	Mentionable bool
}

// IsPublic reports whether this is the guild's implicit @everyone role,
// recognized by its id equaling the guild id.
func (r *Role) IsPublic() bool {
	return r.ID == r.GuildID
}

// EffectivePosition treats the public role as sitting below every other
// role, its stored position is not meaningful.
func (r *Role) EffectivePosition() int {
	if r.IsPublic() {
		return -1
	}
	return r.Position
}

func (r *Role) Mention() string {
	return fmt.Sprintf("<@&%s>", r.ID)
}
