package discord

import (
	"fmt"

	"github.com/disgoorg/snowflake/v2"
)

// User is the canonical shared user object. Everything that references a
// user (messages, members, private channels) holds the same pointer, so
// updates and fake-to-real promotion are visible everywhere at once.
type User struct {
	ID            snowflake.ID
	Username      string
	Discriminator string
	Avatar        string
	Bot           bool

	// Fake is set when the user was materialized from a bare id reference
	// before its create record arrived.
	Fake bool

	Status   OnlineStatus
	Activity *Activity
}

func (u *User) Mention() string {
	return fmt.Sprintf("<@%s>", u.ID)
}

func (u *User) Tag() string {
	return fmt.Sprintf("%s#%s", u.Username, u.Discriminator)
}

func (u *User) SetStatus(status OnlineStatus) {
	u.Status = status
}

func (u *User) SetActivity(activity *Activity) {
	u.Activity = activity
}
