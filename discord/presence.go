package discord

// OnlineStatus is sent as a string by the gateway.
type OnlineStatus string

const (
	OnlineStatusOnline    OnlineStatus = "online"
	OnlineStatusIdle      OnlineStatus = "idle"
	OnlineStatusDND       OnlineStatus = "dnd"
	OnlineStatusOffline   OnlineStatus = "offline"
	OnlineStatusInvisible OnlineStatus = "invisible"
	OnlineStatusUnknown   OnlineStatus = "unknown"
)

func OnlineStatusFromString(s string) OnlineStatus {
	switch OnlineStatus(s) {
	case OnlineStatusOnline, OnlineStatusIdle, OnlineStatusDND, OnlineStatusOffline, OnlineStatusInvisible:
		return OnlineStatus(s)
	}
	return OnlineStatusUnknown
}

type ActivityType int

const (
	ActivityTypePlaying ActivityType = iota
	ActivityTypeStreaming
	ActivityTypeListening
	ActivityTypeWatching
	ActivityTypeUnknown ActivityType = -1
)

func ActivityTypeFromInt(i int) ActivityType {
	if i < int(ActivityTypePlaying) || i > int(ActivityTypeWatching) {
		return ActivityTypeUnknown
	}
	return ActivityType(i)
}

type Activity struct {
	Name string
	Type ActivityType
	URL  string
}

// HasOnlineStatus is implemented by everything a presence update can
// target, currently *User and *Member.
type HasOnlineStatus interface {
	SetStatus(status OnlineStatus)
	SetActivity(activity *Activity)
}
