package discord

// Enumerations sent as integers by the gateway. Unrecognized values map to
// the Unknown constant instead of failing, the protocol grows faster than
// this package does.

type VerificationLevel int

const (
	VerificationLevelNone VerificationLevel = iota
	VerificationLevelLow
	VerificationLevelMedium
	VerificationLevelHigh
	VerificationLevelVeryHigh
	VerificationLevelUnknown VerificationLevel = -1
)

func VerificationLevelFromInt(i int) VerificationLevel {
	if i < int(VerificationLevelNone) || i > int(VerificationLevelVeryHigh) {
		return VerificationLevelUnknown
	}
	return VerificationLevel(i)
}

type NotificationLevel int

const (
	NotificationLevelAllMessages NotificationLevel = iota
	NotificationLevelOnlyMentions
	NotificationLevelUnknown NotificationLevel = -1
)

func NotificationLevelFromInt(i int) NotificationLevel {
	if i < int(NotificationLevelAllMessages) || i > int(NotificationLevelOnlyMentions) {
		return NotificationLevelUnknown
	}
	return NotificationLevel(i)
}

type MFALevel int

const (
	MFALevelNone MFALevel = iota
	MFALevelElevated
	MFALevelUnknown MFALevel = -1
)

func MFALevelFromInt(i int) MFALevel {
	if i < int(MFALevelNone) || i > int(MFALevelElevated) {
		return MFALevelUnknown
	}
	return MFALevel(i)
}

type ExplicitContentLevel int

const (
	ExplicitContentLevelDisabled ExplicitContentLevel = iota
	ExplicitContentLevelMembersWithoutRoles
	ExplicitContentLevelAllMembers
	ExplicitContentLevelUnknown ExplicitContentLevel = -1
)

func ExplicitContentLevelFromInt(i int) ExplicitContentLevel {
	if i < int(ExplicitContentLevelDisabled) || i > int(ExplicitContentLevelAllMembers) {
		return ExplicitContentLevelUnknown
	}
	return ExplicitContentLevel(i)
}

// GuildFeature is an open string set, new features pass through untouched.
type GuildFeature string

const (
	GuildFeatureInviteSplash   GuildFeature = "INVITE_SPLASH"
	GuildFeatureVIPRegions     GuildFeature = "VIP_REGIONS"
	GuildFeatureVanityURL      GuildFeature = "VANITY_URL"
	GuildFeatureVerified       GuildFeature = "VERIFIED"
	GuildFeaturePartnered      GuildFeature = "PARTNERED"
	GuildFeatureCommunity      GuildFeature = "COMMUNITY"
	GuildFeatureAnimatedIcon   GuildFeature = "ANIMATED_ICON"
	GuildFeatureBanner         GuildFeature = "BANNER"
	GuildFeatureWelcomeScreen  GuildFeature = "WELCOME_SCREEN_ENABLED"
	GuildFeatureMemberProfiles GuildFeature = "MEMBER_PROFILES"
)
