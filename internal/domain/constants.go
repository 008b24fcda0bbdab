package domain

const (
	RoleClient        = "CLIENT"
	RoleAdvocate      = "ADVOCATE"
	RoleLegalProvider = "LEGAL_PROVIDER"
	RoleAdmin         = "ADMIN"
)

const (
	PlanFree    = "Free"
	PlanPremium = "Premium"
	PlanElite   = "Elite"
)

// Relationship states. One record per unordered user pair; State is the
// single source of truth for the current relationship.
const (
	StateNone          = "NONE"
	StateInterest      = "INTEREST"
	StateSuperInterest = "SUPER_INTEREST"
	StateShortlisted   = "SHORTLISTED"
	StateAccepted      = "ACCEPTED"
	StateDeclined      = "DECLINED"
	StateBlocked       = "BLOCKED"
	StateConnected     = "CONNECTED"
)

// Perspective labels derived at read time from (state, requester, viewer).
// Never persisted.
const (
	ViewInterestSent          = "INTEREST_SENT"
	ViewInterestReceived      = "INTEREST_RECEIVED"
	ViewSuperInterestSent     = "SUPER_INTEREST_SENT"
	ViewSuperInterestReceived = "SUPER_INTEREST_RECEIVED"
	ViewShortlistedThem       = "SHORTLISTED"
	ViewShortlistedBy         = "SHORTLISTED_BY"
	ViewBlockedThem           = "BLOCKED"
	ViewBlockedBy             = "BLOCKED_BY"
)

// Actions accepted by the interaction endpoint. Closed set; anything else
// is ErrInvalidAction.
const (
	ActionInterest         = "interest"
	ActionSuperInterest    = "superInterest"
	ActionShortlist        = "shortlist"
	ActionRemoveShortlist  = "remove_shortlist"
	ActionUpgradeSuper     = "upgrade_super"
	ActionChat             = "chat"
	ActionViewContact      = "view_contact"
	ActionUnlockContact    = "unlock_contact"
	ActionAccept           = "accept"
	ActionDecline          = "decline"
	ActionBlock            = "block"
	ActionUnblock          = "unblock"
	ActionWithdraw         = "withdraw"
	ActionCancel           = "cancel"
	ActionRemoveConnection = "remove_connection"
	ActionIgnore           = "ignore"
	ActionSuperAccept      = "super_accept"
	ActionMeetRequest      = "meet_request"
)

// Activity entry statuses. Only interest/superInterest entries ever move
// off their initial status, and only via accept/decline.
const (
	ActivityPending  = "pending"
	ActivityAccepted = "accepted"
	ActivityDeclined = "declined"
	ActivityNone     = "none"
)

// Profile mark kinds ("who expressed X toward me" rows).
const (
	MarkInterest      = "interest"
	MarkSuperInterest = "super_interest"
	MarkShortlist     = "shortlist"
)

var actions = map[string]bool{
	ActionInterest:         true,
	ActionSuperInterest:    true,
	ActionShortlist:        true,
	ActionRemoveShortlist:  true,
	ActionUpgradeSuper:     true,
	ActionChat:             true,
	ActionViewContact:      true,
	ActionUnlockContact:    true,
	ActionAccept:           true,
	ActionDecline:          true,
	ActionBlock:            true,
	ActionUnblock:          true,
	ActionWithdraw:         true,
	ActionCancel:           true,
	ActionRemoveConnection: true,
	ActionIgnore:           true,
	ActionSuperAccept:      true,
	ActionMeetRequest:      true,
}

// ValidAction reports whether name belongs to the closed action set.
func ValidAction(name string) bool { return actions[name] }
