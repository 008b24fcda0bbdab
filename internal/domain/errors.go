package domain

import "errors"

// Interaction error taxonomy. Every failure here aborts the request before
// any persistence mutation happens; handlers map them to HTTP codes.
var (
	ErrTargetNotFound    = errors.New("target profile not found")
	ErrSelfInteraction   = errors.New("cannot interact with yourself")
	ErrUpgradeRequired   = errors.New("upgrade required for this action")
	ErrZeroCoins         = errors.New("coin balance is empty")
	ErrAlreadySent       = errors.New("request already sent")
	ErrChatExpired       = errors.New("chat unlock expired")
	ErrInteractionLimit  = errors.New("interaction limit reached for this profile")
	ErrInsufficientCoins = errors.New("insufficient coins")
	ErrInvalidAction     = errors.New("unknown action")
	ErrNotReceiver       = errors.New("only the receiver can respond")
	ErrActivityNotFound  = errors.New("activity not found")
	ErrNotRespondable    = errors.New("activity cannot be responded to")
)
