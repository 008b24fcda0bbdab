package service

import (
	"time"

	"wakili/internal/domain"
	"wakili/internal/models"
	"wakili/internal/repository"
)

// capped lists the action types counted by the interaction diversity cap.
var capped = []string{
	domain.ActionInterest,
	domain.ActionSuperInterest,
	domain.ActionChat,
	domain.ActionViewContact,
	domain.ActionMeetRequest,
}

// oneShot actions cannot be re-sent while a prior entry of the same type
// exists; the sender has to withdraw or be declined first.
var oneShot = map[string]bool{
	domain.ActionInterest:      true,
	domain.ActionSuperInterest: true,
	domain.ActionMeetRequest:   true,
}

// Decision is the gate's verdict for an approved action: what it costs
// and which profile-mark mutation the caller must perform alongside the
// debit.
type Decision struct {
	Cost         int64
	ActivityType string // canonical type for the log entry
	AddMark      string // mark kind to add on the target, "" for none
	RemoveMark   string // mark kind to remove from the target, "" for none
}

// EconomyGate decides, for an actor/action/target triple, whether the
// action is permitted and what it costs. It is the sole path by which
// coins are spent.
type EconomyGate struct {
	costs        *CostProvider
	chatValidity time.Duration
	diversityCap int
}

func NewEconomyGate(costs *CostProvider, chatValidity time.Duration, diversityCap int) *EconomyGate {
	return &EconomyGate{costs: costs, chatValidity: chatValidity, diversityCap: diversityCap}
}

// canonicalType maps an action to the activity type it logs as.
// unlock_contact is an alias of view_contact (one purchase unlocks the
// contact either way) and upgrade_super logs as a superInterest.
func canonicalType(action string) string {
	switch action {
	case domain.ActionUnlockContact:
		return domain.ActionViewContact
	case domain.ActionUpgradeSuper:
		return domain.ActionSuperInterest
	default:
		return action
	}
}

// Authorize runs the full legality and pricing sequence against a
// consistent snapshot. It performs no writes: callers debit via Debit
// inside the same transaction only after Authorize approves. Any error
// here means nothing has been charged or mutated.
func (g *EconomyGate) Authorize(activities *repository.ActivityRepository, actor, target *models.User, action string) (*Decision, error) {
	if !domain.ValidAction(action) {
		return nil, domain.ErrInvalidAction
	}
	if actor.ID == target.ID {
		return nil, domain.ErrSelfInteraction
	}

	cost, ok := g.costs.Cost(action)
	if !ok {
		return nil, domain.ErrInvalidAction
	}
	actType := canonicalType(action)

	// Cost overrides, in order.
	premiumPair := false
	switch action {
	case domain.ActionChat:
		if unlocked, err := activities.HasEntry(actor.ID, target.ID, domain.ActionViewContact); err != nil {
			return nil, err
		} else if unlocked {
			cost = 0
		}
		if actor.IsPremium && target.IsPremium {
			// Premium-to-premium chat is free regardless of history.
			cost = 0
			premiumPair = true
		}
	case domain.ActionViewContact, domain.ActionUnlockContact:
		// Contact unlock is a one-time purchase, cached permanently.
		if unlocked, err := activities.HasEntry(actor.ID, target.ID, domain.ActionViewContact); err != nil {
			return nil, err
		} else if unlocked {
			cost = 0
		}
	}

	// Plan gating.
	if cost > 0 {
		if actor.OnFreePlan() {
			return nil, domain.ErrUpgradeRequired
		}
		if actor.Coins == 0 {
			return nil, domain.ErrZeroCoins
		}
	}

	// One-shot actions cannot repeat.
	if oneShot[action] || action == domain.ActionUpgradeSuper {
		if sent, err := activities.HasEntry(actor.ID, target.ID, actType); err != nil {
			return nil, err
		} else if sent {
			return nil, domain.ErrAlreadySent
		}
	}

	// Chat unlock is renewable within the validity window; an older
	// unlock requires an explicit re-purchase.
	if action == domain.ActionChat && cost > 0 && !premiumPair {
		prior, err := activities.LatestEntry(actor.ID, target.ID, domain.ActionChat)
		if err != nil {
			return nil, err
		}
		if prior != nil {
			if time.Since(prior.CreatedAt) <= g.chatValidity {
				cost = 0
			} else {
				return nil, domain.ErrChatExpired
			}
		}
	}

	// Interaction diversity cap: at most diversityCap distinct costed
	// types per ordered actor->target pair. upgrade_super replaces the
	// earlier interest rather than adding a type.
	if inSet(actType, capped) {
		existing, err := activities.DistinctTypes(actor.ID, target.ID, capped)
		if err != nil {
			return nil, err
		}
		if !inSet(actType, existing) {
			distinct := len(existing)
			if action == domain.ActionUpgradeSuper && inSet(domain.ActionInterest, existing) {
				distinct--
			}
			if distinct >= g.diversityCap {
				return nil, domain.ErrInteractionLimit
			}
		}
	}

	if cost > actor.Coins {
		return nil, domain.ErrInsufficientCoins
	}

	d := &Decision{Cost: cost, ActivityType: actType}
	switch action {
	case domain.ActionInterest:
		d.AddMark = domain.MarkInterest
	case domain.ActionSuperInterest:
		d.AddMark = domain.MarkSuperInterest
	case domain.ActionUpgradeSuper:
		d.AddMark = domain.MarkSuperInterest
		d.RemoveMark = domain.MarkInterest
	case domain.ActionShortlist:
		d.AddMark = domain.MarkShortlist
	case domain.ActionRemoveShortlist:
		d.RemoveMark = domain.MarkShortlist
	}
	return d, nil
}

// Debit charges the approved cost inside the caller's transaction.
func (g *EconomyGate) Debit(users *repository.UserRepository, actorID uint, cost int64) error {
	if cost == 0 {
		return nil
	}
	err := users.Debit(actorID, cost)
	if err == repository.ErrInsufficientBalance {
		return domain.ErrInsufficientCoins
	}
	return err
}

func inSet(s string, set []string) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}
