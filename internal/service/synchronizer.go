package service

import (
	"errors"
	"time"

	"wakili/internal/domain"
	"wakili/internal/repository"
)

// ErrBlocked guards every interaction on a blocked pair except the
// blocker's own unblock.
var ErrBlocked = errors.New("relationship is blocked")

// Transition is the synchronizer's outcome for one applied action.
type Transition struct {
	Previous string
	State    string
	Changed  bool
}

// Synchronizer derives the canonical relationship state from an action
// and keeps the relationship row and the activity log consistent: a
// resolution to ACCEPTED or DECLINED flips the status of every prior
// interest/superInterest entry between the pair, in either direction.
type Synchronizer struct{}

func NewSynchronizer() *Synchronizer { return &Synchronizer{} }

// Apply runs one action through the state machine and persists the
// result. Re-applying an already-matching accept or decline is a no-op,
// not an error. Must run inside the pair-serialized transaction.
func (s *Synchronizer) Apply(rels *repository.RelationshipRepository, acts *repository.ActivityRepository, actorID, otherID uint, action string) (*Transition, error) {
	rel, err := rels.GetByPair(actorID, otherID)
	if err != nil {
		return nil, err
	}
	current := domain.StateNone
	requesterID := uint(0)
	if rel != nil {
		current = rel.State
		requesterID = rel.RequesterID
	}

	if current == domain.StateBlocked {
		if action != domain.ActionUnblock && action != domain.ActionBlock {
			return nil, ErrBlocked
		}
		if action == domain.ActionUnblock && requesterID != actorID {
			// Only the blocker can lift the block.
			return nil, ErrBlocked
		}
	}

	next, qualifies, err := nextState(current, requesterID, actorID, action)
	if err != nil {
		return nil, err
	}
	if !qualifies || next == current {
		return &Transition{Previous: current, State: current, Changed: false}, nil
	}

	if _, err := rels.Upsert(actorID, otherID, actorID, next, time.Now()); err != nil {
		return nil, err
	}
	if next == domain.StateAccepted || next == domain.StateDeclined {
		status := domain.ActivityAccepted
		if next == domain.StateDeclined {
			status = domain.ActivityDeclined
		}
		err := acts.UpdateStatusForPair(actorID, otherID, status,
			domain.ActionInterest, domain.ActionSuperInterest)
		if err != nil {
			return nil, err
		}
	}
	return &Transition{Previous: current, State: next, Changed: true}, nil
}

// nextState maps (current state, action) to the resulting state. A false
// qualifies return means the action does not touch relationship state
// from the current position; the caller treats it as a no-op.
func nextState(current string, requesterID, actorID uint, action string) (string, bool, error) {
	switch action {
	case domain.ActionBlock:
		return domain.StateBlocked, true, nil

	case domain.ActionUnblock:
		if current == domain.StateBlocked {
			return domain.StateNone, true, nil
		}
		return current, false, nil

	case domain.ActionInterest:
		if current == domain.StateAccepted || current == domain.StateConnected {
			return current, false, nil
		}
		return domain.StateInterest, true, nil

	case domain.ActionSuperInterest, domain.ActionUpgradeSuper:
		if current == domain.StateAccepted || current == domain.StateConnected {
			return current, false, nil
		}
		return domain.StateSuperInterest, true, nil

	case domain.ActionShortlist:
		// Shortlist never downgrades a standing relationship: interest
		// supersedes shortlist, and accepted/connected pairs keep their
		// state. The profile mark is still recorded by the caller.
		if current == domain.StateNone || current == domain.StateShortlisted {
			return domain.StateShortlisted, true, nil
		}
		return current, false, nil

	case domain.ActionRemoveShortlist:
		if current == domain.StateShortlisted {
			return domain.StateNone, true, nil
		}
		return current, false, nil

	case domain.ActionAccept, domain.ActionSuperAccept:
		if current == domain.StateInterest || current == domain.StateSuperInterest {
			if requesterID == actorID {
				return current, false, domain.ErrNotReceiver
			}
			return domain.StateAccepted, true, nil
		}
		return current, false, nil

	case domain.ActionDecline, domain.ActionIgnore:
		if current == domain.StateInterest || current == domain.StateSuperInterest {
			if requesterID == actorID {
				return current, false, domain.ErrNotReceiver
			}
			return domain.StateDeclined, true, nil
		}
		return current, false, nil

	case domain.ActionWithdraw, domain.ActionCancel:
		if (current == domain.StateInterest || current == domain.StateSuperInterest) && requesterID == actorID {
			return domain.StateNone, true, nil
		}
		return current, false, nil

	case domain.ActionRemoveConnection:
		if current == domain.StateAccepted || current == domain.StateConnected {
			return domain.StateNone, true, nil
		}
		return current, false, nil

	case domain.ActionChat:
		// First chat on an accepted pair promotes it to connected.
		if current == domain.StateAccepted {
			return domain.StateConnected, true, nil
		}
		return current, false, nil

	default:
		// view_contact, unlock_contact, meet_request never move the
		// relationship.
		return current, false, nil
	}
}

// ViewState projects the stored state into the viewer's perspective
// (INTEREST_SENT vs INTEREST_RECEIVED and so on). Pure read-time
// rendering, never persisted.
func ViewState(state string, requesterID, viewerID uint) string {
	sent := requesterID == viewerID
	switch state {
	case domain.StateInterest:
		if sent {
			return domain.ViewInterestSent
		}
		return domain.ViewInterestReceived
	case domain.StateSuperInterest:
		if sent {
			return domain.ViewSuperInterestSent
		}
		return domain.ViewSuperInterestReceived
	case domain.StateShortlisted:
		if sent {
			return domain.ViewShortlistedThem
		}
		return domain.ViewShortlistedBy
	case domain.StateBlocked:
		if sent {
			return domain.ViewBlockedThem
		}
		return domain.ViewBlockedBy
	default:
		return state
	}
}

// RoleFor labels the recipient of a realtime event relative to the actor.
func RoleFor(actorID, recipientID uint) string {
	if actorID == recipientID {
		return "sender"
	}
	return "receiver"
}
