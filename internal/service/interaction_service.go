package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"wakili/internal/domain"
	"wakili/internal/metrics"
	"wakili/internal/models"
	"wakili/internal/realtime"
	"wakili/internal/repository"

	"gorm.io/gorm"
)

// ActionResult is what a successful performAction returns to the caller.
type ActionResult struct {
	Action         string `json:"action"`
	Cost           int64  `json:"cost"`
	CoinsRemaining int64  `json:"coins_remaining"`
	State          string `json:"relationship_state"`
	IsShortlisted  *bool  `json:"is_shortlisted,omitempty"`
}

// InteractionService orchestrates one interaction request: economy gate,
// profile-mark mutation, relationship upsert and activity append run as a
// single transaction under a per-pair lock; realtime push and
// notification persistence happen after commit and never block the
// response.
type InteractionService struct {
	db       *gorm.DB
	users    *repository.UserRepository
	profiles *repository.ProfileRepository
	rels     *repository.RelationshipRepository
	acts     *repository.ActivityRepository
	marks    *repository.MarkRepository
	gate     *EconomyGate
	sync     *Synchronizer
	locks    *PairLocker
	notifier realtime.Notifier
	notifs   *NotificationService
	metrics  *metrics.Metrics
	log      *slog.Logger

	dedupWindow time.Duration
}

func NewInteractionService(
	db *gorm.DB,
	users *repository.UserRepository,
	profiles *repository.ProfileRepository,
	rels *repository.RelationshipRepository,
	acts *repository.ActivityRepository,
	marks *repository.MarkRepository,
	gate *EconomyGate,
	synchronizer *Synchronizer,
	locks *PairLocker,
	notifier realtime.Notifier,
	notifs *NotificationService,
	m *metrics.Metrics,
	log *slog.Logger,
	dedupWindow time.Duration,
) *InteractionService {
	return &InteractionService{
		db:          db,
		users:       users,
		profiles:    profiles,
		rels:        rels,
		acts:        acts,
		marks:       marks,
		gate:        gate,
		sync:        synchronizer,
		locks:       locks,
		notifier:    notifier,
		notifs:      notifs,
		metrics:     m,
		log:         log,
		dedupWindow: dedupWindow,
	}
}

// PerformAction runs one coin-costed action from actor toward the profile
// referenced by (targetRole, targetRef). Every gate failure aborts before
// any write; a failure after the debit rolls the debit back with the rest
// of the transaction.
func (s *InteractionService) PerformAction(ctx context.Context, actorID uint, targetRole, targetRef, action string) (*ActionResult, error) {
	if !domain.ValidAction(action) {
		return nil, domain.ErrInvalidAction
	}
	target, err := s.profiles.Resolve(targetRole, targetRef)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrTargetNotFound
		}
		return nil, err
	}
	actor, err := s.users.GetByID(actorID)
	if err != nil {
		return nil, err
	}
	if actor.ID == target.UserID {
		return nil, domain.ErrSelfInteraction
	}
	targetUser, err := s.users.GetByID(target.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrTargetNotFound
		}
		return nil, err
	}

	unlock := s.locks.Lock(actor.ID, targetUser.ID)
	defer unlock()

	var (
		decision   *Decision
		transition *Transition
	)
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		decision, err = s.gate.Authorize(s.acts.WithTx(tx), actor, targetUser, action)
		if err != nil {
			return err
		}
		if err := s.gate.Debit(s.users.WithTx(tx), actor.ID, decision.Cost); err != nil {
			return err
		}
		if decision.AddMark != "" {
			if err := s.marks.WithTx(tx).Add(targetUser.ID, actor.ID, decision.AddMark); err != nil {
				return err
			}
		}
		if decision.RemoveMark != "" {
			if err := s.marks.WithTx(tx).Remove(targetUser.ID, actor.ID, decision.RemoveMark); err != nil {
				return err
			}
		}
		meta, _ := json.Marshal(map[string]interface{}{"cost": decision.Cost, "action": action})
		entry := &models.Activity{
			SenderID:   actor.ID,
			ReceiverID: targetUser.ID,
			Type:       decision.ActivityType,
			Status:     initialStatus(decision.ActivityType),
			Cost:       decision.Cost,
			Metadata:   string(meta),
		}
		if _, err := s.acts.WithTx(tx).Append(entry, s.dedupWindow); err != nil {
			return err
		}
		transition, err = s.sync.Apply(s.rels.WithTx(tx), s.acts.WithTx(tx), actor.ID, targetUser.ID, action)
		return err
	})
	if err != nil {
		s.countFailure(err)
		return nil, err
	}

	s.afterCommit(actor, targetUser, action, decision, transition)

	result := &ActionResult{
		Action:         action,
		Cost:           decision.Cost,
		CoinsRemaining: actor.Coins - decision.Cost,
	}
	if transition.Changed {
		// The actor is the requester of the fresh transition.
		result.State = ViewState(transition.State, actor.ID, actor.ID)
	} else if rel, err := s.rels.GetByPair(actor.ID, targetUser.ID); err == nil && rel != nil {
		result.State = ViewState(rel.State, rel.RequesterID, actor.ID)
	} else {
		result.State = domain.StateNone
	}
	if action == domain.ActionShortlist || action == domain.ActionRemoveShortlist {
		shortlisted := action == domain.ActionShortlist
		result.IsShortlisted = &shortlisted
	}
	return result, nil
}

// afterCommit runs the fire-and-forget side of a successful action.
func (s *InteractionService) afterCommit(actor, target *models.User, action string, decision *Decision, transition *Transition) {
	if s.metrics != nil {
		s.metrics.ActionsTotal.WithLabelValues(action).Inc()
		if decision.Cost > 0 {
			s.metrics.CoinsSpentTotal.Add(float64(decision.Cost))
		}
		if transition.Changed {
			s.metrics.Transitions.WithLabelValues(transition.State).Inc()
		}
	}
	go func() {
		if transition.Changed && s.notifier != nil {
			s.notifier.RelationshipChanged(actor.ID, target.ID, transition.State)
			s.notifier.Stats(map[string]interface{}{
				"type":   "stats",
				"action": action,
				"state":  transition.State,
			})
		}
		if s.notifs != nil {
			if err := s.persistNotification(actor, target, action); err != nil {
				s.log.Warn("notification write failed", "action", action, "user_id", target.ID)
			}
		}
	}()
}

func (s *InteractionService) persistNotification(actor, target *models.User, action string) error {
	switch action {
	case domain.ActionInterest:
		return s.notifs.NotifyInterest(target.ID, actor.Username, actor.ID)
	case domain.ActionSuperInterest, domain.ActionUpgradeSuper:
		return s.notifs.NotifySuperInterest(target.ID, actor.Username, actor.ID)
	case domain.ActionShortlist:
		return s.notifs.NotifyShortlisted(target.ID, actor.Username, actor.ID)
	case domain.ActionAccept, domain.ActionSuperAccept:
		return s.notifs.NotifyAccepted(target.ID, actor.Username, actor.ID)
	case domain.ActionDecline:
		return s.notifs.NotifyDeclined(target.ID, actor.Username)
	case domain.ActionMeetRequest:
		return s.notifs.NotifyMeetRequest(target.ID, actor.Username, actor.ID)
	case domain.ActionViewContact, domain.ActionUnlockContact:
		return s.notifs.NotifyContactViewed(target.ID, actor.Username)
	default:
		return nil
	}
}

func (s *InteractionService) countFailure(err error) {
	if s.metrics == nil {
		return
	}
	reason := "internal"
	switch {
	case errors.Is(err, domain.ErrTargetNotFound):
		reason = "target_not_found"
	case errors.Is(err, domain.ErrSelfInteraction):
		reason = "self_interaction"
	case errors.Is(err, domain.ErrUpgradeRequired):
		reason = "upgrade_required"
	case errors.Is(err, domain.ErrZeroCoins):
		reason = "zero_coins"
	case errors.Is(err, domain.ErrAlreadySent):
		reason = "already_sent"
	case errors.Is(err, domain.ErrChatExpired):
		reason = "chat_expired"
	case errors.Is(err, domain.ErrInteractionLimit):
		reason = "interaction_limit"
	case errors.Is(err, domain.ErrInsufficientCoins):
		reason = "insufficient_coins"
	case errors.Is(err, domain.ErrInvalidAction):
		reason = "invalid_action"
	case errors.Is(err, ErrBlocked):
		reason = "blocked"
	}
	s.metrics.ActionFailures.WithLabelValues(reason).Inc()
}

// initialStatus gives a fresh entry its starting status: requests start
// pending, everything else carries no status.
func initialStatus(activityType string) string {
	switch activityType {
	case domain.ActionInterest, domain.ActionSuperInterest, domain.ActionMeetRequest:
		return domain.ActivityPending
	default:
		return domain.ActivityNone
	}
}

// RespondToActivity lets the receiver of a pending request accept or
// decline it by activity id. Interest-style requests route through the
// relationship state machine; meet requests resolve on the entry itself,
// storing any meeting details in its metadata.
func (s *InteractionService) RespondToActivity(ctx context.Context, userID, activityID uint, decision string, meetingDetails map[string]interface{}) (*Transition, error) {
	if decision != domain.ActivityAccepted && decision != domain.ActivityDeclined {
		return nil, domain.ErrNotRespondable
	}
	act, err := s.acts.GetByID(activityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrActivityNotFound
		}
		return nil, err
	}
	if act.ReceiverID != userID {
		return nil, domain.ErrNotReceiver
	}

	switch act.Type {
	case domain.ActionInterest, domain.ActionSuperInterest:
		action := domain.ActionAccept
		if decision == domain.ActivityDeclined {
			action = domain.ActionDecline
		}
		return s.applyDirect(ctx, userID, act.SenderID, action)

	case domain.ActionMeetRequest:
		if act.Status != domain.ActivityPending {
			// Responding again with the same outcome is a no-op.
			if act.Status == decision {
				return &Transition{Previous: act.Status, State: act.Status, Changed: false}, nil
			}
			return nil, domain.ErrNotRespondable
		}
		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			acts := s.acts.WithTx(tx)
			if err := acts.UpdateStatus(act.ID, decision); err != nil {
				return err
			}
			if len(meetingDetails) > 0 {
				merged := map[string]interface{}{}
				if act.Metadata != "" {
					_ = json.Unmarshal([]byte(act.Metadata), &merged)
				}
				merged["meeting"] = meetingDetails
				raw, _ := json.Marshal(merged)
				if err := acts.UpdateMetadata(act.ID, string(raw)); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		return &Transition{Previous: domain.ActivityPending, State: decision, Changed: true}, nil

	default:
		return nil, domain.ErrNotRespondable
	}
}

// applyDirect runs a relationship transition without the economy gate:
// the direct graph endpoints (sendInterest, accept, decline, shortlist)
// and activity responses come through here.
func (s *InteractionService) applyDirect(ctx context.Context, actorID, otherID uint, action string) (*Transition, error) {
	if actorID == otherID {
		return nil, domain.ErrSelfInteraction
	}
	actor, err := s.users.GetByID(actorID)
	if err != nil {
		return nil, err
	}
	other, err := s.users.GetByID(otherID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrTargetNotFound
		}
		return nil, err
	}

	unlock := s.locks.Lock(actorID, otherID)
	defer unlock()

	var transition *Transition
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		meta, _ := json.Marshal(map[string]interface{}{"action": action, "direct": true})
		entry := &models.Activity{
			SenderID:   actorID,
			ReceiverID: otherID,
			Type:       canonicalType(action),
			Status:     initialStatus(canonicalType(action)),
			Metadata:   string(meta),
		}
		if _, err := s.acts.WithTx(tx).Append(entry, s.dedupWindow); err != nil {
			return err
		}
		var err error
		transition, err = s.sync.Apply(s.rels.WithTx(tx), s.acts.WithTx(tx), actorID, otherID, action)
		return err
	})
	if err != nil {
		s.countFailure(err)
		return nil, err
	}
	s.afterCommit(actor, other, action, &Decision{ActivityType: canonicalType(action)}, transition)
	return transition, nil
}

// SendInterest, AcceptInterest, DeclineInterest and Shortlist are the
// direct relationship-graph operations, free of coin accounting.
func (s *InteractionService) SendInterest(ctx context.Context, actorID, otherID uint) (*Transition, error) {
	return s.applyDirect(ctx, actorID, otherID, domain.ActionInterest)
}

func (s *InteractionService) AcceptInterest(ctx context.Context, actorID, otherID uint) (*Transition, error) {
	return s.applyDirect(ctx, actorID, otherID, domain.ActionAccept)
}

func (s *InteractionService) DeclineInterest(ctx context.Context, actorID, otherID uint) (*Transition, error) {
	return s.applyDirect(ctx, actorID, otherID, domain.ActionDecline)
}

func (s *InteractionService) Shortlist(ctx context.Context, actorID, otherID uint) (*Transition, error) {
	return s.applyDirect(ctx, actorID, otherID, domain.ActionShortlist)
}

// RelationshipState returns the pair state projected into the viewer's
// perspective.
func (s *InteractionService) RelationshipState(viewerID, otherID uint) (string, error) {
	rel, err := s.rels.GetByPair(viewerID, otherID)
	if err != nil {
		return "", err
	}
	if rel == nil {
		return domain.StateNone, nil
	}
	return ViewState(rel.State, rel.RequesterID, viewerID), nil
}

// UserStats is the aggregate interaction dashboard for one user.
type UserStats struct {
	Visits      int64 `json:"visits"`
	Sent        int64 `json:"sent"`
	Received    int64 `json:"received"`
	Accepted    int64 `json:"accepted"`
	Messages    int64 `json:"messages"`
	MeetRequest int64 `json:"meet_request"`
	Blocked     int64 `json:"blocked"`
}

func (s *InteractionService) Stats(userID uint) (*UserStats, error) {
	out := &UserStats{}
	var err error
	if out.Visits, err = s.acts.CountByReceiver(userID, domain.ActionViewContact); err != nil {
		return nil, err
	}
	if out.Sent, err = s.acts.CountBySender(userID, domain.ActionInterest, domain.ActionSuperInterest); err != nil {
		return nil, err
	}
	if out.Received, err = s.acts.CountByReceiver(userID, domain.ActionInterest, domain.ActionSuperInterest); err != nil {
		return nil, err
	}
	if out.Accepted, err = s.acts.CountReceivedByStatus(userID, domain.ActivityAccepted, domain.ActionInterest, domain.ActionSuperInterest); err != nil {
		return nil, err
	}
	sent, err := s.acts.CountBySender(userID, domain.ActionChat)
	if err != nil {
		return nil, err
	}
	recv, err := s.acts.CountByReceiver(userID, domain.ActionChat)
	if err != nil {
		return nil, err
	}
	out.Messages = sent + recv
	if out.MeetRequest, err = s.acts.CountByReceiver(userID, domain.ActionMeetRequest); err != nil {
		return nil, err
	}
	if out.Blocked, err = s.rels.CountBlockedBy(userID); err != nil {
		return nil, err
	}
	return out, nil
}

// Requests groups the users who marked this profile, resolved to display
// summaries with deleted accounts excluded.
type Requests struct {
	Interests      []repository.ActorSummary `json:"interests"`
	SuperInterests []repository.ActorSummary `json:"superInterests"`
	Shortlists     []repository.ActorSummary `json:"shortlists"`
}

func (s *InteractionService) MyRequests(userID uint, limit, offset int) (*Requests, error) {
	out := &Requests{}
	var err error
	if out.Interests, err = s.marks.ListActors(userID, domain.MarkInterest, limit, offset); err != nil {
		return nil, err
	}
	if out.SuperInterests, err = s.marks.ListActors(userID, domain.MarkSuperInterest, limit, offset); err != nil {
		return nil, err
	}
	if out.Shortlists, err = s.marks.ListActors(userID, domain.MarkShortlist, limit, offset); err != nil {
		return nil, err
	}
	return out, nil
}

// ActivityView is one history entry enriched with counterpart info.
type ActivityView struct {
	ID          uint      `json:"id"`
	Type        string    `json:"type"`
	Status      string    `json:"status"`
	Cost        int64     `json:"cost"`
	Direction   string    `json:"direction"` // sent | received
	Counterpart uint      `json:"counterpart_id"`
	Name        string    `json:"counterpart_name"`
	Role        string    `json:"counterpart_role"`
	CreatedAt   time.Time `json:"created_at"`
}

func (s *InteractionService) AllActivities(userID uint, limit, offset int) ([]ActivityView, error) {
	list, err := s.acts.ListForUser(userID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]ActivityView, 0, len(list))
	for _, a := range list {
		v := ActivityView{
			ID:        a.ID,
			Type:      a.Type,
			Status:    a.Status,
			Cost:      a.Cost,
			CreatedAt: a.CreatedAt,
		}
		if a.SenderID == userID {
			v.Direction = "sent"
			v.Counterpart = a.ReceiverID
		} else {
			v.Direction = "received"
			v.Counterpart = a.SenderID
		}
		if u, err := s.users.GetByID(v.Counterpart); err == nil {
			v.Name = u.Username
			v.Role = u.Role
		}
		out = append(out, v)
	}
	return out, nil
}
