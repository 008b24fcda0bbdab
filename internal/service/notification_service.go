package service

import (
	"encoding/json"

	"wakili/internal/models"
	"wakili/internal/repository"
)

// NotificationService persists user-facing notifications. Callers treat
// it as fire-and-forget; a failed write never fails the request.
type NotificationService struct {
	repo *repository.NotificationRepository
}

func NewNotificationService(repo *repository.NotificationRepository) *NotificationService {
	return &NotificationService{repo: repo}
}

func (s *NotificationService) Notify(userID uint, notifType, title, body string, data map[string]interface{}) error {
	var dataJSON string
	if data != nil {
		b, _ := json.Marshal(data)
		dataJSON = string(b)
	}
	return s.repo.Create(&models.Notification{
		UserID: userID,
		Type:   notifType,
		Title:  title,
		Body:   body,
		Data:   dataJSON,
	})
}

func (s *NotificationService) NotifyInterest(targetUserID uint, senderName string, senderID uint) error {
	return s.Notify(targetUserID, "INTEREST_RECEIVED", "New interest", senderName+" expressed interest in your profile", map[string]interface{}{"sender_id": senderID})
}

func (s *NotificationService) NotifySuperInterest(targetUserID uint, senderName string, senderID uint) error {
	return s.Notify(targetUserID, "SUPER_INTEREST_RECEIVED", "New super interest", senderName+" sent you a super interest", map[string]interface{}{"sender_id": senderID})
}

func (s *NotificationService) NotifyShortlisted(targetUserID uint, senderName string, senderID uint) error {
	return s.Notify(targetUserID, "SHORTLISTED", "Shortlisted", senderName+" shortlisted your profile", map[string]interface{}{"sender_id": senderID})
}

func (s *NotificationService) NotifyAccepted(requesterUserID uint, accepterName string, accepterID uint) error {
	return s.Notify(requesterUserID, "REQUEST_ACCEPTED", "Request accepted", accepterName+" accepted your request", map[string]interface{}{"sender_id": accepterID})
}

func (s *NotificationService) NotifyDeclined(requesterUserID uint, declinerName string) error {
	return s.Notify(requesterUserID, "REQUEST_DECLINED", "Request declined", declinerName+" declined your request", nil)
}

func (s *NotificationService) NotifyMeetRequest(targetUserID uint, senderName string, senderID uint) error {
	return s.Notify(targetUserID, "MEET_REQUEST", "Meeting request", senderName+" requested a meeting", map[string]interface{}{"sender_id": senderID})
}

func (s *NotificationService) NotifyContactViewed(targetUserID uint, senderName string) error {
	return s.Notify(targetUserID, "CONTACT_VIEWED", "Contact viewed", senderName+" unlocked your contact details", nil)
}
