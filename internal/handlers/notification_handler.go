package handlers

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Vulture98/student-courses-backend/internal/apperrors"
	"github.com/Vulture98/student-courses-backend/internal/middleware"
	"github.com/Vulture98/student-courses-backend/internal/models"
	"github.com/Vulture98/student-courses-backend/internal/utils"
)

// NotificationReader is the store surface the notification endpoints need.
type NotificationReader interface {
	ListForUser(ctx context.Context, userID primitive.ObjectID) ([]models.Notification, error)
	MarkRead(ctx context.Context, id, userID primitive.ObjectID) (*models.Notification, error)
	MarkAllRead(ctx context.Context, userID primitive.ObjectID) (int64, error)
}

type NotificationHandler struct {
	store NotificationReader
}

func NewNotificationHandler(store NotificationReader) *NotificationHandler {
	return &NotificationHandler{store: store}
}

// GetNotifications handles GET /api/notifications: all unread plus the most
// recent read ones.
func (h *NotificationHandler) GetNotifications(w http.ResponseWriter, r *http.Request) {
	userID, err := requestUserID(r)
	if err != nil {
		utils.Error(w, err)
		return
	}

	notifications, err := h.store.ListForUser(r.Context(), userID)
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, notifications, "Notifications retrieved successfully")
}

// MarkAllRead handles PUT /api/notifications/read
func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	userID, err := requestUserID(r)
	if err != nil {
		utils.Error(w, err)
		return
	}

	count, err := h.store.MarkAllRead(r.Context(), userID)
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, map[string]int64{"modified": count}, "Notifications marked as read")
}

// MarkRead handles PUT /api/notifications/{id}/read
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	userID, err := requestUserID(r)
	if err != nil {
		utils.Error(w, err)
		return
	}

	notificationID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, apperrors.Validation("invalid notification ID"))
		return
	}

	notification, err := h.store.MarkRead(r.Context(), notificationID, userID)
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, notification, "Notification marked as read")
}

func requestUserID(r *http.Request) (primitive.ObjectID, error) {
	raw, ok := middleware.UserID(r)
	if !ok {
		return primitive.NilObjectID, apperrors.BadRequest("missing authenticated user")
	}
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, apperrors.Validation("invalid user ID")
	}
	return id, nil
}
