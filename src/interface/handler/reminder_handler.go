package handler

import (
	"errors"
	"net/http"

	"location-reminder/src/domain"
	"location-reminder/src/geofence"
	"location-reminder/src/usecase"
	"location-reminder/src/validator"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ReminderHandler handles HTTP requests for reminder operations
type ReminderHandler struct {
	reminderUsecase usecase.ReminderUsecase
	validator       *validator.CustomValidator
	logger          *logrus.Logger
}

// NewReminderHandler creates a new reminder handler
func NewReminderHandler(reminderUsecase usecase.ReminderUsecase, v *validator.CustomValidator, logger *logrus.Logger) *ReminderHandler {
	return &ReminderHandler{
		reminderUsecase: reminderUsecase,
		validator:       v,
		logger:          logger,
	}
}

// ListReminders returns every reminder
func (h *ReminderHandler) ListReminders(c *gin.Context) {
	state := h.reminderUsecase.LoadReminders(c.Request.Context())
	if state.SnackBar != "" {
		h.logger.WithField("message", state.SnackBar).Error("リマインダー一覧の取得に失敗")
		c.JSON(http.StatusInternalServerError, ErrorResponseDTO{
			Error:   "Failed to load reminders",
			Message: state.SnackBar,
		})
		return
	}

	reminders := make([]ReminderResponseDTO, 0, len(state.Items))
	for _, item := range state.Items {
		reminders = append(reminders, toReminderResponseDTO(item))
	}

	c.JSON(http.StatusOK, ReminderListResponseDTO{
		Reminders:  reminders,
		Total:      len(reminders),
		ShowNoData: state.ShowNoData,
	})
}

// GetReminder retrieves a reminder by ID
func (h *ReminderHandler) GetReminder(c *gin.Context) {
	id := c.Param("id")
	if err := h.validator.ValidateID(id); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponseDTO{
			Error:   "Invalid reminder ID",
			Message: err.Error(),
		})
		return
	}

	item, err := h.reminderUsecase.GetReminder(c.Request.Context(), id)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, usecase.ErrReminderNotFound) {
			status = http.StatusNotFound
		} else {
			h.logger.WithError(err).WithField("reminder_id", id).Error("リマインダーの取得に失敗")
		}

		c.JSON(status, ErrorResponseDTO{
			Error:   "Failed to get reminder",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, toReminderResponseDTO(*item))
}

// SaveReminder validates the request, registers the geofence and stores the reminder
func (h *ReminderHandler) SaveReminder(c *gin.Context) {
	var req SaveReminderRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.WithError(err).Warn("リクエストのバインドに失敗")
		c.JSON(http.StatusBadRequest, ErrorResponseDTO{
			Error:   "Invalid request format",
			Message: err.Error(),
		})
		return
	}

	if err := h.validator.Validate(req); err != nil {
		var verrs validator.ValidationErrors
		details := any(nil)
		if errors.As(err, &verrs) {
			details = verrs.Errors
		}
		c.JSON(http.StatusBadRequest, ErrorResponseDTO{
			Error:   "Validation failed",
			Message: err.Error(),
			Details: details,
		})
		return
	}

	item := domain.ReminderDataItem{
		ID:          req.ID,
		Title:       h.validator.NormalizePtr(req.Title),
		Description: h.validator.NormalizePtr(req.Description),
		Location:    h.validator.NormalizePtr(req.Location),
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
	}

	saved, err := h.reminderUsecase.ValidateAndSaveReminder(c.Request.Context(), item)
	if err != nil {
		h.respondSaveError(c, err)
		return
	}

	h.logger.WithField("reminder_id", saved.ID).Info("リマインダーを作成しました")
	c.JSON(http.StatusCreated, toReminderResponseDTO(*saved))
}

func (h *ReminderHandler) respondSaveError(c *gin.Context, err error) {
	var gerr *geofence.Error
	switch {
	case errors.Is(err, domain.ErrEnterTitle), errors.Is(err, domain.ErrSelectLocation),
		errors.Is(err, domain.ErrInvalidLatitude), errors.Is(err, domain.ErrInvalidLongitude):
		c.JSON(http.StatusBadRequest, ErrorResponseDTO{
			Error:   err.Error(),
			Message: domain.ValidationMessage(err),
		})
	case errors.As(err, &gerr):
		h.logger.WithError(err).WithField("code", gerr.Code).Warn("ジオフェンスの登録に失敗")
		status := http.StatusUnprocessableEntity
		if gerr.Code == geofence.StatusNotAvailable {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, ErrorResponseDTO{
			Error:   "Failed to add geofence",
			Message: geofence.ErrorMessage(err),
			Code:    gerr.Code,
		})
	default:
		h.logger.WithError(err).Error("リマインダーの保存に失敗")
		c.JSON(http.StatusInternalServerError, ErrorResponseDTO{
			Error:   "Failed to save reminder",
			Message: err.Error(),
		})
	}
}

// DeleteAllReminders removes every reminder and geofence
func (h *ReminderHandler) DeleteAllReminders(c *gin.Context) {
	if err := h.reminderUsecase.DeleteAllReminders(c.Request.Context()); err != nil {
		h.logger.WithError(err).Error("リマインダーの全削除に失敗")
		c.JSON(http.StatusInternalServerError, ErrorResponseDTO{
			Error:   "Failed to delete reminders",
			Message: err.Error(),
		})
		return
	}

	h.logger.Info("すべてのリマインダーを削除しました")
	c.Status(http.StatusNoContent)
}

// TriggeredReminders lists the reminders whose geofence contains the given position
func (h *ReminderHandler) TriggeredReminders(c *gin.Context) {
	var query TriggeredQueryDTO
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponseDTO{
			Error:   "Invalid query parameters",
			Message: err.Error(),
		})
		return
	}

	items, err := h.reminderUsecase.TriggeredReminders(c.Request.Context(), *query.Latitude, *query.Longitude)
	if err != nil {
		h.logger.WithError(err).Error("ジオフェンスの判定に失敗")
		c.JSON(http.StatusServiceUnavailable, ErrorResponseDTO{
			Error:   "Failed to check geofences",
			Message: geofence.ErrorMessage(err),
		})
		return
	}

	reminders := make([]ReminderResponseDTO, 0, len(items))
	for _, item := range items {
		reminders = append(reminders, toReminderResponseDTO(item))
	}

	c.JSON(http.StatusOK, ReminderListResponseDTO{
		Reminders:  reminders,
		Total:      len(reminders),
		ShowNoData: len(reminders) == 0,
	})
}

func toReminderResponseDTO(item domain.ReminderDataItem) ReminderResponseDTO {
	dto := ReminderResponseDTO{ID: item.ID}
	if item.Title != nil {
		dto.Title = *item.Title
	}
	if item.Description != nil {
		dto.Description = *item.Description
	}
	if item.Location != nil {
		dto.Location = *item.Location
	}
	if item.Latitude != nil {
		dto.Latitude = *item.Latitude
	}
	if item.Longitude != nil {
		dto.Longitude = *item.Longitude
	}
	return dto
}
