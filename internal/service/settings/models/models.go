package models

import (
	"time"

	"github.com/m04kA/SMC-CoachBookingService/internal/domain"
)

// Request модели

// UpdateSettingsRequest запрос на обновление настроек тренера
// Все поля опциональны - обновляются только переданные значения
type UpdateSettingsRequest struct {
	UserID                    int64   `json:"-"`
	CoachID                   int64   `json:"-"`
	BookingWindowDays         *int    `json:"bookingWindowDays,omitempty"`
	MinNoticeHours            *int    `json:"minNoticeHours,omitempty"`
	RenewalReminderThreshold  *int    `json:"renewalReminderThreshold,omitempty"`
	SessionDurationMinutes    *int    `json:"sessionDurationMinutes,omitempty"`
	CheckinDurationMinutes    *int    `json:"checkinDurationMinutes,omitempty"`
	TimeZone                  *string `json:"timeZone,omitempty"`
	CoachCancelBypassesNotice *bool   `json:"coachCancelBypassesNotice,omitempty"`
}

// ApplyTo применяет переданные поля к настройкам
func (r *UpdateSettingsRequest) ApplyTo(s *domain.CoachBookingSettings) {
	if r.BookingWindowDays != nil {
		s.BookingWindowDays = *r.BookingWindowDays
	}
	if r.MinNoticeHours != nil {
		s.MinNoticeHours = *r.MinNoticeHours
	}
	if r.RenewalReminderThreshold != nil {
		s.RenewalReminderThreshold = *r.RenewalReminderThreshold
	}
	if r.SessionDurationMinutes != nil {
		s.SessionDurationMinutes = *r.SessionDurationMinutes
	}
	if r.CheckinDurationMinutes != nil {
		s.CheckinDurationMinutes = *r.CheckinDurationMinutes
	}
	if r.TimeZone != nil {
		s.TimeZone = *r.TimeZone
	}
	if r.CoachCancelBypassesNotice != nil {
		s.CoachCancelBypassesNotice = *r.CoachCancelBypassesNotice
	}
}

// Response модели

// SettingsResponse ответ с настройками бронирования тренера
type SettingsResponse struct {
	CoachID                   int64      `json:"coachId"`
	BookingWindowDays         int        `json:"bookingWindowDays"`
	MinNoticeHours            int        `json:"minNoticeHours"`
	RenewalReminderThreshold  int        `json:"renewalReminderThreshold"`
	SessionDurationMinutes    int        `json:"sessionDurationMinutes"`
	CheckinDurationMinutes    int        `json:"checkinDurationMinutes"`
	TimeZone                  string     `json:"timeZone"`
	CoachCancelBypassesNotice bool       `json:"coachCancelBypassesNotice"`
	IsDefault                 bool       `json:"isDefault"`
	UpdatedAt                 *time.Time `json:"updatedAt,omitempty"`
}

// FromDomainSettings конвертирует domain модель в DTO
func FromDomainSettings(s *domain.CoachBookingSettings, isDefault bool) *SettingsResponse {
	resp := &SettingsResponse{
		CoachID:                   s.CoachID,
		BookingWindowDays:         s.BookingWindowDays,
		MinNoticeHours:            s.MinNoticeHours,
		RenewalReminderThreshold:  s.RenewalReminderThreshold,
		SessionDurationMinutes:    s.SessionDurationMinutes,
		CheckinDurationMinutes:    s.CheckinDurationMinutes,
		TimeZone:                  s.TimeZone,
		CoachCancelBypassesNotice: s.CoachCancelBypassesNotice,
		IsDefault:                 isDefault,
	}
	if !s.UpdatedAt.IsZero() {
		updatedAt := s.UpdatedAt
		resp.UpdatedAt = &updatedAt
	}
	return resp
}
