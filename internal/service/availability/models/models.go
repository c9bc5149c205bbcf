package models

import (
	"time"

	"github.com/m04kA/SMC-CoachBookingService/internal/domain"
	"github.com/m04kA/SMC-CoachBookingService/pkg/types"
)

// Request модели

// CreateTemplateRequest запрос на создание еженедельного шаблона
type CreateTemplateRequest struct {
	UserID               int64  `json:"-"`
	CoachID              int64  `json:"-"`
	BookingType          string `json:"bookingType"`
	DayOfWeek            int    `json:"dayOfWeek"` // 0 = воскресенье
	StartTime            string `json:"startTime"` // "09:00"
	EndTime              string `json:"endTime"`   // "12:00"
	MaxConcurrentClients int    `json:"maxConcurrentClients"`
}

// CreateOverrideRequest запрос на создание исключения на дату
// Без startTime/endTime исключение действует весь день
type CreateOverrideRequest struct {
	UserID               int64   `json:"-"`
	CoachID              int64   `json:"-"`
	BookingType          string  `json:"bookingType"`
	Date                 string  `json:"date"` // "2025-03-10"
	StartTime            *string `json:"startTime,omitempty"`
	EndTime              *string `json:"endTime,omitempty"`
	IsBlocked            bool    `json:"isBlocked"`
	MaxConcurrentClients *int    `json:"maxConcurrentClients,omitempty"`
}

// ListRequest запрос списка шаблонов или исключений тренера
type ListRequest struct {
	CoachID     int64
	BookingType *string
	From        *time.Time // только исключения
	To          *time.Time // только исключения
}

// Response модели

// TemplateResponse шаблон доступности
type TemplateResponse struct {
	ID                   int64  `json:"id"`
	CoachID              int64  `json:"coachId"`
	BookingType          string `json:"bookingType"`
	DayOfWeek            int    `json:"dayOfWeek"`
	StartTime            string `json:"startTime"`
	EndTime              string `json:"endTime"`
	MaxConcurrentClients int    `json:"maxConcurrentClients"`
}

// OverrideResponse исключение из расписания
type OverrideResponse struct {
	ID                   int64   `json:"id"`
	CoachID              int64   `json:"coachId"`
	BookingType          string  `json:"bookingType"`
	Date                 string  `json:"date"`
	StartTime            *string `json:"startTime,omitempty"`
	EndTime              *string `json:"endTime,omitempty"`
	IsBlocked            bool    `json:"isBlocked"`
	MaxConcurrentClients *int    `json:"maxConcurrentClients,omitempty"`
}

// TemplateListResponse список шаблонов
type TemplateListResponse struct {
	Templates []TemplateResponse `json:"templates"`
}

// OverrideListResponse список исключений
type OverrideListResponse struct {
	Overrides []OverrideResponse `json:"overrides"`
}

// Методы конвертации

// FromDomainTemplate конвертирует domain модель в DTO
func FromDomainTemplate(t *domain.AvailabilityTemplate) TemplateResponse {
	return TemplateResponse{
		ID:                   t.ID,
		CoachID:              t.CoachID,
		BookingType:          string(t.BookingType),
		DayOfWeek:            t.DayOfWeek,
		StartTime:            t.StartTime.String(),
		EndTime:              t.EndTime.String(),
		MaxConcurrentClients: t.MaxConcurrentClients,
	}
}

// FromDomainOverride конвертирует domain модель в DTO
func FromDomainOverride(o *domain.AvailabilityOverride) OverrideResponse {
	resp := OverrideResponse{
		ID:                   o.ID,
		CoachID:              o.CoachID,
		BookingType:          string(o.BookingType),
		Date:                 o.Date.Format(domain.DateFormat),
		IsBlocked:            o.IsBlocked,
		MaxConcurrentClients: o.MaxConcurrentClients,
	}
	if o.StartTime != nil && o.EndTime != nil {
		start, end := o.StartTime.String(), o.EndTime.String()
		resp.StartTime, resp.EndTime = &start, &end
	}
	return resp
}

// FromDomainTemplateList конвертирует список шаблонов
func FromDomainTemplateList(templates []*domain.AvailabilityTemplate) *TemplateListResponse {
	resp := &TemplateListResponse{Templates: make([]TemplateResponse, 0, len(templates))}
	for _, t := range templates {
		resp.Templates = append(resp.Templates, FromDomainTemplate(t))
	}
	return resp
}

// FromDomainOverrideList конвертирует список исключений
func FromDomainOverrideList(overrides []*domain.AvailabilityOverride) *OverrideListResponse {
	resp := &OverrideListResponse{Overrides: make([]OverrideResponse, 0, len(overrides))}
	for _, o := range overrides {
		resp.Overrides = append(resp.Overrides, FromDomainOverride(o))
	}
	return resp
}

// ParseTimeRange парсит пару "HH:MM" и проверяет start < end
func ParseTimeRange(start, end string) (types.TimeString, types.TimeString, bool) {
	s, err := types.NewTimeStringFromString(start)
	if err != nil {
		return "", "", false
	}
	e, err := types.NewTimeStringFromString(end)
	if err != nil {
		return "", "", false
	}
	return s, e, s.IsBefore(e)
}
