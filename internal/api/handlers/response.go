package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/m04kA/SMC-CoachBookingService/internal/domain"
)

const msgInternalError = "внутренняя ошибка сервера"

// ErrorResponse тело ответа с ошибкой
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// ViolationResponse нарушение ограничения для одного слота
// Slot отсутствует для нарушений, относящихся ко всему запросу (квота)
type ViolationResponse struct {
	Slot   *SlotDTO `json:"slot,omitempty"`
	Kind   string   `json:"kind"`
	Reason string   `json:"reason"`
}

// RejectionResponse тело ответа при отказе в бронировании
// Перечисляет все нарушения, чтобы клиент мог снять выбор только с проблемных слотов
type RejectionResponse struct {
	Code       int                 `json:"code"`
	Message    string              `json:"message"`
	Violations []ViolationResponse `json:"violations"`
}

// SlotDTO интервал [startsAt, endsAt) в RFC3339
type SlotDTO struct {
	StartsAt string `json:"startsAt"`
	EndsAt   string `json:"endsAt"`
}

// ToDomain парсит интервал
func (s SlotDTO) ToDomain() (domain.Slot, error) {
	startsAt, err := time.Parse(time.RFC3339, s.StartsAt)
	if err != nil {
		return domain.Slot{}, fmt.Errorf("startsAt: %w", err)
	}
	endsAt, err := time.Parse(time.RFC3339, s.EndsAt)
	if err != nil {
		return domain.Slot{}, fmt.Errorf("endsAt: %w", err)
	}
	return domain.Slot{StartsAt: startsAt, EndsAt: endsAt}, nil
}

// FromDomainSlot конвертирует слот в DTO
func FromDomainSlot(s domain.Slot) SlotDTO {
	return SlotDTO{
		StartsAt: s.StartsAt.Format(time.RFC3339),
		EndsAt:   s.EndsAt.Format(time.RFC3339),
	}
}

// DecodeJSON декодирует тело запроса, неизвестные поля запрещены
func DecodeJSON(r *http.Request, v interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(v)
}

// RespondJSON отправляет JSON ответ
func RespondJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(body)
}

// RespondError отправляет ошибку с произвольным статусом
func RespondError(w http.ResponseWriter, status int, message string) {
	RespondJSON(w, status, ErrorResponse{Code: status, Message: message})
}

func RespondBadRequest(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusBadRequest, message)
}

func RespondNotFound(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusNotFound, message)
}

func RespondForbidden(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusForbidden, message)
}

func RespondUnauthorized(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusUnauthorized, message)
}

func RespondConflict(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusConflict, message)
}

func RespondInternalError(w http.ResponseWriter) {
	RespondError(w, http.StatusInternalServerError, msgInternalError)
}

// RespondNoContent отправляет 204
func RespondNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// RespondRejection отправляет отказ в бронировании со списком нарушений
// 409 если есть конфликт с текущим состоянием (вместимость, пересечение, квота), иначе 422
func RespondRejection(w http.ResponseWriter, message string, rejection *domain.BookingRejection) {
	status := http.StatusUnprocessableEntity
	violations := make([]ViolationResponse, 0, len(rejection.Violations))
	for _, v := range rejection.Violations {
		if StatusFor(v.Reason) == http.StatusConflict {
			status = http.StatusConflict
		}
		item := ViolationResponse{
			Kind:   domain.Kind(v.Reason),
			Reason: v.Reason.Error(),
		}
		if v.Slot != nil {
			dto := FromDomainSlot(*v.Slot)
			item.Slot = &dto
		}
		violations = append(violations, item)
	}

	RespondJSON(w, status, RejectionResponse{
		Code:       status,
		Message:    message,
		Violations: violations,
	})
}

// StatusFor HTTP статус для вида ошибки планирования
func StatusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrCapacityExceeded),
		errors.Is(err, domain.ErrOverlapConflict),
		errors.Is(err, domain.ErrQuotaExhausted),
		errors.Is(err, domain.ErrBookingCancelled):
		return http.StatusConflict
	case errors.Is(err, domain.ErrNoticeViolation),
		errors.Is(err, domain.ErrWindowViolation),
		errors.Is(err, domain.ErrSlotNotOffered):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
