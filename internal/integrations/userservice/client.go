package userservice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client клиент для работы с UserService (справочник тренеров)
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента UserService
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// GetCoach получает тренера по ID
// Неактивный тренер считается несуществующим
func (c *Client) GetCoach(ctx context.Context, coachID int64) (*Coach, error) {
	url := fmt.Sprintf("%s/internal/coaches/%d", c.baseURL, coachID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	// Обработка статус-кодов
	switch resp.StatusCode {
	case http.StatusOK:
		// Продолжаем обработку
	case http.StatusBadRequest:
		return nil, fmt.Errorf("%w: invalid coach ID format", ErrInvalidResponse)
	case http.StatusNotFound:
		return nil, ErrCoachNotFound
	default:
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	var coach Coach
	if err := json.NewDecoder(resp.Body).Decode(&coach); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	if !coach.IsActive {
		return nil, ErrCoachNotFound
	}

	return &coach, nil
}

// CoachExists проверяет тренера с graceful degradation
// При недоступности UserService тренер считается существующим: расписание все равно
// строится только из шаблонов этого тренера, а бронирование проверяется в транзакции
func (c *Client) CoachExists(ctx context.Context, coachID int64) (bool, error) {
	_, err := c.GetCoach(ctx, coachID)
	if err == nil {
		return true, nil
	}

	if errors.Is(err, ErrCoachNotFound) {
		c.log.Info("Coach id=%d not found in UserService", coachID)
		return false, nil
	}

	c.log.Error("UserService unavailable, applying graceful degradation for coach_id=%d: %v", coachID, err)
	return true, fmt.Errorf("%w: coach_id=%d, error=%v", ErrServiceDegraded, coachID, err)
}
