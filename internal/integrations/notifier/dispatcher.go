package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// HTTPDispatcher пересылает события во внешние сервисы уведомлений и календаря
// Пустой URL означает, что получатель не подключен: событие пропускается
type HTTPDispatcher struct {
	notificationsURL string
	calendarURL      string
	httpClient       *http.Client
}

// NewHTTPDispatcher создает HTTPDispatcher
func NewHTTPDispatcher(notificationsURL, calendarURL string, timeout time.Duration) *HTTPDispatcher {
	return &HTTPDispatcher{
		notificationsURL: notificationsURL,
		calendarURL:      calendarURL,
		httpClient:       &http.Client{Timeout: timeout},
	}
}

// Dispatch отправляет payload POST-запросом
func (d *HTTPDispatcher) Dispatch(ctx context.Context, taskType string, payload Payload) error {
	url := d.notificationsURL
	if taskType == TypeCalendarSync {
		url = d.calendarURL
	}
	if url == "" {
		return nil
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%w: marshal payload: %v", ErrDispatch, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: create request: %v", ErrDispatch, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Event-ID", payload.EventID)

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: execute request: %v", ErrDispatch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		msg, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: %s responded %d: %s", ErrDispatch, taskType, resp.StatusCode, string(msg))
	}

	return nil
}
