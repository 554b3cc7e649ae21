package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/busurbano-data/internal/common/logger"
	"github.com/busurbano-data/pkg/gtfs-static/models"
)

const (
	// StopPlaceholder is replaced by the stop code in the API URL template.
	StopPlaceholder = "{stop}"
	UserAgent       = "busurbano-data/1.0"

	maxBodyBytes = 4 << 20
)

// circulation is one entry of the consolidated circulations API.
type circulation struct {
	Line     string    `json:"line"`
	Route    string    `json:"route"`
	Schedule *schedule `json:"schedule"`
	RealTime *realTime `json:"realTime"`
}

type schedule struct {
	ServiceID string `json:"serviceId"`
	TripID    string `json:"tripId"`
	Running   bool   `json:"running"`
	Minutes   int    `json:"minutes"`
}

type realTime struct {
	Minutes int `json:"minutes"`
}

// Consumer polls the real-time circulation API of one stop at a time.
type Consumer struct {
	urlTemplate string
	httpClient  *http.Client
	logger      logger.Logger
}

func NewConsumer(urlTemplate string, log logger.Logger) *Consumer {
	client := &http.Client{
		Timeout: 15 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        10,
			MaxIdleConnsPerHost: 5,
			IdleConnTimeout:     30 * time.Second,
		},
	}

	return &Consumer{
		urlTemplate: urlTemplate,
		httpClient:  client,
		logger:      log,
	}
}

// URL returns the request URL for stopCode.
func (c *Consumer) URL(stopCode int) string {
	return strings.ReplaceAll(c.urlTemplate, StopPlaceholder, strconv.Itoa(stopCode))
}

// Fetch returns the observations currently reported for stopCode, stamped
// with observedAt. Circulations lacking either the scheduled or the
// real-time part are skipped.
func (c *Consumer) Fetch(ctx context.Context, stopCode int, observedAt time.Time) ([]models.DelayObservation, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL(stopCode), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch stop %d: %w", stopCode, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error for stop %d: %d %s", stopCode, resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	var items []circulation
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&items); err != nil {
		return nil, fmt.Errorf("failed to decode stop %d response: %w", stopCode, err)
	}

	observations := make([]models.DelayObservation, 0, len(items))
	skipped := 0
	for _, item := range items {
		if item.Schedule == nil || item.RealTime == nil {
			skipped++
			continue
		}
		observations = append(observations, models.DelayObservation{
			ObservedAt:       observedAt,
			StopCode:         stopCode,
			Line:             item.Line,
			Route:            item.Route,
			ServiceID:        item.Schedule.ServiceID,
			TripID:           item.Schedule.TripID,
			Running:          item.Schedule.Running,
			ScheduledMinutes: item.Schedule.Minutes,
			RealTimeMinutes:  item.RealTime.Minutes,
		})
	}

	c.logger.Debug("Fetched circulations", "stop", stopCode, "items", len(items), "kept", len(observations), "skipped", skipped)
	return observations, nil
}
