package handler

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/commerce-admin-api/internal/model"
	"github.com/iliyamo/commerce-admin-api/internal/queue"
	"github.com/iliyamo/commerce-admin-api/internal/repository"
	"github.com/iliyamo/commerce-admin-api/internal/service"
)

// MonitoringHandler is the ingestion sink for behaviour, performance and
// business-metric events.  Routes sit behind the service JWT middleware;
// the reporting service identifies itself there, not per event.
//
// Every payload is validated field by field before anything is written; a
// malformed event is rejected wholesale.  After the insert the event is
// fanned out to RabbitMQ, and a publish failure never fails the request.
type MonitoringHandler struct {
	Monitoring *repository.MonitoringRepo
}

func NewMonitoringHandler(m *repository.MonitoringRepo) *MonitoringHandler {
	return &MonitoringHandler{Monitoring: m}
}

func callerService(c echo.Context) string {
	if s, ok := c.Get("service").(string); ok {
		return s
	}
	return ""
}

// parseOccurredAt accepts RFC 3339 and rejects future-dated events beyond
// a small clock-skew allowance.
func parseOccurredAt(raw string) (time.Time, string) {
	if raw == "" {
		return time.Time{}, "occurred_at is required"
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, "occurred_at must be RFC 3339"
	}
	if t.After(time.Now().UTC().Add(5 * time.Minute)) {
		return time.Time{}, "occurred_at is in the future"
	}
	return t.UTC(), ""
}

func (h *MonitoringHandler) publish(c echo.Context, ev queue.MonitoringEventRecorded) {
	ev.Service = callerService(c)
	if err := service.PublishMonitoringEvent(c.Request().Context(), ev); err != nil {
		log.Printf("monitoring: publish %s event %d failed: %v", ev.Kind, ev.EventID, err)
	}
}

type behaviorReq struct {
	SessionID  string `json:"session_id"`
	EventType  string `json:"event_type"`
	PageURL    string `json:"page_url"`
	OccurredAt string `json:"occurred_at"`
}

// Behavior ingests a user-behaviour event.
func (h *MonitoringHandler) Behavior(c echo.Context) error {
	var req behaviorReq
	if err := c.Bind(&req); err != nil {
		return respondErr(c, http.StatusBadRequest, "invalid body")
	}
	errs := map[string]string{}
	req.SessionID = strings.TrimSpace(req.SessionID)
	req.EventType = strings.TrimSpace(req.EventType)
	req.PageURL = strings.TrimSpace(req.PageURL)
	if req.SessionID == "" {
		errs["session_id"] = "session_id is required"
	}
	if req.EventType == "" {
		errs["event_type"] = "event_type is required"
	}
	if req.PageURL == "" {
		errs["page_url"] = "page_url is required"
	}
	at, msg := parseOccurredAt(req.OccurredAt)
	if msg != "" {
		errs["occurred_at"] = msg
	}
	if len(errs) > 0 {
		return respondFields(c, errs)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	ev := model.BehaviorEvent{
		SessionID:  req.SessionID,
		EventType:  req.EventType,
		PageURL:    req.PageURL,
		OccurredAt: at,
	}
	if err := h.Monitoring.InsertBehavior(ctx, &ev); err != nil {
		return respondErr(c, http.StatusInternalServerError, "record failed")
	}
	h.publish(c, queue.MonitoringEventRecorded{
		EventID:    ev.ID,
		Kind:       "behavior",
		SessionID:  ev.SessionID,
		EventType:  ev.EventType,
		PageURL:    ev.PageURL,
		OccurredAt: ev.OccurredAt.Format(time.RFC3339),
	})
	return respondOK(c, http.StatusCreated, ev)
}

type performanceReq struct {
	PageURL    string `json:"page_url"`
	LoadTimeMs int64  `json:"load_time_ms"`
	TTFBMs     int64  `json:"ttfb_ms"`
	OccurredAt string `json:"occurred_at"`
}

// Performance ingests a page-timing sample.
func (h *MonitoringHandler) Performance(c echo.Context) error {
	var req performanceReq
	if err := c.Bind(&req); err != nil {
		return respondErr(c, http.StatusBadRequest, "invalid body")
	}
	errs := map[string]string{}
	req.PageURL = strings.TrimSpace(req.PageURL)
	if req.PageURL == "" {
		errs["page_url"] = "page_url is required"
	}
	if req.LoadTimeMs <= 0 {
		errs["load_time_ms"] = "load_time_ms must be greater than 0"
	}
	if req.TTFBMs < 0 || req.TTFBMs > req.LoadTimeMs {
		errs["ttfb_ms"] = "ttfb_ms must be between 0 and load_time_ms"
	}
	at, msg := parseOccurredAt(req.OccurredAt)
	if msg != "" {
		errs["occurred_at"] = msg
	}
	if len(errs) > 0 {
		return respondFields(c, errs)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	ev := model.PerformanceEvent{
		PageURL:    req.PageURL,
		LoadTimeMs: req.LoadTimeMs,
		TTFBMs:     req.TTFBMs,
		OccurredAt: at,
	}
	if err := h.Monitoring.InsertPerformance(ctx, &ev); err != nil {
		return respondErr(c, http.StatusInternalServerError, "record failed")
	}
	h.publish(c, queue.MonitoringEventRecorded{
		EventID:    ev.ID,
		Kind:       "performance",
		PageURL:    ev.PageURL,
		LoadTimeMs: ev.LoadTimeMs,
		TTFBMs:     ev.TTFBMs,
		OccurredAt: ev.OccurredAt.Format(time.RFC3339),
	})
	return respondOK(c, http.StatusCreated, ev)
}

type businessReq struct {
	Name       string  `json:"name"`
	Value      float64 `json:"value"`
	OccurredAt string  `json:"occurred_at"`
}

// Business ingests a named business measurement.
func (h *MonitoringHandler) Business(c echo.Context) error {
	var req businessReq
	if err := c.Bind(&req); err != nil {
		return respondErr(c, http.StatusBadRequest, "invalid body")
	}
	errs := map[string]string{}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		errs["name"] = "name is required"
	}
	at, msg := parseOccurredAt(req.OccurredAt)
	if msg != "" {
		errs["occurred_at"] = msg
	}
	if len(errs) > 0 {
		return respondFields(c, errs)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	ev := model.BusinessMetric{Name: req.Name, Value: req.Value, OccurredAt: at}
	if err := h.Monitoring.InsertBusinessMetric(ctx, &ev); err != nil {
		return respondErr(c, http.StatusInternalServerError, "record failed")
	}
	h.publish(c, queue.MonitoringEventRecorded{
		EventID:    ev.ID,
		Kind:       "business",
		MetricName: ev.Name,
		Value:      ev.Value,
		OccurredAt: ev.OccurredAt.Format(time.RFC3339),
	})
	return respondOK(c, http.StatusCreated, ev)
}
