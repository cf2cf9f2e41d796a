// Package requests implements the pump-request approval workflow: a submitted
// request is either approved, which promotes its payload into the pumps
// collection, or rejected with a reason.
package requests

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/fuelgrid-cloud/pumproom/internal/domain"
	"github.com/fuelgrid-cloud/pumproom/internal/domain/entity"
	"github.com/fuelgrid-cloud/pumproom/internal/domain/normalize"
)

// Request status values. Legacy documents without a status are pending.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Service handles pump-request decisions.
type Service struct {
	records Repository
	logger  *zap.Logger
}

// New creates a requests service.
func New(records Repository, logger *zap.Logger) *Service {
	return &Service{records: records, logger: logger}
}

// Approve marks a pending request approved and creates a pump from its
// payload. Returns the new pump's id.
func (s *Service) Approve(ctx context.Context, id, actor string) (string, error) {
	doc, err := s.records.Get(ctx, entity.Request, id)
	if err != nil {
		return "", fmt.Errorf("get request: %w", err)
	}

	fields := normalize.Entity(entity.Request, doc.Fields)
	if err := ensurePending(fields); err != nil {
		return "", err
	}

	pumpID, err := s.records.Create(ctx, entity.Pump, pumpFields(fields, id), actor)
	if err != nil {
		return "", fmt.Errorf("create pump from request: %w", err)
	}

	update := map[string]any{
		"status":    StatusApproved,
		"decidedBy": actor,
		"pumpId":    pumpID,
	}
	if err := s.records.Update(ctx, entity.Request, id, update, actor); err != nil {
		return "", fmt.Errorf("mark request approved: %w", err)
	}

	s.logger.Info("request approved",
		zap.String("request_id", id),
		zap.String("pump_id", pumpID),
		zap.String("actor", actor),
	)
	return pumpID, nil
}

// Reject marks a pending request rejected.
func (s *Service) Reject(ctx context.Context, id, actor, reason string) error {
	doc, err := s.records.Get(ctx, entity.Request, id)
	if err != nil {
		return fmt.Errorf("get request: %w", err)
	}

	fields := normalize.Entity(entity.Request, doc.Fields)
	if err := ensurePending(fields); err != nil {
		return err
	}

	update := map[string]any{
		"status":          StatusRejected,
		"decidedBy":       actor,
		"rejectionReason": reason,
	}
	if err := s.records.Update(ctx, entity.Request, id, update, actor); err != nil {
		return fmt.Errorf("mark request rejected: %w", err)
	}

	s.logger.Info("request rejected",
		zap.String("request_id", id),
		zap.String("actor", actor),
	)
	return nil
}

func ensurePending(fields normalize.Fields) error {
	status := strings.ToLower(fields.Str("status"))
	if status == "" || status == StatusPending {
		return nil
	}
	return fmt.Errorf("request is %s: %w", status, domain.ErrInvalidTransition)
}

// pumpFields builds the pump document from a normalized request, carrying
// only canonical keys so the new pump never inherits alias drift.
func pumpFields(fields normalize.Fields, requestID string) map[string]any {
	pump := map[string]any{
		"name":            fields.Str("pumpName"),
		"brand":           fields.Str("brand"),
		"address":         fields.Str("address"),
		"city":            fields.Str("city"),
		"district":        fields.Str("district"),
		"contactDetails":  fields.Str("contact"),
		"status":          "active",
		"sourceRequestId": requestID,
	}
	if coords := fields.Coords("location"); coords.HasBoth() {
		pump["location"] = map[string]any{
			"latitude":  *coords.Latitude,
			"longitude": *coords.Longitude,
		}
	}
	return pump
}
