package services

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/avorobjovs/taskdeck/internal/attachref"
	"github.com/avorobjovs/taskdeck/internal/authx"
	"github.com/avorobjovs/taskdeck/internal/common"
	"github.com/avorobjovs/taskdeck/internal/logging"
	"github.com/avorobjovs/taskdeck/internal/models"
	"github.com/avorobjovs/taskdeck/internal/repositories/repomanager"
)

// webhookPayload is the body POSTed to the user's tracker webhook.
type webhookPayload struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// WebhookService pushes a task to the user's configured external tracker.
// A push is a single attempt; failures surface to the caller and are never
// retried automatically.
type WebhookService struct {
	db     *sql.DB
	rm     repomanager.RepositoryManager
	holder *authx.SessionHolder
	client *http.Client
	logger logging.Logger
}

func NewWebhookService(db *sql.DB, rm repomanager.RepositoryManager, holder *authx.SessionHolder, logger logging.Logger) *WebhookService {
	return &WebhookService{
		db:     db,
		rm:     rm,
		holder: holder,
		client: &http.Client{Timeout: 10 * time.Second},
		logger: logger.With("component", "webhook"),
	}
}

// Configure saves (or replaces) the user's tracker webhook target.
func (s *WebhookService) Configure(ctx context.Context, webhookURL, name string) error {
	userID := s.holder.UserID()
	if userID == "" {
		return common.ErrAuthRequired
	}
	return s.rm.Integrations(s.db).Upsert(ctx, &models.TrackerIntegration{
		UserID:     userID,
		WebhookURL: webhookURL,
		Name:       name,
	})
}

// Integration returns the current target, or ErrWebhookNotConfigured.
func (s *WebhookService) Integration(ctx context.Context) (*models.TrackerIntegration, error) {
	userID := s.holder.UserID()
	if userID == "" {
		return nil, common.ErrAuthRequired
	}
	ti, err := s.rm.Integrations(s.db).Get(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrWebhookNotConfigured
		}
		return nil, err
	}
	return ti, nil
}

// Remove drops the configured target.
func (s *WebhookService) Remove(ctx context.Context) error {
	userID := s.holder.UserID()
	if userID == "" {
		return common.ErrAuthRequired
	}
	err := s.rm.Integrations(s.db).Delete(ctx, userID)
	if errors.Is(err, common.ErrNotFound) {
		return common.ErrWebhookNotConfigured
	}
	return err
}

// PushTask sends the task's title and display-ready description to the
// configured webhook. Attachment markup is stripped before sending.
func (s *WebhookService) PushTask(ctx context.Context, task *models.Task) error {
	ti, err := s.Integration(ctx)
	if err != nil {
		return err
	}

	payload := webhookPayload{
		Title:       task.Title,
		Description: attachref.StripForDisplay(task.Content),
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ti.WebhookURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook push failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("webhook push failed: status %d", resp.StatusCode)
	}

	s.logger.Info(ctx, "task pushed", "task", task.ID, "tracker", ti.Name)
	return nil
}
