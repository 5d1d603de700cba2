package services

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"sms-dispatch-gateway/internal/db"
	"sms-dispatch-gateway/internal/models"
	"sms-dispatch-gateway/internal/provider"
	"sms-dispatch-gateway/pkg/logger"

	"go.uber.org/zap"
)

// PacingPolicy spaces provider calls within one bulk batch. The delay is
// cooperative and scoped to the batch's own execution; it never blocks
// other callers.
type PacingPolicy interface {
	Wait(ctx context.Context) error
}

// FixedDelayPacing waits a fixed duration between provider calls.
type FixedDelayPacing struct {
	Delay time.Duration
}

// Wait sleeps for the configured delay or returns early when the context is
// cancelled.
func (p FixedDelayPacing) Wait(ctx context.Context) error {
	if p.Delay <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(p.Delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// DispatchService sequences a dispatch request through destination/mode
// resolution, sender-identity resolution, the provider call, and the ledger
// write. Authentication and rate limiting happen at the transport layer
// before a request reaches this service; a request rejected there never
// produces a ledger entry.
type DispatchService struct {
	ledger    db.LedgerRepository
	mode      *ModeResolver
	senders   *SenderIdentityResolver
	provider  provider.Client
	pacing    PacingPolicy
	maxMsgLen int
}

// NewDispatchService creates the dispatch orchestrator
func NewDispatchService(
	ledger db.LedgerRepository,
	mode *ModeResolver,
	senders *SenderIdentityResolver,
	providerClient provider.Client,
	pacing PacingPolicy,
	maxMessageLength int,
) *DispatchService {
	if maxMessageLength <= 0 {
		maxMessageLength = 160
	}
	return &DispatchService{
		ledger:    ledger,
		mode:      mode,
		senders:   senders,
		provider:  providerClient,
		pacing:    pacing,
		maxMsgLen: maxMessageLength,
	}
}

// Send dispatches a single message. Termination before the provider stage
// writes no ledger entry; once the provider is called, exactly one entry is
// appended (sent or failed) before the result is returned. A request with a
// schedule timestamp never reaches the provider now: a scheduled entry is
// written instead and executed later by the scheduled-dispatch loop.
func (s *DispatchService) Send(ctx context.Context, req models.SendRequest, userID, source string) (*models.SendResult, error) {
	if err := s.validateMessage(req.Message); err != nil {
		return nil, err
	}

	destination, err := s.mode.ResolveDestination(req.Destination)
	if err != nil {
		return nil, err
	}

	senderID := s.senders.Resolve(req.TeamKey)

	if req.ScheduledFor != nil {
		entry := &models.LedgerEntry{
			TeamKey:      req.TeamKey,
			UserID:       userID,
			Message:      req.Message,
			Destination:  destination,
			Status:       models.StatusScheduled,
			Source:       source,
			AttemptedAt:  time.Now().Unix(),
			ScheduledFor: req.ScheduledFor,
		}
		if err := s.ledger.Append(entry); err != nil {
			return nil, fmt.Errorf("failed to record scheduled dispatch: %w", err)
		}

		logger.Info("Dispatch scheduled",
			zap.String("user_id", userID),
			zap.Int64("scheduled_for", *req.ScheduledFor),
			zap.Int64("ledger_id", entry.ID),
		)
		return &models.SendResult{Status: models.StatusScheduled, Destination: destination, LedgerID: entry.ID}, nil
	}

	return s.callAndLog(ctx, req.TeamKey, userID, source, req.Message, destination, senderID, nil)
}

// callAndLog performs the provider call and appends the ledger entry. The
// entry records the actually resolved destination, not the caller's raw
// input.
func (s *DispatchService) callAndLog(ctx context.Context, teamKey, userID, source, message, destination, senderID string, supersedes *int64) (*models.SendResult, error) {
	sendErr := s.provider.Send(ctx, provider.Message{
		Destination: destination,
		Body:        message,
		SenderID:    senderID,
	})

	entry := &models.LedgerEntry{
		TeamKey:     teamKey,
		UserID:      userID,
		Message:     message,
		Destination: destination,
		Source:      source,
		AttemptedAt: time.Now().Unix(),
		Supersedes:  supersedes,
	}

	if sendErr != nil {
		entry.Status = models.StatusFailed
		entry.Error = sendErr.Error()

		// The failed attempt must be auditable; a logging failure here is
		// reported but never masks the provider error the caller needs.
		if logErr := s.ledger.Append(entry); logErr != nil {
			logger.Error("Failed to record failed dispatch",
				zap.String("user_id", userID),
				zap.Error(logErr),
			)
		}

		logger.Warn("Provider call failed",
			zap.String("user_id", userID),
			zap.String("destination", destination),
			zap.Error(sendErr),
		)
		return &models.SendResult{Status: models.StatusFailed, Destination: destination, LedgerID: entry.ID}, sendErr
	}

	entry.Status = models.StatusSent
	if logErr := s.ledger.Append(entry); logErr != nil {
		// The message is out but unaudited; surface it so the operator sees
		// the ledger gap rather than a silent success.
		logger.Error("Failed to record successful dispatch",
			zap.String("user_id", userID),
			zap.Error(logErr),
		)
		return nil, fmt.Errorf("message sent but audit write failed: %w", logErr)
	}

	logger.Info("Message dispatched",
		zap.String("user_id", userID),
		zap.String("destination", destination),
		zap.Int64("ledger_id", entry.ID),
	)
	return &models.SendResult{Status: models.StatusSent, Destination: destination, LedgerID: entry.ID}, nil
}

// SendBulk processes rows sequentially and in order, one provider call at a
// time with a pacing delay between calls. Rows are isolated: a failure on
// one row never aborts its siblings and never rolls back earlier rows. The
// result list always has exactly one entry per input row, in input order.
func (s *DispatchService) SendBulk(ctx context.Context, req models.BulkSendRequest, userID string) (*models.BulkResult, error) {
	result := &models.BulkResult{
		Total:   len(req.Rows),
		Results: make([]models.RowResult, 0, len(req.Rows)),
	}

	for i, row := range req.Rows {
		if i > 0 && s.pacing != nil {
			// Cooperative throttle against the provider's own rate limits.
			// A cancelled context is not fatal to the accounting: remaining
			// rows are reported as failed rather than dropped.
			if err := s.pacing.Wait(ctx); err != nil {
				for j := i; j < len(req.Rows); j++ {
					result.Results = append(result.Results, models.RowResult{
						Row:       j,
						Recipient: req.Rows[j].Destination,
						Status:    models.StatusFailed,
						Error:     fmt.Sprintf("batch canceled: %v", err),
					})
					result.Failed++
				}
				break
			}
		}

		result.Results = append(result.Results, s.sendRow(ctx, i, row, req.DefaultTeamKey, userID))
		if result.Results[i].Status == models.StatusSent {
			result.Sent++
		} else {
			result.Failed++
		}
	}

	result.Success = result.Failed == 0

	logger.Info("Bulk dispatch completed",
		zap.String("user_id", userID),
		zap.Int("total", result.Total),
		zap.Int("sent", result.Sent),
		zap.Int("failed", result.Failed),
	)
	return result, nil
}

// sendRow runs the single-send sub-steps for one bulk row. Unlike the
// single path, a row rejected before the provider stage still gets a failed
// ledger entry: the batch's audit trail accounts for every row it was asked
// to process.
func (s *DispatchService) sendRow(ctx context.Context, index int, row models.BulkRow, defaultTeamKey, userID string) models.RowResult {
	teamKey := row.TeamKey
	if teamKey == "" {
		teamKey = defaultTeamKey
	}

	if err := s.validateMessage(row.Message); err != nil {
		return s.failRow(index, row.Destination, teamKey, userID, row.Message, err)
	}

	destination, err := s.mode.ResolveDestination(row.Destination)
	if err != nil {
		return s.failRow(index, row.Destination, teamKey, userID, row.Message, err)
	}

	senderID := s.senders.Resolve(teamKey)

	res, err := s.callAndLog(ctx, teamKey, userID, models.SourceWeb, row.Message, destination, senderID, nil)
	if err != nil {
		return models.RowResult{
			Row:       index,
			Recipient: destination,
			Status:    models.StatusFailed,
			Error:     err.Error(),
		}
	}

	return models.RowResult{
		Row:       index,
		Recipient: res.Destination,
		Status:    res.Status,
	}
}

// failRow records a rejected bulk row in the ledger and returns its result.
// The recipient is the caller's raw destination; resolution never happened.
func (s *DispatchService) failRow(index int, recipient, teamKey, userID, message string, cause error) models.RowResult {
	entry := &models.LedgerEntry{
		TeamKey:     teamKey,
		UserID:      userID,
		Message:     message,
		Destination: recipient,
		Status:      models.StatusFailed,
		Source:      models.SourceWeb,
		Error:       cause.Error(),
		AttemptedAt: time.Now().Unix(),
	}
	if logErr := s.ledger.Append(entry); logErr != nil {
		logger.Error("Failed to record rejected bulk row",
			zap.String("user_id", userID),
			zap.Int("row", index),
			zap.Error(logErr),
		)
	}

	return models.RowResult{
		Row:       index,
		Recipient: recipient,
		Status:    models.StatusFailed,
		Error:     cause.Error(),
	}
}

// RunDueScheduled executes scheduled entries whose time has come. Each due
// entry gets one provider call and one new superseding sent/failed entry;
// the original scheduled row is never mutated, preserving the append-only
// ledger. Returns the number of entries processed.
func (s *DispatchService) RunDueScheduled(ctx context.Context, now time.Time, limit int) (int, error) {
	due, err := s.ledger.ListDueScheduled(now.Unix(), limit)
	if err != nil {
		return 0, fmt.Errorf("failed to list due scheduled dispatches: %w", err)
	}

	processed := 0
	for _, entry := range due {
		if ctx.Err() != nil {
			return processed, ctx.Err()
		}

		// Re-resolve the destination at execution time: the live/test switch
		// may have flipped since the entry was accepted, and test mode must
		// win either way.
		destination, err := s.mode.ResolveDestination(entry.Destination)
		if err != nil {
			logger.Error("Cannot resolve destination for scheduled dispatch",
				zap.Int64("ledger_id", entry.ID),
				zap.Error(err),
			)
			continue
		}

		senderID := s.senders.Resolve(entry.TeamKey)
		id := entry.ID
		if _, err := s.callAndLog(ctx, entry.TeamKey, entry.UserID, entry.Source, entry.Message, destination, senderID, &id); err != nil {
			// Already logged and recorded as failed; keep draining the queue
			logger.Warn("Scheduled dispatch failed",
				zap.Int64("ledger_id", entry.ID),
				zap.Error(err),
			)
		}
		processed++
	}

	return processed, nil
}

func (s *DispatchService) validateMessage(message string) error {
	if message == "" {
		return ErrEmptyMessage
	}
	if length := utf8.RuneCountInString(message); length > s.maxMsgLen {
		return &MessageTooLongError{Limit: s.maxMsgLen, Length: length}
	}
	return nil
}
