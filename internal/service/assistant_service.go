package service

import (
	"context"
	"time"

	"ai-coding-assistant-be/internal/constant"
	"ai-coding-assistant-be/internal/entity"
	"ai-coding-assistant-be/internal/pkg/logger"
	"ai-coding-assistant-be/internal/pkg/metrics"
	"ai-coding-assistant-be/internal/repository/unitofwork"
	"ai-coding-assistant-be/pkg/llm"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// ReplyResult is the assistant turn that was persisted. Provider failures
// surface through Outcome, never as an error.
type ReplyResult struct {
	Content   string
	Outcome   entity.ReplyOutcome
	MessageId uuid.UUID
}

type AssistantOptions struct {
	Provider    string
	Model       string
	MaxTokens   int
	Temperature float64
}

type IAssistantService interface {
	GenerateAssistantReply(ctx context.Context, callerId uuid.UUID, conversationId uuid.UUID, userMessage string) (*ReplyResult, error)
}

type assistantService struct {
	conversations IConversationService
	uowFactory    unitofwork.RepositoryFactory
	provider      llm.LLMProvider
	opts          AssistantOptions
	logger        logger.ILogger
}

func NewAssistantService(
	conversations IConversationService,
	uowFactory unitofwork.RepositoryFactory,
	provider llm.LLMProvider,
	opts AssistantOptions,
	log logger.ILogger,
) IAssistantService {
	if opts.Model == "" {
		opts.Model = constant.AssistantDefaultModel
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = constant.AssistantDefaultMaxTokens
	}
	return &assistantService{
		conversations: conversations,
		uowFactory:    uowFactory,
		provider:      provider,
		opts:          opts,
		logger:        log,
	}
}

func (s *assistantService) GenerateAssistantReply(ctx context.Context, callerId uuid.UUID, conversationId uuid.UUID, userMessage string) (*ReplyResult, error) {
	ctx, span := otel.Tracer("assistant-service").Start(ctx, "GenerateAssistantReply")
	defer span.End()
	span.SetAttributes(
		attribute.String("conversation.id", conversationId.String()),
		attribute.String("llm.provider", s.opts.Provider),
		attribute.String("llm.model", s.opts.Model),
	)

	// 1. Persist the user turn before any external call
	if _, err := s.conversations.AppendMessage(ctx, callerId, conversationId, userMessage, entity.MessageRoleUser); err != nil {
		return nil, err
	}

	// 2. Reload the full ordered history
	history, err := s.conversations.ListMessages(ctx, callerId, conversationId)
	if err != nil {
		return nil, err
	}

	// 3. System prompt first, then stored turns
	prompt := make([]llm.Message, 0, len(history)+1)
	prompt = append(prompt, llm.Message{Role: llm.RoleSystem, Content: constant.AssistantSystemPrompt})
	for _, m := range history {
		prompt = append(prompt, llm.Message{Role: m.Role, Content: m.Content})
	}

	// 4. Single provider call
	start := time.Now()
	content, providerErr := s.provider.Chat(ctx, prompt,
		llm.WithModel(s.opts.Model),
		llm.WithMaxTokens(s.opts.MaxTokens),
		llm.WithTemperature(s.opts.Temperature),
	)
	latency := time.Since(start)

	var outcome entity.ReplyOutcome
	var errorDetail *string
	switch {
	case providerErr != nil:
		outcome = entity.ReplyOutcomeFallback
		content = constant.AssistantFallbackReply
		detail := providerErr.Error()
		errorDetail = &detail

		span.RecordError(providerErr)
		span.SetStatus(codes.Error, "completion provider failed")
		s.logger.Error("ASSISTANT", "Completion provider failed", map[string]interface{}{
			"conversation_id": conversationId.String(),
			"provider":        s.opts.Provider,
			"error":           detail,
		})
	case content == "":
		outcome = entity.ReplyOutcomeEmpty
		content = constant.AssistantEmptyReply
	default:
		outcome = entity.ReplyOutcomeCompleted
	}

	metrics.RecordAssistantReply(s.opts.Provider, string(outcome), latency, providerErr != nil)
	span.SetAttributes(attribute.String("assistant.outcome", string(outcome)))

	// 5/6. Persist the assistant turn, whatever the outcome.
	// A client that hangs up mid-call still gets its fallback stored.
	persistCtx := context.WithoutCancel(ctx)
	messageId, err := s.conversations.AppendMessage(persistCtx, callerId, conversationId, content, entity.MessageRoleAssistant)
	if err != nil {
		return nil, err
	}

	s.recordRun(persistCtx, conversationId, messageId, outcome, errorDetail, latency)

	return &ReplyResult{
		Content:   content,
		Outcome:   outcome,
		MessageId: messageId,
	}, nil
}

// recordRun writes the audit row. Failures are logged and otherwise ignored.
func (s *assistantService) recordRun(ctx context.Context, conversationId, messageId uuid.UUID, outcome entity.ReplyOutcome, errorDetail *string, latency time.Duration) {
	run := &entity.AssistantRun{
		ConversationId: conversationId,
		MessageId:      messageId,
		Provider:       s.opts.Provider,
		Model:          s.opts.Model,
		Outcome:        outcome,
		ErrorDetail:    errorDetail,
		Options: map[string]interface{}{
			"max_tokens":  s.opts.MaxTokens,
			"temperature": s.opts.Temperature,
		},
		LatencyMs: latency.Milliseconds(),
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.AssistantRunRepository().Create(ctx, run); err != nil {
		s.logger.Warn("ASSISTANT", "Failed to record assistant run", map[string]interface{}{
			"conversation_id": conversationId.String(),
			"error":           err.Error(),
		})
	}
}
