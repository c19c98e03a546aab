package service

import (
	"context"
	"errors"
	"testing"

	"ai-coding-assistant-be/internal/constant"
	"ai-coding-assistant-be/internal/entity"
	"ai-coding-assistant-be/internal/repository/specification"
	"ai-coding-assistant-be/pkg/llm"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAssistant(env *testEnv, provider llm.LLMProvider) IAssistantService {
	return NewAssistantService(env.conversationService(), env.uowFactory, provider, AssistantOptions{
		Provider:    "fake",
		Model:       constant.AssistantDefaultModel,
		MaxTokens:   constant.AssistantDefaultMaxTokens,
		Temperature: constant.AssistantDefaultTemperature,
	}, env.log)
}

func TestGenerateAssistantReply(t *testing.T) {
	tests := []struct {
		name        string
		reply       string
		err         error
		wantContent string
		wantOutcome entity.ReplyOutcome
	}{
		{"completed", "Use display: flex.", nil, "Use display: flex.", entity.ReplyOutcomeCompleted},
		{"empty content", "", nil, constant.AssistantEmptyReply, entity.ReplyOutcomeEmpty},
		{"provider error", "", errors.New("upstream 503"), constant.AssistantFallbackReply, entity.ReplyOutcomeFallback},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			env := newTestEnv(t)
			owner := env.createUser(t, "Ann", "ann@example.com", entity.UserRoleUser)
			convs := env.conversationService()
			convId, err := convs.CreateConversation(ctx, owner.Id, "css")
			require.NoError(t, err)

			provider := &fakeLLM{reply: tt.reply, err: tt.err}
			res, err := newAssistant(env, provider).GenerateAssistantReply(ctx, owner.Id, convId, "How do I center a div?")
			require.NoError(t, err)

			assert.Equal(t, tt.wantContent, res.Content)
			assert.Equal(t, tt.wantOutcome, res.Outcome)
			assert.NotEqual(t, uuid.Nil, res.MessageId)

			messages, err := convs.ListMessages(ctx, owner.Id, convId)
			require.NoError(t, err)
			require.Len(t, messages, 2)
			assert.Equal(t, "user", messages[0].Role)
			assert.Equal(t, "How do I center a div?", messages[0].Content)
			assert.Equal(t, "assistant", messages[1].Role)
			assert.Equal(t, tt.wantContent, messages[1].Content)
			assert.Equal(t, res.MessageId, messages[1].Id)

			runs, err := env.uowFactory.NewUnitOfWork(ctx).AssistantRunRepository().FindAll(ctx,
				specification.ByConversationID{ConversationID: convId})
			require.NoError(t, err)
			require.Len(t, runs, 1)
			assert.Equal(t, tt.wantOutcome, runs[0].Outcome)
			assert.Equal(t, res.MessageId, runs[0].MessageId)
			if tt.err != nil {
				require.NotNil(t, runs[0].ErrorDetail)
				assert.Contains(t, *runs[0].ErrorDetail, "upstream 503")
			} else {
				assert.Nil(t, runs[0].ErrorDetail)
			}
		})
	}
}

func TestGenerateAssistantReplyPersistsAfterClientDisconnect(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "Ann", "ann@example.com", entity.UserRoleUser)
	convs := env.conversationService()
	convId, err := convs.CreateConversation(context.Background(), owner.Id, "timeouts")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	provider := &fakeLLM{onChat: func(ctx context.Context) (string, error) {
		cancel()
		return "", ctx.Err()
	}}

	res, err := newAssistant(env, provider).GenerateAssistantReply(ctx, owner.Id, convId, "still there?")
	require.NoError(t, err)
	assert.Equal(t, entity.ReplyOutcomeFallback, res.Outcome)
	assert.Equal(t, constant.AssistantFallbackReply, res.Content)

	messages, err := convs.ListMessages(context.Background(), owner.Id, convId)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, "assistant", messages[1].Role)
	assert.Equal(t, constant.AssistantFallbackReply, messages[1].Content)

	runs, err := env.uowFactory.NewUnitOfWork(context.Background()).AssistantRunRepository().FindAll(context.Background(),
		specification.ByConversationID{ConversationID: convId})
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, entity.ReplyOutcomeFallback, runs[0].Outcome)
	require.NotNil(t, runs[0].ErrorDetail)
	assert.Contains(t, *runs[0].ErrorDetail, context.Canceled.Error())
}

func TestGenerateAssistantReplySendsFullHistory(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	owner := env.createUser(t, "Ann", "ann@example.com", entity.UserRoleUser)
	convs := env.conversationService()
	convId, err := convs.CreateConversation(ctx, owner.Id, "js")
	require.NoError(t, err)

	provider := &fakeLLM{reply: "first answer"}
	assistant := newAssistant(env, provider)

	_, err = assistant.GenerateAssistantReply(ctx, owner.Id, convId, "first question")
	require.NoError(t, err)
	provider.reply = "second answer"
	_, err = assistant.GenerateAssistantReply(ctx, owner.Id, convId, "second question")
	require.NoError(t, err)

	require.Len(t, provider.lastHistory, 4)
	assert.Equal(t, llm.Message{Role: llm.RoleSystem, Content: constant.AssistantSystemPrompt}, provider.lastHistory[0])
	assert.Equal(t, llm.Message{Role: "user", Content: "first question"}, provider.lastHistory[1])
	assert.Equal(t, llm.Message{Role: "assistant", Content: "first answer"}, provider.lastHistory[2])
	assert.Equal(t, llm.Message{Role: "user", Content: "second question"}, provider.lastHistory[3])

	assert.Equal(t, constant.AssistantDefaultModel, provider.lastOpts.Model)
	assert.Equal(t, constant.AssistantDefaultMaxTokens, provider.lastOpts.MaxTokens)
	assert.InDelta(t, constant.AssistantDefaultTemperature, provider.lastOpts.Temperature, 1e-9)
}

func TestGenerateAssistantReplyOwnership(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	ann := env.createUser(t, "Ann", "ann@example.com", entity.UserRoleUser)
	bob := env.createUser(t, "Bob", "bob@example.com", entity.UserRoleUser)
	convId, err := env.conversationService().CreateConversation(ctx, ann.Id, "mine")
	require.NoError(t, err)

	provider := &fakeLLM{reply: "never"}
	assistant := newAssistant(env, provider)

	_, err = assistant.GenerateAssistantReply(ctx, bob.Id, convId, "let me in")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = assistant.GenerateAssistantReply(ctx, uuid.Nil, convId, "let me in")
	assert.ErrorIs(t, err, ErrUnauthenticated)

	assert.Zero(t, provider.calls)
}
