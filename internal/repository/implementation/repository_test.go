package implementation

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"ai-coding-assistant-be/internal/entity"
	"ai-coding-assistant-be/internal/model"
	"ai-coding-assistant-be/internal/repository/specification"
	"ai-coding-assistant-be/pkg/database"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.NewSQLiteDB(fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()))
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(model.All()...))
	return db
}

func strPtr(s string) *string { return &s }

func TestUserRepository_CreateFindUpdate(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(newTestDB(t))

	user := &entity.User{Name: strPtr("Ann"), Email: strPtr("Ann@Example.com")}
	require.NoError(t, repo.Create(ctx, user))
	assert.NotEqual(t, uuid.Nil, user.Id)
	assert.Equal(t, entity.UserRoleUser, user.Role)

	found, err := repo.FindOne(ctx, specification.ByEmail{Email: "ann@example.com"})
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, user.Id, found.Id)

	found.Name = strPtr("Annie")
	require.NoError(t, repo.Update(ctx, found))

	reloaded, err := repo.FindOne(ctx, specification.ByID{ID: user.Id})
	require.NoError(t, err)
	assert.Equal(t, "Annie", *reloaded.Name)
	assert.Equal(t, "Ann@Example.com", *reloaded.Email)

	missing, err := repo.FindOne(ctx, specification.ByID{ID: uuid.New()})
	assert.NoError(t, err)
	assert.Nil(t, missing)
}

func TestUserRepository_AnonymousUsersShareNullEmail(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(newTestDB(t))

	require.NoError(t, repo.Create(ctx, &entity.User{IsAnonymous: true}))
	require.NoError(t, repo.Create(ctx, &entity.User{IsAnonymous: true}))

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestUserRepository_RefreshTokens(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(newTestDB(t))
	userId := uuid.New()

	token := &entity.UserRefreshToken{UserId: userId, TokenHash: "abc", ExpiresAt: time.Now().Add(time.Hour)}
	require.NoError(t, repo.CreateRefreshToken(ctx, token))

	found, err := repo.FindRefreshToken(ctx, specification.ByTokenHash{Hash: "abc"}, specification.NotRevoked{})
	require.NoError(t, err)
	require.NotNil(t, found)

	require.NoError(t, repo.RevokeRefreshToken(ctx, "abc"))
	found, err = repo.FindRefreshToken(ctx, specification.ByTokenHash{Hash: "abc"}, specification.NotRevoked{})
	require.NoError(t, err)
	assert.Nil(t, found)

	require.NoError(t, repo.DeleteRefreshTokensByUserId(ctx, userId))
	found, err = repo.FindRefreshToken(ctx, specification.ByTokenHash{Hash: "abc"})
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestConversationRepository_OwnerScopedNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := NewConversationRepository(newTestDB(t))
	owner := uuid.New()
	other := uuid.New()
	base := time.Now().UTC()

	for i, title := range []string{"first", "second", "third"} {
		require.NoError(t, repo.Create(ctx, &entity.Conversation{
			UserId:    owner,
			Title:     title,
			CreatedAt: base.Add(time.Duration(i) * time.Millisecond),
		}))
	}
	require.NoError(t, repo.Create(ctx, &entity.Conversation{UserId: other, Title: "not mine", CreatedAt: base}))

	list, err := repo.FindAll(ctx, specification.UserOwnedBy{UserID: owner}, specification.NewestFirst{})
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "third", list[0].Title)
	assert.Equal(t, "first", list[2].Title)

	require.NoError(t, repo.DeleteAllByUserId(ctx, owner))
	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestMessageRepository_Chronological(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewMessageRepository(db)
	conversationId := uuid.New()

	require.NoError(t, repo.Create(ctx, &entity.Message{ConversationId: conversationId, Content: "b", Role: entity.MessageRoleAssistant, Timestamp: 20}))
	require.NoError(t, repo.Create(ctx, &entity.Message{ConversationId: conversationId, Content: "a", Role: entity.MessageRoleUser, Timestamp: 10}))
	require.NoError(t, repo.Create(ctx, &entity.Message{ConversationId: uuid.New(), Content: "x", Role: entity.MessageRoleUser, Timestamp: 5}))

	list, err := repo.FindAll(ctx, specification.ByConversationID{ConversationID: conversationId}, specification.Chronological{})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "a", list[0].Content)
	assert.Equal(t, entity.MessageRoleUser, list[0].Role)
	assert.Equal(t, "b", list[1].Content)

	require.NoError(t, repo.DeleteAllByConversationIds(ctx, []uuid.UUID{conversationId}))
	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	assert.NoError(t, repo.DeleteAllByConversationIds(ctx, nil))
}

func TestAssistantRunRepository_StoresOptions(t *testing.T) {
	ctx := context.Background()
	repo := NewAssistantRunRepository(newTestDB(t))
	conversationId := uuid.New()

	run := &entity.AssistantRun{
		ConversationId: conversationId,
		MessageId:      uuid.New(),
		Provider:       "openai",
		Model:          "gpt-4o-mini",
		Outcome:        entity.ReplyOutcomeFallback,
		ErrorDetail:    strPtr("boom"),
		Options:        map[string]interface{}{"max_tokens": 2000, "temperature": 0.7},
		LatencyMs:      12,
	}
	require.NoError(t, repo.Create(ctx, run))

	runs, err := repo.FindAll(ctx, specification.ByConversationID{ConversationID: conversationId})
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, entity.ReplyOutcomeFallback, runs[0].Outcome)
	assert.Equal(t, "boom", *runs[0].ErrorDetail)
	// JSON columns decode numbers as json.Number.
	assert.Equal(t, json.Number("2000"), runs[0].Options["max_tokens"])
	assert.Equal(t, json.Number("0.7"), runs[0].Options["temperature"])

	require.NoError(t, repo.DeleteAllByConversationIds(ctx, []uuid.UUID{conversationId}))
	runs, err = repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, runs)
}
