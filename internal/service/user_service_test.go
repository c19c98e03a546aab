package service

import (
	"context"
	"testing"

	"ai-coding-assistant-be/internal/dto"
	"ai-coding-assistant-be/internal/entity"
	"ai-coding-assistant-be/internal/model"
	"ai-coding-assistant-be/pkg/events"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestGetCurrentUser(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	svc := env.userService()
	ann := env.createUser(t, "Ann", "ann@example.com", entity.UserRoleUser)

	res, err := svc.GetCurrentUser(ctx, uuid.Nil)
	require.NoError(t, err)
	assert.Nil(t, res)

	res, err = svc.GetCurrentUser(ctx, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, res)

	res, err = svc.GetCurrentUser(ctx, ann.Id)
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, ann.Id, res.Id)
	assert.Equal(t, "Ann", *res.Name)
	assert.False(t, res.IsAnonymous)
}

func TestUpdateProfileIsPartial(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	svc := env.userService()
	ann := env.createUser(t, "Ann", "ann@example.com", entity.UserRoleUser)
	env.createUser(t, "Bob", "bob@example.com", entity.UserRoleUser)

	t.Run("name only leaves email alone", func(t *testing.T) {
		res, err := svc.UpdateProfile(ctx, ann.Id, &dto.UpdateProfileRequest{Name: strPtr("Annie")})
		require.NoError(t, err)
		assert.Equal(t, "Annie", *res.Name)
		assert.Equal(t, "ann@example.com", *res.Email)
	})

	t.Run("email only leaves name alone", func(t *testing.T) {
		res, err := svc.UpdateProfile(ctx, ann.Id, &dto.UpdateProfileRequest{Email: strPtr("annie@example.com")})
		require.NoError(t, err)
		assert.Equal(t, "Annie", *res.Name)
		assert.Equal(t, "annie@example.com", *res.Email)
	})

	t.Run("empty request changes nothing", func(t *testing.T) {
		res, err := svc.UpdateProfile(ctx, ann.Id, &dto.UpdateProfileRequest{})
		require.NoError(t, err)
		assert.Equal(t, "Annie", *res.Name)
		assert.Equal(t, "annie@example.com", *res.Email)
	})

	t.Run("email owned by someone else", func(t *testing.T) {
		_, err := svc.UpdateProfile(ctx, ann.Id, &dto.UpdateProfileRequest{Email: strPtr("BOB@example.com")})
		assert.ErrorIs(t, err, ErrEmailTaken)
	})

	t.Run("unauthenticated and missing", func(t *testing.T) {
		_, err := svc.UpdateProfile(ctx, uuid.Nil, &dto.UpdateProfileRequest{Name: strPtr("x")})
		assert.ErrorIs(t, err, ErrUnauthenticated)

		_, err = svc.UpdateProfile(ctx, uuid.New(), &dto.UpdateProfileRequest{Name: strPtr("x")})
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}

func countRows(t *testing.T, env *testEnv, value interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, env.db.Model(value).Where(query, args...).Count(&n).Error)
	return n
}

func TestDeleteAccountCascades(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	convs := env.conversationService()
	users := env.userService()
	ann := env.createUser(t, "Ann", "ann@example.com", entity.UserRoleUser)
	bob := env.createUser(t, "Bob", "bob@example.com", entity.UserRoleUser)

	var annConvs []uuid.UUID
	for i := 0; i < 2; i++ {
		id, err := convs.CreateConversation(ctx, ann.Id, "")
		require.NoError(t, err)
		annConvs = append(annConvs, id)
		_, err = newAssistant(env, &fakeLLM{reply: "ok"}).GenerateAssistantReply(ctx, ann.Id, id, "hello")
		require.NoError(t, err)
	}
	bobConv, err := convs.CreateConversation(ctx, bob.Id, "bob")
	require.NoError(t, err)
	_, err = convs.AppendMessage(ctx, bob.Id, bobConv, "mine", entity.MessageRoleUser)
	require.NoError(t, err)

	require.NoError(t, users.DeleteAccount(ctx, ann.Id))

	assert.Zero(t, countRows(t, env, &model.User{}, "id = ?", ann.Id))
	assert.Zero(t, countRows(t, env, &model.Conversation{}, "user_id = ?", ann.Id))
	assert.Zero(t, countRows(t, env, &model.Message{}, "conversation_id IN ?", annConvs))
	assert.Zero(t, countRows(t, env, &model.AssistantRun{}, "conversation_id IN ?", annConvs))
	assert.Zero(t, countRows(t, env, &model.UserRefreshToken{}, "user_id = ?", ann.Id))

	assert.Equal(t, int64(1), countRows(t, env, &model.User{}, "id = ?", bob.Id))
	assert.Equal(t, int64(1), countRows(t, env, &model.Message{}, "conversation_id = ?", bobConv))

	deleted := env.events.ofType(events.TypeUserDeleted)
	require.Len(t, deleted, 1)
	assert.Equal(t, ann.Id.String(), events.StringField(deleted[0], "user_id"))
	assert.Equal(t, "ann@example.com", events.StringField(deleted[0], "email"))
	assert.Equal(t, []uuid.UUID{ann.Id}, env.live.disconnected)

	t.Run("deleted caller resolves to nobody", func(t *testing.T) {
		res, err := users.GetCurrentUser(ctx, ann.Id)
		require.NoError(t, err)
		assert.Nil(t, res)

		assert.ErrorIs(t, users.DeleteAccount(ctx, ann.Id), ErrUserNotFound)
	})

	t.Run("deleted caller cannot create conversations", func(t *testing.T) {
		id, err := convs.CreateConversation(ctx, ann.Id, "after delete")
		assert.ErrorIs(t, err, ErrUnauthenticated)
		assert.Equal(t, uuid.Nil, id)
		assert.Zero(t, countRows(t, env, &model.Conversation{}, "user_id = ?", ann.Id))
	})

	t.Run("deleted caller cannot append to old conversations", func(t *testing.T) {
		_, err := convs.AppendMessage(ctx, ann.Id, annConvs[0], "still here?", entity.MessageRoleUser)
		assert.ErrorIs(t, err, ErrNotFound)
		assert.Zero(t, countRows(t, env, &model.Message{}, "conversation_id IN ?", annConvs))
	})

	t.Run("requires a caller", func(t *testing.T) {
		assert.ErrorIs(t, users.DeleteAccount(ctx, uuid.Nil), ErrUnauthenticated)
	})
}
