package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"ai-coding-assistant-be/internal/dto"
	"ai-coding-assistant-be/internal/entity"
	"ai-coding-assistant-be/internal/model"
	"ai-coding-assistant-be/internal/pkg/clock"
	"ai-coding-assistant-be/internal/pkg/logger"
	"ai-coding-assistant-be/internal/repository/memory"
	"ai-coding-assistant-be/internal/repository/unitofwork"
	"ai-coding-assistant-be/pkg/database"
	"ai-coding-assistant-be/pkg/events"
	"ai-coding-assistant-be/pkg/llm"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type testEnv struct {
	db         *gorm.DB
	uowFactory unitofwork.RepositoryFactory
	clock      *clock.Monotonic
	events     *recordingPublisher
	bus        *recordingBus
	live       *recordingLive
	gate       IAdminGate
	log        logger.ILogger
}

func newTestEnv(t *testing.T, adminEmails ...string) *testEnv {
	t.Helper()
	db, err := database.NewSQLiteDB(fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()))
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(model.All()...))

	uowFactory := unitofwork.NewRepositoryFactory(db)
	return &testEnv{
		db:         db,
		uowFactory: uowFactory,
		clock:      clock.NewWithSource(func() int64 { return 1_700_000_000_000 }),
		events:     &recordingPublisher{},
		bus:        &recordingBus{},
		live:       &recordingLive{},
		gate:       NewAdminGate(uowFactory, adminEmails, memory.NewRoleCache(time.Minute)),
		log:        logger.NewNopLogger(),
	}
}

func (e *testEnv) conversationService() IConversationService {
	return NewConversationService(e.uowFactory, e.clock, e.events, e.bus, e.log)
}

func (e *testEnv) userService() IUserService {
	return NewUserService(e.uowFactory, e.gate, e.events, e.live, e.log)
}

func (e *testEnv) adminService() IAdminService {
	return NewAdminService(e.uowFactory, e.gate)
}

func (e *testEnv) createUser(t *testing.T, name, email string, role entity.UserRole) *entity.User {
	t.Helper()
	user := &entity.User{Role: role}
	if name != "" {
		user.Name = &name
	}
	if email != "" {
		user.Email = &email
	}
	require.NoError(t, e.uowFactory.NewUnitOfWork(context.Background()).UserRepository().Create(context.Background(), user))
	return user
}

func (e *testEnv) createAnonymous(t *testing.T) *entity.User {
	t.Helper()
	user := &entity.User{IsAnonymous: true}
	require.NoError(t, e.uowFactory.NewUnitOfWork(context.Background()).UserRepository().Create(context.Background(), user))
	return user
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (p *recordingPublisher) Publish(ctx context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) ofType(eventType string) []events.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []events.Event
	for _, e := range p.events {
		if e.EventType() == eventType {
			out = append(out, e)
		}
	}
	return out
}

type recordingBus struct {
	mu       sync.Mutex
	appended []dto.MessageAppendedEvent
}

func (b *recordingBus) PublishMessageAppended(ctx context.Context, event dto.MessageAppendedEvent) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.appended = append(b.appended, event)
	return nil
}

type liveSend struct {
	userId    uuid.UUID
	eventType string
	data      interface{}
}

type recordingLive struct {
	mu           sync.Mutex
	sends        []liveSend
	disconnected []uuid.UUID
}

func (l *recordingLive) Send(userId uuid.UUID, eventType string, data interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sends = append(l.sends, liveSend{userId: userId, eventType: eventType, data: data})
}

func (l *recordingLive) Disconnect(userId uuid.UUID) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.disconnected = append(l.disconnected, userId)
}

func (l *recordingLive) sent() []liveSend {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]liveSend(nil), l.sends...)
}

type fakeLLM struct {
	reply       string
	err         error
	calls       int
	lastHistory []llm.Message
	lastOpts    llm.Options
	// onChat replaces the canned reply when set.
	onChat func(ctx context.Context) (string, error)
}

func (f *fakeLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	f.calls++
	f.lastHistory = history
	f.lastOpts = llm.Apply(llm.Options{}, options...)
	if f.onChat != nil {
		return f.onChat(ctx)
	}
	return f.reply, f.err
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return f.Chat(ctx, []llm.Message{{Role: llm.RoleUser, Content: prompt}}, options...)
}
