package usecases

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"relaydesk/internal/application/relay/dto"
	"relaydesk/internal/domain/guild"
	"relaydesk/internal/domain/knowledge"
	"relaydesk/internal/domain/ticket"
	"relaydesk/internal/infrastructure/quota"
	"relaydesk/internal/shared/errors"
)

type mockGuildRepo struct {
	plan            string
	tokenIncrements int64
}

func (m *mockGuildRepo) GetOrCreate(_ context.Context, id uint64, name string) (*guild.Guild, error) {
	if name == "" {
		name = fmt.Sprintf("guild-%d", id)
	}
	g, err := guild.NewGuild(id, name)
	if err != nil {
		return nil, err
	}
	if m.plan != "" && m.plan != "free" {
		if err := g.ChangePlan(guild.Plan(m.plan)); err != nil {
			return nil, err
		}
	}
	return g, nil
}

func (m *mockGuildRepo) GetByID(ctx context.Context, id uint64) (*guild.Guild, error) {
	return m.GetOrCreate(ctx, id, "")
}

func (m *mockGuildRepo) Update(_ context.Context, _ *guild.Guild) error { return nil }

func (m *mockGuildRepo) ListAll(_ context.Context) ([]*guild.Guild, error) { return nil, nil }

func (m *mockGuildRepo) IncrementMonthlyTokens(_ context.Context, _ uint64, n int64) error {
	m.tokenIncrements += n
	return nil
}

type channelKey struct {
	guildID   uint64
	channelID uint64
}

type mockTicketRepo struct {
	mu      sync.Mutex
	open    map[channelKey]*ticket.Ticket
	saveErr error
	saves   int
}

func newMockTicketRepo() *mockTicketRepo {
	return &mockTicketRepo{open: make(map[channelKey]*ticket.Ticket)}
}

func (m *mockTicketRepo) Save(_ context.Context, t *ticket.Ticket) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	key := channelKey{t.GuildID(), t.ChannelID()}
	if existing, ok := m.open[key]; ok && existing.IsOpen() {
		return errors.NewConflictError("ticket already exists for this channel")
	}
	m.open[key] = t
	m.saves++
	return nil
}

func (m *mockTicketRepo) Update(_ context.Context, _ *ticket.Ticket) error { return nil }

func (m *mockTicketRepo) FindOpenByChannel(_ context.Context, guildID, channelID uint64) (*ticket.Ticket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := m.open[channelKey{guildID, channelID}]
	if t == nil || !t.IsOpen() {
		return nil, nil
	}
	return t, nil
}

type mockMessageRepo struct {
	mu       sync.Mutex
	messages []*ticket.Message
	saveErr  error
	onSave   func()
}

func (m *mockMessageRepo) Save(_ context.Context, msg *ticket.Message) error {
	if m.onSave != nil {
		m.onSave()
	}
	if m.saveErr != nil {
		return m.saveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, msg)
	return nil
}

func (m *mockMessageRepo) GetLast(_ context.Context, ticketID uuid.UUID, limit int) ([]*ticket.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var all []*ticket.Message
	for _, msg := range m.messages {
		if msg.TicketID() == ticketID {
			all = append(all, msg)
		}
	}
	if len(all) > limit {
		all = all[len(all)-limit:]
	}
	return all, nil
}

func (m *mockMessageRepo) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.messages)
}

type mockKnowledgeRepo struct {
	entries []*knowledge.Entry
}

func (m *mockKnowledgeRepo) Save(_ context.Context, _ *knowledge.Entry) error   { return nil }
func (m *mockKnowledgeRepo) Update(_ context.Context, _ *knowledge.Entry) error { return nil }
func (m *mockKnowledgeRepo) Delete(_ context.Context, _ uuid.UUID, _ uint64) error {
	return nil
}

func (m *mockKnowledgeRepo) GetByID(_ context.Context, _ uuid.UUID, _ uint64) (*knowledge.Entry, error) {
	return nil, errors.NewNotFoundError("knowledge entry not found")
}

func (m *mockKnowledgeRepo) ListByGuild(_ context.Context, _ uint64) ([]*knowledge.Entry, error) {
	return m.entries, nil
}

func (m *mockKnowledgeRepo) CountByGuild(_ context.Context, _ uint64) (int64, error) {
	return int64(len(m.entries)), nil
}

type mockEmbedder struct {
	vector []float64
	err    error
	calls  int
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) ([]float64, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.vector, nil
}

type mockGenerator struct {
	reply string
	err   error
}

func (m *mockGenerator) Generate(_ context.Context, _ dto.PromptContext) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return m.reply, nil
}

// cancelAwareStore refuses counter commands once the context is
// cancelled, matching how the redis client behaves.
type cancelAwareStore struct {
	quota.Store
}

func (s *cancelAwareStore) Incr(ctx context.Context, key string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return s.Store.Incr(ctx, key)
}

func (s *cancelAwareStore) Decr(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.Store.Decr(ctx, key)
}
