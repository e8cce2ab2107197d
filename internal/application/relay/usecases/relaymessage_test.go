package usecases

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"relaydesk/internal/application/admission"
	"relaydesk/internal/domain/knowledge"
	"relaydesk/internal/infrastructure/quota"
	"relaydesk/internal/shared/biztime"
	"relaydesk/internal/shared/logger"
)

type pipelineFixture struct {
	uc        *RelayMessageUseCase
	store     *quota.MemoryStore
	guilds    *mockGuildRepo
	tickets   *mockTicketRepo
	messages  *mockMessageRepo
	knowledge *mockKnowledgeRepo
	embedder  *mockEmbedder
	generator *mockGenerator
}

func newPipelineFixture(plan string) *pipelineFixture {
	f := &pipelineFixture{
		store:     quota.NewMemoryStore(),
		guilds:    &mockGuildRepo{plan: plan},
		tickets:   newMockTicketRepo(),
		messages:  &mockMessageRepo{},
		knowledge: &mockKnowledgeRepo{},
		embedder:  &mockEmbedder{vector: []float64{1, 0}},
		generator: &mockGenerator{reply: "AI is thinking..."},
	}

	log := logger.NewLogger()
	admissionCtrl := admission.NewController(f.store, f.guilds, log)
	f.uc = NewRelayMessageUseCase(
		f.guilds, f.tickets, f.messages, f.knowledge,
		f.embedder, knowledge.NewCosineRanker(), admissionCtrl, f.generator,
		3, 8, log,
	)
	return f
}

func relayCommand() RelayMessageCommand {
	return RelayMessageCommand{
		GuildID:   42,
		GuildName: "test guild",
		ChannelID: 7,
		UserID:    "100",
		Content:   "how do I reset my password?",
	}
}

func TestRelayMessage_SuccessfulRoundTrip(t *testing.T) {
	ctx := context.Background()
	f := newPipelineFixture("free")

	result, err := f.uc.Execute(ctx, relayCommand())
	require.NoError(t, err)

	assert.Equal(t, StatusOK, result.Status)
	assert.Equal(t, "AI is thinking...", result.Reply)
	assert.NotEmpty(t, result.TicketID)
	require.NotNil(t, result.Context)
	assert.NotEmpty(t, result.Context.SystemPrompt)

	// user + assistant messages persisted
	assert.Equal(t, 2, f.messages.count())

	// daily slot consumed, concurrency slot released
	daily, err := f.store.Get(ctx, quota.DailyTicketsKey(42, biztime.NowUTC()))
	require.NoError(t, err)
	assert.Equal(t, int64(1), daily)

	concurrent, err := f.store.Get(ctx, quota.ConcurrentKey(42))
	require.NoError(t, err)
	assert.Equal(t, int64(0), concurrent)
}

func TestRelayMessage_RecordsTokenConsumption(t *testing.T) {
	ctx := context.Background()
	f := newPipelineFixture("free")

	result, err := f.uc.Execute(ctx, relayCommand())
	require.NoError(t, err)
	require.Equal(t, StatusOK, result.Status)

	monthly, err := f.store.Get(ctx, quota.MonthlyTokensKey(42))
	require.NoError(t, err)
	expected := EstimateTokens(relayCommand().Content) + EstimateTokens("AI is thinking...")
	assert.Equal(t, expected, monthly)
	assert.Equal(t, expected, f.guilds.tokenIncrements)
}

func TestRelayMessage_IncludesRankedKnowledge(t *testing.T) {
	ctx := context.Background()
	f := newPipelineFixture("free")

	relevant, err := knowledge.NewEntry(42, "password reset", "use the account page")
	require.NoError(t, err)
	relevant.SetEmbedding([]float64{1, 0})
	offTopic, err := knowledge.NewEntry(42, "billing", "invoices are monthly")
	require.NoError(t, err)
	offTopic.SetEmbedding([]float64{0, 1})
	f.knowledge.entries = []*knowledge.Entry{offTopic, relevant}

	result, err := f.uc.Execute(ctx, relayCommand())
	require.NoError(t, err)
	require.Equal(t, StatusOK, result.Status)

	require.NotEmpty(t, result.Context.KnowledgeChunks)
	assert.Equal(t, "password reset", result.Context.KnowledgeChunks[0].Title)
}

func TestRelayMessage_ReusesOpenTicket(t *testing.T) {
	ctx := context.Background()
	f := newPipelineFixture("free")

	first, err := f.uc.Execute(ctx, relayCommand())
	require.NoError(t, err)
	second, err := f.uc.Execute(ctx, relayCommand())
	require.NoError(t, err)

	assert.Equal(t, first.TicketID, second.TicketID)
	assert.Equal(t, 1, f.tickets.saves)

	// only the first message consumed a daily slot
	daily, err := f.store.Get(ctx, quota.DailyTicketsKey(42, biztime.NowUTC()))
	require.NoError(t, err)
	assert.Equal(t, int64(1), daily)
}

func TestRelayMessage_DailyLimitRejection(t *testing.T) {
	ctx := context.Background()
	f := newPipelineFixture("free")

	// exhaust the free plan's 10 tickets per day on distinct channels
	for i := 0; i < 10; i++ {
		cmd := relayCommand()
		cmd.ChannelID = uint64(100 + i)
		result, err := f.uc.Execute(ctx, cmd)
		require.NoError(t, err)
		require.Equal(t, StatusOK, result.Status, "ticket %d", i)
	}

	cmd := relayCommand()
	cmd.ChannelID = 999
	result, err := f.uc.Execute(ctx, cmd)
	require.NoError(t, err)

	assert.Equal(t, StatusLimitExceeded, result.Status)
	assert.Contains(t, result.Reply, "Daily ticket limit reached")
	assert.Nil(t, result.Context)

	// the rejected call persisted nothing
	assert.Equal(t, 20, f.messages.count())
	assert.Equal(t, 10, f.tickets.saves)
}

func TestRelayMessage_MonthlyLimitRejection(t *testing.T) {
	ctx := context.Background()
	f := newPipelineFixture("free")

	require.NoError(t, f.store.Set(ctx, quota.MonthlyTokensKey(42), 50000, 0))

	result, err := f.uc.Execute(ctx, relayCommand())
	require.NoError(t, err)

	assert.Equal(t, StatusLimitExceeded, result.Status)
	assert.Contains(t, result.Reply, "Monthly token limit exceeded")
	assert.Equal(t, 0, f.messages.count())
}

func TestRelayMessage_ConcurrencyRejection(t *testing.T) {
	ctx := context.Background()
	f := newPipelineFixture("free")

	// another request for the same guild is in flight
	_, err := f.store.Incr(ctx, quota.ConcurrentKey(42))
	require.NoError(t, err)

	result, err := f.uc.Execute(ctx, relayCommand())
	require.NoError(t, err)

	assert.Equal(t, StatusLimitExceeded, result.Status)
	assert.Contains(t, result.Reply, "Concurrent ticket limit reached")
	assert.Equal(t, 0, f.messages.count())

	// the rejected call must not disturb the held slot
	concurrent, err := f.store.Get(ctx, quota.ConcurrentKey(42))
	require.NoError(t, err)
	assert.Equal(t, int64(1), concurrent)
}

func TestRelayMessage_SlotReleasedOnPersistFailure(t *testing.T) {
	ctx := context.Background()
	f := newPipelineFixture("free")
	f.messages.saveErr = fmt.Errorf("database gone")

	result, err := f.uc.Execute(ctx, relayCommand())
	require.NoError(t, err)
	assert.Equal(t, StatusInternalError, result.Status)

	concurrent, err := f.store.Get(ctx, quota.ConcurrentKey(42))
	require.NoError(t, err)
	assert.Equal(t, int64(0), concurrent)
}

func TestRelayMessage_SlotReleasedWhenRequestCancelledMidPipeline(t *testing.T) {
	f := newPipelineFixture("free")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// client disconnects while the user message is being persisted, so
	// every later command on the request context fails
	f.messages.onSave = cancel
	f.messages.saveErr = context.Canceled

	log := logger.NewLogger()
	admissionCtrl := admission.NewController(&cancelAwareStore{Store: f.store}, f.guilds, log)
	uc := NewRelayMessageUseCase(
		f.guilds, f.tickets, f.messages, f.knowledge,
		f.embedder, knowledge.NewCosineRanker(), admissionCtrl, f.generator,
		3, 8, log,
	)

	result, err := uc.Execute(ctx, relayCommand())
	require.NoError(t, err)
	assert.Equal(t, StatusInternalError, result.Status)

	// the concurrency counter has no TTL; a leaked slot would lock a
	// free-plan guild out permanently
	concurrent, err := f.store.Get(context.Background(), quota.ConcurrentKey(42))
	require.NoError(t, err)
	assert.Equal(t, int64(0), concurrent)
}

func TestRelayMessage_SlotReleasedOnGeneratorFailure(t *testing.T) {
	ctx := context.Background()
	f := newPipelineFixture("free")
	f.generator.err = fmt.Errorf("model unavailable")

	result, err := f.uc.Execute(ctx, relayCommand())
	require.NoError(t, err)
	assert.Equal(t, StatusInternalError, result.Status)

	concurrent, err := f.store.Get(ctx, quota.ConcurrentKey(42))
	require.NoError(t, err)
	assert.Equal(t, int64(0), concurrent)
}

func TestRelayMessage_EmptyKnowledgeSkipsEmbedding(t *testing.T) {
	ctx := context.Background()
	f := newPipelineFixture("free")

	result, err := f.uc.Execute(ctx, relayCommand())
	require.NoError(t, err)
	require.Equal(t, StatusOK, result.Status)

	assert.Empty(t, result.Context.KnowledgeChunks)
	assert.Zero(t, f.embedder.calls)
}

func TestRelayMessage_HistoryIsOldestFirstAndCapped(t *testing.T) {
	ctx := context.Background()
	f := newPipelineFixture("pro")

	var last *RelayMessageResult
	for i := 0; i < 6; i++ {
		cmd := relayCommand()
		cmd.Content = fmt.Sprintf("message %d", i)
		result, err := f.uc.Execute(ctx, cmd)
		require.NoError(t, err)
		require.Equal(t, StatusOK, result.Status)
		last = result
	}

	history := last.Context.MessageHistory
	require.NotEmpty(t, history)
	assert.LessOrEqual(t, len(history), 8)
	// the inbound message is persisted before history is read, so it
	// closes the window
	assert.Equal(t, "message 5", history[len(history)-1].Content)
	assert.Equal(t, "user", history[len(history)-1].Role)
}

func TestEstimateTokens(t *testing.T) {
	assert.Equal(t, int64(0), EstimateTokens(""))
	assert.Equal(t, int64(1), EstimateTokens("hey"))
	assert.Equal(t, int64(5), EstimateTokens("12345678901234567890"))
}
