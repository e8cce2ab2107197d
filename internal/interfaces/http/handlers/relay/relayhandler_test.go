package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"relaydesk/internal/application/relay/dto"
	"relaydesk/internal/application/relay/usecases"
	"relaydesk/internal/shared/errors"
	"relaydesk/internal/shared/logger"
)

type mockRelayUC struct {
	result *usecases.RelayMessageResult
	err    error
	gotCmd usecases.RelayMessageCommand
}

func (m *mockRelayUC) Execute(_ context.Context, cmd usecases.RelayMessageCommand) (*usecases.RelayMessageResult, error) {
	m.gotCmd = cmd
	return m.result, m.err
}

type mockCloseTicketUC struct {
	result *usecases.CloseTicketResult
	err    error
	gotCmd usecases.CloseTicketCommand
}

func (m *mockCloseTicketUC) Execute(_ context.Context, cmd usecases.CloseTicketCommand) (*usecases.CloseTicketResult, error) {
	m.gotCmd = cmd
	return m.result, m.err
}

func performRequest(t *testing.T, relayUC RelayExecutor, closeUC CloseTicketExecutor, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	engine := gin.New()
	handler := NewRelayHandler(relayUC, closeUC, logger.NewLogger())
	engine.POST("/relay", handler.Relay)
	engine.POST("/relay/close", handler.CloseTicket)

	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func performRelay(t *testing.T, uc RelayExecutor, body any) *httptest.ResponseRecorder {
	t.Helper()
	return performRequest(t, uc, &mockCloseTicketUC{}, "/relay", body)
}

func validBody() map[string]string {
	return map[string]string{
		"guild_id":   "42",
		"channel_id": "7",
		"user_id":    "100",
		"content":    "hello",
	}
}

func TestRelay_OK(t *testing.T) {
	uc := &mockRelayUC{result: &usecases.RelayMessageResult{
		Status:   usecases.StatusOK,
		Reply:    "AI is thinking...",
		TicketID: "a4c135d8-0000-4000-8000-000000000000",
		Context: &dto.PromptContext{
			SystemPrompt:    "You are a helpful assistant.",
			KnowledgeChunks: []dto.KnowledgeChunk{{Title: "faq", Content: "answer"}},
			MessageHistory:  []dto.HistoryMessage{{Role: "user", Content: "hello"}},
		},
	}}

	rec := performRelay(t, uc, validBody())
	require.Equal(t, http.StatusOK, rec.Code)

	var resp RelayResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "AI is thinking...", resp.Reply)
	require.NotNil(t, resp.Context)
	assert.Equal(t, "faq", resp.Context.KnowledgeChunks[0].Title)

	assert.Equal(t, uint64(42), uc.gotCmd.GuildID)
	assert.Equal(t, uint64(7), uc.gotCmd.ChannelID)
	assert.Equal(t, "100", uc.gotCmd.UserID)
}

func TestRelay_LimitExceededStillHTTP200(t *testing.T) {
	uc := &mockRelayUC{result: &usecases.RelayMessageResult{
		Status: usecases.StatusLimitExceeded,
		Reply:  "Concurrent ticket limit reached. Please wait for existing tickets to complete.",
	}}

	rec := performRelay(t, uc, validBody())
	require.Equal(t, http.StatusOK, rec.Code)

	var resp RelayResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "limit_exceeded", resp.Status)
	assert.Contains(t, resp.Reply, "Concurrent ticket limit reached")
	assert.Nil(t, resp.Context)
}

func TestRelay_MissingFields(t *testing.T) {
	uc := &mockRelayUC{}

	rec := performRelay(t, uc, map[string]string{"guild_id": "42"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRelay_NonNumericIDs(t *testing.T) {
	uc := &mockRelayUC{}

	body := validBody()
	body["guild_id"] = "not-a-number"
	rec := performRelay(t, uc, body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCloseTicket_OK(t *testing.T) {
	closeUC := &mockCloseTicketUC{result: &usecases.CloseTicketResult{
		TicketID: "a4c135d8-0000-4000-8000-000000000000",
		Status:   "closed",
	}}

	rec := performRequest(t, &mockRelayUC{}, closeUC, "/relay/close",
		map[string]string{"guild_id": "42", "channel_id": "7"})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Success bool                       `json:"success"`
		Data    usecases.CloseTicketResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "closed", resp.Data.Status)

	assert.Equal(t, uint64(42), closeUC.gotCmd.GuildID)
	assert.Equal(t, uint64(7), closeUC.gotCmd.ChannelID)
}

func TestCloseTicket_NoOpenTicket(t *testing.T) {
	closeUC := &mockCloseTicketUC{err: errors.NewNotFoundError("no open ticket for this channel")}

	rec := performRequest(t, &mockRelayUC{}, closeUC, "/relay/close",
		map[string]string{"guild_id": "42", "channel_id": "7"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCloseTicket_MissingFields(t *testing.T) {
	rec := performRequest(t, &mockRelayUC{}, &mockCloseTicketUC{}, "/relay/close",
		map[string]string{"guild_id": "42"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRelay_PipelineError(t *testing.T) {
	uc := &mockRelayUC{err: fmt.Errorf("store unavailable")}

	rec := performRelay(t, uc, validBody())
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp RelayResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "internal_error", resp.Status)
}
