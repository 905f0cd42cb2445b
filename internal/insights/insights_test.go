package insights

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leina-lyt/inference-dashboard/internal/metrics"
	"github.com/leina-lyt/inference-dashboard/internal/model"
	"github.com/leina-lyt/inference-dashboard/pkg/anthropic"
)

// mockClient captures the request and returns a canned reply.
type mockClient struct {
	req  anthropic.MessageRequest
	resp *anthropic.MessageResponse
	err  error
}

func (m *mockClient) CreateMessage(_ context.Context, req anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
	m.req = req
	return m.resp, m.err
}

func testSnapshot() *metrics.Snapshot {
	return &metrics.Snapshot{
		Countries: []metrics.CountrySummary{
			{Country: "kenya", Records: 3, AvgInferenceSeconds: 0.42, MaxInferenceSeconds: 0.9, TotalInputMB: 6.5, MissingArtifacts: 1},
		},
		TotalRows:   3,
		CollectedAt: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestSummarize(t *testing.T) {
	client := &mockClient{resp: &anthropic.MessageResponse{Text: "All healthy."}}
	s := New(client, "claude-sonnet-4-5-20250929", 512)

	diags := []model.Diagnostic{{Kind: model.KindEmptyDataset, Severity: model.SeverityInfo, Country: "mali", Message: "skipping mali"}}
	out, err := s.Summarize(context.Background(), testSnapshot(), diags)
	require.NoError(t, err)
	assert.Equal(t, "All healthy.", out)

	assert.Equal(t, "claude-sonnet-4-5-20250929", client.req.Model)
	assert.Equal(t, int64(512), client.req.MaxTokens)
	require.Len(t, client.req.Messages, 1)
	assert.Contains(t, client.req.Messages[0].Content, "kenya: 3 records")
	assert.Contains(t, client.req.Messages[0].Content, "skipping mali")
}

func TestBuildPrompt_NoDiagnostics(t *testing.T) {
	prompt := BuildPrompt(testSnapshot(), nil)

	assert.Contains(t, prompt, "1 countries, 3 correlated rows")
	assert.Contains(t, prompt, "No diagnostics were raised")
	assert.Contains(t, prompt, "1 missing artifacts")
}

func TestSummarize_ClientError(t *testing.T) {
	client := &mockClient{err: assert.AnError}
	s := New(client, "claude-sonnet-4-5-20250929", 0)

	_, err := s.Summarize(context.Background(), testSnapshot(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insights: summarize")
}
