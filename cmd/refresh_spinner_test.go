package cmd

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/bnema/cursor-spend-cli/internal/application"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefreshSpinnerShowsStage(t *testing.T) {
	model := newRefreshSpinnerModel("Fetching Cursor spending...", nil)
	assert.Contains(t, model.View(), "Fetching Cursor spending...")
	assert.NotContains(t, model.View(), "(")

	updated, cmd := model.Update(refreshStageMsg{stage: stageLabel(application.StageInvoice)})
	assert.Nil(t, cmd)
	view := updated.View()
	assert.Contains(t, view, "Fetching Cursor spending...")
	assert.Contains(t, view, "(fetching invoice)")

	done, _ := updated.Update(refreshDoneMsg{})
	assert.Empty(t, done.View())
}

func TestStageLabels(t *testing.T) {
	assert.Equal(t, "reading session", stageLabel(application.StageSession))
	assert.Equal(t, "fetching account", stageLabel(application.StageAccount))
	assert.Equal(t, "resolving team", stageLabel(application.StageTeam))
	assert.Equal(t, "fetching invoice", stageLabel(application.StageInvoice))
	assert.Equal(t, "converting currency", stageLabel(application.StageRates))
}

func TestRunWithSpinnerReturnsWorkError(t *testing.T) {
	var out bytes.Buffer
	boom := errors.New("boom")

	err := runWithSpinner(context.Background(), &out, "Working", func(_ context.Context, report func(string)) error {
		report("resolving team")
		return boom
	})

	require.ErrorIs(t, err, boom)
}
