package report

import (
	"context"

	"dexspread/internal/database"
	"dexspread/internal/model"
)

// JournalSink records actionable opportunities in the repository.
type JournalSink struct {
	repo database.Repository
}

// NewJournalSink creates a JournalSink.
func NewJournalSink(repo database.Repository) *JournalSink {
	return &JournalSink{repo: repo}
}

func (j *JournalSink) ReportTick(ctx context.Context, report model.TickReport) error {
	if !report.Opportunity.Actionable {
		return nil
	}
	return j.repo.LogTrade(ctx, model.NewSimulatedTrade(report))
}

// ReportFailure is a no-op; only opportunities are journaled.
func (j *JournalSink) ReportFailure(ctx context.Context, failure model.TickFailure) error {
	return nil
}
