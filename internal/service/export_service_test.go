package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestExportService(t *testing.T) *ExportService {
	t.Helper()
	analytics, _ := newTestAnalyticsService(t)
	return NewExportService(analytics, zap.NewNop())
}

func TestExportServiceReportCSV(t *testing.T) {
	svc := newTestExportService(t)

	payload, err := svc.ReportCSV(context.Background(), testRecords())
	require.NoError(t, err)

	content := string(payload)
	assert.Contains(t, content, "Subject")
	assert.Contains(t, content, "Weighted Average")
	assert.Contains(t, content, "math")
	assert.Contains(t, content, "Overall")
}

func TestExportServiceReportPDF(t *testing.T) {
	svc := newTestExportService(t)

	payload, err := svc.ReportPDF(context.Background(), testRecords())
	require.NoError(t, err)

	require.Greater(t, len(payload), 4)
	assert.Equal(t, "%PDF", string(payload[:4]))
}

func TestExportServiceEmptyHistoryStillRenders(t *testing.T) {
	svc := newTestExportService(t)

	payload, err := svc.ReportCSV(context.Background(), nil)
	require.NoError(t, err)
	assert.Contains(t, string(payload), "Overall")
}
