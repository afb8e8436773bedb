package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"event-analytics/internal/exporters"
	exportermocks "event-analytics/internal/exporters/mocks"
	"event-analytics/internal/models"
	"event-analytics/internal/shared/svcerrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestExportHandler_Handle_CSV(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	exportService := exportermocks.NewMockExportService(ctrl)
	handler := NewExportHandler(exportService, exporters.FormatCSV)

	exportService.EXPECT().
		Export(gomock.Any(), exporters.FormatCSV, models.RangeDay, "org-1").
		Return(&exporters.ExportFile{
			Filename:    "events-day-org-org-1-2026-03-01.csv",
			ContentType: "text/csv",
			Content:     []byte("Event Type,User ID\n"),
		}, nil)

	req := httptest.NewRequest(http.MethodGet, "/export/csv?filter=day&organizationId=org-1", nil)
	rr := httptest.NewRecorder()

	err := handler.Handle(rr, req)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "text/csv", rr.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="events-day-org-org-1-2026-03-01.csv"`, rr.Header().Get("Content-Disposition"))
	assert.Equal(t, "Event Type,User ID\n", rr.Body.String())
}

func TestExportHandler_Handle_ServiceError(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	exportService := exportermocks.NewMockExportService(ctrl)
	handler := NewExportHandler(exportService, exporters.FormatJSON)

	expectedErr := svcerrors.NewInternalError("EXP_9000", assert.AnError)
	exportService.EXPECT().
		Export(gomock.Any(), exporters.FormatJSON, models.RangeHour, "").
		Return(nil, expectedErr)

	req := httptest.NewRequest(http.MethodGet, "/export/json", nil)
	rr := httptest.NewRecorder()

	err := handler.Handle(rr, req)

	require.Error(t, err)
	svcErr, ok := svcerrors.AsServiceError(err)
	require.True(t, ok)
	assert.Equal(t, "EXP_9000", svcErr.Code)
}
