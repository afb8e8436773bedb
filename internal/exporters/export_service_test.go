package exporters_test

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"event-analytics/internal/exporters"
	"event-analytics/internal/models"
	"event-analytics/internal/shared/svcerrors"
	"event-analytics/internal/stores"
	storemocks "event-analytics/internal/stores/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func exportEvents() []*models.Event {
	base := time.Date(2026, 3, 1, 11, 30, 0, 0, time.UTC)
	return []*models.Event{
		{
			ID:         "01HX0000000000000000000001",
			EventType:  models.EventTypePageView,
			UserID:     "b1e7c3a0-5f4d-4c2b-9e8a-1d2f3a4b5c6d",
			Timestamp:  base,
			ReceivedAt: base.Add(time.Second),
			Metadata:   &models.EventMetadata{Page: "home", Browser: "chrome"},
		},
		{
			ID:             "01HX0000000000000000000002",
			EventType:      models.EventTypeLog,
			UserID:         "b1e7c3a0-5f4d-4c2b-9e8a-1d2f3a4b5c6d",
			Timestamp:      base.Add(time.Minute),
			ReceivedAt:     base.Add(time.Minute),
			OrganizationID: "0f1e2d3c-4b5a-6978-8796-a5b4c3d2e1f0",
		},
	}
}

func TestExport_CSV(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	eventStore := storemocks.NewMockEventStore(ctrl)
	eventStore.EXPECT().Query(gomock.Any(), gomock.Any()).Return(exportEvents(), nil)
	service := exporters.NewExportService(eventStore)

	file, err := service.Export(context.Background(), exporters.FormatCSV, models.RangeHour, "")

	require.NoError(t, err)
	assert.Equal(t, "text/csv", file.ContentType)
	assert.True(t, strings.HasPrefix(file.Filename, "events-hour-"), file.Filename)
	assert.True(t, strings.HasSuffix(file.Filename, ".csv"), file.Filename)

	records, err := csv.NewReader(strings.NewReader(string(file.Content))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3, "header plus two rows")
	assert.Equal(t,
		[]string{"Event Type", "User ID", "Timestamp", "Metadata", "Received At", "Organization ID"},
		records[0])
	assert.Equal(t, "page_view", records[1][0])
	assert.Equal(t, "2026-03-01T11:30:00.000Z", records[1][2])
	assert.JSONEq(t, `{"page":"home","browser":"chrome"}`, records[1][3])
	assert.Equal(t, "", records[1][5])
	assert.Equal(t, "0f1e2d3c-4b5a-6978-8796-a5b4c3d2e1f0", records[2][5])
}

func TestExport_JSON(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	orgID := "0f1e2d3c-4b5a-6978-8796-a5b4c3d2e1f0"
	eventStore := storemocks.NewMockEventStore(ctrl)
	eventStore.EXPECT().Query(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, filter stores.EventFilter) ([]*models.Event, error) {
			assert.Equal(t, orgID, filter.OrganizationID)
			assert.False(t, filter.Since.IsZero(), "export is always time-bounded")
			return exportEvents(), nil
		})
	service := exporters.NewExportService(eventStore)

	file, err := service.Export(context.Background(), exporters.FormatJSON, models.RangeWeek, orgID)

	require.NoError(t, err)
	assert.Equal(t, "application/json", file.ContentType)
	assert.Contains(t, file.Filename, "events-week-org-"+orgID)
	assert.True(t, strings.HasSuffix(file.Filename, ".json"), file.Filename)

	var payload struct {
		Success bool `json:"success"`
		Data    struct {
			Events         []json.RawMessage `json:"events"`
			Filter         string            `json:"filter"`
			OrganizationID *string           `json:"organizationId"`
			TotalCount     int               `json:"totalCount"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(file.Content, &payload))
	assert.True(t, payload.Success)
	assert.Len(t, payload.Data.Events, 2)
	assert.Equal(t, "week", payload.Data.Filter)
	require.NotNil(t, payload.Data.OrganizationID)
	assert.Equal(t, orgID, *payload.Data.OrganizationID)
	assert.Equal(t, 2, payload.Data.TotalCount)
}

func TestExport_CSV_EmptyStore(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	eventStore := storemocks.NewMockEventStore(ctrl)
	eventStore.EXPECT().Query(gomock.Any(), gomock.Any()).Return(nil, nil)
	service := exporters.NewExportService(eventStore)

	file, err := service.Export(context.Background(), exporters.FormatCSV, models.RangeDay, "")

	require.NoError(t, err)
	records, err := csv.NewReader(strings.NewReader(string(file.Content))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1, "header only")
}

func TestExport_ErrInternalEventStoreFailed(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	eventStore := storemocks.NewMockEventStore(ctrl)
	eventStore.EXPECT().Query(gomock.Any(), gomock.Any()).Return(nil, errors.New("disk gone"))
	service := exporters.NewExportService(eventStore)

	file, err := service.Export(context.Background(), exporters.FormatCSV, models.RangeHour, "")

	require.Error(t, err)
	svcErr, ok := svcerrors.AsServiceError(err)
	require.True(t, ok, "expected ServiceError")
	assert.Equal(t, "EXP_9000", svcErr.Code)
	assert.Nil(t, file)
}
