package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDueDate_DateOnlyBecomesStartOfDayUTC(t *testing.T) {
	var req CreateTaskRequest
	require.NoError(t, json.Unmarshal([]byte(`{"title":"x","due_date":"2026-02-19"}`), &req))

	got := req.DueDate.Ptr()
	require.NotNil(t, got)
	assert.Equal(t, time.Date(2026, time.February, 19, 0, 0, 0, 0, time.UTC), *got)
}

func TestDueDate_RFC3339Preserved(t *testing.T) {
	var req CreateTaskRequest
	require.NoError(t, json.Unmarshal([]byte(`{"title":"x","due_date":"2026-02-19T15:04:05Z"}`), &req))

	got := req.DueDate.Ptr()
	require.NotNil(t, got)
	assert.Equal(t, 15, got.Hour())
}

func TestDueDate_NullAndEmptyMeanNoDate(t *testing.T) {
	for _, body := range []string{`{"title":"x"}`, `{"title":"x","due_date":null}`, `{"title":"x","due_date":""}`} {
		var req CreateTaskRequest
		require.NoError(t, json.Unmarshal([]byte(body), &req), body)
		assert.Nil(t, req.DueDate.Ptr(), body)
	}
}

func TestDueDate_RejectsGarbage(t *testing.T) {
	var req CreateTaskRequest
	err := json.Unmarshal([]byte(`{"title":"x","due_date":"next tuesday"}`), &req)
	assert.Error(t, err)
}

func TestUpdateTaskRequest_EmptyStringClearsDueDate(t *testing.T) {
	var absent UpdateTaskRequest
	require.NoError(t, json.Unmarshal([]byte(`{"title":"y"}`), &absent))
	assert.Nil(t, absent.DueDate, "absent field must stay nil")

	// JSON null decodes a *DueDate straight to nil without invoking the
	// unmarshaler, so "clear" is expressed as an empty string instead.
	var cleared UpdateTaskRequest
	require.NoError(t, json.Unmarshal([]byte(`{"due_date":""}`), &cleared))
	require.NotNil(t, cleared.DueDate)
	assert.Nil(t, cleared.DueDate.Ptr())
}
