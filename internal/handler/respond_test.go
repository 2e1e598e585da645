package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, http.StatusNotFound, msgTodoNotFound)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"errorMessage":"Could not find todo"}`, rec.Body.String())
}

func TestDecodeJSONIgnoresUnknownFields(t *testing.T) {
	req := httptest.NewRequest(http.MethodPatch, "/todos/x", strings.NewReader(`{"text":"a","owner":"b","completedAt":"c"}`))
	rec := httptest.NewRecorder()

	var in updateTodoInput
	require.NoError(t, decodeJSON(rec, req, &in))
	require.NotNil(t, in.Text)
	assert.Equal(t, "a", *in.Text)
	assert.Nil(t, in.Completed)
}

func TestDecodeJSONRejectsNonBoolCompleted(t *testing.T) {
	req := httptest.NewRequest(http.MethodPatch, "/todos/x", strings.NewReader(`{"completed":"yes"}`))
	rec := httptest.NewRecorder()

	var in updateTodoInput
	assert.Error(t, decodeJSON(rec, req, &in))
}

func TestDecodeJSONBodyLimit(t *testing.T) {
	body := `{"text":"` + strings.Repeat("a", maxBodyBytes) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/todos", strings.NewReader(body))
	rec := httptest.NewRecorder()

	var in createTodoInput
	assert.Error(t, decodeJSON(rec, req, &in))
}
