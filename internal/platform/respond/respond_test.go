// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package respond_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/worldtravels/internal/platform/apperr"
	"github.com/taibuivan/worldtravels/internal/platform/respond"
)

/*
TestError_Envelope verifies the error body shape and status for AppErrors.
*/
func TestError_Envelope(t *testing.T) {
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodPost, "/api/v1/registrar", nil)

	respond.Error(recorder, request, apperr.DuplicateEmail())

	assert.Equal(t, http.StatusUnprocessableEntity, recorder.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, apperr.CodeDuplicateEmail, body["code"])
	assert.NotEmpty(t, body["errors"])
}

/*
TestError_HidesInternalCause ensures raw errors never reach the client.
*/
func TestError_HidesInternalCause(t *testing.T) {
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/", nil)

	respond.Error(recorder, request, errors.New("dial tcp 10.0.0.5:5432: refused"))

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.NotContains(t, recorder.Body.String(), "10.0.0.5")
	assert.Contains(t, recorder.Body.String(), apperr.CodeInternal)
}

func TestCreated_Envelope(t *testing.T) {
	recorder := httptest.NewRecorder()

	respond.Created(recorder, map[string]string{"id": "acc-1"})

	assert.Equal(t, http.StatusCreated, recorder.Code)
	assert.JSONEq(t, `{"success":true,"data":{"id":"acc-1"}}`, recorder.Body.String())
}
