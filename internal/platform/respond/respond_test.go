// Copyright (c) 2026 Laurel. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package respond_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/laurel/internal/platform/apperr"
	"github.com/taibuivan/laurel/internal/platform/constants"
	"github.com/taibuivan/laurel/internal/platform/respond"
)

func TestError_RateLimitedEmitsRetryAfterHeader(t *testing.T) {
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodPost, "/api/v1/auth/signup", nil)

	respond.Error(recorder, request, apperr.RateLimited(120))

	assert.Equal(t, http.StatusTooManyRequests, recorder.Code)
	assert.Equal(t, "120", recorder.Header().Get(constants.HeaderRetryAfter))
}

func TestError_OtherErrorsCarryNoRetryAfter(t *testing.T) {
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/api/v1/titles/nope", nil)

	respond.Error(recorder, request, apperr.NotFound("Title"))

	require.Equal(t, http.StatusNotFound, recorder.Code)
	assert.Empty(t, recorder.Header().Get(constants.HeaderRetryAfter))
}
