// Copyright (c) 2026 Laurel. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package dberr_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/laurel/internal/platform/apperr"
	"github.com/taibuivan/laurel/internal/platform/dberr"
)

/*
TestWrap_NoRows verifies the ErrNoRows -> 404 mapping.
*/
func TestWrap_NoRows(t *testing.T) {
	err := dberr.Wrap(pgx.ErrNoRows, "find_user")

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, http.StatusNotFound, ae.HTTPStatus)
}

/*
TestWrap_UniqueViolation verifies that SQLSTATE 23505 surfaces as a Conflict,
not as an internal error.
*/
func TestWrap_UniqueViolation(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "uq_review_title_author"}
	err := dberr.Wrap(pgErr, "create_review")

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, http.StatusConflict, ae.HTTPStatus)
	assert.Equal(t, "CONFLICT", ae.Code)

	assert.True(t, dberr.IsUniqueViolation(pgErr))
	assert.Equal(t, "uq_review_title_author", dberr.ConstraintName(pgErr))
}

/*
TestWrap_Unknown verifies that arbitrary driver errors are hidden behind a 500.
*/
func TestWrap_Unknown(t *testing.T) {
	err := dberr.Wrap(errors.New("connection reset"), "list_titles")

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, http.StatusInternalServerError, ae.HTTPStatus)
}

/*
TestWrap_Nil confirms nil passes through untouched.
*/
func TestWrap_Nil(t *testing.T) {
	assert.NoError(t, dberr.Wrap(nil, "noop"))
}
