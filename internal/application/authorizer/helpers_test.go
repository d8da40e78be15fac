package authorizer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lllypuk/passemploi/internal/application/appcore"
	"github.com/lllypuk/passemploi/internal/domain/errs"
)

func assertAutorise(t *testing.T, result appcore.Result[appcore.Unit], err error) {
	t.Helper()
	require.NoError(t, err)
	assert.True(t, result.IsSuccess(), "expected success, got %v", result.Error())
}

func assertRefuse(t *testing.T, result appcore.Result[appcore.Unit], err error) {
	t.Helper()
	require.NoError(t, err)
	require.True(t, result.IsFailure())
	assert.Equal(t, errs.CodeForbidden, result.Code())
}
