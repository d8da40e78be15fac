package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lllypuk/passemploi/internal/application/appcore"
	"github.com/lllypuk/passemploi/internal/domain/errs"
	"github.com/lllypuk/passemploi/internal/domain/evenement"
)

// AssertSuccess checks that result succeeded without unexpected error and returns its data.
func AssertSuccess[T any](t *testing.T, result appcore.Result[T], err error) T {
	t.Helper()

	require.NoError(t, err)
	require.True(t, result.IsSuccess(), "expected success, got %v", result.Error())
	return result.Data()
}

// AssertFailure checks that result failed with code.
func AssertFailure[T any](t *testing.T, result appcore.Result[T], err error, code errs.Code) *errs.DomainError {
	t.Helper()

	require.NoError(t, err)
	require.True(t, result.IsFailure(), "expected failure %s", code)
	assert.Equal(t, code, result.Code())
	return result.Error()
}

// AssertUnexpected checks that err is an UnexpectedError raised at step.
func AssertUnexpected(t *testing.T, err error, step appcore.Step) *appcore.UnexpectedError {
	t.Helper()

	var unexpected *appcore.UnexpectedError
	require.ErrorAs(t, err, &unexpected)
	assert.Equal(t, step, unexpected.Step)
	return unexpected
}

// AssertEvenements checks the codes published, in order.
func AssertEvenements(t *testing.T, published []evenement.Code, expected ...evenement.Code) {
	t.Helper()

	if len(expected) == 0 {
		assert.Empty(t, published)
		return
	}
	assert.Equal(t, expected, published)
}
