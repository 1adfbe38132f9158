package queries_test

import (
	"testing"

	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGetExceptionQuery_Valid(t *testing.T) {
	exceptionID := kernel.NewUUID()

	query, err := queries.NewGetExceptionQuery(exceptionID)
	require.NoError(t, err)
	require.NoError(t, query.Validate())
	assert.Equal(t, exceptionID, query.ExceptionID())
}

func TestNewGetExceptionQuery_EmptyID(t *testing.T) {
	_, err := queries.NewGetExceptionQuery(kernel.UUID{})
	require.Error(t, err)
}

func TestGetExceptionQuery_NotConstructedViaConstructor(t *testing.T) {
	query := queries.GetExceptionQuery{}
	err := query.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, queries.ErrGetExceptionQueryIsNotConstructed)
}
