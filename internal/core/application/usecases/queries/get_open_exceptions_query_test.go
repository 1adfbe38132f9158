package queries_test

import (
	"testing"

	"fulfillment/internal/core/application/usecases/queries"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGetOpenExceptionsQuery_Valid(t *testing.T) {
	query := queries.NewGetOpenExceptionsQuery()
	require.NoError(t, query.Validate())
}

func TestGetOpenExceptionsQuery_NotConstructedViaConstructor(t *testing.T) {
	query := queries.GetOpenExceptionsQuery{}
	err := query.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, queries.ErrGetOpenExceptionsQueryIsNotConstructed)
}
