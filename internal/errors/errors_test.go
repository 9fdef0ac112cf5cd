package errors_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/compgene/internal/errors"
)

var errCause = stderrors.New("range exceeds limit")

func TestBuilder_DefaultsAndContext(t *testing.T) {
	ee := errors.New(errCause).Context("species", "hs").Build()

	assert.Equal(t, errors.ComponentUnknown, ee.Component)
	assert.Equal(t, errors.CategoryGeneric, ee.Category)
	assert.Equal(t, "hs", ee.GetContext()["species"])
	assert.Equal(t, errCause.Error(), ee.Error())
	assert.False(t, ee.Timestamp.IsZero())
}

func TestEnhancedError_IsAndCategory(t *testing.T) {
	ee := errors.New(errCause).
		Component("pipeline").
		Category(errors.CategoryConfiguration).
		Build()
	wrapped := fmt.Errorf("range r1: %w", ee)

	require.ErrorIs(t, wrapped, errCause)
	assert.True(t, errors.IsCategory(wrapped, errors.CategoryConfiguration))
	assert.False(t, errors.IsCategory(wrapped, errors.CategoryInput))
	assert.False(t, errors.IsCategory(errCause, errors.CategoryConfiguration))

	var target *errors.EnhancedError
	require.True(t, errors.As(wrapped, &target))
	assert.Equal(t, "pipeline", target.Component)
}

func TestIsCategory_Nested(t *testing.T) {
	inner := errors.New(errCause).Category(errors.CategoryRetrieval).Build()
	outer := errors.New(inner).Category(errors.CategoryInput).Build()

	assert.True(t, errors.IsCategory(outer, errors.CategoryInput))
	assert.True(t, errors.IsCategory(outer, errors.CategoryRetrieval))
}
