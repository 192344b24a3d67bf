package book

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBook_CanAdjust(t *testing.T) {
	b := &Book{Pages: 100, TotalCopies: 2, AvailableCopies: 1}

	next, ok := b.CanAdjust(-1)
	assert.True(t, ok)
	assert.Equal(t, 0, next)

	next, ok = b.CanAdjust(+1)
	assert.True(t, ok)
	assert.Equal(t, 2, next)

	_, ok = b.CanAdjust(-2)
	assert.False(t, ok)
	_, ok = b.CanAdjust(+2)
	assert.False(t, ok)
	assert.Equal(t, 1, b.AvailableCopies, "CanAdjust不修改实体")
}

func TestBook_Validate(t *testing.T) {
	assert.NoError(t, NewBook("t", "a", 10, 3).Validate())
	assert.ErrorIs(t, NewBook("t", "a", 0, 3).Validate(), ErrInvalidPages)
	assert.ErrorIs(t, (&Book{Pages: 1, TotalCopies: 1, AvailableCopies: 2}).Validate(), ErrInvalidCopies)
	assert.ErrorIs(t, (&Book{Pages: 1, TotalCopies: -1}).Validate(), ErrInvalidCopies)
}
