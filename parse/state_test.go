package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestState(t *testing.T) {
	s := NewState([]string{"--db.host", "local", "run"})
	assert.Equal(t, -1, s.Pos())
	assert.Equal(t, "", s.CurrentArg())
	assert.Equal(t, []string{"--db.host", "local", "run"}, s.Remaining())

	assert.True(t, s.Advance())
	assert.Equal(t, 0, s.Pos())
	assert.Equal(t, "--db.host", s.CurrentArg())
	assert.Equal(t, []string{"local", "run"}, s.Remaining())

	assert.True(t, s.Advance())
	assert.True(t, s.Advance())
	assert.Equal(t, "run", s.CurrentArg())
	assert.False(t, s.Advance())
	assert.Equal(t, 2, s.Pos())
	assert.Nil(t, s.Remaining())
}

func TestState_Empty(t *testing.T) {
	s := NewState(nil)
	assert.False(t, s.Advance())
	assert.Equal(t, "", s.CurrentArg())
	assert.Nil(t, s.Remaining())
}
