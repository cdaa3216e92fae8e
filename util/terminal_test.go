package util

import (
	"bytes"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

// MockTerminal for testing
type MockTerminal struct {
	IsTerminalResult bool
	Width            int
	Err              error
}

func (m *MockTerminal) IsTerminal(fd int) bool {
	return m.IsTerminalResult
}

func (m *MockTerminal) GetSize(fd int) (int, int, error) {
	return m.Width, 24, m.Err
}

type fdWriter struct {
	bytes.Buffer
}

func (*fdWriter) Fd() uintptr { return 1 }

func TestTerminalWidth(t *testing.T) {
	tests := []struct {
		name    string
		columns string
		w       interface{ Write([]byte) (int, error) }
		term    *MockTerminal
		want    int
	}{
		{"columns env wins", "120", &fdWriter{}, &MockTerminal{IsTerminalResult: true, Width: 100}, 120},
		{"terminal size", "", &fdWriter{}, &MockTerminal{IsTerminalResult: true, Width: 100}, 100},
		{"not a terminal", "", &fdWriter{}, &MockTerminal{IsTerminalResult: false, Width: 100}, DefaultWidth},
		{"size error", "", &fdWriter{}, &MockTerminal{IsTerminalResult: true, Err: errors.New("no tty")}, DefaultWidth},
		{"plain buffer", "", &bytes.Buffer{}, &MockTerminal{IsTerminalResult: true, Width: 100}, DefaultWidth},
		{"invalid columns", "abc", &bytes.Buffer{}, &MockTerminal{}, DefaultWidth},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("COLUMNS", tt.columns)
			assert.Equal(t, tt.want, TerminalWidth(tt.w, tt.term))
		})
	}
}

func TestTerminalWidthDefaultTerminal(t *testing.T) {
	t.Setenv("COLUMNS", "")
	assert.Greater(t, TerminalWidth(os.Stdout, nil), 0)
}
