package client

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: ExitSuccess},
		{name: "plain error", err: errors.New("boom"), want: ExitFailure},
		{name: "exit error", err: newExitError(ExitCommandError, "bad flag", nil), want: ExitCommandError},
		{name: "wrapped exit error", err: fmt.Errorf("outer: %w", newExitError(ExitCommandError, "bad flag", nil)), want: ExitCommandError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCode(tt.err))
		})
	}
}

func TestExitError_Error(t *testing.T) {
	cause := errors.New("connection refused")
	err := newExitError(ExitFailure, "sync scope circle-1", cause)

	assert.Equal(t, "sync scope circle-1: connection refused", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "bad flag", newExitError(ExitCommandError, "bad flag", nil).Error())
}

type sample struct {
	HandoffID string   `json:"handoff_id"`
	Fields    []string `json:"fields,omitempty"`
}

func TestOutputFormatter_Print(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		buf := new(bytes.Buffer)
		f := &outputFormatter{format: formatJSON, writer: buf}

		require.NoError(t, f.Print(sample{HandoffID: "h-1"}))
		assert.JSONEq(t, `{"handoff_id":"h-1"}`, buf.String())
	})

	// yaml использует имена полей из json-тегов
	t.Run("yaml uses json field names", func(t *testing.T) {
		buf := new(bytes.Buffer)
		f := &outputFormatter{format: formatYAML, writer: buf}

		require.NoError(t, f.Print(sample{HandoffID: "h-1", Fields: []string{"f1"}}))
		assert.Contains(t, buf.String(), "handoff_id: h-1\n")
		assert.Contains(t, buf.String(), "- f1\n")
		assert.NotContains(t, buf.String(), "HandoffID")
	})
}

func TestIsValidFormat(t *testing.T) {
	assert.True(t, isValidFormat("json"))
	assert.True(t, isValidFormat("yaml"))
	assert.False(t, isValidFormat("text"))
	assert.False(t, isValidFormat(""))
}
