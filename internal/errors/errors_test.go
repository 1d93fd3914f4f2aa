package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapPreservesCode(t *testing.T) {
	base := StructuralIntegrity(30, 100, 3)
	wrapped := Wrap(base, "ingest orders.csv")

	assert.Equal(t, CodeStructural, GetCode(wrapped))
	assert.True(t, HasCode(wrapped, CodeStructural))
	assert.True(t, IsIngestionError(wrapped))
	assert.Contains(t, wrapped.Error(), "ingest orders.csv")
}

func TestWrapForeignError(t *testing.T) {
	wrapped := Wrap(fmt.Errorf("boom"), "read file")

	assert.Equal(t, CodeInternalError, GetCode(wrapped))
	assert.False(t, IsIngestionError(wrapped))
	assert.Nil(t, Wrap(nil, "ignored"))
}

func TestGetCodeThroughFmtWrap(t *testing.T) {
	err := fmt.Errorf("handler: %w", EncodingError(12))

	assert.True(t, IsAppError(err))
	assert.Equal(t, CodeEncoding, GetCode(err))
	assert.Equal(t, "UNKNOWN", GetCode(stderrors.New("plain")))
}

func TestStructuralIntegrityMessage(t *testing.T) {
	msg := StructuralIntegrity(21, 100, 3).Error()

	for _, want := range []string{"21", "100", "3 fields"} {
		assert.True(t, strings.Contains(msg, want), "message %q should mention %q", msg, want)
	}
}

func TestProfilingFailedKeepsCause(t *testing.T) {
	cause := stderrors.New("index out of range")
	err := ProfilingFailed(cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, CodeProfilingFailed, GetCode(err))
}

func TestWithCode(t *testing.T) {
	err := WithCode(CodeInvalidInput, stderrors.New("bad extension"))

	assert.Equal(t, CodeInvalidInput, GetCode(err))
	assert.Equal(t, "bad extension", err.Error()[:len("bad extension")])
}
