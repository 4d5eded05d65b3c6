package errors

import (
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapKeepsInnerCode(t *testing.T) {
	inner := FileAccess("data.csv", os.ErrNotExist)
	wrapped := Wrap(inner, "load dataset")

	assert.Equal(t, CodeFileAccess, GetCode(wrapped))
	assert.ErrorIs(t, wrapped, os.ErrNotExist)
	assert.Contains(t, wrapped.Error(), "load dataset")
}

func TestWrapThroughFmtErrorf(t *testing.T) {
	inner := ParseError("bad churn value")
	wrapped := Wrap(fmt.Errorf("row 3: %w", inner), "read table")

	assert.Equal(t, CodeParseError, GetCode(wrapped))
	assert.True(t, IsAppError(fmt.Errorf("outer: %w", wrapped)))
}

func TestWrapPlainError(t *testing.T) {
	assert.Nil(t, Wrap(nil, "nothing"))
	assert.Equal(t, CodeInternalError, GetCode(Wrap(fmt.Errorf("boom"), "ctx")))
	assert.Equal(t, "UNKNOWN", GetCode(fmt.Errorf("boom")))
}

func TestWithCode(t *testing.T) {
	orig := fmt.Errorf("segment is empty")
	err := WithCode(CodeInvalidInput, orig)
	assert.True(t, HasCode(err, CodeInvalidInput))
	assert.ErrorIs(t, err, orig)
}

func TestSchemaMismatchMessage(t *testing.T) {
	err := SchemaMismatch([]string{"Churn", "EstimatedCLV"})
	assert.Equal(t, CodeSchemaMismatch, err.Code)
	assert.Equal(t, "missing required columns: Churn, EstimatedCLV", err.Error())
}
