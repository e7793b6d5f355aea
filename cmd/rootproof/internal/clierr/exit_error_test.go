package clierr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExitCodeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil is success", err: nil, want: CodeSuccess},
		{name: "plain error defaults to 1", err: errors.New("boom"), want: CodeFailure},
		{name: "usage", err: Usage("bad flag"), want: CodeUsage},
		{name: "io", err: IO("reading path", errors.New("enoent")), want: CodeIO},
		{name: "repository", err: Repository("no commits", nil), want: CodeRepository},
		{name: "config", err: Config("missing signers file", nil), want: CodeConfig},
		{name: "wrapped class survives fmt.Errorf", err: fmt.Errorf("outer: %w", Usage("bad")), want: CodeUsage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCodeOf(tt.err))
		})
	}
}

func TestExitErrorMessage(t *testing.T) {
	err := IO("reading path", errors.New("permission denied"))
	assert.Equal(t, "reading path: permission denied", err.Error())

	bare := Repository("no commits found", nil)
	assert.Equal(t, "no commits found", bare.Error())
}

func TestWrapUnwrap(t *testing.T) {
	cause := errors.New("underlying")
	err := Wrap(CodeRepository, "finding inception commit", cause)
	assert.ErrorIs(t, err, cause)
}

func TestNormalize(t *testing.T) {
	// Errors must never carry the success code.
	assert.Equal(t, CodeFailure, ExitCodeOf(New(0, "zero")))
	assert.Equal(t, CodeFailure, ExitCodeOf(New(-3, "negative")))
}
