package hcloud

import (
	"errors"
	"fmt"
	"testing"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"
	"github.com/stretchr/testify/assert"
)

func TestErrorClassification(t *testing.T) {
	t.Parallel()
	apiErr := func(code hcloud.ErrorCode) error {
		return fmt.Errorf("wrapped: %w", hcloud.Error{Code: code, Message: string(code)})
	}

	tests := []struct {
		name      string
		err       error
		locked  bool
		invalid bool
		inUse   bool
	}{
		{name: "nil", err: nil},
		{name: "plain error", err: errors.New("boom")},
		{name: "locked", err: apiErr(hcloud.ErrorCodeLocked), locked: true},
		{name: "conflict", err: apiErr(hcloud.ErrorCodeConflict), locked: true},
		{name: "not found", err: apiErr(hcloud.ErrorCodeNotFound), invalid: true},
		{name: "invalid input", err: apiErr(hcloud.ErrorCodeInvalidInput), invalid: true},
		{name: "uniqueness", err: apiErr(hcloud.ErrorCodeUniquenessError), invalid: true},
		{name: "rate limited", err: apiErr(hcloud.ErrorCodeRateLimitExceeded)},
		{name: "in use", err: apiErr(hcloud.ErrorCodeResourceInUse), inUse: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.locked, isResourceLocked(tt.err))
			assert.Equal(t, tt.invalid, isInvalidParameter(tt.err))
			assert.Equal(t, tt.inUse, IsResourceInUse(tt.err))
		})
	}
}

func TestCleanupError(t *testing.T) {
	t.Parallel()
	e := &CleanupError{}
	assert.False(t, e.HasErrors())

	e.Add(nil)
	assert.False(t, e.HasErrors())

	first := errors.New("first")
	e.Add(first)
	assert.Equal(t, "first", e.Error())

	e.Add(errors.New("second"))
	assert.True(t, e.HasErrors())
	assert.Contains(t, e.Error(), "2 errors")
	assert.ErrorIs(t, e, first)
}
