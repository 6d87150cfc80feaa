package setuperr

import (
	"errors"
	"fmt"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindOfWrapped(t *testing.T) {
	base := New(KindInsufficientSpace, "preflight", "need 3 GB")
	wrapped := fmt.Errorf("running setup: %w", base)

	assert.Equal(t, KindInsufficientSpace, KindOf(wrapped))
	assert.True(t, Is(wrapped, KindInsufficientSpace))
	assert.False(t, Is(wrapped, KindPlatform))
	assert.Equal(t, KindUnknown, KindOf(errors.New("plain")))
}

func TestPlatformRecordsErrno(t *testing.T) {
	err := Platform("open self", fmt.Errorf("open: %w", syscall.ENOENT))

	var e *Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, KindPlatform, e.Kind)
	assert.Equal(t, int(syscall.ENOENT), e.Code)
	assert.ErrorIs(t, err, syscall.ENOENT)
}

func TestWrapNil(t *testing.T) {
	assert.NoError(t, Wrap(KindExtraction, "extract", nil))
	assert.NoError(t, Platform("map", nil))
}

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"detail only", New(KindNoEmbeddedPackage, "", "no package"), "no package"},
		{"op and detail", New(KindNoEmbeddedPackage, "locate", "no package"), "locate: no package"},
		{"wrapped cause", Wrap(KindExtraction, "extract", errors.New("crc mismatch")), "extract: crc mismatch"},
		{"exit code", NonZeroExit("run updater", 3), "run updater: process exited with error code: 3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestLaunchKind(t *testing.T) {
	err := Launch("start updater", "unable to start process", syscall.EACCES)
	assert.True(t, Is(err, KindProcessLaunch))
	assert.Equal(t, "start updater: unable to start process: "+syscall.EACCES.Error(), err.Error())
	assert.NoError(t, Launch("start updater", "x", nil))
}
