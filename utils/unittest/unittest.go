package unittest

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RequirePanicsWithErrorIs requires that f panics with an error value matching target according to
// errors.Is.
func RequirePanicsWithErrorIs(t testing.TB, target error, f func()) {
	RequirePanicsWithError(t, func(err error) bool { return errors.Is(err, target) }, f)
}

// RequirePanicsWithError requires that f panics with an error value accepted by match.
func RequirePanicsWithError(t testing.TB, match func(error) bool, f func()) {
	var recovered interface{}
	func() {
		defer func() { recovered = recover() }()
		f()
	}()

	require.NotNil(t, recovered, "expected function to panic")
	err, ok := recovered.(error)
	require.True(t, ok, "expected panic value to be an error, got %T: %v", recovered, recovered)
	require.True(t, match(err), "unexpected panic error: %v", err)
}

// AssertReturnsBefore asserts that the given function returns before the
// duration expires.
func AssertReturnsBefore(t *testing.T, f func(), duration time.Duration) bool {
	done := make(chan struct{})

	go func() {
		f()
		close(done)
	}()

	select {
	case <-time.After(duration):
		return assert.Fail(t, "function did not return in time")
	case <-done:
		return true
	}
}

// RequireReturnsBefore requires that the given function returns before the
// duration expires.
func RequireReturnsBefore(t testing.TB, f func(), duration time.Duration, message string) {
	done := make(chan struct{})

	go func() {
		f()
		close(done)
	}()

	select {
	case <-time.After(duration):
		require.Fail(t, "function did not return in time: "+message)
	case <-done:
		return
	}
}

// RequireNeverReturnBefore requires that the given function does not return before the duration
// expires. The function keeps running in the background afterwards, the returned channel is closed once
// it returns.
func RequireNeverReturnBefore(t testing.TB, f func(), duration time.Duration, message string) <-chan struct{} {
	done := make(chan struct{})

	go func() {
		f()
		close(done)
	}()

	select {
	case <-time.After(duration):
		return done
	case <-done:
		require.Fail(t, "function returned before the deadline: "+message)
	}
	return done
}
