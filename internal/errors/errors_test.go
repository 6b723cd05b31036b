package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errSubmitted = FailedPrecondition("test dialog already submitted")

func TestWrap_KeepsCode(t *testing.T) {
	err := Wrapf(errSubmitted, "failed to submit dialog %s", "dialog-1")

	assert.Equal(t, "failed to submit dialog dialog-1: test dialog already submitted", err.Error())
	assert.Equal(t, CodeFailedPrecondition, GetCode(err))
	assert.True(t, errors.Is(err, errSubmitted))

	wrapped := fmt.Errorf("render: %w", Wrap(NotFound("no actor"), "setup"))
	assert.True(t, IsNotFound(wrapped))
	assert.Equal(t, CodeUnknown, GetCode(Wrap(errors.New("boom"), "plain")))
}

func TestWrapWithCode_OutermostWins(t *testing.T) {
	err := WrapWithCode(NotFound("no chunk"), CodeInvalidArgument, "failed to compile script")

	assert.True(t, IsInvalidArgument(err))
	assert.False(t, IsNotFound(err))
	assert.Equal(t, CodeNotFound, errors.Unwrap(err).(*Error).Code())
}

func TestWrap_Nil(t *testing.T) {
	assert.Nil(t, Wrap(nil, "x"))
	assert.Nil(t, Wrapf(nil, "x %d", 1))
	assert.Nil(t, WrapWithCode(nil, CodeAborted, "x"))
	assert.False(t, Is(nil, CodeUnknown))
	assert.Equal(t, CodeUnknown, GetCode(nil))
}

func TestGetMeta(t *testing.T) {
	t.Run("merges the chain, outer keys win", func(t *testing.T) {
		inner := InvalidArgument("bad chunk").
			WithMeta("script", "broken").
			WithMeta("hook", "effect")
		outer := Wrapf(inner, "actor %s", "goblin").
			WithMeta("hook", "activation").
			WithMeta("actor_id", "goblin")

		meta := GetMeta(fmt.Errorf("catalog: %w", outer))
		require.NotNil(t, meta)
		assert.Equal(t, "broken", meta["script"])
		assert.Equal(t, "activation", meta["hook"])
		assert.Equal(t, "goblin", meta["actor_id"])
	})

	t.Run("wrapping a sentinel leaves it untouched", func(t *testing.T) {
		err := Wrap(errSubmitted, "submit").WithMeta("dialog_id", "dialog-1")
		assert.Equal(t, "dialog-1", GetMeta(err)["dialog_id"])
		assert.Nil(t, GetMeta(errSubmitted))
	})

	t.Run("returned map is a copy", func(t *testing.T) {
		err := NotFound("gone").WithMeta("actor_id", "hero")
		GetMeta(err)["actor_id"] = "changed"
		assert.Equal(t, "hero", GetMeta(err)["actor_id"])
	})

	t.Run("no meta", func(t *testing.T) {
		assert.Nil(t, GetMeta(errors.New("plain")))
		assert.Nil(t, GetMeta(nil))
	})
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		err  *Error
		code Code
		msg  string
	}{
		{err: NotFoundf("actor %s not found", "dragon"), code: CodeNotFound, msg: "actor dragon not found"},
		{err: InvalidArgumentf("bad %s", "mode"), code: CodeInvalidArgument, msg: "bad mode"},
		{err: AlreadyExistsf("result %s exists", "r-1"), code: CodeAlreadyExists, msg: "result r-1 exists"},
		{err: Aborted("aborted"), code: CodeAborted, msg: "aborted"},
		{err: NotFound("100% gone"), code: CodeNotFound, msg: "100% gone"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.code, tt.err.Code(), tt.msg)
		assert.Equal(t, tt.msg, tt.err.Error())
		assert.True(t, Is(tt.err, tt.code), tt.msg)
	}
	assert.True(t, IsAborted(Aborted("x")))
	assert.True(t, IsAlreadyExists(AlreadyExistsf("x")))
}
