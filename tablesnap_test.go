package tablesnap_test

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/fwojciec/tablesnap"
	"github.com/stretchr/testify/assert"
)

func TestErrorf(t *testing.T) {
	t.Parallel()

	err := tablesnap.Errorf(tablesnap.ENOTFOUND, "artifact %q not found", "a.csv")

	assert.Equal(t, tablesnap.ENOTFOUND, tablesnap.ErrorCode(err))
	assert.Equal(t, "artifact \"a.csv\" not found", tablesnap.ErrorMessage(err))
}

func TestErrorCode_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, tablesnap.ErrorCode(nil))
}

func TestErrorMessage_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, tablesnap.ErrorMessage(nil))
}

func TestErrorCode_NonApplicationError(t *testing.T) {
	t.Parallel()

	err := errors.New("boom")

	assert.Equal(t, tablesnap.EINTERNAL, tablesnap.ErrorCode(err))
	assert.Equal(t, "Internal error.", tablesnap.ErrorMessage(err))
}

func TestErrorCode_Wrapped(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("ingest: %w", tablesnap.Errorf(tablesnap.ENOTABLE, "no table found"))

	assert.Equal(t, tablesnap.ENOTABLE, tablesnap.ErrorCode(err))
}

func TestWrapIO(t *testing.T) {
	t.Parallel()

	t.Run("classifies missing files", func(t *testing.T) {
		t.Parallel()

		err := tablesnap.WrapIO("/data/a.csv", fs.ErrNotExist)

		assert.Equal(t, tablesnap.EIO, tablesnap.ErrorCode(err))
		assert.Equal(t, "/data/a.csv", tablesnap.ErrorPath(err))
		assert.Equal(t, "not found: /data/a.csv", tablesnap.ErrorMessage(err))
		assert.ErrorIs(t, err, fs.ErrNotExist)
	})

	t.Run("classifies permission errors", func(t *testing.T) {
		t.Parallel()

		err := tablesnap.WrapIO("/data", fs.ErrPermission)

		assert.Equal(t, "permission denied: /data", tablesnap.ErrorMessage(err))
	})

	t.Run("includes path in error string", func(t *testing.T) {
		t.Parallel()

		err := tablesnap.WrapIO("/data/b.csv", errors.New("bad sector"))

		assert.Contains(t, err.Error(), "path=/data/b.csv")
		assert.Contains(t, err.Error(), "code=io")
	})
}
