package main

import (
	"errors"
	"testing"

	"traffic-report/be/utils"

	"github.com/stretchr/testify/assert"
)

func TestVerifyStored(t *testing.T) {
	assert.NoError(t, verifyStored("s3cret", "s3cret", nil))

	err := verifyStored("s3cret", "other", nil)
	if assert.Error(t, err) {
		assert.Equal(t, "stored password does not match the new password", err.Error())
		assert.NotContains(t, err.Error(), "<nil>")
	}

	err = verifyStored("s3cret", "", utils.ErrCiphertextTooShort)
	assert.ErrorIs(t, err, utils.ErrCiphertextTooShort)
	assert.Contains(t, err.Error(), "failed to read back stored password")

	assert.False(t, errors.Is(verifyStored("a", "b", nil), utils.ErrCiphertextTooShort))
}
