package isa

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegister(t *testing.T) {
	assert := assert.New(t)

	table := [...]struct {
		text    string
		numeric bool
		reg     uint8
		ok      bool
	}{
		{"$zero", false, 0, true},
		{"$t0", false, 8, true},
		{"$8", false, 8, true},
		{"$8", true, 8, true},
		{"$t0", true, 0, false},
		{"$s8", false, 30, true},
		{"$fp", false, 30, true},
		{"$ra", false, 31, true},
		{"$32", false, 0, false},
		{"t0", false, 0, false},
		{"$", false, 0, false},
		{"$bogus", false, 0, false},
	}

	for _, entry := range table {
		reg, err := Register(entry.text, entry.numeric)
		if entry.ok {
			assert.NoError(err, entry.text)
			assert.Equal(entry.reg, reg, entry.text)
		} else {
			assert.ErrorIs(err, ErrRegisterInvalid, entry.text)
		}
	}

	assert.Equal("$sp", RegisterName(REG_SP))
	assert.Equal("$zero", RegisterName(REG_ZERO))
}
