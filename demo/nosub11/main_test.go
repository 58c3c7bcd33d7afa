// Author: KleaSCM
// Email: KleaSCM@gmail.com
// File: main_test.go
// Description: Tests for the demo language.

package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAccepts(t *testing.T) {
	assert.True(t, Accepts(""))
	assert.True(t, Accepts("0101"))
	assert.False(t, Accepts("0110"))
	assert.False(t, Accepts("11"))
}
