package sources

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageCount(t *testing.T) {
	assert.Equal(t, 0, pageCount(0, 10))
	assert.Equal(t, 1, pageCount(1, 10))
	assert.Equal(t, 1, pageCount(10, 10))
	assert.Equal(t, 2, pageCount(11, 10))
	assert.Equal(t, 3, pageCount(12, 5))
}

func TestCleanText(t *testing.T) {
	assert.Equal(t, "LEI Nº 14.026, DE 2020", cleanText("  LEI Nº 14.026,\n\t DE 2020 "))
	assert.Equal(t, "", cleanText(" \n\t "))
}

func TestFirstInt(t *testing.T) {
	assert.Equal(t, 42, firstInt("Legislação Federal (42)"))
	assert.Equal(t, 1, firstInt("1 a 10 de 321"))
	assert.Equal(t, 0, firstInt("sem números"))
}
