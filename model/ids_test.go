package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCountryTag(t *testing.T) {
	tag, err := ParseCountryTag("BHA")
	require.NoError(t, err)
	assert.Equal(t, "BHA", tag.String())

	_, err = ParseCountryTag("B-A")
	require.NoError(t, err)

	_, err = ParseCountryTag("TOOLONG")
	assert.Error(t, err)

	_, err = ParseCountryTag("B!A")
	assert.Error(t, err)
}

func TestNewProvinceId_AbsoluteValue(t *testing.T) {
	assert.Equal(t, ProvinceId(236), NewProvinceId(236))
	assert.Equal(t, ProvinceId(236), NewProvinceId(-236))
}
