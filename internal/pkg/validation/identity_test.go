package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeUsername(t *testing.T) {
	assert.Equal(t, "nqa", NormalizeUsername("  nqa  "))
	// case is preserved
	assert.Equal(t, "NQA", NormalizeUsername("NQA"))
	assert.Equal(t, "", NormalizeUsername("   "))
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "nqa@vku.udn.vn", NormalizeEmail(" NQA@VKU.UDN.VN "))
	assert.Equal(t, "", NormalizeEmail(""))
}

func TestNormalizeEmailIdempotent(t *testing.T) {
	inputs := []string{
		"NQA@VKU.UDN.VN",
		"  Mixed.Case@VKU.udn.VN ",
		"already@vku.udn.vn",
		"",
		"not an email at all",
	}
	for _, in := range inputs {
		once := NormalizeEmail(in)
		assert.Equal(t, once, NormalizeEmail(once), "input %q", in)
	}
}

func TestIsInstitutionalEmail(t *testing.T) {
	assert.True(t, IsInstitutionalEmail("nqa@vku.udn.vn"))
	assert.False(t, IsInstitutionalEmail("nqa@gmail.com"))
	assert.False(t, IsInstitutionalEmail(""))
	// suffix check is exact; the normalizer is responsible for lowercasing
	assert.False(t, IsInstitutionalEmail("nqa@VKU.UDN.VN"))
}
