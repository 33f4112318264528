package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLanguageIsValid(t *testing.T) {
	valid := []Language{
		LanguageEnglish, LanguageChinese, LanguageSpanish,
		LanguageFrench, LanguageGerman, LanguageUnknown,
	}
	for _, l := range valid {
		assert.True(t, l.IsValid(), "expected %s to be valid", l)
	}

	assert.False(t, Language("jp").IsValid())
	assert.False(t, Language("").IsValid())
}

func TestLanguageDescription(t *testing.T) {
	assert.Equal(t, "English", LanguageEnglish.Description())
	assert.Equal(t, "Mandarin Chinese", LanguageChinese.Description())
	assert.Equal(t, "Unknown", LanguageUnknown.Description())
	assert.Equal(t, "Unknown", Language("xx").Description())
}
