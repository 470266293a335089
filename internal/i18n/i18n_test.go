package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTr(t *testing.T) {
	t.Cleanup(func() { SetLocale("en") })

	SetLocale("en")
	assert.Equal(t, "en", Locale())
	assert.Equal(t, "Retrying... (2/3)", Tr("Retrying... (%d/%d)", 2, 3))

	SetLocale("es_ES")
	assert.Equal(t, "es", Locale())
	assert.Equal(t, "Reintentando... (2/3)", Tr("Retrying... (%d/%d)", 2, 3))
	assert.Equal(t, "Untranslated message", Tr("Untranslated message"))

	SetLocale("fr")
	assert.Equal(t, "en", Locale())
}
