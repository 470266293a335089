// Package i18n translates user facing strings. Messages are written in
// English and looked up in an embedded catalog for the active locale.
package i18n

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"github.com/leonelquinteros/gotext"
)

//go:embed locales/es.po
var esCatalog []byte

var (
	mu     sync.RWMutex
	locale = "en"
	po     *gotext.Po
)

// SetLocale selects the catalog used by Tr. Unknown locales fall back to
// English.
func SetLocale(l string) {
	mu.Lock()
	defer mu.Unlock()

	l = strings.ToLower(strings.TrimSpace(l))
	switch {
	case strings.HasPrefix(l, "es"):
		catalog := gotext.NewPo()
		catalog.Parse(esCatalog)
		locale, po = "es", catalog
	default:
		locale, po = "en", nil
	}
}

func Locale() string {
	mu.RLock()
	defer mu.RUnlock()
	return locale
}

// Tr returns the translation of format for the active locale, formatted with
// args.
func Tr(format string, args ...any) string {
	mu.RLock()
	catalog := po
	mu.RUnlock()

	if catalog == nil {
		if len(args) == 0 {
			return format
		}
		return fmt.Sprintf(format, args...)
	}
	return catalog.Get(format, args...)
}
