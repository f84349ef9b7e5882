// Package translate formats user-visible messages through a locale-aware
// printer. Every error string in umips is built with From so that message
// catalogs can be attached without touching the callers.
package translate

import (
	"log"
	"sync"

	"github.com/jeandeaual/go-locale"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	mu      sync.RWMutex
	printer *message.Printer
)

func init() {
	locales, err := locale.GetLocales()
	if err != nil {
		log.Printf("umips: locale: %v", err)
	}

	if len(locales) == 0 {
		locales = []string{"en-US"}
	}

	printer = message.NewPrinter(message.MatchLanguage(locales...))
}

// SetLanguage replaces the printer with one for the given tag.
func SetLanguage(tag language.Tag) {
	mu.Lock()
	defer mu.Unlock()
	printer = message.NewPrinter(tag)
}

// From an en-US Sprintf() format, translate to string.
func From(key message.Reference, args ...any) string {
	mu.RLock()
	defer mu.RUnlock()
	return printer.Sprintf(key, args...)
}
