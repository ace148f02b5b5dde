package extraction

import (
	"fmt"
	"log"

	"github.com/PuerkitoBio/goquery"
)

// strategy tries to read one field from a document.
// ok is false when the page does not carry the markup the strategy looks for.
type strategy[T any] struct {
	name string
	run  func(doc *goquery.Document) (T, bool)
}

// runChain returns the first successful strategy result, or fallback when
// every strategy misses. A panicking strategy counts as a miss.
func runChain[T any](field string, doc *goquery.Document, chain []strategy[T], fallback func() T, logger *log.Logger) T {
	for _, s := range chain {
		value, ok, err := try(doc, s)
		if err != nil {
			logger.Printf("[EXTRACT] %s strategy %q failed: %v", field, s.name, err)
			continue
		}
		if ok {
			logger.Printf("[EXTRACT] %s extracted with %q", field, s.name)
			return value
		}
	}
	logger.Printf("[EXTRACT] %s not found on page, using default", field)
	return fallback()
}

func try[T any](doc *goquery.Document, s strategy[T]) (value T, ok bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			var zero T
			value, ok, err = zero, false, fmt.Errorf("panic: %v", r)
		}
	}()
	value, ok = s.run(doc)
	return value, ok, nil
}
