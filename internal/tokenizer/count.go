package tokenizer

import "errors"

var errNilCounter = errors.New("nil tokenizer counter")

// CountDocument estimates tokens for a fully rendered snapshot.
func CountDocument(counter Counter, document string) (int, error) {
	if counter == nil {
		return 0, errNilCounter
	}
	return counter.CountString(document)
}
