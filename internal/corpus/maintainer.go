package corpus

import "time"

// Maintainer runs the corpus maintenance jobs against one tagged-corpus
// store. Jobs are sequential, idempotent, and write a file only when its
// content actually changed.
type Maintainer struct {
	Store *Store

	// Sleep is the courtesy delay used between remote calls; tests replace it.
	Sleep func(time.Duration)
}

func NewMaintainer(store *Store) *Maintainer {
	return &Maintainer{
		Store: store,
		Sleep: time.Sleep,
	}
}
