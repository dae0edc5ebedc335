package timer

import "errors"

// ErrNoChange signals that an Update closure left the state untouched and
// the store can skip the write. Stores report it as success.
var ErrNoChange = errors.New("state unchanged")

// Store is the durable home of the state document. Implementations must make
// Update and View mutually exclusive over the whole load-mutate-save
// sequence, and must persist atomically so a reader never sees a partial
// write.
type Store interface {
	// Update loads the document, applies fn, and saves the result. A non-nil
	// error from fn aborts the save; ErrNoChange aborts it silently.
	Update(fn func(*State) error) error
	// View runs fn over a loaded document without saving.
	View(fn func(*State))
}
