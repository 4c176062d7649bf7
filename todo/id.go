package todo

import (
	"crypto/rand"
	"io"
	"sync"
	"time"

	"github.com/oklog/ulid"
)

// IDGenerator returns a new item identifier on each call.
type IDGenerator func() string

// NewIDGenerator returns an IDGenerator producing ULIDs: 128 bits, a 48-bit
// millisecond timestamp followed by 80 bits of entropy, encoded as 26
// Crockford base32 characters. Lexicographic order of the strings follows
// generation time.
//
// Within one generator, ids produced in the same millisecond are strictly
// increasing. The generator is safe for concurrent use.
func NewIDGenerator() IDGenerator {
	return newIDGenerator(time.Now, rand.Reader)
}

func newIDGenerator(now func() time.Time, source io.Reader) IDGenerator {
	var mu sync.Mutex
	entropy := ulid.Monotonic(source, 0)

	return func() string {
		mu.Lock()
		defer mu.Unlock()

		ms := ulid.Timestamp(now())
		id, err := ulid.New(ms, entropy)
		if err != nil {
			// Monotonic entropy overflowed within this millisecond.
			entropy = ulid.Monotonic(source, 0)
			id = ulid.MustNew(ms, entropy)
		}
		return id.String()
	}
}
