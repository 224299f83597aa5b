package metro

import (
	"math/rand"
	"sync"
	"time"
)

// Source is the uniform-random-sampling collaborator. Draw returns a value
// in [low, high), independent across calls. The core depends on it for
// molecule selection, pivot selection and the six per-move perturbation
// parameters; it does not seed or own the underlying stream policy beyond
// the defaults below.
type Source interface {
	Draw(low, high float64) float64
}

type randSource struct {
	r *rand.Rand
}

// NewRandSource returns a Source backed by its own math/rand stream.
// A zero seed picks a time-based one.
func NewRandSource(seed int64) Source {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &randSource{r: rand.New(rand.NewSource(seed))}
}

func (s *randSource) Draw(low, high float64) float64 {
	return low + s.r.Float64()*(high-low)
}

// LockedSource serializes draws from an underlying Source so a single
// stream can be shared across workers. All draws go through one stream, so
// results stay reproducible as long as the draw order itself is
// deterministic; concurrent proposals give up that ordering.
type LockedSource struct {
	mu  sync.Mutex
	src Source
}

// NewLockedSource wraps src in a mutex-guarded Source. Wrapping an existing
// LockedSource returns it unchanged.
func NewLockedSource(src Source) *LockedSource {
	if ls, ok := src.(*LockedSource); ok {
		return ls
	}
	return &LockedSource{src: src}
}

func (ls *LockedSource) Draw(low, high float64) float64 {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	return ls.src.Draw(low, high)
}
