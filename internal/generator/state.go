package generator

import (
	"math/rand/v2"

	"github.com/kanon0111/sdlg-edu/internal/dedup"
)

// pcgStream is the fixed PCG increment; the seed alone selects the state.
const pcgStream = 0x9e3779b97f4a7c15

// State is the mutable context of one run: the random stream, the id counter
// and the dedup index. It is owned by a single Driver.Run call at a time.
type State struct {
	rng    *rand.Rand
	issued int
	index  *dedup.Index
}

func NewState(seed int64) *State {
	return &State{
		rng:   rand.New(rand.NewPCG(uint64(seed), pcgStream)),
		index: dedup.NewIndex(),
	}
}

// Issued is the number of ids handed out so far.
func (s *State) Issued() int { return s.issued }

// IndexSize is the number of distinct grams accepted so far.
func (s *State) IndexSize() int { return s.index.Len() }
