package processors

import (
	"fmt"
	"math/rand"

	"github.com/logward/logward-go/pkg/logward"
)

// Sampler drops records with probability 1-rate, independent of event name.
// Decisions are random, not counted per event.
type Sampler struct {
	rate float64
}

// NewSampler validates rate, which must lie in (0, 1]. A rate of 1 keeps
// every record.
func NewSampler(rate float64) (*Sampler, error) {
	if rate <= 0 || rate > 1 {
		return nil, fmt.Errorf("sampler: rate must be in (0, 1], got %v", rate)
	}
	return &Sampler{rate: rate}, nil
}

func (s *Sampler) Process(rec *logward.Record) *logward.Record {
	if s.rate >= 1 {
		return rec
	}
	if rand.Float64() < s.rate {
		return rec
	}
	return nil
}
