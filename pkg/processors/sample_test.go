package processors_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/logward/logward-go/pkg/logward"
	"github.com/logward/logward-go/pkg/processors"
)

func TestSampler_RateOneKeepsEverything(t *testing.T) {
	s, err := processors.NewSampler(1.0)
	require.NoError(t, err)

	for i := 0; i < 100; i++ {
		rec := logward.NewRecord(context.Background(), logward.LevelInfo, "m")
		assert.NotNil(t, s.Process(rec))
	}
}

func TestSampler_LowRateDropsSome(t *testing.T) {
	s, err := processors.NewSampler(0.1)
	require.NoError(t, err)

	kept := 0
	for i := 0; i < 1000; i++ {
		if s.Process(logward.NewRecord(context.Background(), logward.LevelInfo, "m")) != nil {
			kept++
		}
	}

	// Binomial(1000, 0.1): staying under half is a near-certainty.
	assert.Less(t, kept, 500)
	assert.Greater(t, kept, 0)
}

func TestNewSampler_InvalidRates(t *testing.T) {
	for _, rate := range []float64{0, -0.5, 1.5} {
		_, err := processors.NewSampler(rate)
		assert.Error(t, err, "rate %v", rate)
	}
}
