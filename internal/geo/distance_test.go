package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v float64) *float64 { return &v }

func TestDistanceKnownPair(t *testing.T) {
	// Bangkok to Chiang Mai, roughly 580 km.
	d := Distance(ptr(13.7563), ptr(100.5018), ptr(18.7883), ptr(98.9853))
	require.NotNil(t, d)
	assert.InDelta(t, 580_000, *d, 10_000)
}

func TestDistanceSamePoint(t *testing.T) {
	d := Distance(ptr(13.75), ptr(100.50), ptr(13.75), ptr(100.50))
	require.NotNil(t, d)
	assert.Equal(t, 0, *d)
}

func TestDistanceSymmetry(t *testing.T) {
	a := Distance(ptr(13.75), ptr(100.50), ptr(52.52), ptr(13.40))
	b := Distance(ptr(52.52), ptr(13.40), ptr(13.75), ptr(100.50))
	require.NotNil(t, a)
	require.NotNil(t, b)
	assert.Equal(t, *a, *b)
}

func TestDistanceMissingCoordinates(t *testing.T) {
	assert.Nil(t, Distance(nil, ptr(100.50), ptr(13.75), ptr(100.50)))
	assert.Nil(t, Distance(ptr(13.75), nil, ptr(13.75), ptr(100.50)))
	assert.Nil(t, Distance(ptr(13.75), ptr(100.50), nil, ptr(100.50)))
	assert.Nil(t, Distance(ptr(13.75), ptr(100.50), ptr(13.75), nil))
	assert.Nil(t, Distance(nil, nil, nil, nil))
}
