package history

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStoreGetOrCreate(t *testing.T) {
	s := NewStore(30)
	assert.Nil(t, s.Samples("BTCUSDT"))

	b := s.Buffer("BTCUSDT")
	assert.Same(t, b, s.Buffer("BTCUSDT"))
	assert.Equal(t, 30, b.Cap())
	assert.Equal(t, []string{"BTCUSDT"}, s.Symbols())
}

func TestStoreLazyResize(t *testing.T) {
	s := NewStore(60)
	for i := 1; i <= 50; i++ {
		s.Append("BTCUSDT", sample(i))
		s.Append("ETHUSDT", sample(i))
	}

	s.SetCapacity(30)
	// до обращения буфер не тронут
	assert.Equal(t, 60, s.buffers["ETHUSDT"].Cap())

	got := s.Samples("BTCUSDT")
	assert.Len(t, got, 30)
	assert.Equal(t, 21.0, got[0].Price)
	assert.Equal(t, 50.0, got[29].Price)

	s.Append("ETHUSDT", sample(51))
	eth := s.Samples("ETHUSDT")
	assert.Len(t, eth, 30)
	assert.Equal(t, 22.0, eth[0].Price)
	assert.Equal(t, 51.0, eth[29].Price)
}

func TestStoreLengthNeverExceedsCapacity(t *testing.T) {
	s := NewStore(30)
	for i := 0; i < 1000; i++ {
		if i == 300 {
			s.SetCapacity(45)
		}
		if i == 600 {
			s.SetCapacity(30)
		}
		s.Append("X", sample(i))
		assert.LessOrEqual(t, s.Buffer("X").Len(), s.Capacity())
	}
}

func TestStoreExplicitResize(t *testing.T) {
	s := NewStore(60)
	for i := 1; i <= 40; i++ {
		s.Append("X", sample(i))
	}
	s.Resize("X", 10)
	assert.Len(t, s.buffers["X"].Samples(), 10)
	assert.Equal(t, 31.0, s.buffers["X"].Samples()[0].Price)
}
