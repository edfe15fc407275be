package history

import "lobmonitor/internal/domain"

// Buffer — кольцевой буфер последних сэмплов одного символа.
// При переполнении вытесняется самый старый.
type Buffer struct {
	buf   []domain.HistorySample
	start int // индекс самого старого
	n     int
}

// NewBuffer создаёт буфер ёмкостью capacity (минимум 1).
func NewBuffer(capacity int) *Buffer {
	return &Buffer{buf: make([]domain.HistorySample, max(capacity, 1))}
}

func (b *Buffer) Cap() int { return len(b.buf) }
func (b *Buffer) Len() int { return b.n }

// Append добавляет в хвост, вытесняя голову при переполнении.
func (b *Buffer) Append(s domain.HistorySample) {
	c := len(b.buf)
	if b.n < c {
		b.buf[(b.start+b.n)%c] = s
		b.n++
		return
	}
	b.buf[b.start] = s
	b.start = (b.start + 1) % c
}

// Resize пересобирает буфер, оставляя последние min(Len, capacity) сэмплов.
func (b *Buffer) Resize(capacity int) {
	capacity = max(capacity, 1)
	if capacity == len(b.buf) {
		return
	}
	keep := min(b.n, capacity)
	next := make([]domain.HistorySample, capacity)
	for i := 0; i < keep; i++ {
		next[i] = b.at(b.n - keep + i)
	}
	b.buf, b.start, b.n = next, 0, keep
}

// Samples — копия содержимого от старых к новым.
func (b *Buffer) Samples() []domain.HistorySample {
	out := make([]domain.HistorySample, b.n)
	for i := range out {
		out[i] = b.at(i)
	}
	return out
}

// Last — самый свежий сэмпл.
func (b *Buffer) Last() (domain.HistorySample, bool) {
	if b.n == 0 {
		return domain.HistorySample{}, false
	}
	return b.at(b.n - 1), true
}

func (b *Buffer) at(i int) domain.HistorySample { return b.buf[(b.start+i)%len(b.buf)] }
