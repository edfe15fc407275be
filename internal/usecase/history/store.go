package history

import "lobmonitor/internal/domain"

// Store держит буферы по символам. Ёмкость общая; при её смене буферы
// пересобираются лениво: при следующем обращении к символу.
// Не потокобезопасен: принадлежит одной сессии.
type Store struct {
	capacity int
	buffers  map[string]*Buffer
}

func NewStore(capacity int) *Store {
	return &Store{capacity: max(capacity, 1), buffers: make(map[string]*Buffer)}
}

func (s *Store) Capacity() int { return s.capacity }

// SetCapacity меняет целевую ёмкость. Сами буферы не трогаются до обращения.
func (s *Store) SetCapacity(n int) { s.capacity = max(n, 1) }

// Buffer — get-or-create; заодно приводит ёмкость буфера к текущей.
func (s *Store) Buffer(symbol string) *Buffer {
	b, ok := s.buffers[symbol]
	if !ok {
		b = NewBuffer(s.capacity)
		s.buffers[symbol] = b
		return b
	}
	if b.Cap() != s.capacity {
		b.Resize(s.capacity)
	}
	return b
}

func (s *Store) Append(symbol string, sample domain.HistorySample) {
	s.Buffer(symbol).Append(sample)
}

// Resize явно пересобирает буфер одного символа.
func (s *Store) Resize(symbol string, n int) {
	s.Buffer(symbol).Resize(n)
}

// Samples — история символа от старых к новым; для неизвестного символа пусто.
func (s *Store) Samples(symbol string) []domain.HistorySample {
	if _, ok := s.buffers[symbol]; !ok {
		return nil
	}
	return s.Buffer(symbol).Samples()
}

// Symbols — символы, по которым уже есть буферы.
func (s *Store) Symbols() []string {
	out := make([]string, 0, len(s.buffers))
	for sym := range s.buffers {
		out = append(out, sym)
	}
	return out
}
