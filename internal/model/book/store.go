package book

// Store exposes the ordered book collection to the catalog service.
// Implementations are not required to be safe for concurrent use.
type Store interface {
	List() []Book
	FindByID(id string) (Book, bool)
	Insert(b Book)
	Replace(b Book) bool
	RemoveByID(id string) bool
}

// MemoryStore implements Store with an in-memory slice kept in insertion order.
type MemoryStore struct {
	items []Book
}

// NewMemoryStore returns a MemoryStore preloaded with the supplied books.
func NewMemoryStore(items []Book) *MemoryStore {
	return &MemoryStore{items: append([]Book(nil), items...)}
}

// List returns a snapshot of the collection in insertion order.
func (s *MemoryStore) List() []Book {
	return append([]Book{}, s.items...)
}

// FindByID looks up a book by identifier.
func (s *MemoryStore) FindByID(id string) (Book, bool) {
	if i := s.indexOf(id); i >= 0 {
		return s.items[i], true
	}
	return Book{}, false
}

// Insert appends b. Callers check uniqueness first.
func (s *MemoryStore) Insert(b Book) {
	s.items = append(s.items, b)
}

// Replace overwrites the record sharing b's identifier without moving it.
func (s *MemoryStore) Replace(b Book) bool {
	i := s.indexOf(b.BookID)
	if i < 0 {
		return false
	}
	s.items[i] = b
	return true
}

// RemoveByID drops the first record with the identifier, keeping the order of the rest.
func (s *MemoryStore) RemoveByID(id string) bool {
	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	return true
}

func (s *MemoryStore) indexOf(id string) int {
	for i, item := range s.items {
		if item.BookID == id {
			return i
		}
	}
	return -1
}
