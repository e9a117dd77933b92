package catalog

import (
	"context"
	"errors"
	"log"
	"sync"

	"github.com/zhouzirui/z-shelf/backend/internal/model/book"
	"github.com/zhouzirui/z-shelf/backend/internal/service/feed"
)

var (
	ErrMissingFields = errors.New("All fields are required: book_id, title, author, genre, year, copies")
	ErrBookExists    = errors.New("Book with this ID already exists")
	ErrBookNotFound  = errors.New("Book not found")
)

// Persister writes the full collection after each mutation.
type Persister interface {
	Save(books []book.Book) error
}

// Publisher receives committed mutations.
type Publisher interface {
	Publish(e feed.Event)
}

// CreateInput carries a create request; nil fields were absent from the payload.
type CreateInput struct {
	BookID *string    `json:"book_id"`
	Title  *string    `json:"title"`
	Author *string    `json:"author"`
	Genre  *string    `json:"genre"`
	Year   *book.Year `json:"year"`
	Copies *int       `json:"copies"`
}

// UpdateInput carries a partial update. Empty strings and a zero year are skipped;
// copies is applied whenever it is present, including 0.
type UpdateInput struct {
	Title  *string    `json:"title"`
	Author *string    `json:"author"`
	Genre  *string    `json:"genre"`
	Year   *book.Year `json:"year"`
	Copies *int       `json:"copies"`
}

// Service serializes reads, mutations and persistence of the catalog.
type Service struct {
	mu        sync.Mutex
	store     book.Store
	persister Persister
	events    Publisher
}

// NewService wires the store with its persister. events may be nil.
func NewService(store book.Store, persister Persister, events Publisher) *Service {
	return &Service{
		store:     store,
		persister: persister,
		events:    events,
	}
}

// Create adds a new book. Every field must be present and non-zero; values are otherwise stored as given.
func (s *Service) Create(_ context.Context, in CreateInput) (book.Book, error) {
	if isBlank(in.BookID) || isBlank(in.Title) || isBlank(in.Author) || isBlank(in.Genre) ||
		in.Year == nil || *in.Year == 0 || in.Copies == nil || *in.Copies == 0 {
		return book.Book{}, ErrMissingFields
	}

	b := book.Book{
		BookID: *in.BookID,
		Title:  *in.Title,
		Author: *in.Author,
		Genre:  *in.Genre,
		Year:   *in.Year,
		Copies: *in.Copies,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.store.FindByID(b.BookID); exists {
		return book.Book{}, ErrBookExists
	}

	s.store.Insert(b)
	s.persist()
	s.publish(feed.EventCreated, b.BookID, &b)

	return b, nil
}

// List returns all books in insertion order.
func (s *Service) List(_ context.Context) []book.Book {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.List()
}

// Get looks up a single book.
func (s *Service) Get(_ context.Context, id string) (book.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.store.FindByID(id)
	if !ok {
		return book.Book{}, ErrBookNotFound
	}
	return b, nil
}

// Update applies the supplied fields to an existing book. The identifier never changes.
func (s *Service) Update(_ context.Context, id string, in UpdateInput) (book.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.store.FindByID(id)
	if !ok {
		return book.Book{}, ErrBookNotFound
	}

	if !isBlank(in.Title) {
		b.Title = *in.Title
	}
	if !isBlank(in.Author) {
		b.Author = *in.Author
	}
	if !isBlank(in.Genre) {
		b.Genre = *in.Genre
	}
	if in.Year != nil && *in.Year != 0 {
		b.Year = *in.Year
	}
	if in.Copies != nil {
		b.Copies = *in.Copies
	}

	s.store.Replace(b)
	s.persist()
	s.publish(feed.EventUpdated, b.BookID, &b)

	return b, nil
}

// Delete removes a book permanently.
func (s *Service) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.store.RemoveByID(id) {
		return ErrBookNotFound
	}

	s.persist()
	s.publish(feed.EventDeleted, id, nil)
	return nil
}

// persist 保存失败只记录日志，内存中的修改不回滚
func (s *Service) persist() {
	if s.persister == nil {
		return
	}
	if err := s.persister.Save(s.store.List()); err != nil {
		log.Printf("[catalog] failed to save books: %v", err)
	}
}

func (s *Service) publish(eventType, id string, b *book.Book) {
	if s.events == nil {
		return
	}
	s.events.Publish(feed.Event{Type: eventType, BookID: id, Book: b})
}

func isBlank(v *string) bool {
	return v == nil || *v == ""
}
