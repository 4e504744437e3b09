package editorial

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/voloskyi/saffron-shop/models"
)

// memStore is an in-memory PostStore with the same ordering contract as the
// gorm implementation.
type memStore struct {
	mu     sync.Mutex
	nextID uint
	now    func() time.Time
	posts  []models.BlogPost

	createErr error
	listErr   error
	deleteErr error
}

func newMemStore(now func() time.Time) *memStore {
	if now == nil {
		now = time.Now
	}
	return &memStore{now: now}
}

func (s *memStore) Create(post *models.BlogPost) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return s.createErr
	}
	s.nextID++
	post.ID = s.nextID
	post.CreatedAt = s.now()
	s.posts = append(s.posts, *post)
	return nil
}

func (s *memStore) ListBeyond(offset int) ([]models.BlogPost, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return nil, s.listErr
	}
	ordered := make([]models.BlogPost, len(s.posts))
	copy(ordered, s.posts)
	sort.SliceStable(ordered, func(i, j int) bool {
		if !ordered[i].CreatedAt.Equal(ordered[j].CreatedAt) {
			return ordered[i].CreatedAt.After(ordered[j].CreatedAt)
		}
		return ordered[i].ID > ordered[j].ID
	})
	if offset >= len(ordered) {
		return nil, nil
	}
	return ordered[offset:], nil
}

func (s *memStore) Delete(ids []uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.deleteErr != nil {
		return s.deleteErr
	}
	doomed := map[uint]bool{}
	for _, id := range ids {
		doomed[id] = true
	}
	kept := s.posts[:0]
	for _, post := range s.posts {
		if !doomed[post.ID] {
			kept = append(kept, post)
		}
	}
	s.posts = kept
	return nil
}

func (s *memStore) all() []models.BlogPost {
	out, _ := s.ListBeyond(0)
	return out
}

var errFakeProvider = errors.New("provider unavailable")

// fakeGenerator scripts article/image outcomes; optional channels let a test
// hold a cycle open to exercise the running guard.
type fakeGenerator struct {
	article    string
	articleErr error
	image      *ImagePayload
	imageErr   error

	started chan struct{}
	release chan struct{}

	mu       sync.Mutex
	articles int
	images   int
}

func (g *fakeGenerator) GenerateArticle(ctx context.Context, topicIndex int, topic Topic, dateLabel string) (string, error) {
	if g.started != nil {
		g.started <- struct{}{}
	}
	if g.release != nil {
		<-g.release
	}
	g.mu.Lock()
	g.articles++
	g.mu.Unlock()
	if g.articleErr != nil {
		return "", g.articleErr
	}
	if g.article != "" {
		return g.article, nil
	}
	return "<article><h1>" + topic.Title + "</h1></article>", nil
}

func (g *fakeGenerator) GenerateImage(ctx context.Context, topicIndex int, topic Topic, day time.Time) (*ImagePayload, error) {
	g.mu.Lock()
	g.images++
	g.mu.Unlock()
	if g.imageErr != nil {
		return nil, g.imageErr
	}
	return g.image, nil
}

func (g *fakeGenerator) articleCalls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.articles
}
