package editorial

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func newTestScheduler(gen ArticleGenerator, store PostStore, now func() time.Time) *Scheduler {
	cal := DefaultCalendar(date(2025, time.January, 1))
	return New(cal, gen, store, Options{
		MaxPosts: 30,
		Now:      now,
	})
}

func TestTriggerNowPublishesPost(t *testing.T) {
	today := date(2025, time.January, 1)
	store := newMemStore(func() time.Time { return today })
	gen := &fakeGenerator{
		article: "<article><h1>Saffron</h1><p>Meta Description: threads of gold.</p></article>",
		image:   &ImagePayload{Data: []byte{0x89, 0x50}, Mimetype: "image/png", Filename: "blog-2025-01-01-1.png"},
	}
	s := newTestScheduler(gen, store, func() time.Time { return today })

	if err := s.TriggerNow(); err != nil {
		t.Fatalf("TriggerNow: %v", err)
	}

	posts := store.all()
	if len(posts) != 1 {
		t.Fatalf("store has %d posts, want 1", len(posts))
	}
	post := posts[0]
	wantTitle := "Holistic Wellness Benefits of Saffron for Cardiovascular Support (01 January 2025)"
	if post.Title != wantTitle {
		t.Errorf("title = %q, want %q", post.Title, wantTitle)
	}
	if !post.HasImage() || post.ImageMimetype != "image/png" {
		t.Errorf("expected inline png image, got mimetype %q, %d bytes", post.ImageMimetype, len(post.ImageData))
	}
}

func TestImageFailureStillPublishes(t *testing.T) {
	today := date(2025, time.January, 5)
	store := newMemStore(func() time.Time { return today })
	gen := &fakeGenerator{imageErr: errFakeProvider}
	s := newTestScheduler(gen, store, func() time.Time { return today })

	if err := s.TriggerNow(); err != nil {
		t.Fatalf("TriggerNow: %v", err)
	}

	posts := store.all()
	if len(posts) != 1 {
		t.Fatalf("store has %d posts, want 1", len(posts))
	}
	post := posts[0]
	if post.HasImage() || post.ImageMimetype != "" || post.ImageFilename != "" {
		t.Errorf("expected text-only post, got image fields %q %q (%d bytes)",
			post.ImageMimetype, post.ImageFilename, len(post.ImageData))
	}
}

func TestArticleFailurePublishesNothing(t *testing.T) {
	store := newMemStore(nil)
	gen := &fakeGenerator{articleErr: errFakeProvider}
	s := newTestScheduler(gen, store, nil)

	err := s.TriggerNow()
	if err == nil {
		t.Fatal("TriggerNow succeeded, want failure")
	}
	if !errors.Is(err, errFakeProvider) {
		t.Errorf("error = %v, want wrapped provider error", err)
	}
	if got := len(store.all()); got != 0 {
		t.Errorf("store has %d posts, want 0", got)
	}
}

func TestPersistFailureIsReported(t *testing.T) {
	store := newMemStore(nil)
	store.createErr = errors.New("connection lost")
	s := newTestScheduler(&fakeGenerator{}, store, nil)

	if err := s.TriggerNow(); err == nil {
		t.Fatal("TriggerNow succeeded, want persistence failure")
	}
}

func TestContentIsSanitized(t *testing.T) {
	today := date(2025, time.January, 2)
	store := newMemStore(func() time.Time { return today })
	gen := &fakeGenerator{article: `<article><h1>ok</h1><script>alert("x")</script></article>`}
	s := newTestScheduler(gen, store, func() time.Time { return today })

	if err := s.TriggerNow(); err != nil {
		t.Fatalf("TriggerNow: %v", err)
	}
	content := store.all()[0].Content
	if strings.Contains(content, "<script") {
		t.Errorf("stored content kept script tag: %q", content)
	}
	if !strings.Contains(content, "<h1>ok</h1>") {
		t.Errorf("stored content lost allowed markup: %q", content)
	}
}

func TestConcurrentTriggersCoalesce(t *testing.T) {
	store := newMemStore(nil)
	gen := &fakeGenerator{
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	s := newTestScheduler(gen, store, nil)

	firstDone := make(chan error, 1)
	go func() { firstDone <- s.TriggerNow() }()

	// Wait until the first cycle is inside the provider call.
	<-gen.started

	if err := s.TriggerNow(); !errors.Is(err, ErrBusy) {
		t.Errorf("second trigger error = %v, want ErrBusy", err)
	}

	close(gen.release)
	if err := <-firstDone; err != nil {
		t.Fatalf("first trigger: %v", err)
	}

	if got := len(store.all()); got != 1 {
		t.Errorf("store has %d posts, want 1", got)
	}
	if calls := gen.articleCalls(); calls != 1 {
		t.Errorf("article generated %d times, want 1", calls)
	}
}

func TestGuardResetsAfterFailure(t *testing.T) {
	store := newMemStore(nil)
	gen := &fakeGenerator{articleErr: errFakeProvider}
	s := newTestScheduler(gen, store, nil)

	if err := s.TriggerNow(); err == nil {
		t.Fatal("expected first trigger to fail")
	}
	// The guard must be idle again; a later trigger runs instead of ErrBusy.
	gen.articleErr = nil
	if err := s.TriggerNow(); err != nil {
		t.Fatalf("trigger after failed cycle: %v", err)
	}
}

func TestDailyRotationOverFortyFiveDays(t *testing.T) {
	cal := DefaultCalendar(date(2025, time.January, 1))
	current := cal.Epoch
	now := func() time.Time { return current }
	store := newMemStore(now)
	gen := &fakeGenerator{}
	s := New(cal, gen, store, Options{MaxPosts: 30, Now: now})

	for day := 0; day < 45; day++ {
		current = cal.Epoch.AddDate(0, 0, day)
		if err := s.TriggerNow(); err != nil {
			t.Fatalf("day %d: %v", day, err)
		}
	}

	posts := store.all()
	if len(posts) != 30 {
		t.Fatalf("store has %d posts after 45 days, want 30", len(posts))
	}

	// The oldest 15 posts were pruned; survivors are days 15..44 whose topic
	// indexes run 15..29 then 0..14. posts are newest first.
	for i, post := range posts {
		day := 44 - i
		wantIndex := day % len(cal.Topics)
		wantPrefix := cal.Topics[wantIndex].Title
		if !strings.HasPrefix(post.Title, wantPrefix) {
			t.Fatalf("post for day %d: title %q does not match topic #%d %q",
				day, post.Title, wantIndex+1, wantPrefix)
		}
	}
	oldest := posts[len(posts)-1]
	if want := cal.Epoch.AddDate(0, 0, 15); !oldest.CreatedAt.Equal(want) {
		t.Errorf("oldest surviving post created %s, want %s",
			oldest.CreatedAt.Format("2006-01-02"), want.Format("2006-01-02"))
	}
}

func TestTimerFiresAfterIntervalNotImmediately(t *testing.T) {
	store := newMemStore(nil)
	gen := &fakeGenerator{}
	cal := DefaultCalendar(date(2025, time.January, 1))
	s := New(cal, gen, store, Options{Interval: 60 * time.Millisecond, MaxPosts: 30})
	defer s.Stop()

	s.Start()
	if calls := gen.articleCalls(); calls != 0 {
		t.Fatalf("cycle ran before the first interval elapsed (%d calls)", calls)
	}

	deadline := time.After(2 * time.Second)
	for gen.articleCalls() == 0 {
		select {
		case <-deadline:
			t.Fatal("timer never fired")
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestStopAndStartAreIdempotent(t *testing.T) {
	store := newMemStore(nil)
	s := newTestScheduler(&fakeGenerator{}, store, nil)

	s.Start()
	s.Start()
	s.Stop()
	s.Stop()
}
