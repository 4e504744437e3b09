package editorial

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/voloskyi/saffron-shop/models"
	"github.com/voloskyi/saffron-shop/utils"
)

// ErrBusy is returned when a trigger arrives while a cycle is in flight.
// Concurrent triggers are coalesced, never queued.
var ErrBusy = errors.New("generation already in progress")

// Options tunes a Scheduler. Zero values fall back to production defaults.
type Options struct {
	// Interval between timer firings; the first firing happens one interval
	// after Start, never immediately.
	Interval time.Duration
	// MaxPosts is the retention cap enforced after each successful publish.
	MaxPosts int
	// Now supplies the current time; tests inject a fake clock.
	Now func() time.Time
	// Logger receives cycle outcomes. Defaults to a nop logger.
	Logger *zap.SugaredLogger
	// OnPublish runs after a successful publish-and-prune cycle, e.g. to
	// invalidate response caches.
	OnPublish func()
}

// Scheduler owns the recurring publish timer. Lifecycle: New -> Start ->
// Stop; a process restart always begins idle. The timer and the manual
// TriggerNow path share one atomic idle/running guard, so at most one
// generation pipeline executes at a time per process.
type Scheduler struct {
	calendar *Calendar
	gen      ArticleGenerator
	store    PostStore

	interval  time.Duration
	maxPosts  int
	now       func() time.Time
	log       *zap.SugaredLogger
	onPublish func()

	running  atomic.Bool
	started  atomic.Bool
	stopOnce sync.Once
	stop     chan struct{}
}

// New constructs a Scheduler handle. It is created once at process start and
// injected wherever a manual trigger is needed.
func New(calendar *Calendar, gen ArticleGenerator, store PostStore, opts Options) *Scheduler {
	if opts.Interval <= 0 {
		opts.Interval = 24 * time.Hour
	}
	if opts.MaxPosts <= 0 {
		opts.MaxPosts = 30
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop().Sugar()
	}
	return &Scheduler{
		calendar:  calendar,
		gen:       gen,
		store:     store,
		interval:  opts.Interval,
		maxPosts:  opts.MaxPosts,
		now:       opts.Now,
		log:       opts.Logger,
		onPublish: opts.OnPublish,
		stop:      make(chan struct{}),
	}
}

// Start arms the recurring timer. Arming twice is a no-op; the caller is
// responsible for only arming the primary worker of a deployment.
func (s *Scheduler) Start() {
	if !s.started.CompareAndSwap(false, true) {
		return
	}
	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := s.runCycle(); err != nil {
					if errors.Is(err, ErrBusy) {
						s.log.Info("publish cycle still running, skipping this firing")
					} else {
						s.log.Errorf("scheduled publish cycle failed: %v", err)
					}
				}
			case <-s.stop:
				return
			}
		}
	}()
}

// Stop disarms the timer. An in-flight cycle finishes on its own; state is
// not persisted, so the next process instance starts idle.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() { close(s.stop) })
}

// TriggerNow runs one publish cycle synchronously, outside the timer. It
// reports ErrBusy when a cycle is already in flight.
func (s *Scheduler) TriggerNow() error {
	return s.runCycle()
}

// runCycle is the single entry into the pipeline, guarded by an atomic
// check-and-set so the timer and a manual trigger can never overlap.
func (s *Scheduler) runCycle() error {
	if !s.running.CompareAndSwap(false, true) {
		return ErrBusy
	}
	defer s.running.Store(false)
	return s.publish()
}

// publish runs the sequential pipeline: resolve topic, generate text (a
// failure aborts the cycle), best-effort image, persist, prune.
func (s *Scheduler) publish() error {
	today := s.now()
	index, topic := s.calendar.Select(today)
	dateLabel := today.Format("02 January 2006")

	s.log.Infof("generating blog post for topic #%d: %s", index+1, topic.Title)

	ctx := context.Background()
	content, err := s.gen.GenerateArticle(ctx, index, topic, dateLabel)
	if err != nil {
		return fmt.Errorf("article generation failed: %w", err)
	}

	post := &models.BlogPost{
		Title:   fmt.Sprintf("%s (%s)", topic.Title, dateLabel),
		Content: utils.Sanitize(content),
	}

	if image, err := s.gen.GenerateImage(ctx, index, topic, today); err != nil {
		s.log.Warnf("blog image generation failed, publishing without image: %v", err)
	} else if image != nil {
		post.ImageData = image.Data
		post.ImageMimetype = image.Mimetype
		post.ImageFilename = image.Filename
	}

	if err := s.store.Create(post); err != nil {
		return fmt.Errorf("persist blog post: %w", err)
	}

	pruned, err := PruneOldPosts(s.store, s.maxPosts)
	if err != nil {
		return fmt.Errorf("retention after publish: %w", err)
	}
	if pruned > 0 {
		s.log.Infof("retention removed %d old post(s)", pruned)
	}

	s.log.Infof("published blog post %q (id=%d)", post.Title, post.ID)
	if s.onPublish != nil {
		s.onPublish()
	}
	return nil
}
