package tasks

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

const (
	DefaultWorkers = 4
	MaxWorkers     = 10
)

// Section is one independently loaded part of a page.
//
// Load writes its output into variables captured by the closure; the section's error is reported through
// [Result] rather than returned to the caller of [Run].
type Section struct {
	Name string
	Load func(ctx context.Context) error
}

// SectionResult represents the outcome of loading a single [Section].
type SectionResult struct {
	Name     string
	Err      error
	Duration time.Duration
}

// Result contains the outcome of every section passed to [Run], in input order.
type Result struct {
	Sections []SectionResult
}

// Err returns the error recorded for the named section, or nil when it loaded or does not exist.
func (r *Result) Err(name string) error {
	for _, s := range r.Sections {
		if s.Name == name {
			return s.Err
		}
	}
	return nil
}

// Failed returns the sections that recorded an error.
func (r *Result) Failed() []SectionResult {
	var failed []SectionResult
	for _, s := range r.Sections {
		if s.Err != nil {
			failed = append(failed, s)
		}
	}
	return failed
}

// OK reports whether every section loaded.
func (r *Result) OK() bool {
	return len(r.Failed()) == 0
}

// Joined combines every section error into one, or returns nil.
func (r *Result) Joined() error {
	var errs []error
	for _, s := range r.Failed() {
		errs = append(errs, fmt.Errorf("%s: %w", s.Name, s.Err))
	}
	return errors.Join(errs...)
}

// Run loads sections on at most workers goroutines and waits for all of them.
func Run(ctx context.Context, workers int, sections ...Section) *Result {
	return RunWithProgress(ctx, nil, workers, sections...)
}

// RunWithProgress is [Run] with progress updates sent to progress without blocking.
//
// A nil progress channel disables reporting.
func RunWithProgress(ctx context.Context, progress chan<- ProgressUpdate, workers int, sections ...Section) *Result {
	total := len(sections)
	result := &Result{Sections: make([]SectionResult, total)}
	if total == 0 {
		return result
	}

	if workers <= 0 {
		workers = DefaultWorkers
	}
	if workers > MaxWorkers {
		workers = MaxWorkers
	}
	if workers > total {
		workers = total
	}

	jobs := make(chan int, total)
	for i := range sections {
		jobs <- i
	}
	close(jobs)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		completed int
	)

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for i := range jobs {
				s := sections[i]

				mu.Lock()
				step := completed
				mu.Unlock()
				sendProgress(progress, startedUpdate(step, total, s.Name))

				res := loadSection(ctx, s)
				result.Sections[i] = res

				mu.Lock()
				completed++
				step = completed
				mu.Unlock()
				sendProgress(progress, finishedUpdate(step, total, res))
			}
		}()
	}

	wg.Wait()
	return result
}

// loadSection runs a single section, converting a panic into an error.
func loadSection(ctx context.Context, s Section) (res SectionResult) {
	res.Name = s.Name
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			res.Err = fmt.Errorf("section %q panicked: %v", s.Name, r)
		}
		res.Duration = time.Since(start)
	}()

	if err := ctx.Err(); err != nil {
		res.Err = err
		return res
	}
	if s.Load == nil {
		return res
	}

	res.Err = s.Load(ctx)
	return res
}

// sendProgress sends a progress update through the channel without blocking.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}
