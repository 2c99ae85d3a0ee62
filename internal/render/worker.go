package render

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	ErrWorkerTimeout = errors.New("render worker timed out")
	ErrWorkerCrash   = errors.New("render worker crashed")
	ErrWorkerClosed  = errors.New("render worker closed")
)

type request struct {
	id  string
	job Job
}

type response struct {
	id     string
	result *Result
	err    error
}

// Worker runs renders in an isolated goroutine that shares no state with
// the caller: a ready handshake at startup, then correlated request and
// response messages over bounded channels. A panic inside a render becomes
// an ErrWorkerCrash response instead of taking the session down with it.
type Worker struct {
	initTimeout   time.Duration
	renderTimeout time.Duration
	maxBytes      int

	reqCh    chan request
	respCh   chan response
	readyCh  chan struct{}
	done     chan struct{}
	stopOnce sync.Once

	renderFn func(Job, int) (*Result, error)
}

func NewWorker(initTimeout, renderTimeout time.Duration, maxBytes int) *Worker {
	return &Worker{
		initTimeout:   initTimeout,
		renderTimeout: renderTimeout,
		maxBytes:      maxBytes,
		reqCh:         make(chan request, 1),
		respCh:        make(chan response, 1),
		readyCh:       make(chan struct{}),
		done:          make(chan struct{}),
		renderFn:      RenderAnimation,
	}
}

// Start spawns the worker goroutine and waits for its ready handshake,
// bounded by the init timeout.
func (w *Worker) Start(ctx context.Context) error {
	go w.loop()

	timer := time.NewTimer(w.initTimeout)
	defer timer.Stop()
	select {
	case <-w.readyCh:
		return nil
	case <-timer.C:
		return fmt.Errorf("worker init: %w", ErrWorkerTimeout)
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (w *Worker) Stop() {
	w.stopOnce.Do(func() { close(w.done) })
}

// Render submits a job and waits for the matching response, bounded by the
// render timeout. Responses from earlier timed-out renders carry stale ids
// and are discarded.
func (w *Worker) Render(ctx context.Context, job Job) (*Result, error) {
	id := uuid.NewString()
	select {
	case w.reqCh <- request{id: id, job: job}:
	case <-w.done:
		return nil, ErrWorkerClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	timer := time.NewTimer(w.renderTimeout)
	defer timer.Stop()
	for {
		select {
		case resp := <-w.respCh:
			if resp.id != id {
				continue
			}
			return resp.result, resp.err
		case <-timer.C:
			return nil, fmt.Errorf("worker render: %w", ErrWorkerTimeout)
		case <-w.done:
			return nil, ErrWorkerClosed
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

func (w *Worker) loop() {
	close(w.readyCh)
	for {
		select {
		case <-w.done:
			return
		case req := <-w.reqCh:
			result, err := w.safeRender(req.job)
			select {
			case w.respCh <- response{id: req.id, result: result, err: err}:
			case <-w.done:
				return
			}
		}
	}
}

func (w *Worker) safeRender(job Job) (result *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("%w: %v", ErrWorkerCrash, r)
		}
	}()
	return w.renderFn(job, w.maxBytes)
}
