package redux

import (
	"errors"
	"fmt"
	"sync"

	"github.com/goliatone/go-redux/pkg/activity"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Unsubscribe removes a subscription. Calling it more than once is a no-op.
type Unsubscribe func()

type subscription struct {
	id uuid.UUID
	fn Subscriber
}

// Store owns the current State and serialises every change to it.
type Store struct {
	id       string
	root     RootReducer
	dispatch DispatchFunc
	logger   *zap.Logger
	emitter  *activity.Emitter
	actorID  string

	mu            sync.RWMutex
	state         State
	subscriptions []subscription

	queueMu     sync.Mutex
	idle        *sync.Cond
	dispatching bool
	owner       uint64
	queue       []Action
}

var _ API = (*Store)(nil)

// New builds a Store around root. The initial state is whatever root
// produces from no previous state, optionally seeded by WithPreloadedState.
func New(root RootReducer, opts ...Option) (*Store, error) {
	if root == nil {
		return nil, ErrInvalidReducer
	}

	cfg := applyOptions(opts)
	s := &Store{
		id:      cfg.storeID,
		root:    root,
		logger:  cfg.logger,
		emitter: activity.NewEmitter(cfg.activityHooks, cfg.activityCfg),
		actorID: cfg.activityActor,
	}
	s.idle = sync.NewCond(&s.queueMu)
	if s.id == "" {
		s.id = uuid.NewString()
	}

	initial, err := s.initialState(cfg.preloaded)
	if err != nil {
		return nil, err
	}
	s.state = initial

	s.dispatch = s.reduce
	if cfg.chain != nil {
		if built := cfg.chain(s, s.reduce); built != nil {
			s.dispatch = built
		}
	}

	s.logger.Debug("redux: store initialised",
		zap.String("store_id", s.id),
		zap.Strings("keys", initial.Keys()),
		zap.Bool("middleware", cfg.chain != nil),
	)
	return s, nil
}

// ID returns the store identifier used in logs and activity events.
func (s *Store) ID() string {
	return s.id
}

// GetState returns a shallow copy of the current state.
func (s *Store) GetState() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// Subscribe registers fn to run after every state-changing dispatch.
// Subscribers run in registration order; registering the same function
// twice makes it run twice.
func (s *Store) Subscribe(fn Subscriber) Unsubscribe {
	if fn == nil {
		return func() {}
	}

	id := uuid.New()
	s.mu.Lock()
	s.subscriptions = append(s.subscriptions, subscription{id: id, fn: fn})
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.unsubscribe(id)
		})
	}
}

// Subscribers returns the number of active subscriptions.
func (s *Store) Subscribers() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.subscriptions)
}

func (s *Store) unsubscribe(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := make([]subscription, 0, len(s.subscriptions))
	for _, sub := range s.subscriptions {
		if sub.id != id {
			kept = append(kept, sub)
		}
	}
	s.subscriptions = kept
}

// Dispatch sends action through the middleware chain to the root reducer
// and returns the resulting state.
//
// Calls from other goroutines wait for the in-flight dispatch to finish and
// then run their own action. A call made from inside an in-flight dispatch
// (a subscriber, middleware or reducer dispatching again) is queued and
// applied once the current action completes; the queued call returns the
// state current at the time it was queued, and errors raised by queued
// actions are joined into the error of the dispatch that queued them.
//
// If a reducer or subscriber panics, the panic propagates and any actions
// still queued are dropped.
func (s *Store) Dispatch(action Action) (State, error) {
	if !action.Valid() {
		return nil, &InvalidActionError{Action: action}
	}

	caller := goroutineID()
	s.queueMu.Lock()
	if s.dispatching && s.owner == caller {
		s.queue = append(s.queue, action)
		pending := len(s.queue)
		s.queueMu.Unlock()
		s.logger.Debug("redux: dispatch queued",
			zap.String("store_id", s.id),
			zap.String("action_type", action.Type),
			zap.Int("pending", pending),
		)
		return s.GetState(), nil
	}
	for s.dispatching {
		s.idle.Wait()
	}
	s.dispatching = true
	s.owner = caller
	s.queueMu.Unlock()

	drained := false
	defer func() {
		if !drained {
			s.resetQueue()
		}
	}()

	var errs []error
	if _, err := s.dispatch(action); err != nil {
		errs = append(errs, err)
	}
	for {
		next, ok := s.dequeue()
		if !ok {
			break
		}
		if _, err := s.dispatch(next); err != nil {
			s.logger.Error("redux: queued dispatch failed",
				zap.String("store_id", s.id),
				zap.String("action_type", next.Type),
				zap.Error(err),
			)
			errs = append(errs, err)
		}
	}
	drained = true

	state := s.GetState()
	s.release()
	return state, errors.Join(errs...)
}

// dequeue pops the next queued action.
func (s *Store) dequeue() (Action, bool) {
	s.queueMu.Lock()
	defer s.queueMu.Unlock()
	if len(s.queue) == 0 {
		return Action{}, false
	}
	next := s.queue[0]
	s.queue = s.queue[1:]
	return next, true
}

// release hands the store to the next waiting dispatcher. The caller must
// have drained the queue.
func (s *Store) release() {
	s.queueMu.Lock()
	defer s.queueMu.Unlock()
	s.dispatching = false
	s.owner = 0
	s.queue = nil
	s.idle.Signal()
}

// resetQueue runs when a dispatch unwinds through a panic.
func (s *Store) resetQueue() {
	s.queueMu.Lock()
	dropped := s.queue
	s.dispatching = false
	s.owner = 0
	s.queue = nil
	s.idle.Signal()
	s.queueMu.Unlock()

	if len(dropped) == 0 {
		return
	}
	types := make([]string, 0, len(dropped))
	for _, action := range dropped {
		types = append(types, action.Type)
	}
	s.logger.Error("redux: dispatch aborted, queued actions dropped",
		zap.String("store_id", s.id),
		zap.Strings("action_types", types),
	)
}

// reduce is the terminal step of every dispatch.
func (s *Store) reduce(action Action) (State, error) {
	s.mu.RLock()
	prev := s.state
	subscribers := s.snapshot(prev, action)
	s.mu.RUnlock()

	next, err := s.root(prev, action, subscribers)
	if err != nil {
		return prev.Clone(), err
	}
	if next == nil {
		return prev.Clone(), fmt.Errorf("%w: root reducer returned no state for %q", ErrInvalidReducer, action.Type)
	}

	s.mu.Lock()
	s.state = next
	s.mu.Unlock()
	return next.Clone(), nil
}

// snapshot returns the subscribers for one reduce pass. The first entry
// commits the new state so that subscribers reading GetState observe it.
// Callers hold s.mu.
func (s *Store) snapshot(prev State, action Action) []Subscriber {
	subscribers := make([]Subscriber, 0, len(s.subscriptions)+2)
	subscribers = append(subscribers, s.commit)
	for _, sub := range s.subscriptions {
		subscribers = append(subscribers, sub.fn)
	}
	if s.emitter.Enabled() {
		subscribers = append(subscribers, s.activitySubscriber(prev, action))
	}
	return subscribers
}

func (s *Store) commit(next State) {
	s.mu.Lock()
	s.state = next
	s.mu.Unlock()
}
