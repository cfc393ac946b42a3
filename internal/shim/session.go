package shim

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/born-ml/born-norm/internal/functional"
	"github.com/born-ml/born-norm/internal/tensor"
)

// Handle is an opaque reference to a tensor registered in a Session.
type Handle uint64

// Null is the absent-tensor sentinel.
const Null Handle = 0

// Session owns a table of tensors and the last-error slot for the calls made
// through it. It is safe for concurrent use.
type Session struct {
	engine *functional.Engine
	logger *slog.Logger

	mu      sync.Mutex
	tensors map[Handle]*tensor.RawTensor
	next    Handle
	lastErr error
}

// Option configures a Session.
type Option func(*Session)

// WithEngine runs the operations on e instead of a default CPU engine.
func WithEngine(e *functional.Engine) Option {
	return func(s *Session) { s.engine = e }
}

// WithLogger sets the logger used to report failed calls at debug level.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// NewSession creates an empty session.
func NewSession(opts ...Option) *Session {
	s := &Session{
		tensors: make(map[Handle]*tensor.RawTensor),
		next:    1,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.engine == nil {
		s.engine = functional.NewEngine()
	}
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}
	return s
}

// Import registers t and returns its handle. The session takes ownership of
// the reference held by t. Importing a tensor that is already registered
// returns a new handle backed by t.View(), so each handle owns one reference
// and can be released on its own. A nil tensor yields Null.
func (s *Session) Import(t *tensor.RawTensor) Handle {
	if t == nil {
		return Null
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insertLocked(t)
}

// insertLocked registers t under a fresh handle. A tensor already in the
// table is registered as a view so that every handle owns one reference.
func (s *Session) insertLocked(t *tensor.RawTensor) Handle {
	for _, owned := range s.tensors {
		if owned == t {
			t = t.View()
			break
		}
	}
	h := s.next
	s.next++
	s.tensors[h] = t
	return h
}

// Tensor returns the tensor registered under h.
func (s *Session) Tensor(h Handle) (*tensor.RawTensor, error) {
	if h == Null {
		return nil, fmt.Errorf("null handle")
	}
	s.mu.Lock()
	t, ok := s.tensors[h]
	s.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("unknown tensor handle %d", h)
	}
	if t.IsReleased() {
		return nil, fmt.Errorf("tensor handle %d refers to released storage", h)
	}
	return t, nil
}

// Release removes h from the session and drops its reference to the
// tensor's storage.
func (s *Session) Release(h Handle) error {
	s.mu.Lock()
	t, ok := s.tensors[h]
	delete(s.tensors, h)
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("unknown tensor handle %d", h)
	}
	t.Release()
	return nil
}

// Len returns the number of live handles.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tensors)
}

// Close releases every tensor still registered.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for h, t := range s.tensors {
		t.Release()
		delete(s.tensors, h)
	}
}

// LastError returns the message of the most recent failure, or "" if no
// failure has been recorded since the last ClearError.
func (s *Session) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastErr == nil {
		return ""
	}
	return s.lastErr.Error()
}

// Err returns the most recent failure as an error, or nil.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// ClearError empties the last-error slot.
func (s *Session) ClearError() {
	s.mu.Lock()
	s.lastErr = nil
	s.mu.Unlock()
}

// optional resolves h into an Optional: Null is absent, anything else must
// be a live handle.
func (s *Session) optional(name string, h Handle) (tensor.OptionalTensor, error) {
	if h == Null {
		return tensor.None[*tensor.RawTensor](), nil
	}
	t, err := s.Tensor(h)
	if err != nil {
		return tensor.OptionalTensor{}, fmt.Errorf("%s: %w", name, err)
	}
	return tensor.Some(t), nil
}

// required resolves a mandatory handle argument.
func (s *Session) required(name string, h Handle) (*tensor.RawTensor, error) {
	t, err := s.Tensor(h)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return t, nil
}

// call runs fn inside the failure boundary. Errors and panics become a
// *ComputeError that overwrites the last-error slot; a result is registered
// and its handle returned.
func (s *Session) call(op string, fn func() (*tensor.RawTensor, error)) (h Handle, err error) {
	defer func() {
		if r := recover(); r != nil {
			h, err = Null, s.fail(op, panicError(r))
		}
	}()

	out, err := fn()
	if err != nil {
		return Null, s.fail(op, err)
	}
	if out == nil {
		return Null, s.fail(op, fmt.Errorf("operation returned no tensor"))
	}

	// In-place results are already registered; insertLocked gives them
	// their own reference.
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insertLocked(out), nil
}

func (s *Session) fail(op string, cause error) error {
	err := newComputeError(op, cause)
	s.mu.Lock()
	s.lastErr = err
	s.mu.Unlock()
	s.logger.Debug("operation failed", "op", op, "err", cause)
	return err
}
