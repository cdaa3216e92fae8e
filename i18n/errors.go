package i18n

import (
	"errors"
	"fmt"
	"sync"
)

// TranslatableError represents an error that can be translated
type TranslatableError interface {
	error
	Key() string
	Args() []interface{}
	Unwrap() error
	WithArgs(args ...interface{}) *TrError
	Wrap(err error) *TrError
}

// MessageProvider resolves a message key to an unformatted message
type MessageProvider interface {
	GetMessage(key string) string
}

// TrError is a translatable error with optional format arguments and a
// wrapped cause. Copies made with WithArgs or Wrap compare equal to the
// sentinel they were derived from under errors.Is.
//
//	err := errs.ErrTypeConversion.WithArgs("--port", "int", "x")
//	errors.Is(err, errs.ErrTypeConversion) // true
type TrError struct {
	sentinel        error
	key             string
	args            []interface{}
	wrapped         error
	messageProvider MessageProvider
}

// bundleProvider reads messages from a bundle in its current default language
type bundleProvider struct {
	bundle *Bundle
}

func (p *bundleProvider) GetMessage(key string) string {
	return p.bundle.raw(p.bundle.DefaultLanguage(), key)
}

// NewError creates a sentinel error for key
func NewError(key string) *TrError {
	return &TrError{
		sentinel: errors.New(key),
		key:      key,
	}
}

// Error returns the message in the provider's language, formatted with args
func (e *TrError) Error() string {
	provider := e.messageProvider
	if provider == nil {
		provider = getDefaultProvider()
	}
	msg := provider.GetMessage(e.key)
	if len(e.args) > 0 {
		msg = fmt.Sprintf(msg, e.args...)
	}

	if e.wrapped != nil {
		return fmt.Sprintf("%s: %v", msg, e.wrapped)
	}
	return msg
}

// WithArgs returns a copy of the error carrying format arguments
func (e *TrError) WithArgs(args ...interface{}) *TrError {
	return &TrError{
		sentinel:        e.sentinel,
		key:             e.key,
		args:            args,
		wrapped:         e.wrapped,
		messageProvider: e.messageProvider,
	}
}

// Wrap returns a copy of the error wrapping err
func (e *TrError) Wrap(err error) *TrError {
	return &TrError{
		sentinel:        e.sentinel,
		key:             e.key,
		args:            e.args,
		wrapped:         err,
		messageProvider: e.messageProvider,
	}
}

// Is implements errors.Is for comparison with the sentinel error
func (e *TrError) Is(target error) bool {
	if t, ok := target.(*TrError); ok {
		return e.sentinel == t.sentinel
	}
	return target == e.sentinel
}

// Key returns the translation key
func (e *TrError) Key() string {
	return e.key
}

// Args returns the format arguments
func (e *TrError) Args() []interface{} {
	return e.args
}

// Unwrap returns the wrapped error
func (e *TrError) Unwrap() error {
	return e.wrapped
}

var (
	defaultProvider    MessageProvider
	defaultProviderMux sync.RWMutex
)

// SetDefaultMessageProvider replaces the provider used by errors that were
// not given one explicitly. Passing nil restores the embedded bundle.
func SetDefaultMessageProvider(p MessageProvider) {
	defaultProviderMux.Lock()
	defer defaultProviderMux.Unlock()
	defaultProvider = p
}

func getDefaultProvider() MessageProvider {
	defaultProviderMux.RLock()
	defer defaultProviderMux.RUnlock()
	if defaultProvider != nil {
		return defaultProvider
	}
	return &bundleProvider{bundle: Default()}
}
