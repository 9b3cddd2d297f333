// internal/command/command.go
// Package command dispatches decoded key sequences to registered handlers.
// A command code is framed on the keypad as prefix, digits, suffix —
// "*1234#" by default — so stray key presses outside a frame are ignored.
package command

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"
)

var (
	// ErrInvalidFraming indicates prefix and suffix must be distinct single keys
	ErrInvalidFraming = errors.New("command prefix and suffix must be distinct single keys")
	// ErrEmptyCode indicates a handler cannot be registered for an empty code
	ErrEmptyCode = errors.New("command code must not be empty")
	// ErrUnknownCommand indicates the entered code has no registered handler
	ErrUnknownCommand = errors.New("unknown command code")
)

// Handler executes one command and returns its console output.
type Handler func() (string, error)

// Config holds the command framing keys.
type Config struct {
	// Prefix starts a command code (from config: command_prefix)
	Prefix rune
	// Suffix ends a command code (from config: command_suffix)
	Suffix rune
}

// Result is the outcome of one completed command frame.
type Result struct {
	// Code is the digits between prefix and suffix
	Code string
	// Output is the handler's console output (empty on error)
	Output string
	// Err is ErrUnknownCommand or the handler's failure
	Err error
}

// Dispatcher accumulates key symbols into framed command codes and runs
// the matching handler when a frame completes. Safe for use from a single
// event callback; the mutex only guards Register against a running session.
type Dispatcher struct {
	config Config

	mu       sync.Mutex
	buffer   strings.Builder
	handlers map[string]Handler
}

// NewDispatcher creates a dispatcher with no registered commands.
func NewDispatcher(cfg Config) (*Dispatcher, error) {
	if cfg.Prefix == 0 || cfg.Suffix == 0 || cfg.Prefix == cfg.Suffix {
		return nil, ErrInvalidFraming
	}
	return &Dispatcher{
		config:   cfg,
		handlers: make(map[string]Handler),
	}, nil
}

// Register binds a handler to a command code (the digits between prefix
// and suffix). Re-registering a code replaces the previous handler.
func (d *Dispatcher) Register(code string, h Handler) error {
	if code == "" {
		return ErrEmptyCode
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[code] = h
	return nil
}

// Codes returns the registered command codes.
func (d *Dispatcher) Codes() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	codes := make([]string, 0, len(d.handlers))
	for code := range d.handlers {
		codes = append(codes, code)
	}
	return codes
}

// Key feeds one decoded key press into the dispatcher. Returns a Result
// when the key completed a command frame, nil otherwise. Keys arriving
// outside a prefix-started frame are discarded.
func (d *Dispatcher) Key(symbol rune) *Result {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.buffer.Len() == 0 {
		if symbol != d.config.Prefix {
			return nil
		}
		d.buffer.WriteRune(symbol)
		return nil
	}

	if symbol == d.config.Prefix {
		// A fresh prefix abandons the partial frame.
		d.buffer.Reset()
		d.buffer.WriteRune(symbol)
		return nil
	}

	if symbol != d.config.Suffix {
		d.buffer.WriteRune(symbol)
		return nil
	}

	// Frame complete: strip the prefix and execute.
	code := d.buffer.String()[1:]
	d.buffer.Reset()
	return d.execute(code)
}

// Pending returns the partial frame accumulated so far, prefix included.
func (d *Dispatcher) Pending() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.buffer.String()
}

// Reset discards any partial frame.
func (d *Dispatcher) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.buffer.Reset()
}

func (d *Dispatcher) execute(code string) *Result {
	h, ok := d.handlers[code]
	if !ok {
		return &Result{Code: code, Err: fmt.Errorf("%w: %q", ErrUnknownCommand, code)}
	}
	output, err := h()
	if err != nil {
		return &Result{Code: code, Err: err}
	}
	return &Result{Code: code, Output: output}
}

// Hello is the built-in smoke-test command.
func Hello() (string, error) {
	return "Hello, world!", nil
}

// jokeAPI serves a random single-part programming joke as {"joke": "..."}.
const jokeAPI = "https://v2.jokeapi.dev/joke/Programming?type=single"

// Joke fetches a random programming joke.
func Joke() (string, error) {
	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Get(jokeAPI)
	if err != nil {
		return "", fmt.Errorf("fetch joke: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch joke: unexpected status %s", resp.Status)
	}

	var payload struct {
		Joke string `json:"joke"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode joke: %w", err)
	}
	return payload.Joke, nil
}
