// Package session owns the single process-wide record of the authenticated
// user. It is written exclusively by authorization flow outcomes and read by
// presentation code.
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/aurabank/aura/internal/model"
	"github.com/aurabank/aura/internal/store"
)

// Context holds the current session, if any. All mutation goes through the
// flow controller; commands only read.
type Context struct {
	mu           sync.RWMutex
	repo         store.Repository
	current      *model.Session
	historyStale bool
}

func NewContext(repo store.Repository) *Context {
	return &Context{repo: repo}
}

// Restore loads a persisted session left by a previous process, so the
// logged-in state survives restarts. No session is not an error.
func (c *Context) Restore() error {
	sess, err := c.repo.LoadSession()
	if errors.Is(err, store.ErrNoSession) {
		return nil
	}
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.current = sess
	c.mu.Unlock()
	return nil
}

// Begin installs a new session, replacing any prior one, and persists it.
func (c *Context) Begin(sess model.Session) error {
	if sess.LastSyncedAt == 0 {
		sess.LastSyncedAt = time.Now().Unix()
	}
	if err := c.repo.SaveSession(sess); err != nil {
		return err
	}

	c.mu.Lock()
	c.current = &sess
	c.historyStale = false
	c.mu.Unlock()
	return nil
}

// End destroys the session. The credential slot is untouched.
func (c *Context) End() error {
	if err := c.repo.ClearSession(); err != nil {
		return err
	}

	c.mu.Lock()
	c.current = nil
	c.historyStale = false
	c.mu.Unlock()
	return nil
}

// Current returns a copy of the active session, or false when logged out.
func (c *Context) Current() (model.Session, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.current == nil {
		return model.Session{}, false
	}
	return *c.current, true
}

// SetBalance replaces the cached balance wholesale with an authoritative
// backend value. Balance is never computed on this side.
func (c *Context) SetBalance(balanceCents int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		return store.ErrNoSession
	}
	if err := c.repo.UpdateSessionBalance(balanceCents); err != nil {
		return err
	}
	c.current.BalanceCents = balanceCents
	c.current.LastSyncedAt = time.Now().Unix()
	return nil
}

// MarkHistoryStale flags that the transaction list could not be refreshed
// after a state-changing action. Cleared by the next successful refresh.
func (c *Context) MarkHistoryStale(stale bool) {
	c.mu.Lock()
	c.historyStale = stale
	c.mu.Unlock()
}

func (c *Context) HistoryStale() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.historyStale
}
