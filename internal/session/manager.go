package session

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Zachkp/portfolio/internal/logger"
	"github.com/Zachkp/portfolio/internal/navigation"
)

const contextKey = "session_id"

// Options configures the session cookie.
type Options struct {
	CookieName string
	TTL        time.Duration
	Secure     bool
}

// Manager ties the session cookie to a Store.
type Manager struct {
	store Store
	opts  Options
	log   logger.Logger
}

// NewManager returns a Manager backed by store.
func NewManager(store Store, opts Options, log logger.Logger) *Manager {
	return &Manager{store: store, opts: opts, log: log}
}

// ID returns the caller's session ID, issuing a new cookie when the request
// carries none or an invalid one.
func (m *Manager) ID(c *gin.Context) string {
	if id := c.GetString(contextKey); id != "" {
		return id
	}

	id, err := c.Cookie(m.opts.CookieName)
	if err != nil || uuid.Validate(id) != nil {
		id = uuid.NewString()
	}

	// refresh on every request so the cookie outlives the stored state
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(m.opts.CookieName, id, int(m.opts.TTL.Seconds()), "/", "", m.opts.Secure, true)
	c.Set(contextKey, id)

	return id
}

// Current returns the section the session last selected. Unknown, expired or
// unreadable sessions start on navigation.Initial.
func (m *Manager) Current(c *gin.Context) navigation.Section {
	id := m.ID(c)

	section, err := m.store.Load(c.Request.Context(), id)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			m.log.Warn("Failed to load session, using initial section", logger.Error(err))
		}
		return navigation.Initial
	}
	return section
}

// Select stores section as the session's current selection.
func (m *Manager) Select(c *gin.Context, section navigation.Section) error {
	return m.store.Save(c.Request.Context(), m.ID(c), section, m.opts.TTL)
}
