package analytics

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Zachkp/portfolio/internal/logger"
)

const (
	hashedIPLength = 16
	saltBytes      = 32
	writeTimeout   = 5 * time.Second
)

// Hasher turns client IPs into stable salted digests so raw addresses are
// never stored.
type Hasher struct {
	salt string
}

// NewHasher returns a Hasher using salt.
func NewHasher(salt string) *Hasher {
	return &Hasher{salt: salt}
}

// RandomSalt returns a fresh hex salt. Hashes made with it are only stable
// for the life of the process.
func RandomSalt() (string, error) {
	b := make([]byte, saltBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// HashIP returns the truncated hex SHA-256 of ip and the salt.
func (h *Hasher) HashIP(ip string) string {
	sum := sha256.Sum256([]byte(ip + h.salt))
	return hex.EncodeToString(sum[:])[:hashedIPLength]
}

var untrackedPrefixes = []string{
	"/static/",
	"/admin/",
	"/favicon",
	"/health",
	"/metrics",
	"/projects/",
}

// Tracker records page views and project clicks off the request path.
type Tracker struct {
	store  *Store
	hasher *Hasher
	log    logger.Logger
	now    func() time.Time
	wg     sync.WaitGroup
}

// NewTracker returns a Tracker writing to store.
func NewTracker(store *Store, hasher *Hasher, log logger.Logger) *Tracker {
	return &Tracker{store: store, hasher: hasher, log: log, now: time.Now}
}

// Middleware records GET page views. It skips asset, admin and probe paths,
// View Project activations (counted by ProjectClick instead) and any request
// sending "DNT: 1".
func (t *Tracker) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if c.Request.Method != http.MethodGet || !Trackable(path) || c.GetHeader("DNT") == "1" {
			c.Next()
			return
		}

		hashed := t.hasher.HashIP(c.ClientIP())
		userAgent := c.Request.UserAgent()
		at := t.now()

		t.goWrite("visit", func(ctx context.Context) error {
			return t.store.RecordVisit(ctx, hashed, userAgent, path, at)
		})

		c.Next()
	}
}

// ProjectClick records a View Project activation unless the visitor opted
// out with "DNT: 1".
func (t *Tracker) ProjectClick(c *gin.Context, key string) {
	if c.GetHeader("DNT") == "1" {
		return
	}

	at := t.now()
	t.goWrite("project_click", func(ctx context.Context) error {
		return t.store.RecordProjectClick(ctx, key, at)
	})
}

// HashIP hashes ip with the tracker's salt, for log lines that must not
// carry raw addresses.
func (t *Tracker) HashIP(ip string) string {
	return t.hasher.HashIP(ip)
}

// Wait blocks until every pending write finished.
func (t *Tracker) Wait() {
	t.wg.Wait()
}

func (t *Tracker) goWrite(kind string, write func(context.Context) error) {
	t.wg.Add(1)
	go func() {
		defer t.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		defer cancel()

		if err := write(ctx); err != nil {
			t.log.Error("Failed to record analytics", logger.String("kind", kind), logger.Error(err))
		}
	}()
}

// Trackable reports whether a request path counts as a page view.
func Trackable(path string) bool {
	for _, prefix := range untrackedPrefixes {
		if strings.HasPrefix(path, prefix) {
			return false
		}
	}
	return true
}

// Retention returns a job pruning visits older than maxAge.
func (s *Store) Retention(maxAge time.Duration, log logger.Logger) func(context.Context) error {
	return func(ctx context.Context) error {
		removed, err := s.PruneBefore(ctx, time.Now().Add(-maxAge))
		if err != nil {
			return err
		}
		if removed > 0 {
			log.Info("Privacy cleanup removed old visitor records",
				logger.Int64("removed", removed),
				logger.Duration("max_age", maxAge),
			)
		}
		return nil
	}
}
