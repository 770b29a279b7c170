package portfolio

import (
	"context"

	"github.com/Zachkp/portfolio/internal/logger"
)

// Acknowledgment is shown after every contact form submission.
const Acknowledgment = "Thanks! I'll get back to you soon."

// Download is a file offered to the visitor.
type Download struct {
	Data        []byte
	Filename    string
	ContentType string
}

// ResumeDownload reads the resume for the /resume route. The error wraps
// assets.ErrNotFound when the file is gone.
func (a *App) ResumeDownload() (Download, error) {
	data, err := a.assets.Resume(a.content.Profile.ResumePath)
	if err != nil {
		a.fallback("resume", err)
		return Download{}, err
	}

	return Download{
		Data:        data,
		Filename:    a.resumeFilename(),
		ContentType: ResumeContentType,
	}, nil
}

// VisitResult describes what a View Project activation does.
type VisitResult struct {
	Key      string
	Title    string
	Link     string
	Redirect bool
}

// Message is the text shown when the link is not followed.
func (v VisitResult) Message() string {
	return "Redirecting to " + v.Link + "..."
}

// Visit resolves a View Project activation. Absolute http(s) links are
// followed; anything else keeps the inert message. ok is false for an
// unknown key.
func (a *App) Visit(key string) (VisitResult, bool) {
	p, ok := a.content.Find(key)
	if !ok {
		return VisitResult{}, false
	}

	a.metrics.ProjectVisits.WithLabelValues(p.Key()).Inc()

	return VisitResult{
		Key:      p.Key(),
		Title:    p.Title,
		Link:     p.Link,
		Redirect: p.External(),
	}, true
}

// ContactSubmission is one contact form post. Every field is free text and
// may be empty.
type ContactSubmission struct {
	Name    string `form:"name"`
	Email   string `form:"email"`
	Message string `form:"message"`
}

// Relay hands a submission on. Implementations must not block the request
// for long; their errors never reach the visitor.
type Relay interface {
	Relay(ctx context.Context, s ContactSubmission) error
}

// DiscardRelay drops every submission after noting it in the log.
type DiscardRelay struct {
	Log logger.Logger
}

func (d DiscardRelay) Relay(context.Context, ContactSubmission) error {
	if d.Log != nil {
		d.Log.Info("Contact submission acknowledged and discarded")
	}
	return nil
}

// Acknowledge passes s to the relay and returns the acknowledgment. It never
// fails; the submission is not kept.
func (a *App) Acknowledge(ctx context.Context, s ContactSubmission) string {
	if err := a.relay.Relay(ctx, s); err != nil {
		a.log.Warn("Contact relay failed", logger.Error(err))
	}
	a.metrics.ContactSubmissions.Inc()
	return Acknowledgment
}
