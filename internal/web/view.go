package web

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/desertthunder/walkerbrain/internal/server"
	"github.com/desertthunder/walkerbrain/internal/shared"
)

// Renderer builds the view for one page request.
//
// An error wrapping [shared.ErrDataAccess] is shown as a banner on an otherwise empty page.
type Renderer func(ctx context.Context, req *Request) (*View, error)

// Request is what a renderer sees of an HTTP request.
type Request struct {
	Page    Page
	Session server.SessionContext
	Query   url.Values
	Now     time.Time
}

// Notice levels, used as CSS modifiers.
const (
	LevelInfo    = "info"
	LevelWarning = "warning"
	LevelSuccess = "success"
	LevelError   = "error"
)

// Notice is an inline message box.
type Notice struct {
	Level string
	Text  string
}

// Download replaces the HTML page with a file attachment.
type Download struct {
	Filename    string
	ContentType string
	Body        []byte
}

// View is a rendered page before it is written out.
type View struct {
	Page     Page
	Title    string
	Caption  string
	Template string // Defaults to the page slug
	Status   int    // Defaults to 200
	Banner   string // Data access failure shown above the content
	Notices  []Notice
	Data     any
	Download *Download
}

func newView(p Page, caption string, data any) *View {
	return &View{Page: p, Title: p.Label(), Caption: caption, Data: data}
}

func (v *View) notice(level, text string) {
	v.Notices = append(v.Notices, Notice{Level: level, Text: text})
}

func (v *View) templateName() string {
	if v.Template != "" {
		return v.Template
	}
	return v.Page.Slug()
}

func (v *View) status() int {
	if v.Status == 0 {
		return http.StatusOK
	}
	return v.Status
}

// BannerText formats a data access failure for display.
func BannerText(err error) string {
	return "Could not load data: " + err.Error()
}

// failedView is shown when a renderer returns a data access error.
func failedView(p Page, err error) *View {
	v := newView(p, "", nil)
	v.Template = "failed"
	v.Banner = BannerText(err)
	return v
}

func isDataError(err error) bool {
	return errors.Is(err, shared.ErrDataAccess)
}

func accessDenied(_ context.Context, req *Request) (*View, error) {
	v := newView(req.Page, "", nil)
	v.Template = "denied"
	v.Status = http.StatusForbidden
	return v, nil
}

type comingSoonData struct {
	Message string
	Planned []string
	Status  string
}

func comingSoon(_ context.Context, req *Request) (*View, error) {
	data := comingSoonData{}
	switch req.Page {
	case CaseStudies:
		data.Message = "Coming soon. AI-generated case studies will appear here when the case study workflow is activated."
		data.Planned = []string{
			"AI-generated case study drafts from high-quality calls (quality >= 70)",
			"Review and approve workflow",
			"Export as Markdown",
		}
		data.Status = "Use Quote Bank to find content-worthy calls in the meantime."
	case Clusters:
		data.Message = "Coming soon. Monthly call pattern discovery will appear here when the clustering workflow is activated."
		data.Planned = []string{
			"Semantic clusters of similar calls",
			"Common themes, quotes and content opportunities per cluster",
			"Drill-down into cluster members",
		}
		data.Status = "Embedding infrastructure is ready; the clustering workflow is deferred."
	}

	v := newView(req.Page, "", data)
	v.Template = "stub"
	return v, nil
}

func notFound(_ context.Context, req *Request) (*View, error) {
	v := newView(req.Page, "", nil)
	v.Title = "Not Found"
	v.Template = "notfound"
	v.Status = http.StatusNotFound
	return v, nil
}
