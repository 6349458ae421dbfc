package web

import (
	"github.com/desertthunder/walkerbrain/internal/models"
	"github.com/desertthunder/walkerbrain/internal/server"
)

// Page identifies one dashboard view.
type Page int

const (
	QuoteBank Page = iota
	CallSearch
	TranscriptSearch
	TodaysHighlights
	SignalsObjections
	TestimonialPipeline
	DataExplorer
	PipelineStatus
	CaseStudies
	Clusters
	AngleBank

	// NoPage is the page of a request whose slug matched nothing.
	NoPage Page = -1
)

// Pages lists every page in navigation order.
func Pages() []Page {
	return []Page{
		AngleBank,
		QuoteBank,
		CallSearch,
		TranscriptSearch,
		TodaysHighlights,
		SignalsObjections,
		TestimonialPipeline,
		DataExplorer,
		PipelineStatus,
		CaseStudies,
		Clusters,
	}
}

func (p Page) Label() string {
	switch p {
	case QuoteBank:
		return "Quote Bank"
	case CallSearch:
		return "Call Search"
	case TranscriptSearch:
		return "Transcript Search"
	case TodaysHighlights:
		return "Today's Highlights"
	case SignalsObjections:
		return "Signals & Objections"
	case TestimonialPipeline:
		return "Testimonial Pipeline"
	case DataExplorer:
		return "Data Explorer"
	case PipelineStatus:
		return "Pipeline Status"
	case CaseStudies:
		return "Case Studies"
	case Clusters:
		return "Clusters"
	case AngleBank:
		return "Angle Bank"
	default:
		return ""
	}
}

// Slug is the page's path segment under /p/.
func (p Page) Slug() string {
	switch p {
	case QuoteBank:
		return "quotes"
	case CallSearch:
		return "calls"
	case TranscriptSearch:
		return "transcripts"
	case TodaysHighlights:
		return "highlights"
	case SignalsObjections:
		return "signals"
	case TestimonialPipeline:
		return "testimonials"
	case DataExplorer:
		return "explorer"
	case PipelineStatus:
		return "status"
	case CaseStudies:
		return "case-studies"
	case Clusters:
		return "clusters"
	case AngleBank:
		return "angles"
	default:
		return ""
	}
}

// Path is the page's URL.
func (p Page) Path() string { return "/p/" + p.Slug() }

func (p Page) String() string { return p.Label() }

// AdminOnly reports whether the page requires the admin role.
func (p Page) AdminOnly() bool { return p == PipelineStatus }

// Stub reports whether the page is a placeholder without data.
func (p Page) Stub() bool { return p == CaseStudies || p == Clusters }

// ParsePage looks a page up by slug.
func ParsePage(slug string) (Page, bool) {
	for _, p := range Pages() {
		if p.Slug() == slug {
			return p, true
		}
	}
	return 0, false
}

// Visible reports whether p is listed in the navigation for sess.
func (p Page) Visible(sess server.SessionContext) bool {
	return !p.AdminOnly() || sess.Role == models.RoleAdmin
}

// Resolve picks the renderer for p. Admin-only pages resolve to the access-denied renderer
// unless sess carries the admin role; the result depends only on p and the role.
func (a *App) Resolve(sess server.SessionContext, p Page) Renderer {
	switch p {
	case QuoteBank:
		return a.quoteBank
	case CallSearch:
		return a.callSearch
	case TranscriptSearch:
		return a.transcriptSearch
	case TodaysHighlights:
		return a.highlights
	case SignalsObjections:
		return a.signals
	case TestimonialPipeline:
		return a.testimonials
	case DataExplorer:
		return a.explorer
	case PipelineStatus:
		if sess.Role != models.RoleAdmin {
			return accessDenied
		}
		return a.pipelineStatus
	case CaseStudies, Clusters:
		return comingSoon
	case AngleBank:
		return a.angleBank
	default:
		return notFound
	}
}
