// Package web renders the Walker Brain dashboard.
//
// # Pages
//
// Each [Page] has a slug under /p/ and a renderer resolved per session by [App.Resolve]. Pipeline
// Status is admin-only; other roles get the restricted view instead of its data. Unknown slugs
// render the not-found page.
//
// A renderer loads its sections concurrently with [tasks.Run] and turns the records into a [View]:
// metric cards, [Panel] charts, cards and tables. A section failure degrades only that section. A
// renderer that returns [shared.ErrDataAccess] is replaced by the failed view and its banner.
//
// # Templates
//
// Templates are embedded and parsed once per page file, each set carrying layout.html and
// partials.html. Charts are Plotly figures serialized into a data-figure attribute and drawn by
// static/app.js.
//
// # Filters
//
// Filter state lives in the query string so every view is a shareable GET. [NewPagination] builds
// previous and next links from the current query.
package web
