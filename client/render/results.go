package render

// Static messages rendered into the results container.
const (
	NoMatchesHTML   = "<p>No matches found</p>"
	UnavailableHTML = "<p>Search is temporarily unavailable. Please try again later.</p>"
)

// DefaultResultTemplate is used when the page carries no inline template.
const DefaultResultTemplate = `<div class="search-result" id="summary-${key}">
  <h4><a href="${link}">${title}</a></h4>
  <p>${snippet}</p>
  ${isset tags}<p class="search-tags">Tags: ${tags}</p>${end}
</div>
`
