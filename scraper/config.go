package scraper

import "github.com/pevans/newsportal/portal"

// Selectors are the CSS selectors used to pull articles out of one page.
type Selectors struct {
	Article string `json:"article_selector"`
	Title   string `json:"title_selector"`
	Link    string `json:"link_selector"`
}

// SelectorsFor returns the selectors stored in a portal profile.
func SelectorsFor(p portal.Profile) Selectors {
	return Selectors{
		Article: p.ArticleSelector,
		Title:   p.TitleSelector,
		Link:    p.LinkSelector,
	}
}
