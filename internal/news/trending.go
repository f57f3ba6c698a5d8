package news

import "sort"

// TopTrending returns the most viewed articles, highest first. The input
// slice is left untouched.
func TopTrending(articles []Article, limit int) []Article {
	if limit <= 0 {
		limit = 5
	}

	ranked := make([]Article, len(articles))
	copy(ranked, articles)

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].ViewCount > ranked[j].ViewCount
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
