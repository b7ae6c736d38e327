package usecase

import (
	"sort"

	"MorningScan/internal/domain/models"
)

// RankArticles orders scored articles by relevance score descending and
// assigns a 1-based rank. Ties keep their original relative order.
func RankArticles(items []*models.ScoredArticle) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Classification.RelevanceScore > items[j].Classification.RelevanceScore
	})
	for i, it := range items {
		it.Rank = i + 1
	}
}
