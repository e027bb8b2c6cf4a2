// Package aggregate folds question snapshots into the derived views served by
// the tag, hot-question, statistics and level routes. Every function is pure;
// nothing is cached or persisted.
package aggregate

import (
	"slices"
	"strings"

	"github.com/developersajeeb/code-stack-server/models"
)

// TagCount is one row of the tag histogram.
type TagCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// NormalizeTag trims and lowercases a tag.
func NormalizeTag(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}

// TagHistogram counts normalized tags across questions, in first-seen order.
// Every tag is counted, blank ones included, so the counts always sum to the
// total length of the tag lists.
func TagHistogram(questions []models.Question) []TagCount {
	index := make(map[string]int)
	out := []TagCount{}
	for _, q := range questions {
		for _, raw := range q.Selected {
			tag := NormalizeTag(raw)
			if i, ok := index[tag]; ok {
				out[i].Count++
				continue
			}
			index[tag] = len(out)
			out = append(out, TagCount{Name: tag, Count: 1})
		}
	}
	return out
}

// SortedTagHistogram is TagHistogram ordered by descending count. Equal counts
// keep first-seen order.
func SortedTagHistogram(questions []models.Question) []TagCount {
	hist := TagHistogram(questions)
	slices.SortStableFunc(hist, func(a, b TagCount) int {
		return b.Count - a.Count
	})
	return hist
}

// TopTags returns at most n entries of SortedTagHistogram.
func TopTags(questions []models.Question, n int) []TagCount {
	hist := SortedTagHistogram(questions)
	if n >= 0 && len(hist) > n {
		hist = hist[:n]
	}
	return hist
}
