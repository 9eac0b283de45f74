package domain

import "sort"

// DashboardRecent is how many recent posts the dashboard lists.
const DashboardRecent = 4

// Summary aggregates a list of posts for the dashboard.
type Summary struct {
	Posts    int
	Comments int
	Likes    int
	Recent   []Post // newest first
}

// Summarize totals posts, comments and likes and picks the recent newest
// posts by creation time. posts is not modified.
func Summarize(posts []Post, recent int) Summary {
	s := Summary{Posts: len(posts)}
	for _, p := range posts {
		s.Comments += len(p.Comments)
		s.Likes += p.Likes
	}

	sorted := make([]Post, len(posts))
	copy(sorted, posts)
	SortPosts(sorted, SortNewest)

	if recent < 0 {
		recent = 0
	}
	if recent > len(sorted) {
		recent = len(sorted)
	}
	s.Recent = sorted[:recent]
	return s
}

// SortOrder is a post list ordering.
type SortOrder string

const (
	SortNewest SortOrder = "new"
	SortOldest SortOrder = "old"
	SortLikes  SortOrder = "likes"
)

// SortOrders lists the orderings in cycle order.
var SortOrders = []SortOrder{SortNewest, SortOldest, SortLikes}

// SortPosts orders posts in place. Ties keep their existing order.
func SortPosts(posts []Post, order SortOrder) {
	switch order {
	case SortOldest:
		sort.SliceStable(posts, func(i, j int) bool {
			return posts[i].CreatedAt.Before(posts[j].CreatedAt)
		})
	case SortLikes:
		sort.SliceStable(posts, func(i, j int) bool {
			return posts[i].Likes > posts[j].Likes
		})
	default:
		sort.SliceStable(posts, func(i, j int) bool {
			return posts[i].CreatedAt.After(posts[j].CreatedAt)
		})
	}
}
