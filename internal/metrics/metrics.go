package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BookmarkCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "app_bookmark_created_total",
		Help: "Total number of bookmarks created.",
	})
	BookmarkUpdatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "app_bookmark_updated_total",
		Help: "Total number of bookmark field updates.",
	})
	BookmarkDeletedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "app_bookmark_deleted_total",
		Help: "Total number of bookmarks deleted.",
	})
	SharingUpdatedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "app_sharing_updated_total",
		Help: "Total number of sharing setting changes by resulting visibility.",
	}, []string{"visibility"})
	AccessDeniedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "app_access_denied_total",
		Help: "Total number of requests denied by the visibility policy.",
	}, []string{"operation"})

	TagRenamedBookmarksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "app_tag_renamed_bookmarks_total",
		Help: "Total number of bookmarks touched by tag renames.",
	})
	TagDeletedBookmarksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "app_tag_deleted_bookmarks_total",
		Help: "Total number of bookmarks touched by tag deletions.",
	})
)
