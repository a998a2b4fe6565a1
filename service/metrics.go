package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	viewsOpened = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_views_opened_total",
		Help: "The total number of browsing views opened",
	}, []string{"kind"})
	viewsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "storefront_views_active",
		Help: "The number of browsing views currently open",
	})
	viewsEvicted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storefront_views_evicted_total",
		Help: "The total number of idle browsing views closed by the sweeper",
	})
	filterCommits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_filter_commits_total",
		Help: "The total number of committed filter selections",
	}, []string{"kind", "facet"})
	rotationsStarted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storefront_rotations_started_total",
		Help: "The total number of image rotations started",
	})
	viewMoreNavigations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_view_more_total",
		Help: "The total number of view-more navigations",
	}, []string{"category"})
	lookbooksRendered = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storefront_lookbooks_rendered_total",
		Help: "The total number of lookbook PDFs rendered",
	})
	contactMessages = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_contact_messages_total",
		Help: "The total number of contact form submissions",
	}, []string{"result"})
)

// ObserveCommit records a committed filter selection
func ObserveCommit(kind, facet string) {
	filterCommits.WithLabelValues(kind, facet).Inc()
}

// ObserveRotation records a started image rotation
func ObserveRotation() {
	rotationsStarted.Inc()
}
