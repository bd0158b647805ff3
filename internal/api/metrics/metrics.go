// Package metrics defines the custom Prometheus metrics of the news API. It
// is the single source of truth for metric names, labels and help strings.
//
// Build one Metrics per registry with New; the router exposes the registry
// at /metrics next to the HTTP metrics from echoprometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "news"

// Result label values.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

type Metrics struct {
	// ArticlesCreatedTotal counts created articles.
	// Label:
	//   - category: the article category (e.g. "sports")
	ArticlesCreatedTotal *prometheus.CounterVec

	// ArticleViewsTotal counts article reads that incremented a view counter.
	ArticleViewsTotal prometheus.Counter

	// ArticleLikesTotal counts accepted likes.
	ArticleLikesTotal prometheus.Counter

	// AuthAttemptsTotal counts registrations and logins.
	// Labels:
	//   - action: "register" or "login"
	//   - result: "success" or "failure"
	AuthAttemptsTotal *prometheus.CounterVec

	// AdminActionsTotal counts user administration writes.
	// Labels:
	//   - action: "update_role" or "toggle_status"
	//   - result: "success" or "failure"
	AdminActionsTotal *prometheus.CounterVec

	// RateLimitedTotal counts requests rejected by a rate limiter.
	// Label:
	//   - limiter: the limiter name (e.g. "auth", "like")
	RateLimitedTotal *prometheus.CounterVec
}

// New creates all metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		ArticlesCreatedTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "articles_created_total",
			Help:      "Total number of articles created, by category.",
		}, []string{"category"}),
		ArticleViewsTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "article_views_total",
			Help:      "Total number of counted article views.",
		}),
		ArticleLikesTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "article_likes_total",
			Help:      "Total number of article likes.",
		}),
		AuthAttemptsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auth_attempts_total",
			Help:      "Total number of registration and login attempts, by outcome.",
		}, []string{"action", "result"}),
		AdminActionsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "admin_actions_total",
			Help:      "Total number of user administration writes, by outcome.",
		}, []string{"action", "result"}),
		RateLimitedTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limited_total",
			Help:      "Total number of requests rejected by a rate limiter.",
		}, []string{"limiter"}),
	}
}

// Result maps an error to the result label.
func Result(err error) string {
	if err != nil {
		return ResultFailure
	}
	return ResultSuccess
}
