// Package metrics 定义投票系统的 Prometheus 指标。
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics 汇总了业务计数器。所有方法对 nil 接收者安全，便于在测试中省略。
type Metrics struct {
	Registry *prometheus.Registry

	votesCast       prometheus.Counter
	voteRejections  *prometheus.CounterVec
	logins          *prometheus.CounterVec
	registrations   prometheus.Counter
	tallyMismatches prometheus.Gauge
}

// New 在独立的 Registry 上注册全部指标，并附带 Go 运行时与进程指标
func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(registry)
	return &Metrics{
		Registry: registry,
		votesCast: factory.NewCounter(prometheus.CounterOpts{
			Name: "voting_votes_cast_total",
			Help: "Number of votes successfully recorded",
		}),
		voteRejections: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "voting_vote_rejections_total",
			Help: "Number of rejected vote attempts by reason",
		}, []string{"reason"}),
		logins: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "voting_logins_total",
			Help: "Login attempts by result",
		}, []string{"result"}),
		registrations: factory.NewCounter(prometheus.CounterOpts{
			Name: "voting_registrations_total",
			Help: "Number of users registered",
		}),
		tallyMismatches: factory.NewGauge(prometheus.GaugeOpts{
			Name: "voting_tally_discrepancies",
			Help: "Discrepancies found by the last tally audit",
		}),
	}
}

func (m *Metrics) VoteCast() {
	if m == nil {
		return
	}
	m.votesCast.Inc()
}

// VoteRejected 记录一次被拒绝的投票，reason 如 already_voted、candidate_not_found
func (m *Metrics) VoteRejected(reason string) {
	if m == nil {
		return
	}
	m.voteRejections.WithLabelValues(reason).Inc()
}

func (m *Metrics) Login(success bool) {
	if m == nil {
		return
	}
	result := "failure"
	if success {
		result = "success"
	}
	m.logins.WithLabelValues(result).Inc()
}

func (m *Metrics) Registered() {
	if m == nil {
		return
	}
	m.registrations.Inc()
}

func (m *Metrics) TallyDiscrepancies(n int) {
	if m == nil {
		return
	}
	m.tallyMismatches.Set(float64(n))
}
