package http

import (
	"net/http"
	"sort"
	"strconv"
	"sync"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
)

type requestKey struct {
	route  string
	method string
	status int
}

// Metrics counts served requests and issued grades and exposes them in the
// Prometheus text format.
type Metrics struct {
	mu       sync.Mutex
	requests map[requestKey]float64
	grades   map[string]float64
}

func NewMetrics() *Metrics {
	return &Metrics{
		requests: make(map[requestKey]float64),
		grades:   make(map[string]float64),
	}
}

func (m *Metrics) observeRequest(route, method string, status int) {
	m.mu.Lock()
	m.requests[requestKey{route: route, method: method, status: status}]++
	m.mu.Unlock()
}

func (m *Metrics) observeGrade(grade string) {
	m.mu.Lock()
	m.grades[grade]++
	m.mu.Unlock()
}

// Instrument records every request under the mux pattern that served it,
// which keeps path parameters out of the label set.
func (m *Metrics) Instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)

		if rec.status == 0 {
			rec.status = http.StatusOK
		}
		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		m.observeRequest(route, r.Method, rec.status)
	})
}

// ServeHTTP writes the current counters.
func (m *Metrics) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	w.Header().Set("Content-Type", string(expfmt.NewFormat(expfmt.TypeTextPlain)))
	for _, mf := range m.families() {
		if len(mf.Metric) == 0 {
			continue
		}
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return
		}
	}
}

func (m *Metrics) families() []*dto.MetricFamily {
	m.mu.Lock()
	defer m.mu.Unlock()

	requests := &dto.MetricFamily{
		Name: ptr("capstack_http_requests_total"),
		Help: ptr("HTTP requests served, by route, method and status."),
		Type: dto.MetricType_COUNTER.Enum(),
	}
	for k, v := range m.requests {
		requests.Metric = append(requests.Metric, counter(v,
			label("method", k.method),
			label("route", k.route),
			label("status", strconv.Itoa(k.status)),
		))
	}

	grades := &dto.MetricFamily{
		Name: ptr("capstack_health_scores_total"),
		Help: ptr("Health scores issued, by grade."),
		Type: dto.MetricType_COUNTER.Enum(),
	}
	for g, v := range m.grades {
		grades.Metric = append(grades.Metric, counter(v, label("grade", g)))
	}

	out := []*dto.MetricFamily{requests, grades}
	for _, mf := range out {
		sort.Slice(mf.Metric, func(i, j int) bool {
			return labelString(mf.Metric[i]) < labelString(mf.Metric[j])
		})
	}
	return out
}

func counter(v float64, labels ...*dto.LabelPair) *dto.Metric {
	return &dto.Metric{Label: labels, Counter: &dto.Counter{Value: ptr(v)}}
}

func label(name, value string) *dto.LabelPair {
	return &dto.LabelPair{Name: ptr(name), Value: ptr(value)}
}

func labelString(m *dto.Metric) string {
	var s string
	for _, lp := range m.GetLabel() {
		s += lp.GetName() + "=" + lp.GetValue() + ","
	}
	return s
}

func ptr[T any](v T) *T { return &v }
