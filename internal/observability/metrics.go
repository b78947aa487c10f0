package observability

import "github.com/prometheus/client_golang/prometheus"

var (
	signupCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "activity_registry",
		Name:      "signups_total",
		Help:      "Number of successful activity signups.",
	}, []string{"activity"})

	unregisterCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "activity_registry",
		Name:      "unregistrations_total",
		Help:      "Number of participants removed from activities.",
	}, []string{"activity"})

	rejectionCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "activity_registry",
		Name:      "rejections_total",
		Help:      "Signup and unregister requests rejected by the registry, labeled by error kind.",
	}, []string{"operation", "kind"})
)

func init() {
	prometheus.MustRegister(signupCounter, unregisterCounter, rejectionCounter)
}

// RecordSignup counts a successful signup.
func RecordSignup(activity string) {
	signupCounter.WithLabelValues(activity).Inc()
}

// RecordUnregistration counts a successful unregister.
func RecordUnregistration(activity string) {
	unregisterCounter.WithLabelValues(activity).Inc()
}

// RecordRejection counts a failed registry operation.
func RecordRejection(operation, kind string) {
	rejectionCounter.WithLabelValues(operation, kind).Inc()
}

// SignupCount exposes the signup counter for an activity.
func SignupCount(activity string) prometheus.Counter {
	return signupCounter.WithLabelValues(activity)
}

// UnregistrationCount exposes the unregister counter for an activity.
func UnregistrationCount(activity string) prometheus.Counter {
	return unregisterCounter.WithLabelValues(activity)
}

// RejectionCount exposes the rejection counter for an operation and kind.
func RejectionCount(operation, kind string) prometheus.Counter {
	return rejectionCounter.WithLabelValues(operation, kind)
}
