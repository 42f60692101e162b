package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "schoolvax"

var (
	HTTPRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Name: "http_requests_total", Help: "HTTP requests by route, method and status",
	}, []string{"route", "method", "status"})
	HTTPDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace, Name: "http_request_duration_seconds", Help: "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "method"})

	DrivesCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace, Name: "drives_created_total", Help: "Vaccination drives created",
	})
	SchedulingConflicts = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace, Name: "scheduling_conflicts_total", Help: "Drive writes rejected by the scheduling guard",
	})
	DriveTransitions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Name: "drive_transitions_total", Help: "Drive status transitions",
	}, []string{"from", "to"})
	AttendanceUpdates = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Name: "attendance_updates_total", Help: "Attendance updates by new value",
	}, []string{"attended"})
	DosesRecorded = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace, Name: "doses_recorded_total", Help: "Vaccine doses recorded on students",
	})
	StudentUpdateFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace, Name: "attendance_student_update_failures_total",
		Help: "Student-side attendance updates that failed after the drive side was committed",
	})
	StudentsImported = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Name: "students_imported_total", Help: "Roster import rows by outcome",
	}, []string{"outcome"})
	DBPing = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace, Name: "db_ping_seconds", Help: "DB ping latency",
		Buckets: prometheus.DefBuckets,
	})
)

func init() {
	prometheus.MustRegister(
		HTTPRequests, HTTPDuration,
		DrivesCreated, SchedulingConflicts, DriveTransitions,
		AttendanceUpdates, DosesRecorded, StudentUpdateFailures,
		StudentsImported, DBPing,
	)
}

func Handler() http.Handler { return promhttp.Handler() }

func ObserveDBPing(d time.Duration) { DBPing.Observe(d.Seconds()) }
