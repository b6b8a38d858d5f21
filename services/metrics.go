package services

import "github.com/prometheus/client_golang/prometheus"

var NotificationsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "knitcraft",
		Name:      "notifications_total",
		Help:      "Outbound notifications by channel, kind and result",
	},
	[]string{"channel", "kind", "result"},
)

func recordNotification(channel, kind string, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	NotificationsTotal.WithLabelValues(channel, kind, result).Inc()
}
