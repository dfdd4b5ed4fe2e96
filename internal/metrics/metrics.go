package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	InvitationsSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "yeloe_invitations_sent_total",
		Help: "Number of project invitations created.",
	})

	InvitationsAccepted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "yeloe_invitations_accepted_total",
		Help: "Number of project invitations accepted.",
	})

	InvitationsDeclined = promauto.NewCounter(prometheus.CounterOpts{
		Name: "yeloe_invitations_declined_total",
		Help: "Number of project invitations declined.",
	})

	NotificationsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "yeloe_notifications_created_total",
		Help: "Number of user notifications written.",
	})

	EmailsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "yeloe_emails_sent_total",
		Help: "Outbound emails by result.",
	}, []string{"result"})
)
