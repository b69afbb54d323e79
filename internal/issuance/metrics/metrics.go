package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	InvitationsCreated *prometheus.CounterVec
	OffersSent         prometheus.Counter
	CredentialsIssued  prometheus.Counter
	CredentialsRevoked prometheus.Counter
	Resends            *prometheus.CounterVec
	WebhookEvents      *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		InvitationsCreated: f.NewCounterVec(prometheus.CounterOpts{
			Name: "controller_invitations_created_total",
			Help: "Invitations created, by outcome (ok or ok_with_warning)",
		}, []string{"outcome"}),
		OffersSent: f.NewCounter(prometheus.CounterOpts{
			Name: "controller_credential_offers_sent_total",
			Help: "Credential offers accepted by the agent",
		}),
		CredentialsIssued: f.NewCounter(prometheus.CounterOpts{
			Name: "controller_credentials_issued_total",
			Help: "Issued credentials recorded locally",
		}),
		CredentialsRevoked: f.NewCounter(prometheus.CounterOpts{
			Name: "controller_credentials_revoked_total",
			Help: "Credentials revoked on the agent and removed locally",
		}),
		Resends: f.NewCounterVec(prometheus.CounterOpts{
			Name: "controller_credential_resends_total",
			Help: "Credential resend attempts, by result",
		}, []string{"result"}),
		WebhookEvents: f.NewCounterVec(prometheus.CounterOpts{
			Name: "controller_webhook_events_total",
			Help: "Webhook deliveries, by topic and result (handled, ignored, duplicate, anomaly, failed)",
		}, []string{"topic", "result"}),
	}
}

func (m *Metrics) IncrementInvitation(outcome string) {
	if m == nil {
		return
	}
	m.InvitationsCreated.WithLabelValues(outcome).Inc()
}

func (m *Metrics) IncrementOfferSent() {
	if m == nil {
		return
	}
	m.OffersSent.Inc()
}

func (m *Metrics) IncrementIssued() {
	if m == nil {
		return
	}
	m.CredentialsIssued.Inc()
}

func (m *Metrics) IncrementRevoked() {
	if m == nil {
		return
	}
	m.CredentialsRevoked.Inc()
}

func (m *Metrics) IncrementResend(result string) {
	if m == nil {
		return
	}
	m.Resends.WithLabelValues(result).Inc()
}

func (m *Metrics) IncrementWebhook(topic, result string) {
	if m == nil {
		return
	}
	m.WebhookEvents.WithLabelValues(topic, result).Inc()
}
