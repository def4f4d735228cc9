package service

import "github.com/prometheus/client_golang/prometheus"

var (
	signupsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "warbler_signups_total", Help: "Accounts created",
	})
	accountsDeletedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "warbler_accounts_deleted_total", Help: "Accounts deleted with their messages and edges",
	})
	messagesCreatedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "warbler_messages_created_total", Help: "Messages posted",
	})
	likeTogglesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "warbler_like_toggles_total", Help: "Like toggles by outcome",
	}, []string{"result"})
	followChangesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "warbler_follow_changes_total", Help: "Follow graph mutations",
	}, []string{"op"})
	loginsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "warbler_logins_total", Help: "Login attempts by outcome",
	}, []string{"outcome"})
)

func init() {
	prometheus.MustRegister(signupsTotal, accountsDeletedTotal, messagesCreatedTotal,
		likeTogglesTotal, followChangesTotal, loginsTotal)
}
