package server

import "github.com/gorilla/mux"

// Router builds the HTTP route table for the app. Used by main and by
// the integration tests so both exercise identical routing.
func (a *App) Router() *mux.Router {
	router := mux.NewRouter().StrictSlash(true)

	router.HandleFunc("/api/users", a.CreateUserHandler).Methods("POST")

	router.HandleFunc("/api/revisions", a.CreateRevisionHandler).Methods("POST")
	router.HandleFunc("/api/revisions/{id}", a.GetRevisionHandler).Methods("GET")
	router.HandleFunc("/api/revisions/{id}", a.UpdateRevisionHandler).Methods("PATCH")
	router.HandleFunc("/api/revisions/{id}/submit", a.SubmitRevisionHandler).Methods("POST")
	router.HandleFunc("/api/revisions/{id}/withdraw", a.WithdrawRevisionHandler).Methods("POST")
	router.HandleFunc("/api/revisions/{id}/decide", a.DecideRevisionHandler).Methods("POST")
	router.HandleFunc("/api/revisions/{id}/escalate", a.EscalateRevisionHandler).Methods("POST")

	router.HandleFunc("/api/queue", a.QueueHandler).Methods("GET")
	router.HandleFunc("/api/queue/insights", a.QueueInsightsHandler).Methods("GET")
	router.HandleFunc("/api/workload", a.WorkloadHandler).Methods("GET")

	return router
}
