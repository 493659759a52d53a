package http

import (
	"github.com/go-chi/chi/v5"

	"github.com/classkit/gradebook/internal/auth"
	"github.com/classkit/gradebook/internal/store"
)

// Mount attaches the roster API to r. Reads are public; anything that
// mutates a roster sits behind the JWT middleware.
func Mount(r chi.Router, st store.Store, authSvc *auth.AuthService) {
	r.Post("/auth/login", auth.LoginHandler(authSvc))

	r.Get("/rosters", ListRostersHandler(st))
	r.Get("/rosters/{rosterID}", GetRosterHandler(st))
	r.Get("/rosters/{rosterID}/results", GetResultsHandler(st))
	r.Get("/rosters/{rosterID}/export", ExportCSVHandler(st))

	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(authSvc))

		pr.Put("/rosters/{rosterID}", PutRosterHandler(st))
		pr.Delete("/rosters/{rosterID}", DeleteRosterHandler(st))

		pr.Post("/rosters/{rosterID}/students", AddStudentHandler(st))
		pr.Delete("/rosters/{rosterID}/students/{index}", RemoveStudentHandler(st))
		pr.Put("/rosters/{rosterID}/students/{index}/scores", SetScoresHandler(st))

		pr.Post("/rosters/{rosterID}/subjects", AddSubjectHandler(st))
		pr.Delete("/rosters/{rosterID}/subjects/{subject}", RemoveSubjectHandler(st))

		pr.Post("/rosters/{rosterID}/import", ImportCSVHandler(st))
	})
}
