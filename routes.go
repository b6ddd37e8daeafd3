package main

import (
	"net/http"

	"github.com/sirupsen/logrus"
)

// Blog wires the HTTP API to its stores.
type Blog struct {
	store      *Store
	auth       *Auth
	covers     coverStore
	log        *logrus.Logger
	corsOrigin string
}

func NewBlog(store *Store, auth *Auth, covers coverStore, log *logrus.Logger, corsOrigin string) *Blog {
	return &Blog{
		store:      store,
		auth:       auth,
		covers:     covers,
		log:        log,
		corsOrigin: corsOrigin,
	}
}

func (b *Blog) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.Handle("GET /uploads/", b.covers.Handler())

	mux.HandleFunc("POST /register", b.Register)
	mux.HandleFunc("POST /login", b.Login)
	mux.HandleFunc("GET /profile", b.Profile)
	mux.HandleFunc("POST /logout", b.Logout)

	mux.HandleFunc("POST /posts/create", b.CreatePost)
	mux.HandleFunc("GET /posts", b.ListPosts)
	mux.HandleFunc("GET /posts/{id}", b.GetPost)
	mux.HandleFunc("PUT /posts/{id}", b.UpdatePost)
	mux.HandleFunc("DELETE /posts/{id}", b.DeletePost)

	return logRequests(b.log, cors(b.corsOrigin, mux))
}

// cors allows the single configured frontend origin, with credentials, and
// answers preflight requests itself.
func cors(origin string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", origin)
		h.Set("Access-Control-Allow-Credentials", "true")
		h.Add("Vary", "Origin")

		if r.Method == http.MethodOptions {
			h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			h.Set("Access-Control-Allow-Headers", "Content-Type")
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
