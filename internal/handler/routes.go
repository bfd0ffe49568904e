package handler

import (
	"net/http"

	"github.com/jcabrera-io/wayfarer/internal/domain"
	"github.com/jcabrera-io/wayfarer/internal/service"
)

// RegisterRoutes sets up all HTTP routes on the given mux. Place mutations
// sit behind RequireAuth; reads, signup, and login are public.
func RegisterRoutes(mux *http.ServeMux, auth *service.AuthService, users *service.UserService, places *service.PlaceService, files domain.FileStore) {
	uh := NewUserHandler(auth, users, files)
	ph := NewPlaceHandler(places, files)
	ih := NewImageHandler(files)

	mux.HandleFunc("GET /api/users", uh.HandleGetUsers)
	mux.HandleFunc("POST /api/users/signup", uh.HandleSignup)
	mux.HandleFunc("POST /api/users/login", uh.HandleLogin)

	mux.HandleFunc("GET /api/places/{pid}", ph.HandleGetPlace)
	mux.HandleFunc("GET /api/places/user/{uid}", ph.HandleListUserPlaces)
	mux.Handle("POST /api/places", RequireAuth(auth, http.HandlerFunc(ph.HandleCreatePlace)))
	mux.Handle("PATCH /api/places/{pid}", RequireAuth(auth, http.HandlerFunc(ph.HandleUpdatePlace)))
	mux.Handle("DELETE /api/places/{pid}", RequireAuth(auth, http.HandlerFunc(ph.HandleDeletePlace)))

	mux.HandleFunc("GET /uploads/images/{key}", ih.HandleGetImage)
	mux.HandleFunc("GET /healthz", HandleHealthz)
}
