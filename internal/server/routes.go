package server

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter wires the API routes with request logging and panic recovery.
func NewRouter(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/search", h.Search)
		r.Get("/tracks/{id}/audio", h.TrackAudio)
		r.Get("/tracks/{id}/lyrics", h.TrackLyrics)
		r.Post("/tracks/{id}/download", h.DownloadTrack)
		r.Get("/tracks/{id}/download", h.DownloadStatus)
		r.Delete("/tracks/{id}/download", h.DeleteDownload)

		r.Post("/favorites/toggle", h.ToggleFavorite)
		r.Get("/favorites", h.ListFavorites)
		r.Get("/favorites/status", h.FavoriteStatus)

		r.Post("/playback/{action}", h.PlaybackAction)
		r.Get("/playback", h.PlaybackState)
	})

	return r
}
