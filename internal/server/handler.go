// Package server exposes the player flows over a local JSON HTTP API so
// any UI shell can drive them.
package server

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/orpheus-player/orpheus/internal/domain"
	"github.com/orpheus-player/orpheus/internal/library"
	"github.com/orpheus-player/orpheus/internal/logger"
	"github.com/orpheus-player/orpheus/internal/lyrics"
	"github.com/orpheus-player/orpheus/internal/metadata"
	"github.com/orpheus-player/orpheus/internal/player"
	"github.com/orpheus-player/orpheus/internal/resolver"
)

// audioResolver lets tests substitute a canned resolution.
type audioResolver interface {
	GetAudioURL(ctx context.Context, track *domain.Track) (string, error)
}

// trackDownloader fetches a resolved stream into the offline cache.
type trackDownloader interface {
	Download(ctx context.Context, track *domain.Track, streamURL string) (string, error)
}

type Handler struct {
	Provider   metadata.Provider
	Library    *library.Store
	Resolver   audioResolver
	Session    *player.Session
	Lyrics     *lyrics.Client
	Downloader trackDownloader
	Logger     *logger.Logger
}

func NewHandler(provider metadata.Provider, lib *library.Store, res audioResolver, session *player.Session, lyr *lyrics.Client, dl trackDownloader, log *logger.Logger) *Handler {
	if log == nil {
		log = logger.Default()
	}
	return &Handler{
		Provider:   provider,
		Library:    lib,
		Resolver:   res,
		Session:    session,
		Lyrics:     lyr,
		Downloader: dl,
		Logger:     log.WithComponent("http"),
	}
}

// lookupTrack checks the library first, then the catalog.
func (h *Handler) lookupTrack(r *http.Request, id string) (*domain.Track, error) {
	track, err := h.Library.GetTrack(id)
	if err == nil {
		return track, nil
	}
	return h.Provider.GetTrack(r.Context(), id)
}

func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	results, err := h.Provider.Search(r.Context(), query)
	if err != nil {
		h.writeError(w, http.StatusBadGateway, "search failed")
		return
	}
	h.writeJSON(w, http.StatusOK, results)
}

// TrackAudio resolves a playable URL for a track. The track is looked up
// in the library first, then in the catalog. Resolution failure is an
// ordinary 404, not a server error.
func (h *Handler) TrackAudio(w http.ResponseWriter, r *http.Request) {
	track, err := h.lookupTrack(r, chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, http.StatusNotFound, "unknown track")
		return
	}

	url, err := h.Resolver.GetAudioURL(r.Context(), track)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if url == resolver.NotFound {
		h.writeError(w, http.StatusNotFound, "audio not found")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{"url": url})
}

func (h *Handler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	var track domain.Track
	if err := json.NewDecoder(r.Body).Decode(&track); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid track payload")
		return
	}

	favorited, err := h.Library.ToggleFavorite(&track)
	if err != nil {
		h.Logger.Error("toggle favorite failed", "track_id", track.ID, "error", err)
		h.writeError(w, http.StatusInternalServerError, "toggle failed")
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]bool{"favorited": favorited})
}

func (h *Handler) ListFavorites(w http.ResponseWriter, r *http.Request) {
	tracks, err := h.Library.ListFavorites()
	if err != nil {
		h.Logger.Error("list favorites failed", "error", err)
		h.writeError(w, http.StatusInternalServerError, "list failed")
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{"tracks": tracks})
}

func (h *Handler) FavoriteStatus(w http.ResponseWriter, r *http.Request) {
	track := domain.Track{
		ID:          r.URL.Query().Get("id"),
		ExternalURI: r.URL.Query().Get("uri"),
	}
	h.writeJSON(w, http.StatusOK, map[string]bool{"favorite": h.Library.IsFavorite(&track)})
}

func (h *Handler) TrackLyrics(w http.ResponseWriter, r *http.Request) {
	track, err := h.lookupTrack(r, chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, http.StatusNotFound, "unknown track")
		return
	}

	text, err := h.Lyrics.GetLyrics(r.Context(), track)
	if err != nil {
		h.writeError(w, http.StatusBadGateway, "lyrics lookup failed")
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"lyrics": text})
}

// DownloadTrack resolves the track's audio and saves it to the offline
// cache. The work runs inline; a mobile shell polls DownloadStatus.
func (h *Handler) DownloadTrack(w http.ResponseWriter, r *http.Request) {
	track, err := h.lookupTrack(r, chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, http.StatusNotFound, "unknown track")
		return
	}

	url, err := h.Resolver.GetAudioURL(r.Context(), track)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if url == resolver.NotFound {
		h.writeError(w, http.StatusNotFound, "audio not found")
		return
	}

	path, err := h.Downloader.Download(r.Context(), track, url)
	if err != nil {
		h.Logger.Error("download failed", "track_id", track.ID, "error", err)
		h.writeError(w, http.StatusBadGateway, "download failed")
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"file_path": path})
}

func (h *Handler) DownloadStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	dl, err := h.Library.GetDownload(id)
	if err != nil {
		h.Logger.Error("download lookup failed", "track_id", id, "error", err)
		h.writeError(w, http.StatusInternalServerError, "lookup failed")
		return
	}
	if dl == nil {
		h.writeError(w, http.StatusNotFound, "not downloaded")
		return
	}
	h.writeJSON(w, http.StatusOK, dl)
}

func (h *Handler) DeleteDownload(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.Library.DeleteDownload(id); err != nil {
		h.Logger.Error("download delete failed", "track_id", id, "error", err)
		h.writeError(w, http.StatusInternalServerError, "delete failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PlaybackAction drives the session: play, pause, stop, next, previous,
// seek, repeat, queue.
func (h *Handler) PlaybackAction(w http.ResponseWriter, r *http.Request) {
	action := chi.URLParam(r, "action")

	switch action {
	case "play":
		var track domain.Track
		if err := json.NewDecoder(r.Body).Decode(&track); err != nil {
			h.writeError(w, http.StatusBadRequest, "invalid track payload")
			return
		}
		if err := h.Session.Play(r.Context(), &track); err != nil {
			h.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	case "pause":
		if err := h.Session.Pause(); err != nil {
			h.writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
	case "stop":
		if err := h.Session.Stop(); err != nil {
			h.writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
	case "next":
		if err := h.Session.SkipToNext(); err != nil {
			h.writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
	case "previous":
		if err := h.Session.SkipToPrevious(); err != nil {
			h.writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
	case "seek":
		var body struct {
			PositionMs int `json:"position_ms"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			h.writeError(w, http.StatusBadRequest, "invalid seek payload")
			return
		}
		if err := h.Session.SeekTo(body.PositionMs); err != nil {
			h.writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
	case "repeat":
		var body struct {
			Mode domain.RepeatMode `json:"mode"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			h.writeError(w, http.StatusBadRequest, "invalid repeat payload")
			return
		}
		if err := h.Session.SetRepeatMode(body.Mode); err != nil {
			h.writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
	case "queue":
		var body struct {
			TrackIDs []string `json:"track_ids"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			h.writeError(w, http.StatusBadRequest, "invalid queue payload")
			return
		}
		h.Session.SetQueue(body.TrackIDs)
	default:
		h.writeError(w, http.StatusNotFound, "unknown action")
		return
	}

	h.playbackState(w)
}

func (h *Handler) PlaybackState(w http.ResponseWriter, r *http.Request) {
	h.playbackState(w)
}

func (h *Handler) playbackState(w http.ResponseWriter) {
	state := h.Session.State()
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"state":           state,
		"audio_not_found": h.Session.AudioNotFound(),
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.Logger.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
