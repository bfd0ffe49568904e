package handler

import (
	"net/http"
	"strings"

	"github.com/jcabrera-io/wayfarer/internal/domain"
	"github.com/jcabrera-io/wayfarer/internal/service"
)

// PlaceHandler handles place read and mutation requests. Mutating routes are
// registered behind RequireAuth, so CallerFromContext is always set there.
type PlaceHandler struct {
	places *service.PlaceService
	files  domain.FileStore
}

// NewPlaceHandler creates a new PlaceHandler.
func NewPlaceHandler(places *service.PlaceService, files domain.FileStore) *PlaceHandler {
	return &PlaceHandler{places: places, files: files}
}

// HandleGetPlace returns a single place.
// GET /api/places/{pid}
// Response: {"place": {...}}
func (h *PlaceHandler) HandleGetPlace(w http.ResponseWriter, r *http.Request) {
	place, err := h.places.GetByID(r.Context(), r.PathValue("pid"))
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"place": toPlaceDTO(place)})
}

// HandleListUserPlaces returns the places created by a user.
// GET /api/places/user/{uid}
// Response: {"places": [...]}
func (h *PlaceHandler) HandleListUserPlaces(w http.ResponseWriter, r *http.Request) {
	places, err := h.places.ListByOwner(r.Context(), r.PathValue("uid"))
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"places": toPlaceDTOs(places)})
}

// HandleCreatePlace creates a place for the authenticated caller. Accepts
// multipart form data with an optional "image" file, or a plain JSON body.
// POST /api/places
// Response: 201 {"place": {...}}
func (h *PlaceHandler) HandleCreatePlace(w http.ResponseWriter, r *http.Request) {
	var in service.PlaceInput

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxImageSize + 1<<20); err != nil {
			writeMessage(w, http.StatusBadRequest, "Invalid form data.")
			return
		}
		in.Title = r.FormValue("title")
		in.Description = r.FormValue("description")
		in.Address = r.FormValue("address")

		key, err := saveUploadedImage(r, h.files)
		if err != nil {
			respondError(w, err)
			return
		}
		in.ImageKey = key
	} else {
		var req struct {
			Title       string `json:"title"`
			Description string `json:"description"`
			Address     string `json:"address"`
		}
		if err := readJSON(r, &req); err != nil {
			writeMessage(w, http.StatusBadRequest, "Invalid request body.")
			return
		}
		in.Title, in.Description, in.Address = req.Title, req.Description, req.Address
	}

	place, err := h.places.Create(r.Context(), in, CallerFromContext(r.Context()))
	if err != nil {
		// The image blob was stored before the linked write; drop it so a
		// failed create leaves nothing behind.
		discardUploadedImage(r, h.files, in.ImageKey)
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"place": toPlaceDTO(place)})
}

// HandleUpdatePlace updates a place's title and description.
// PATCH /api/places/{pid}
// Response: {"place": {...}}
func (h *PlaceHandler) HandleUpdatePlace(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	}
	if err := readJSON(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	place, err := h.places.Update(r.Context(), r.PathValue("pid"), req.Title, req.Description, CallerFromContext(r.Context()))
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"place": toPlaceDTO(place)})
}

// HandleDeletePlace deletes a place.
// DELETE /api/places/{pid}
// Response: {"message": "Deleted place."}
func (h *PlaceHandler) HandleDeletePlace(w http.ResponseWriter, r *http.Request) {
	if err := h.places.Delete(r.Context(), r.PathValue("pid"), CallerFromContext(r.Context())); err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Deleted place."})
}
