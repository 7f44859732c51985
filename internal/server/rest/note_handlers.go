package rest

import (
	"net/http"

	"github.com/dmitrijs2005/notekeeper/internal/server/models"
	"github.com/go-chi/chi/v5"
)

func (s *Server) createNote(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFrom(r.Context())

	var req createNoteRequest
	if !s.decode(w, r, &req) {
		return
	}

	note, err := s.notes.Create(r.Context(), id.UserID, req.input())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, note)
}

func (s *Server) listNotes(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFrom(r.Context())

	q := r.URL.Query()
	list, err := s.notes.List(r.Context(), id.UserID, models.NoteFilter{
		Search:   q.Get("search"),
		Category: q.Get("category"),
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if list == nil {
		list = []*models.Note{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) noteCategories(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFrom(r.Context())

	cats, err := s.notes.Categories(r.Context(), id.UserID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if cats == nil {
		cats = []string{}
	}
	writeJSON(w, http.StatusOK, cats)
}

func (s *Server) exportNotes(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFrom(r.Context())

	export, err := s.notes.Export(r.Context(), id.UserID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, export)
}

func (s *Server) getNote(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFrom(r.Context())

	note, err := s.notes.Get(r.Context(), chi.URLParam(r, "id"), id.UserID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

func (s *Server) updateNote(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFrom(r.Context())

	var req updateNoteRequest
	if !s.decode(w, r, &req) {
		return
	}

	note, err := s.notes.Update(r.Context(), chi.URLParam(r, "id"), id.UserID, req.patch())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

func (s *Server) deleteNote(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFrom(r.Context())

	msg, err := s.notes.Delete(r.Context(), chi.URLParam(r, "id"), id.UserID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: msg})
}
