package rest

import (
	"net/http"

	"github.com/dmitrijs2005/csvdrop/internal/server/accounts"
)

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, "register", err, http.StatusInternalServerError)
		return
	}

	s, err := h.accounts.Register(r.Context(), accounts.RegisterInput{
		UserName: req.UserName,
		Password: req.Password,
		Role:     req.Role,
	})
	h.metrics.RecordAuth("register", outcome(err))
	if err != nil {
		h.fail(w, r, "register", err, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, newSessionResponse(s))
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, "login", err, http.StatusInternalServerError)
		return
	}

	s, err := h.accounts.Login(r.Context(), accounts.LoginInput{
		UserName: req.UserName,
		Password: req.Password,
	})
	h.metrics.RecordAuth("login", outcome(err))
	if err != nil {
		h.fail(w, r, "login", err, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, newSessionResponse(s))
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	err := h.accounts.Logout(r.Context(), tokenFromRequest(r))
	h.metrics.RecordAuth("logout", outcome(err))
	if err != nil {
		h.fail(w, r, "logout", err, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	p, err := h.accounts.GetProfile(r.Context(), tokenFromRequest(r))
	if err != nil {
		h.fail(w, r, "profile", err, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, profileResponse{UserName: p.UserName, Role: p.Role})
}

func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req accounts.ProfileUpdate
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, "update_profile", err, http.StatusInternalServerError)
		return
	}

	p, err := h.accounts.UpdateProfile(r.Context(), tokenFromRequest(r), req)
	h.metrics.RecordAuth("update_profile", outcome(err))
	if err != nil {
		h.fail(w, r, "update_profile", err, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, updateProfileResponse{Success: true, UserName: p.UserName, Role: p.Role})
}
