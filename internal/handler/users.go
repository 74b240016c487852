package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mmynk/splitbill/internal/models"
	"github.com/mmynk/splitbill/internal/service"
)

func (h *handler) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Users.ListUsers(r.Context())
	if err != nil {
		h.fail(w, r, err, "User")
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (h *handler) getUserByEmail(w http.ResponseWriter, r *http.Request) {
	user, err := h.Users.GetUserByEmail(r.Context(), mux.Vars(r)["email"])
	if err != nil {
		h.fail(w, r, err, "User")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *handler) createUser(w http.ResponseWriter, r *http.Request) {
	var req service.CreateUserInput
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err, "User")
		return
	}

	user, err := h.Users.CreateUser(r.Context(), req)
	if err != nil {
		h.fail(w, r, err, "User")
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

func (h *handler) updateUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", "user")
	if err != nil {
		h.fail(w, r, err, "User")
		return
	}
	if err := h.authorize(r, id); err != nil {
		h.fail(w, r, err, "User")
		return
	}

	var patch models.UserPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		h.fail(w, r, err, "User")
		return
	}

	user, err := h.Users.UpdateUser(r.Context(), id, patch)
	if err != nil {
		h.fail(w, r, err, "User")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *handler) deleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", "user")
	if err != nil {
		h.fail(w, r, err, "User")
		return
	}
	if err := h.authorize(r, id); err != nil {
		h.fail(w, r, err, "User")
		return
	}

	if err := h.Users.DeleteUser(r.Context(), id); err != nil {
		h.fail(w, r, err, "User")
		return
	}
	writeMessage(w, http.StatusOK, "User deleted successfully")
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

func (h *handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err, "User")
		return
	}

	user, token, err := h.Users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.fail(w, r, err, "User")
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{User: user, Token: token})
}
