// Package httpserver exposes the task tracker REST API.
package httpserver

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"tasktracker/internal/model"
	"tasktracker/internal/service"
	"tasktracker/internal/token"
)

// Server wires services into HTTP handlers.
type Server struct {
	auth  service.AuthService
	tasks service.TaskService
}

// New constructs a server with injected services.
func New(auth service.AuthService, tasks service.TaskService) *Server {
	return &Server{auth: auth, tasks: tasks}
}

// Router builds the API router with logging, recovery and bearer-token
// middleware applied to every route.
func (s *Server) Router(log *zap.Logger, tokens *token.Service) http.Handler {
	r := mux.NewRouter()
	r.Use(Recover(log), Logging(log), Authenticate(tokens))

	r.HandleFunc("/api/auth/sign-up", s.handleSignUp).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/sign-in", s.handleSignIn).Methods(http.MethodPost)

	r.HandleFunc("/api/task", s.handleListTasks).Methods(http.MethodGet)
	r.HandleFunc("/api/task", s.handleCreateTask).Methods(http.MethodPost)
	r.HandleFunc("/api/task/{id:[0-9]+}", s.handleGetTask).Methods(http.MethodGet)
	r.HandleFunc("/api/task/{id:[0-9]+}", s.handlePatchTask).Methods(http.MethodPatch)
	r.HandleFunc("/api/task/{id:[0-9]+}", s.handleDeleteTask).Methods(http.MethodDelete)
	r.HandleFunc("/api/task/{id:[0-9]+}/comment", s.handleAddComment).Methods(http.MethodPost)

	return r
}

type signUpRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleSignUp(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "bad request body"})
		return
	}
	res, err := s.auth.SignUp(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	code := http.StatusCreated
	if !res.Success {
		code = http.StatusConflict
	}
	writeJSON(w, code, signUpResponse{Success: res.Success, Message: res.Message})
}

type signUpResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleSignIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "bad request body"})
		return
	}
	tok, err := s.auth.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": tok})
}

func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	t, err := s.tasks.Get(r.Context(), IdentityFromCtx(r.Context()), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, taskToJSON(t))
}

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	f, page, size, err := filterFromQuery(r)
	if err != nil {
		writeError(w, err)
		return
	}
	ts, err := s.tasks.List(r.Context(), IdentityFromCtx(r.Context()), f, page, size)
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]taskJSON, 0, len(ts))
	for i := range ts {
		out = append(out, taskToJSON(&ts[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

// filterFromQuery builds the optional listing criteria from query params.
// Absent params stay nil and add no constraint.
func filterFromQuery(r *http.Request) (model.TaskFilter, int, int, error) {
	var f model.TaskFilter
	q := r.URL.Query()
	if v := q.Get("author"); v != "" {
		f.Author = &v
	}
	if v := q.Get("performer"); v != "" {
		f.Performer = &v
	}
	if v := q.Get("status"); v != "" {
		st, err := model.ParseTaskStatus(v)
		if err != nil {
			return f, 0, 0, err
		}
		f.Status = &st
	}
	if v := q.Get("priority"); v != "" {
		pr, err := model.ParseTaskPriority(v)
		if err != nil {
			return f, 0, 0, err
		}
		f.Priority = &pr
	}
	page := model.DefaultPage
	if v := q.Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			page = n
		}
	}
	size := model.DefaultPageSize
	if v := q.Get("size"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			size = n
		}
	}
	return f, page, size, nil
}

type createTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var req createTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "bad request body"})
		return
	}
	var priority model.TaskPriority
	if req.Priority != "" {
		pr, err := model.ParseTaskPriority(req.Priority)
		if err != nil {
			writeError(w, err)
			return
		}
		priority = pr
	}
	id, err := s.tasks.Create(r.Context(), IdentityFromCtx(r.Context()), req.Title, req.Description, priority)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

func (s *Server) handlePatchTask(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	var fields map[string]any
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "bad request body"})
		return
	}
	t, err := s.tasks.Patch(r.Context(), IdentityFromCtx(r.Context()), id, fields)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, taskToJSON(t))
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err := s.tasks.Delete(r.Context(), IdentityFromCtx(r.Context()), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "task deleted"})
}

type commentRequest struct {
	Text string `json:"text"`
}

func (s *Server) handleAddComment(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	var req commentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "bad request body"})
		return
	}
	cid, err := s.tasks.AddComment(r.Context(), IdentityFromCtx(r.Context()), id, req.Text)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int64{"id": cid})
}

type commentJSON struct {
	ID     int64  `json:"id"`
	Text   string `json:"text"`
	Author string `json:"author"`
}

type taskJSON struct {
	ID          int64         `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Status      string        `json:"status"`
	Priority    string        `json:"priority"`
	Author      string        `json:"author"`
	Performer   string        `json:"performer,omitempty"`
	Comments    []commentJSON `json:"comments,omitempty"`
}

func taskToJSON(t *model.Task) taskJSON {
	out := taskJSON{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		Priority:    string(t.Priority),
		Author:      t.Author,
		Performer:   t.Performer,
	}
	for _, c := range t.Comments {
		out.Comments = append(out.Comments, commentJSON{ID: c.ID, Text: c.Text, Author: c.Author})
	}
	return out
}
