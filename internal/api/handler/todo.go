package handler

import (
	"net/http"

	"github.com/mcoot/snakegame/internal/api/request"
	"github.com/mcoot/snakegame/internal/api/response"
	"github.com/mcoot/snakegame/internal/model"
	"github.com/mcoot/snakegame/internal/services/todo"
)

// TodoHandler handles todo endpoints
type TodoHandler struct {
	todos todo.ServiceInterface
}

// NewTodoHandler creates a new todo handler
func NewTodoHandler(todos todo.ServiceInterface) *TodoHandler {
	return &TodoHandler{todos: todos}
}

// List handles GET /api/v1/todos?status=all|resolved|pending
func (h *TodoHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := model.TodoFilter(r.URL.Query().Get("status"))
	switch filter {
	case "":
		filter = model.TodoFilterAll
	case model.TodoFilterAll, model.TodoFilterResolved, model.TodoFilterPending:
	default:
		WriteError(w, NewValidationError("status must be all, resolved or pending"))
		return
	}

	todos, err := h.todos.List(r.Context(), filter)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.TodosFromModel(todos))
}

func readTodo(r *http.Request) (todo.Fields, error) {
	var req request.TodoRequest
	if err := decodeJSON(r, &req); err != nil {
		return todo.Fields{}, err
	}
	f, err := req.ToFields()
	if err != nil {
		return todo.Fields{}, NewValidationError(err.Error())
	}
	return f, nil
}

// Create handles POST /api/v1/todos
func (h *TodoHandler) Create(w http.ResponseWriter, r *http.Request) {
	f, err := readTodo(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	t, err := h.todos.Create(r.Context(), f)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, response.TodoFromModel(t))
}

// Get handles GET /api/v1/todos/{id}
func (h *TodoHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", model.ErrTodoNotFound)
	if err != nil {
		WriteError(w, err)
		return
	}

	t, err := h.todos.Get(r.Context(), model.TodoID(id))
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.TodoFromModel(t))
}

// Update handles PUT /api/v1/todos/{id}. The body replaces every field.
func (h *TodoHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", model.ErrTodoNotFound)
	if err != nil {
		WriteError(w, err)
		return
	}

	f, err := readTodo(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	t, err := h.todos.Update(r.Context(), model.TodoID(id), f)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.TodoFromModel(t))
}

// Toggle handles POST /api/v1/todos/{id}/toggle
func (h *TodoHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", model.ErrTodoNotFound)
	if err != nil {
		WriteError(w, err)
		return
	}

	t, err := h.todos.ToggleResolved(r.Context(), model.TodoID(id))
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.TodoFromModel(t))
}

// Delete handles DELETE /api/v1/todos/{id}
func (h *TodoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", model.ErrTodoNotFound)
	if err != nil {
		WriteError(w, err)
		return
	}

	if err := h.todos.Delete(r.Context(), model.TodoID(id)); err != nil {
		WriteError(w, err)
		return
	}
	response.NoContent(w)
}
