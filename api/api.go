// Package api adapts the todo commands to API Gateway HTTP API requests
// (payload format 2.0).
//
// Routes:
//
//	POST   /todos/{listId}           create an item, 201 with the item
//	GET    /todos/{listId}           list items, 200 with an array
//	DELETE /todos/{listId}/{todoId}  delete an item, 204 with no body
//
// Failures are answered with {"message": "..."} and the status from
// [StatusCode].
package api

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/aws/aws-lambda-go/events"

	"github.com/fargito/todos/todo"
)

// Path parameter names.
const (
	ParamListID = "listId"
	ParamItemID = "todoId"
)

// Service is the set of commands the handler dispatches to.
// *todo.Service satisfies it.
type Service interface {
	Create(ctx context.Context, listID string, body []byte) (todo.Item, error)
	Delete(ctx context.Context, listID, itemID string) error
	List(ctx context.Context, listID string) ([]todo.Item, error)
}

// Handler serves todo requests.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// NewHandler creates a new request handler.
func NewHandler(service Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		service: service,
		logger:  logger,
	}
}

type errorBody struct {
	Message string `json:"message"`
}

// Handle routes a request by method. It never returns an error: every
// failure is rendered as a response.
func (h *Handler) Handle(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	listID := req.PathParameters[ParamListID]

	switch req.RequestContext.HTTP.Method {
	case http.MethodPost:
		body, err := requestBody(req)
		if err != nil {
			return h.fail(req, &todo.Error{Kind: todo.KindValidation, Message: todo.ErrInvalidBody.Message, Err: err}), nil
		}
		item, err := h.service.Create(ctx, listID, body)
		if err != nil {
			return h.fail(req, err), nil
		}
		return h.json(http.StatusCreated, item), nil

	case http.MethodGet:
		items, err := h.service.List(ctx, listID)
		if err != nil {
			return h.fail(req, err), nil
		}
		return h.json(http.StatusOK, items), nil

	case http.MethodDelete:
		if err := h.service.Delete(ctx, listID, req.PathParameters[ParamItemID]); err != nil {
			return h.fail(req, err), nil
		}
		return events.APIGatewayV2HTTPResponse{StatusCode: http.StatusNoContent}, nil

	default:
		return h.message(http.StatusMethodNotAllowed, "method not allowed"), nil
	}
}

// StatusCode maps an error to the HTTP status returned to the caller.
func StatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, todo.ErrValidation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the caller-visible text of an error. Causes are never
// included.
func Message(err error) string {
	var e *todo.Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return http.StatusText(StatusCode(err))
}

func (h *Handler) fail(req events.APIGatewayV2HTTPRequest, err error) events.APIGatewayV2HTTPResponse {
	status := StatusCode(err)

	log := h.logger.Warn
	if status >= http.StatusInternalServerError {
		log = h.logger.Error
	}
	log("request failed",
		"route", req.RouteKey,
		"list_id", req.PathParameters[ParamListID],
		"item_id", req.PathParameters[ParamItemID],
		"status", status,
		"error", err,
	)

	return h.message(status, Message(err))
}

func (h *Handler) message(status int, message string) events.APIGatewayV2HTTPResponse {
	return h.json(status, errorBody{Message: message})
}

func (h *Handler) json(status int, v any) events.APIGatewayV2HTTPResponse {
	body, err := json.Marshal(v)
	if err != nil {
		h.logger.Error("failed to encode response", "error", err)
		return events.APIGatewayV2HTTPResponse{
			StatusCode: http.StatusInternalServerError,
			Headers:    map[string]string{"Content-Type": "application/json"},
			Body:       `{"message":"Internal Server Error"}`,
		}
	}
	return events.APIGatewayV2HTTPResponse{
		StatusCode: status,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       string(body),
	}
}

func requestBody(req events.APIGatewayV2HTTPRequest) ([]byte, error) {
	if !req.IsBase64Encoded {
		return []byte(req.Body), nil
	}
	return base64.StdEncoding.DecodeString(req.Body)
}
