package review

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/laurel/internal/platform/middleware"
	"github.com/taibuivan/laurel/internal/platform/perm"
	requestutil "github.com/taibuivan/laurel/internal/platform/request"
	"github.com/taibuivan/laurel/internal/platform/respond"
	"github.com/taibuivan/laurel/internal/platform/validate"
	"github.com/taibuivan/laurel/pkg/pagination"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes is mounted under /titles/{titleID}/reviews and mounts the nested
// comment tree under /{reviewID}/comments.
func (handler *Handler) Routes(comments chi.Router) chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.list)
	router.Get("/{reviewID}", handler.get)

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Post("/", handler.create)
		r.Patch("/{reviewID}", handler.update)
		r.Delete("/{reviewID}", handler.delete)
	})

	router.Mount("/{reviewID}/comments", comments)

	return router
}

type createRequest struct {
	Text  string `json:"text"`
	Score *int   `json:"score"`
}

type updateRequest struct {
	Text  *string `json:"text"`
	Score *int    `json:"score"`
}

func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	titleID := requestutil.Param(request, "titleID")
	params := pagination.FromRequest(request)

	reviews, total, err := handler.service.ListByTitle(request.Context(), titleID, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, reviews, pagination.NewMeta(params.Page, params.Limit, total))
}

func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	titleID := requestutil.Param(request, "titleID")
	reviewID := requestutil.Param(request, "reviewID")

	review, err := handler.service.GetByID(request.Context(), titleID, reviewID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, review)
}

func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	titleID := requestutil.Param(request, "titleID")

	var input createRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required("text", input.Text).
		MaxLen("text", input.Text, TextMaxLen).
		Custom("score", input.Score == nil, "This field is required")
	if input.Score != nil {
		validator.Range("score", *input.Score, ScoreMin, ScoreMax)
	}

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	actor := perm.FromClaims(requestutil.Claims(request))

	review, err := handler.service.Create(request.Context(), actor, titleID, CreateInput{
		Text:  input.Text,
		Score: *input.Score,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, review)
}

func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	titleID := requestutil.Param(request, "titleID")
	reviewID := requestutil.Param(request, "reviewID")

	var input updateRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	if input.Text != nil {
		validator.Required("text", *input.Text).
			MaxLen("text", *input.Text, TextMaxLen)
	}
	if input.Score != nil {
		validator.Range("score", *input.Score, ScoreMin, ScoreMax)
	}

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	actor := perm.FromClaims(requestutil.Claims(request))

	review, err := handler.service.Update(request.Context(), actor, titleID, reviewID, UpdateInput{
		Text:  input.Text,
		Score: input.Score,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, review)
}

func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	titleID := requestutil.Param(request, "titleID")
	reviewID := requestutil.Param(request, "reviewID")

	actor := perm.FromClaims(requestutil.Claims(request))

	if err := handler.service.Delete(request.Context(), actor, titleID, reviewID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
