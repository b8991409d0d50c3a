package comment

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

// Routes is mounted under /titles/{titleID}/reviews/{reviewID}/comments.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.list)
	router.Get("/{commentID}", handler.get)

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Post("/", handler.create)
		r.Patch("/{commentID}", handler.update)
		r.Delete("/{commentID}", handler.delete)
	})

	return router
}

type createRequest struct {
	Text string `json:"text"`
}

type updateRequest struct {
	Text *string `json:"text"`
}

func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	titleID := requestutil.Param(request, "titleID")
	reviewID := requestutil.Param(request, "reviewID")
	params := pagination.FromRequest(request)

	comments, total, err := handler.service.ListByReview(request.Context(), titleID, reviewID, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, comments, pagination.NewMeta(params.Page, params.Limit, total))
}

func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	titleID := requestutil.Param(request, "titleID")
	reviewID := requestutil.Param(request, "reviewID")
	commentID := requestutil.Param(request, "commentID")

	comment, err := handler.service.GetByID(request.Context(), titleID, reviewID, commentID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, comment)
}

func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	titleID := requestutil.Param(request, "titleID")
	reviewID := requestutil.Param(request, "reviewID")

	var input createRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required("text", input.Text).
		MaxLen("text", input.Text, TextMaxLen)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	actor := perm.FromClaims(requestutil.Claims(request))

	comment, err := handler.service.Create(request.Context(), actor, titleID, reviewID, CreateInput{
		Text: input.Text,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, comment)
}

func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	titleID := requestutil.Param(request, "titleID")
	reviewID := requestutil.Param(request, "reviewID")
	commentID := requestutil.Param(request, "commentID")

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

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	actor := perm.FromClaims(requestutil.Claims(request))

	comment, err := handler.service.Update(request.Context(), actor, titleID, reviewID, commentID, UpdateInput{
		Text: input.Text,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, comment)
}

func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	titleID := requestutil.Param(request, "titleID")
	reviewID := requestutil.Param(request, "reviewID")
	commentID := requestutil.Param(request, "commentID")

	actor := perm.FromClaims(requestutil.Claims(request))

	if err := handler.service.Delete(request.Context(), actor, titleID, reviewID, commentID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
