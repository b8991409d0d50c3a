package title

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/laurel/internal/platform/middleware"
	requestutil "github.com/taibuivan/laurel/internal/platform/request"
	"github.com/taibuivan/laurel/internal/platform/respond"
	"github.com/taibuivan/laurel/internal/platform/sec"
	"github.com/taibuivan/laurel/internal/platform/validate"
	"github.com/taibuivan/laurel/pkg/convert"
	"github.com/taibuivan/laurel/pkg/pagination"
	"github.com/taibuivan/laurel/pkg/query"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes registers the title collection and mounts the nested review tree
// under /{titleID}/reviews.
func (handler *Handler) Routes(reviews chi.Router) chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.list)
	router.Get("/{titleID}", handler.get)

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireRole(sec.RoleAdmin))
		r.Post("/", handler.create)
		r.Patch("/{titleID}", handler.update)
		r.Delete("/{titleID}", handler.delete)
	})

	router.Mount("/{titleID}/reviews", reviews)

	return router
}

type createRequest struct {
	Name        string   `json:"name"`
	Year        *int     `json:"year"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Genres      []string `json:"genre"`
}

type updateRequest struct {
	Name        *string   `json:"name"`
	Year        *int      `json:"year"`
	Description *string   `json:"description"`
	Category    *string   `json:"category"`
	Genres      *[]string `json:"genre"`
}

func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)
	values := request.URL.Query()

	filter := Filter{
		CategorySlug: values.Get("category"),
		GenreSlugs:   query.StringSlice(values.Get("genre")),
		Name:         values.Get("name"),
		Year:         convert.ToInt(values.Get("year")),
	}

	titles, total, err := handler.service.List(request.Context(), params, filter)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, titles, pagination.NewMeta(params.Page, params.Limit, total))
}

func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	id := requestutil.Param(request, "titleID")

	title, err := handler.service.GetByID(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, title)
}

func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var input createRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required("name", input.Name).
		MaxLen("name", input.Name, NameMaxLen).
		MaxLen("description", input.Description, DescriptionMaxLen).
		Custom("year", input.Year == nil, "This field is required")

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	title, err := handler.service.Create(request.Context(), CreateInput{
		Name:        input.Name,
		Year:        *input.Year,
		Description: input.Description,
		Category:    input.Category,
		Genres:      input.Genres,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, title)
}

func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	id := requestutil.Param(request, "titleID")

	var input updateRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	if input.Name != nil {
		validator.Required("name", *input.Name).
			MaxLen("name", *input.Name, NameMaxLen)
	}
	if input.Description != nil {
		validator.MaxLen("description", *input.Description, DescriptionMaxLen)
	}

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	title, err := handler.service.Update(request.Context(), id, UpdateInput{
		Name:        input.Name,
		Year:        input.Year,
		Description: input.Description,
		Category:    input.Category,
		Genres:      input.Genres,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, title)
}

func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	id := requestutil.Param(request, "titleID")

	if err := handler.service.Delete(request.Context(), id); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
