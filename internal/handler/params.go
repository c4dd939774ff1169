package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/hotel-booking/internal/domain"
)

// newValidator returns a validator that reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// pathID binds the integer path parameter name.
func pathID(r *http.Request, name string) (int64, error) {
	var id int64
	err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return 0, fmt.Errorf("invalid %s", name)
	}
	if id < 1 {
		return 0, fmt.Errorf("invalid %s", name)
	}
	return id, nil
}

// queryDateRange binds the required start_date and end_date query parameters.
func queryDateRange(r *http.Request) (domain.DateRange, error) {
	var start, end openapi_types.Date
	if err := runtime.BindQueryParameter("form", true, true, "start_date", r.URL.Query(), &start); err != nil {
		return domain.DateRange{}, errors.New("start_date must be a YYYY-MM-DD date")
	}
	if err := runtime.BindQueryParameter("form", true, true, "end_date", r.URL.Query(), &end); err != nil {
		return domain.DateRange{}, errors.New("end_date must be a YYYY-MM-DD date")
	}
	return domain.NewDateRange(start.Time, end.Time)
}

// queryPagination binds the optional page and limit query parameters.
func queryPagination(r *http.Request) (domain.PaginationParams, error) {
	var page, limit *int
	if err := runtime.BindQueryParameter("form", true, false, "page", r.URL.Query(), &page); err != nil {
		return domain.PaginationParams{}, errors.New("page must be an integer")
	}
	if err := runtime.BindQueryParameter("form", true, false, "limit", r.URL.Query(), &limit); err != nil {
		return domain.PaginationParams{}, errors.New("limit must be an integer")
	}
	return domain.NewPaginationParams(page, limit), nil
}

// decodeBody decodes the JSON request body into dst and validates it.
// It writes the error response itself and reports whether decoding succeeded.
func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "payload_too_large", "request body too large")
			return false
		}
		requestError(w, "request body must be valid JSON")
		return false
	}
	if err := s.validate.Struct(dst); err != nil {
		requestError(w, validationMessage(err))
		return false
	}
	return true
}

// validationMessage turns validator errors into one readable line.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fe.Field()+" is required")
		case "email":
			msgs = append(msgs, fe.Field()+" must be a valid email address")
		case "oneof":
			msgs = append(msgs, fe.Field()+" must be one of: "+fe.Param())
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s=%s", fe.Field(), fe.Tag(), fe.Param()))
		}
	}
	return strings.Join(msgs, "; ")
}

// dateRange converts a pair of bound wire dates into a DateRange.
func dateRange(start, end *openapi_types.Date) (domain.DateRange, error) {
	return domain.NewDateRange(start.Time, end.Time)
}
