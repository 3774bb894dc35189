package handlers

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"streamcharts/backend-go/internal/services"
	"streamcharts/backend-go/internal/validation"
)

// listRequest holds the list query parameters. The date range and sort fields
// are only accepted by the week list; see parseWeekRequest.
type listRequest struct {
	Page     int      `json:"page" validate:"min=1"`
	Limit    int      `json:"limit" validate:"min=1,max=500"`
	Search   string   `json:"search" validate:"max=200"`
	DateFrom string   `json:"dateFrom" validate:"omitempty,chartdate"`
	DateTo   string   `json:"dateTo" validate:"omitempty,chartdate"`
	Sort     string   `json:"sort" validate:"omitempty,oneof=date streams"`
	Rate     *float64 `json:"rate" validate:"omitempty,gte=0"`
}

func (l listRequest) searchTerm() string {
	return strings.TrimSpace(l.Search)
}

// paramError is a 400 with the message shown to the client as is.
type paramError struct {
	msg     string
	details any
}

func (e *paramError) Error() string {
	return e.msg
}

func invalidPage() error {
	return &paramError{msg: "Invalid page number"}
}

func (a *API) invalidLimit() error {
	return &paramError{msg: fmt.Sprintf("Invalid limit (must be between 1 and %d)", a.maxPageSize())}
}

func (a *API) maxPageSize() int {
	if a.cfg.MaxPageSize <= 0 || a.cfg.MaxPageSize > services.MaxPageSize {
		return services.MaxPageSize
	}
	return a.cfg.MaxPageSize
}

func (a *API) defaultPageSize() int {
	if a.cfg.DefaultPageSize <= 0 || a.cfg.DefaultPageSize > a.maxPageSize() {
		return a.maxPageSize()
	}
	return a.cfg.DefaultPageSize
}

// parseListRequest reads and validates list parameters. Unlike a clamp, any
// non-integer or out-of-range page or limit is rejected. dateFrom, dateTo and
// sort are rejected too, since these lists have no date axis to apply them to.
func (a *API) parseListRequest(r *http.Request) (listRequest, error) {
	return a.parseRequest(r, false)
}

// parseWeekRequest is parseListRequest plus the inclusive date range and sort.
func (a *API) parseWeekRequest(r *http.Request) (listRequest, error) {
	return a.parseRequest(r, true)
}

func (a *API) parseRequest(r *http.Request, ranged bool) (listRequest, error) {
	q := r.URL.Query()
	req := listRequest{
		Page:     1,
		Limit:    a.defaultPageSize(),
		Search:   q.Get("search"),
		DateFrom: strings.TrimSpace(q.Get("dateFrom")),
		DateTo:   strings.TrimSpace(q.Get("dateTo")),
		Sort:     strings.ToLower(strings.TrimSpace(q.Get("sort"))),
	}
	if !ranged && (req.DateFrom != "" || req.DateTo != "" || req.Sort != "") {
		return req, &paramError{msg: "Invalid request", details: "dateFrom, dateTo and sort are only supported on /weeks"}
	}

	if v := strings.TrimSpace(q.Get("page")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return req, invalidPage()
		}
		req.Page = n
	}
	if v := strings.TrimSpace(q.Get("limit")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return req, a.invalidLimit()
		}
		req.Limit = n
	}
	if v := strings.TrimSpace(q.Get("rate")); v != "" {
		rate, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return req, &paramError{msg: "Invalid rate", details: "rate must be a number"}
		}
		req.Rate = &rate
	}

	if verr := validation.ValidateStruct(&req); verr != nil {
		switch {
		case verr.Has("page"):
			return req, invalidPage()
		case verr.Has("limit"):
			return req, a.invalidLimit()
		default:
			return req, &paramError{msg: "Invalid request", details: verr.Fields}
		}
	}
	if req.Limit > a.maxPageSize() {
		return req, a.invalidLimit()
	}
	if req.Rate != nil {
		if err := services.ValidatePayoutRate(*req.Rate); err != nil {
			return req, err
		}
	}

	var err error
	if req.DateFrom != "" {
		if req.DateFrom, err = services.NormalizeDate(req.DateFrom); err != nil {
			return req, err
		}
	}
	if req.DateTo != "" {
		if req.DateTo, err = services.NormalizeDate(req.DateTo); err != nil {
			return req, err
		}
	}
	return req, nil
}

// pathParam returns the unescaped chi URL parameter.
func pathParam(r *http.Request, name string) string {
	raw := chi.URLParam(r, name)
	if v, err := url.PathUnescape(raw); err == nil {
		raw = v
	}
	return strings.TrimSpace(raw)
}
