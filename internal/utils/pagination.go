package utils

import (
	"encoding/base64"
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/skillanthropy/skillanthropy-api/internal/constants"
)

var (
	ErrInvalidCursor   = errors.New("invalid cursor")
	ErrMixedPagination = errors.New("page and cursor cannot be combined")
)

// PageMode selects how a listing is paged.
type PageMode int

const (
	OffsetMode PageMode = iota
	CursorMode
)

// PageRequest describes one page of a listing. Offset fields are used in
// OffsetMode, After in CursorMode.
type PageRequest struct {
	Mode   PageMode
	Page   int
	Limit  int
	Offset int
	// After is the id of the last row of the previous page. Zero means first page.
	After uint64
}

// PaginationResponse represents the pagination metadata in API responses
type PaginationResponse struct {
	Page       int    `json:"page,omitempty"`
	Limit      int    `json:"limit"`
	Total      int64  `json:"total,omitempty"`
	HasMore    bool   `json:"has_more"`
	NextCursor string `json:"next_cursor,omitempty"`
}

// NewOffsetPage builds an offset request, clamping page and limit.
func NewOffsetPage(page, limit int) PageRequest {
	if page < constants.MinPageSize {
		page = constants.MinPageSize
	}
	if limit < constants.MinPageSize || limit > constants.MaxPageSize {
		limit = constants.DefaultPageSize
	}
	return PageRequest{
		Mode:   OffsetMode,
		Page:   page,
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
}

// NewCursorPage builds a cursor request from an opaque cursor string.
func NewCursorPage(cursor string, limit int) (PageRequest, error) {
	if limit < constants.MinPageSize || limit > constants.MaxPageSize {
		limit = constants.DefaultPageSize
	}
	req := PageRequest{Mode: CursorMode, Limit: limit}
	if cursor == "" {
		return req, nil
	}
	after, err := DecodeCursor(cursor)
	if err != nil {
		return PageRequest{}, err
	}
	req.After = after
	return req, nil
}

// GetPaginationParams extracts offset pagination parameters from the request
func GetPaginationParams(c *gin.Context, defaultLimit int) PageRequest {
	page, _ := strconv.Atoi(c.DefaultQuery("page", strconv.Itoa(constants.MinPageSize)))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))
	if limit < constants.MinPageSize || limit > constants.MaxPageSize {
		limit = defaultLimit
	}
	return NewOffsetPage(page, limit)
}

// GetOffsetParams is GetPaginationParams for endpoints that reject a cursor.
func GetOffsetParams(c *gin.Context, defaultLimit int) (PageRequest, error) {
	if _, ok := c.GetQuery("cursor"); ok {
		return PageRequest{}, ErrMixedPagination
	}
	return GetPaginationParams(c, defaultLimit), nil
}

// GetCursorParams extracts cursor pagination parameters from the request.
// A request carrying both page and cursor is rejected.
func GetCursorParams(c *gin.Context) (PageRequest, error) {
	if _, ok := c.GetQuery("page"); ok {
		return PageRequest{}, ErrMixedPagination
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(constants.DefaultPageSize)))
	return NewCursorPage(c.Query("cursor"), limit)
}

// OffsetResponse builds the metadata for an offset page.
func OffsetResponse(req PageRequest, total int64) PaginationResponse {
	return PaginationResponse{
		Page:    req.Page,
		Limit:   req.Limit,
		Total:   total,
		HasMore: int64(req.Offset+req.Limit) < total,
	}
}

// CursorResponse builds the metadata for a cursor page. fetched is the number
// of rows read, which is Limit+1 when another page exists; lastID is the id
// of the last row returned to the client.
func CursorResponse(req PageRequest, fetched int, lastID uint64) PaginationResponse {
	resp := PaginationResponse{Limit: req.Limit, HasMore: fetched > req.Limit}
	if resp.HasMore {
		resp.NextCursor = EncodeCursor(lastID)
	}
	return resp
}

func EncodeCursor(id uint64) string {
	return base64.RawURLEncoding.EncodeToString([]byte(strconv.FormatUint(id, 10)))
}

func DecodeCursor(cursor string) (uint64, error) {
	raw, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return 0, ErrInvalidCursor
	}
	id, err := strconv.ParseUint(string(raw), 10, 64)
	if err != nil || id == 0 {
		return 0, ErrInvalidCursor
	}
	return id, nil
}
