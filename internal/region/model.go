package region

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/noq-backend/internal/pkg/apperror"
)

var (
	ErrNotFound     = apperror.NewKind(http.StatusNotFound, apperror.KindNotFound, "region not found")
	ErrNameRequired = apperror.NewKind(http.StatusBadRequest, apperror.KindInvalidInput, "region name is required")
	ErrNameTaken    = apperror.NewKind(http.StatusConflict, apperror.KindConflict, "region name already exists")
)

// Region groups hosts and clients geographically, typically a municipality.
type Region struct {
	ID        string
	Name      string
	IsActive  bool
	CreatedAt time.Time
}

// RegionFilter defines filter options for listing regions.
type RegionFilter struct {
	Name     string
	IsActive *bool

	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
