package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yigit/campusdesk/internal/app/models/dto"
	"github.com/yigit/campusdesk/internal/middleware"
	"github.com/yigit/campusdesk/internal/pkg/apperrors"
	"github.com/yigit/campusdesk/internal/pkg/filestorage"
)

// pathID parses a positive numeric path parameter. It answers 400 and
// returns false when the parameter is malformed.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		middleware.HandleAPIError(c, apperrors.NewValidationError().Add(name, "must be a positive id"))
		return 0, false
	}
	return id, true
}

// formFile reads the first multipart file present under one of names.
// Requests without that file, or without a multipart body, yield nil.
func formFile(c *gin.Context, names ...string) (*filestorage.Upload, error) {
	for _, name := range names {
		fh, err := c.FormFile(name)
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return filestorage.FromFileHeader(fh)
	}
	return nil, nil
}

// formFiles reads one upload per field; the first name of each group is
// the field reported on failure.
func formFiles(c *gin.Context, groups ...[]string) ([]*filestorage.Upload, bool) {
	verr := apperrors.NewValidationError()
	out := make([]*filestorage.Upload, len(groups))
	for i, names := range groups {
		u, err := formFile(c, names...)
		if err != nil {
			verr.Add(names[0], err.Error())
			continue
		}
		out[i] = u
	}
	if verr.HasErrors() {
		middleware.HandleAPIError(c, verr)
		return nil, false
	}
	return out, true
}

// formGeoLocation reads coordinates sent as lat/lng form fields or as a
// JSON encoded geoLocation field. It returns nil when neither is present.
func formGeoLocation(c *gin.Context) (*dto.GeoLocationInput, error) {
	lat, lng := strings.TrimSpace(c.PostForm("lat")), strings.TrimSpace(c.PostForm("lng"))
	if lat == "" && lng == "" {
		raw := strings.TrimSpace(c.PostForm("geoLocation"))
		if raw == "" {
			return nil, nil
		}
		geo := &dto.GeoLocationInput{}
		if err := json.Unmarshal([]byte(raw), geo); err != nil {
			return nil, apperrors.NewValidationError().Add("geoLocation", "must be an object with lat and lng")
		}
		return geo, nil
	}

	verr := apperrors.NewValidationError()
	geo := &dto.GeoLocationInput{
		Lat: parseCoordinate(verr, "geoLocation.lat", lat),
		Lng: parseCoordinate(verr, "geoLocation.lng", lng),
	}
	if err := verr.ErrOrNil(); err != nil {
		return nil, err
	}
	return geo, nil
}

func parseCoordinate(verr *apperrors.ValidationError, field, value string) *float64 {
	if value == "" {
		return nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		verr.Add(field, "must be a number")
		return nil
	}
	return &f
}

// isForm reports whether the request body is urlencoded or multipart
func isForm(c *gin.Context) bool {
	ct := c.ContentType()
	return ct == gin.MIMEMultipartPOSTForm || ct == gin.MIMEPOSTForm
}

func okResponse(c *gin.Context, status int, data any, message string) {
	c.JSON(status, dto.NewStructuredResponse(data, message))
}
