package api

import (
	"bytes"
	"errors"
	"io"
	"mime"
	"net/http"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"sawiku/internal/sawi"
)

const (
	defaultListLimit = 10
	maxListLimit     = 100

	neverWateredLabel = "Never watered yet"
)

type signUpRequest struct {
	DisplayName string `json:"displayName" form:"displayName"`
	Email       string `json:"email" form:"email"`
	Password    string `json:"password" form:"password"`
}

type signInRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

type waterRequest struct {
	Notes string `json:"notes" form:"notes"`
}

func (s *Server) signUp(c echo.Context) error {
	var req signUpRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	sess, err := s.service.SignUp(c.Request().Context(), sawi.SignUpInput{
		DisplayName: req.DisplayName,
		Email:       req.Email,
		Password:    req.Password,
	})
	if err != nil {
		return err
	}
	if err := s.startSession(c, sess); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, newUserResponse(sess))
}

func (s *Server) signIn(c echo.Context) error {
	var req signInRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	sess, err := s.service.SignIn(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	if err := s.startSession(c, sess); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newUserResponse(sess))
}

func (s *Server) signOut(c echo.Context) error {
	if err := s.endSession(c); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) me(c echo.Context) error {
	return c.JSON(http.StatusOK, newUserResponse(sessionFrom(c)))
}

func (s *Server) listPlants(c echo.Context) error {
	plants, err := s.service.ListPlants(c.Request().Context(), sessionFrom(c))
	if err != nil {
		return err
	}
	out := make([]plantResponse, len(plants))
	for i, p := range plants {
		out[i] = newPlantResponse(p)
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) addPlant(c echo.Context) error {
	plantedAt, err := s.parsePlantingDate(c.FormValue("plantingDate"))
	if err != nil {
		return err
	}
	photo, err := readPhoto(c, "photo")
	if err != nil {
		return err
	}

	plant, err := s.service.AddPlant(c.Request().Context(), sessionFrom(c), sawi.NewPlantInput{
		Name:      c.FormValue("name"),
		Species:   c.FormValue("species"),
		PlantedAt: plantedAt,
		Notes:     c.FormValue("notes"),
		Photo:     photo,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, newPlantResponse(plant))
}

// parsePlantingDate accepts a calendar date in the configured zone or an
// RFC 3339 timestamp. An empty value is left for validation to reject.
func (s *Server) parsePlantingDate(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, nil
	}
	if t, err := time.ParseInLocation("2006-01-02", v, s.service.Calendar().Location()); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	return time.Time{}, &sawi.ValidationError{Fields: map[string]string{
		"plantingDate": "Format tanggal tidak valid.",
	}}
}

func (s *Server) plantOverview(c echo.Context) error {
	ov, err := s.service.PlantOverview(c.Request().Context(), sessionFrom(c), c.Param("id"), listLimit(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newOverviewResponse(ov))
}

func (s *Server) deletePlant(c echo.Context) error {
	if err := s.service.DeletePlant(c.Request().Context(), sessionFrom(c), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) waterPlant(c echo.Context) error {
	var req waterRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	log, err := s.service.WaterPlant(c.Request().Context(), sessionFrom(c), c.Param("id"), req.Notes)
	if err != nil {
		return err
	}
	s.metrics.RecordWatering()
	return c.JSON(http.StatusCreated, newWateringResponse(log))
}

func (s *Server) wateringLogs(c echo.Context) error {
	ctx := c.Request().Context()
	sess := sessionFrom(c)

	last, err := s.service.LastWatered(ctx, sess, c.Param("id"))
	if err != nil {
		return err
	}
	logs, err := s.service.WateringLogs(ctx, sess, c.Param("id"), listLimit(c))
	if err != nil {
		return err
	}

	resp := struct {
		LastWatered      *time.Time         `json:"lastWatered"`
		LastWateredLabel string             `json:"lastWateredLabel"`
		Logs             []wateringResponse `json:"logs"`
	}{
		LastWatered:      last,
		LastWateredLabel: neverWateredLabel,
		Logs:             newWateringResponses(logs),
	}
	if last != nil {
		resp.LastWateredLabel = s.service.Calendar().Label(*last, s.service.Now())
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) reportForm(c echo.Context) error {
	form, err := s.service.ReportForm(c.Request().Context(), sessionFrom(c), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, form)
}

func (s *Server) submitReport(c echo.Context) error {
	photo, err := readPhoto(c, "photo")
	if err != nil {
		return err
	}

	res, err := s.service.SubmitGrowthReport(c.Request().Context(), sessionFrom(c), sawi.ReportInput{
		PlantID:        c.Param("id"),
		PlantHeight:    c.FormValue("plantHeight"),
		LeafCount:      c.FormValue("leafCount"),
		LeafCondition:  c.FormValue("leafCondition"),
		Temperature:    c.FormValue("temperature"),
		Sunlight:       c.FormValue("sunlight"),
		WaterFrequency: c.FormValue("waterFrequency"),
		PlantSymptoms:  c.FormValue("plantSymptoms"),
		FreshWeight:    c.FormValue("freshWeight"),
		Photo:          photo,
	})
	if err != nil {
		return err
	}
	s.metrics.RecordReport(res.Report.Grade, res.AnalysisFailed)

	return c.JSON(http.StatusCreated, struct {
		Report         reportResponse `json:"report"`
		Analysis       sawi.Analysis  `json:"analysis"`
		AnalysisFailed bool           `json:"analysisFailed"`
	}{
		Report:         newReportResponse(res.Report),
		Analysis:       res.Analysis,
		AnalysisFailed: res.AnalysisFailed,
	})
}

func (s *Server) growthReports(c echo.Context) error {
	reports, err := s.service.GrowthReports(c.Request().Context(), sessionFrom(c), c.Param("id"), listLimit(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newReportResponses(reports))
}

// photo streams one of the signed-in user's stored photos. Keys of other
// users are reported as missing.
func (s *Server) photo(c echo.Context) error {
	key := c.Param("*")
	if !sawi.OwnsBlob(sessionFrom(c), key) {
		return echo.NewHTTPError(http.StatusNotFound, "Foto tidak ditemukan.")
	}

	contentType := mime.TypeByExtension(path.Ext(key))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	var buf bytes.Buffer
	if err := s.blobs.Get(c.Request().Context(), key, &buf); err != nil {
		if errors.Is(err, sawi.ErrBlobNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Foto tidak ditemukan.")
		}
		return err
	}
	c.Response().Header().Set("Cache-Control", "private, max-age=300")
	return c.Blob(http.StatusOK, contentType, buf.Bytes())
}

// listLimit reads the optional ?limit= query parameter.
func listLimit(c echo.Context) int {
	n, err := strconv.Atoi(c.QueryParam("limit"))
	if err != nil || n <= 0 {
		return defaultListLimit
	}
	if n > maxListLimit {
		return maxListLimit
	}
	return n
}

// readPhoto reads an optional uploaded image. At most one byte over the
// accepted size is read so validation can reject large files.
func readPhoto(c echo.Context, field string) (*sawi.Photo, error) {
	fh, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "Unggahan foto tidak dapat dibaca.")
	}

	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, sawi.MaxPhotoBytes+1))
	if err != nil {
		return nil, err
	}

	// The declared Content-Type is ignored; the stored type follows the bytes.
	return &sawi.Photo{Filename: fh.Filename, ContentType: http.DetectContentType(data), Data: data}, nil
}
