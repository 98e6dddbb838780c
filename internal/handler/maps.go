package handler

import (
	"context"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"spca-maps/internal/render"
	"spca-maps/internal/service"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
)

// PantryMapBuilder interface for dependency injection
type PantryMapBuilder interface {
	Build(context.Context, service.PantryMapQuery) (*service.PantryMapResult, error)
}

// VaccineMapBuilder interface for dependency injection
type VaccineMapBuilder interface {
	Build(context.Context, service.VaccineFilter) (*service.VaccineMapResult, error)
	Options(context.Context, int) (*service.VaccineOptions, error)
}

// MapHandler serves both dashboards as JSON and as HTML pages.
type MapHandler struct {
	pantry  PantryMapBuilder
	vaccine VaccineMapBuilder
}

func NewMapHandler(pantry PantryMapBuilder, vaccine VaccineMapBuilder) *MapHandler {
	return &MapHandler{pantry: pantry, vaccine: vaccine}
}

// PantryMap handles GET /api/pantry-map requests
//
//	@Summary	Pet pantry client map as of the end of a year
//	@Tags		maps
//	@Produce	json
//	@Param		year	query		int		false	"year, defaults to the latest"
//	@Param		type	query		string	false	"markers, heatmap, choropleth, circles or rectangles"
//	@Success	200		{object}	service.PantryMapResult
//	@Failure	400		{object}	map[string]string
//	@Failure	404		{object}	map[string]string
//	@Failure	502		{object}	map[string]string
//	@Router		/api/pantry-map [get]
func (h *MapHandler) PantryMap(c *gin.Context) {
	res, err := h.buildPantry(c)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// VaccineMap handles GET /api/vaccine-map requests
//
//	@Summary	Vaccine clinic attendees by ZIP code
//	@Tags		maps
//	@Produce	json
//	@Param		year			query		int		false	"year, defaults to the latest"
//	@Param		event			query		string	false	"event name or All"
//	@Param		employment		query		string	false	"employment status or All"
//	@Param		assistance		query		string	false	"government assistance answer or All"
//	@Param		income			query		string	false	"income bracket or All"
//	@Param		microchipped	query		string	false	"microchipped answer or All"
//	@Param		type			query		string	false	"choropleth, heatmap, circles or rectangles"
//	@Success	200				{object}	service.VaccineMapResult
//	@Failure	400				{object}	map[string]string
//	@Failure	404				{object}	map[string]string
//	@Failure	502				{object}	map[string]string
//	@Router		/api/vaccine-map [get]
func (h *MapHandler) VaccineMap(c *gin.Context) {
	res, err := h.buildVaccine(c)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// VaccineOptions handles GET /api/vaccine-map/options requests
//
//	@Summary	Filter choices for the vaccine map
//	@Tags		maps
//	@Produce	json
//	@Param		year	query		int	false	"year, defaults to the latest"
//	@Success	200		{object}	service.VaccineOptions
//	@Failure	400		{object}	map[string]string
//	@Router		/api/vaccine-map/options [get]
func (h *MapHandler) VaccineOptions(c *gin.Context) {
	year, err := yearParam(c)
	if err != nil {
		abortWithError(c, err)
		return
	}
	opts, err := h.vaccine.Options(c.Request.Context(), year)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, opts)
}

// PantryPage handles GET /pantry
func (h *MapHandler) PantryPage(c *gin.Context) {
	data := gin.H{"Title": "Pet Pantry Client Map", "Page": "pantry"}
	res, err := h.buildPantry(c)
	if err != nil {
		renderError(c, "pantry.html", data, err)
		return
	}
	data["Result"] = res
	data["View"] = viewJSON(res.View)
	c.HTML(http.StatusOK, "pantry.html", data)
}

// VaccinePage handles GET /vaccine
func (h *MapHandler) VaccinePage(c *gin.Context) {
	data := gin.H{"Title": "Vaccine Clinic Reach Map", "Page": "vaccine"}
	res, err := h.buildVaccine(c)
	if err != nil {
		renderError(c, "vaccine.html", data, err)
		return
	}
	data["Result"] = res
	data["View"] = viewJSON(res.View)
	c.HTML(http.StatusOK, "vaccine.html", data)
}

func (h *MapHandler) buildPantry(c *gin.Context) (*service.PantryMapResult, error) {
	year, err := yearParam(c)
	if err != nil {
		return nil, err
	}
	return h.pantry.Build(c.Request.Context(), service.PantryMapQuery{
		Year:    year,
		MapType: c.Query("type"),
	})
}

func (h *MapHandler) buildVaccine(c *gin.Context) (*service.VaccineMapResult, error) {
	year, err := yearParam(c)
	if err != nil {
		return nil, err
	}
	return h.vaccine.Build(c.Request.Context(), service.VaccineFilter{
		Year:         year,
		Event:        c.Query("event"),
		Employment:   c.Query("employment"),
		Assistance:   c.Query("assistance"),
		Income:       c.Query("income"),
		Microchipped: c.Query("microchipped"),
		MapType:      c.Query("type"),
	})
}

func yearParam(c *gin.Context) (int, error) {
	s := strings.TrimSpace(c.Query("year"))
	if s == "" {
		return 0, nil
	}
	year, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: year %q", service.ErrInvalidFilter, s)
	}
	return year, nil
}

// renderError shows the page with an inline error banner instead of a map.
func renderError(c *gin.Context, name string, data gin.H, err error) {
	status := statusFor(err)
	logError(c, status, err)
	data["Error"] = err.Error()
	c.HTML(status, name, data)
}

// viewJSON encodes the view model for the page script. HTML escaping keeps
// the payload safe inside a script element.
func viewJSON(vm render.ViewModel) template.JS {
	b, err := sonic.ConfigStd.Marshal(vm)
	if err != nil {
		return template.JS("null")
	}
	return template.JS(b)
}
