package httpapi

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/urbo/internal/planning"
)

var validate = newValidator()

// newValidator reports fields by their wire names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "query"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return fld.Name
	})
	return v
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *planning.Service) {
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON("Welcome to URBO")
	})

	app.Post("/geocode", func(c *fiber.Ctx) error {
		var req geocodeRequest
		if err := bindBody(c, &req); err != nil {
			return err
		}

		rec, err := service.Geocode(c.UserContext(), req.Address)
		if err != nil {
			return err
		}
		return c.JSON(geocodeResponse(rec))
	})

	app.Post("/reverse-geocode", func(c *fiber.Ctx) error {
		var req reverseGeocodeRequest
		if err := bindBody(c, &req); err != nil {
			return err
		}

		rec, err := service.ReverseGeocode(c.UserContext(), *req.Latitude, *req.Longitude)
		if err != nil {
			return err
		}
		return c.JSON(geocodeResponse(rec))
	})

	app.Post("/fetch-nearby-places/", func(c *fiber.Ctx) error {
		var req nearbyPlacesRequest
		if err := bindBody(c, &req); err != nil {
			return err
		}

		rec, err := service.NearbyPlaces(c.UserContext(), planning.NearbyPlacesQuery{
			Keywords:    req.Keywords,
			RefLocation: planning.Point{Lat: req.RefLocation[0], Lon: req.RefLocation[1]},
			Radius:      req.Radius,
			Region:      req.Region,
		})
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{
			"id":                     rec.ID,
			"keywords":               rec.Keywords,
			"ref_location":           []float64{rec.RefLocation.Lat, rec.RefLocation.Lon},
			"nearby_places_response": rec.Raw,
		})
	})

	app.Get("/fetch-air-pollution-data/", func(c *fiber.Ctx) error {
		q := newQueryParser(c)
		lat, lon := q.float("latitude"), q.float("longitude")
		if err := q.err(); err != nil {
			return err
		}

		rec, err := service.AirQuality(c.UserContext(), lat, lon)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{
			"id": rec.ID,
			"center_coordinates": fiber.Map{
				"lon": rec.ReportedCenter.Lon,
				"lat": rec.ReportedCenter.Lat,
			},
			"air_pollution_response": rec.Snapshots,
		})
	})

	app.Get("/stillmap", func(c *fiber.Ctx) error {
		q := newQueryParser(c)
		lat, lon := q.float("lat"), q.float("lon")
		zoom := q.optionalInt("zoom", planning.DefaultZoom, 0)
		if err := q.err(); err != nil {
			return err
		}

		rec, err := service.StaticMap(c.UserContext(), lat, lon, zoom, c.Query("size"))
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{
			"id":      rec.ID,
			"center":  []float64{rec.Center.Lon, rec.Center.Lat},
			"map_img": rec.Image,
		})
	})

	app.Post("/aggregate-endpoint", func(c *fiber.Ctx) error {
		var req aggregateRequest
		if err := bindBody(c, &req); err != nil {
			return err
		}

		res, err := service.Aggregate(c.UserContext(), planning.AggregateRequest{
			Address:  req.Address,
			Keywords: req.Keywords,
			Region:   req.Region,
			Radius:   req.Radius,
			Zoom:     req.Zoom,
			Size:     req.Size,
		})
		if err != nil {
			return err
		}
		return c.JSON(res)
	})
}

type geocodeRequest struct {
	Address string `json:"address" validate:"required"`
}

type reverseGeocodeRequest struct {
	Latitude  *float64 `json:"latitude" validate:"required,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude" validate:"required,gte=-180,lte=180"`
}

type nearbyPlacesRequest struct {
	Keywords    []string  `json:"keywords" validate:"required,min=1,dive,required,excludes=0x2C"`
	RefLocation []float64 `json:"ref_location" validate:"required,len=2"`
	Region      string    `json:"region"`
	Radius      int       `json:"radius" validate:"gte=0"`
}

type aggregateRequest struct {
	Address  string   `json:"address" validate:"required"`
	Keywords []string `json:"keywords" validate:"required,min=1,dive,required,excludes=0x2C"`
	Region   string   `json:"region"`
	Radius   int      `json:"radius" validate:"gte=0"`
	Zoom     int      `json:"zoom" validate:"gte=0"`
	Size     string   `json:"size"`
}

func bindBody(c *fiber.Ctx, v any) error {
	if err := c.BodyParser(v); err != nil {
		return newValidationError(err)
	}
	if err := validate.Struct(v); err != nil {
		return newValidationError(err)
	}
	return nil
}

// queryParser reads typed query parameters and collects one FieldError per
// missing or malformed parameter.
type queryParser struct {
	c      *fiber.Ctx
	fields []FieldError
}

func newQueryParser(c *fiber.Ctx) *queryParser {
	return &queryParser{c: c}
}

func (p *queryParser) float(key string) float64 {
	raw := p.c.Query(key)
	if raw == "" {
		p.fields = append(p.fields, FieldError{Field: key, Message: "field required"})
		return 0
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		p.fields = append(p.fields, FieldError{Field: key, Message: "must be a number"})
		return 0
	}
	return f
}

func (p *queryParser) optionalInt(key string, def, min int) int {
	raw := p.c.Query(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		p.fields = append(p.fields, FieldError{Field: key, Message: "must be an integer"})
		return def
	}
	if n < min {
		p.fields = append(p.fields, FieldError{Field: key, Message: fmt.Sprintf("must be greater than or equal to %d", min)})
		return def
	}
	return n
}

func (p *queryParser) err() error {
	if len(p.fields) > 0 {
		return &ValidationError{Fields: p.fields}
	}
	return nil
}

func geocodeResponse(rec planning.GeocodeRecord) fiber.Map {
	return fiber.Map{
		"id":               rec.ID,
		"address":          rec.Address,
		"latitude":         rec.Latitude,
		"longitude":        rec.Longitude,
		"ref_location":     rec.Location().WKT(),
		"geocode_response": rec.Raw,
	}
}
