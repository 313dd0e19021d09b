package handler

import (
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/camp-directory/internal/domain"
)

// Camp is the wire form of domain.Camp. Tagged unions are spelled out as
// a flag plus optional bounds so clients never parse display text.
type Camp struct {
	Name         string              `json:"name"`
	Type         domain.CampType     `json:"type"`
	Borough      string              `json:"borough,omitempty"`
	AgeRange     AgeRange            `json:"ageRange"`
	Languages    []string            `json:"languages"`
	Dates        DateRange           `json:"dates"`
	Hours        string              `json:"hours,omitempty"`
	Cost         Cost                `json:"cost"`
	FinancialAid string              `json:"financialAid"`
	Link         string              `json:"link"`
	Phone        Phone               `json:"phone"`
	Email        string              `json:"email,omitempty"`
	Address      string              `json:"address,omitempty"`
	Notes        string              `json:"notes,omitempty"`
	Coordinates  *domain.Coordinates `json:"coordinates,omitempty"`
}

type AgeRange struct {
	AllAges bool `json:"allAges"`
	From    *int `json:"from,omitempty"`
	To      *int `json:"to,omitempty"`
}

type DateRange struct {
	YearRound bool                `json:"yearRound"`
	From      *openapi_types.Date `json:"from,omitempty"`
	To        *openapi_types.Date `json:"to,omitempty"`
}

type Cost struct {
	Amount float64       `json:"amount"`
	Period domain.Period `json:"period"`
}

type Phone struct {
	Number    string `json:"number"`
	Extension string `json:"extension,omitempty"`
}

// Pagination describes the page returned by a list endpoint.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

// CampList is the body of GET /camps.
type CampList struct {
	Data       []Camp     `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// FacetsResponse is the body of GET /camps/facets.
type FacetsResponse struct {
	Boroughs  []string `json:"boroughs"`
	Languages []string `json:"languages"`
}

// campToResponse converts a domain.Camp into its wire form.
func campToResponse(c domain.Camp) Camp {
	resp := Camp{
		Name:         c.Name,
		Type:         c.Type,
		Borough:      c.Borough,
		AgeRange:     AgeRange{AllAges: c.AgeRange.AllAges},
		Languages:    c.Languages,
		Dates:        DateRange{YearRound: c.Dates.YearRound},
		Hours:        c.Hours,
		Cost:         Cost{Amount: c.Cost.Amount, Period: c.Cost.Period},
		FinancialAid: c.FinancialAid,
		Link:         c.Link,
		Phone:        Phone{Number: c.Phone.Number, Extension: c.Phone.Extension},
		Email:        c.Email,
		Address:      c.Address,
		Notes:        c.Notes,
		Coordinates:  c.Coordinates,
	}
	if resp.Languages == nil {
		resp.Languages = []string{}
	}
	if !c.AgeRange.AllAges {
		from, to := c.AgeRange.From, c.AgeRange.To
		resp.AgeRange.From, resp.AgeRange.To = &from, &to
	}
	if !c.Dates.YearRound {
		resp.Dates.From = &openapi_types.Date{Time: c.Dates.From}
		resp.Dates.To = &openapi_types.Date{Time: c.Dates.To}
	}
	return resp
}

// requestToCamp converts a request body into a domain.Camp. Missing bounds
// become zero values and are rejected later by Camp.Validate.
func requestToCamp(body Camp) domain.Camp {
	c := domain.Camp{
		Name:         body.Name,
		Type:         body.Type,
		Borough:      body.Borough,
		Languages:    body.Languages,
		Hours:        body.Hours,
		Cost:         domain.Cost{Amount: body.Cost.Amount, Period: body.Cost.Period},
		FinancialAid: body.FinancialAid,
		Link:         body.Link,
		Phone:        domain.Phone{Number: body.Phone.Number, Extension: body.Phone.Extension},
		Email:        body.Email,
		Address:      body.Address,
		Notes:        body.Notes,
		Coordinates:  body.Coordinates,
	}

	if body.AgeRange.AllAges {
		c.AgeRange = domain.AllAges()
	} else {
		c.AgeRange = domain.AgesBetween(derefInt(body.AgeRange.From), derefInt(body.AgeRange.To))
	}

	if body.Dates.YearRound {
		c.Dates = domain.YearRound()
	} else {
		var r domain.DateRange
		if body.Dates.From != nil {
			r.From = body.Dates.From.Time
		}
		if body.Dates.To != nil {
			r.To = body.Dates.To.Time
		}
		if !r.From.IsZero() && !r.To.IsZero() {
			r = domain.DatesBetween(r.From, r.To)
		}
		c.Dates = r
	}
	return c
}

func campsToResponse(camps []domain.Camp) []Camp {
	out := make([]Camp, len(camps))
	for i, c := range camps {
		out[i] = campToResponse(c)
	}
	return out
}

func derefInt(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}
