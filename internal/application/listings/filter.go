package listings

import (
	"strconv"
	"strings"
)

// filterAll is the query-parameter value meaning "no filter" for the enum and
// boolean filters, same as an absent parameter.
const filterAll = "all"

// Filters carries the raw, optional browse query parameters. All values are
// strings straight from the query; Build decides what is usable.
type Filters struct {
	Search       string
	MinPrice     string
	MaxPrice     string
	Bedrooms     string
	Bathrooms    string
	PropertyType string
	Status       string
	Featured     string
}

// Build translates the populated filters into parameterized SQL predicate
// fragments and a matching ordered argument list, combinable as
// "WHERE <frag1> AND <frag2> ...". Values are always bound, never
// interpolated. Malformed numeric input is treated as an absent filter, not
// an error.
func (f Filters) Build() ([]string, []interface{}) {
	var conds []string
	var args []interface{}

	if s := strings.TrimSpace(f.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		conds = append(conds, "(LOWER(title) LIKE ? OR LOWER(location) LIKE ? OR LOWER(description) LIKE ?)")
		args = append(args, like, like, like)
	}

	if f.MinPrice != "" {
		if v, err := strconv.ParseFloat(f.MinPrice, 64); err == nil {
			conds = append(conds, "price >= ?")
			args = append(args, v)
		}
	}
	if f.MaxPrice != "" {
		if v, err := strconv.ParseFloat(f.MaxPrice, 64); err == nil {
			conds = append(conds, "price <= ?")
			args = append(args, v)
		}
	}

	// Bedrooms and bathrooms are minimum thresholds, not exact matches.
	if f.Bedrooms != "" {
		if v, err := strconv.Atoi(f.Bedrooms); err == nil {
			conds = append(conds, "bedrooms >= ?")
			args = append(args, v)
		}
	}
	if f.Bathrooms != "" {
		if v, err := strconv.ParseFloat(f.Bathrooms, 64); err == nil {
			conds = append(conds, "bathrooms >= ?")
			args = append(args, v)
		}
	}

	if f.PropertyType != "" && f.PropertyType != filterAll {
		conds = append(conds, "property_type = ?")
		args = append(args, f.PropertyType)
	}
	if f.Status != "" && f.Status != filterAll {
		conds = append(conds, "status = ?")
		args = append(args, f.Status)
	}

	switch f.Featured {
	case "true":
		conds = append(conds, "featured = ?")
		args = append(args, true)
	case "false":
		conds = append(conds, "featured = ?")
		args = append(args, false)
	}

	return conds, args
}
