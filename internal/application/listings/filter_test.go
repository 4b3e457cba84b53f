package listings

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func placeholderCount(conds []string) int {
	n := 0
	for _, c := range conds {
		n += strings.Count(c, "?")
	}
	return n
}

func TestBuild_Empty(t *testing.T) {
	conds, args := Filters{}.Build()
	assert.Empty(t, conds)
	assert.Empty(t, args)
}

func TestBuild_AllFilters(t *testing.T) {
	f := Filters{
		Search:       "Ocean",
		MinPrice:     "100000",
		MaxPrice:     "900000",
		Bedrooms:     "3",
		Bathrooms:    "2.5",
		PropertyType: "house",
		Status:       "for_sale",
		Featured:     "true",
	}
	conds, args := f.Build()
	assert.Len(t, conds, 8)
	assert.Equal(t, placeholderCount(conds), len(args))
}

func TestBuild_SearchBindsThreeArgs(t *testing.T) {
	conds, args := Filters{Search: "Ocean View"}.Build()
	assert.Len(t, conds, 1)
	assert.Len(t, args, 3)
	for _, a := range args {
		assert.Equal(t, "%ocean view%", a)
	}
}

func TestBuild_MalformedNumericIgnored(t *testing.T) {
	f := Filters{
		MinPrice:  "cheap",
		MaxPrice:  "1e99x",
		Bedrooms:  "three",
		Bathrooms: "two and a half",
	}
	conds, args := f.Build()
	assert.Empty(t, conds)
	assert.Empty(t, args)
}

func TestBuild_AllMeansNoFilter(t *testing.T) {
	f := Filters{PropertyType: "all", Status: "all", Featured: "all"}
	conds, args := f.Build()
	assert.Empty(t, conds)
	assert.Empty(t, args)
}

func TestBuild_FeaturedFalse(t *testing.T) {
	conds, args := Filters{Featured: "false"}.Build()
	assert.Equal(t, []string{"featured = ?"}, conds)
	assert.Equal(t, []interface{}{false}, args)
}

func TestBuild_PositionalCorrectness(t *testing.T) {
	cases := []Filters{
		{MinPrice: "1"},
		{Search: "x", MaxPrice: "5"},
		{Search: "x", MinPrice: "bogus", Bedrooms: "2", Featured: "true"},
		{PropertyType: "condo", Status: "pending", Bathrooms: "1.5"},
	}
	for _, f := range cases {
		conds, args := f.Build()
		assert.Equal(t, placeholderCount(conds), len(args))
	}
}
