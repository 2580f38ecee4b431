// Package datasettest writes small, deterministic copies of the six input
// CSVs for tests.
package datasettest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// Region describes one fixture county.
type Region struct {
	County  string
	State   string
	Base    float64 // price of the first month
	Density float64 // 0 writes an empty density cell
	InPrice bool
	Rate    float64
	Coef    string // written verbatim, "" is missing
}

// Regions are the fixture counties in file order.
var Regions = []Region{
	{County: "San Francisco County", State: "CA", Base: 800000, Density: 18000, InPrice: true, Rate: 0.08, Coef: "0.79"},
	{County: "Alameda County", State: "CA", Base: 600000, Density: 2200, InPrice: true, Rate: 0.1, Coef: "0.6"},
	{County: "Los Angeles County", State: "CA", Base: 550000, Density: 2500, InPrice: true, Rate: 0.05, Coef: "0.4"},
	{County: "Kings County", State: "NY", Base: 700000, Density: 37000, InPrice: true, Rate: 0.02, Coef: "0.2"},
	{County: "Cook County", State: "IL", Base: 250000, Density: 0, InPrice: true, Rate: -0.01, Coef: "-0.3"},
	{County: "Harris County", State: "TX", Base: 200000, Density: 2600, InPrice: true, Rate: 0.2, Coef: "0.5"},
	{County: "Loving County", State: "TX", Base: 0, Density: 0.1, InPrice: false, Rate: 0.9, Coef: "0.9"},
	{County: "Maricopa County", State: "AZ", Base: 300000, Density: 450, InPrice: true, Rate: 0.6, Coef: ""},
	{County: "King County", State: "WA", Base: 500000, Density: 1000, InPrice: true, Rate: 0.12, Coef: "0.7"},
}

// Months is the number of monthly price columns (2000-01 .. 2002-12).
const Months = 36

// Years are the population years.
var Years = []int{2000, 2001, 2002}

// MonthEnd returns the i-th month column date.
func MonthEnd(i int) time.Time {
	first := time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC).AddDate(0, i+1, 0)
	return first.AddDate(0, 0, -1)
}

// Price is the fixture price of region r at month i, or "" when missing.
// Alameda misses its first three months and Harris misses months 10..12.
func Price(r Region, i int) string {
	switch {
	case r.County == "Alameda County" && i < 3:
		return ""
	case r.County == "Harris County" && i >= 10 && i <= 12:
		return ""
	}
	return fmt.Sprintf("%.0f", r.Base+500*float64(i))
}

// Population is the fixture population of region index k in year index y.
func Population(k, y int) float64 {
	return float64(100000*(k+1) + 1000*y)
}

// Write writes all six CSVs into dir.
func Write(t testing.TB, dir string) {
	t.Helper()
	files := map[string]string{
		"salesf.csv":     salesSF(),
		"population.csv": populationSF(),
		"sale_all.csv":   prices(),
		"pop_all.csv":    populations(),
		"corr.csv":       correlations(),
		"newcon.csv":     construction(),
	}
	for name, body := range files {
		WriteFile(t, dir, name, body)
	}
}

// Dir creates a temporary directory with all fixtures.
func Dir(t testing.TB) string {
	t.Helper()
	dir := t.TempDir()
	Write(t, dir)
	return dir
}

// WriteFile writes one file into dir.
func WriteFile(t testing.TB, dir, name, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
		t.Fatalf("write fixture %s: %v", name, err)
	}
}

func salesSF() string {
	var b strings.Builder
	b.WriteString("Date,San Francisco\n")
	for i := 0; i < Months; i++ {
		fmt.Fprintf(&b, "%s,%d\n", MonthEnd(i).Format("2006-01-02"), 900000+1000*i)
	}
	return b.String()
}

func populationSF() string {
	var b strings.Builder
	b.WriteString("YEAR,POPULATION\n")
	for i, y := range Years {
		fmt.Fprintf(&b, "%d,%d\n", y, 776000+4000*i)
	}
	return b.String()
}

func prices() string {
	var b strings.Builder
	b.WriteString("RegionName,State,SizeRank")
	for i := 0; i < Months; i++ {
		b.WriteString("," + MonthEnd(i).Format("2006-01-02"))
	}
	b.WriteString("\n")
	for k, r := range Regions {
		if !r.InPrice {
			continue
		}
		fmt.Fprintf(&b, "%s,%s,%d", r.County, r.State, k+1)
		for i := 0; i < Months; i++ {
			b.WriteString("," + Price(r, i))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func populations() string {
	var b strings.Builder
	b.WriteString("RegionName,State,Year,Population,Density\n")
	for k, r := range Regions {
		for y, year := range Years {
			density := ""
			if r.Density != 0 {
				density = fmt.Sprintf("%g", r.Density+float64(y))
			}
			fmt.Fprintf(&b, "%s,%s,%d,%.0f,%s\n", r.County, r.State, year, Population(k, y), density)
		}
	}
	return b.String()
}

func correlations() string {
	var b strings.Builder
	b.WriteString("RegionName,State,Population Increase Rate,Correlation Coefficient\n")
	for _, r := range Regions {
		fmt.Fprintf(&b, "%s,%s,%g,%s\n", r.County, r.State, r.Rate, r.Coef)
	}
	return b.String()
}

func construction() string {
	var b strings.Builder
	b.WriteString(",index,New Residential Units Cumulated,Population Increase Cumulated\n")
	for i := 0; i < 19; i++ {
		fmt.Fprintf(&b, "%d,%d,%d,%d\n", i, 2000+i, 1500*(i+1), 4000*(i+1))
	}
	return b.String()
}
