// Package sfhousing renders dashboards that relate housing prices to
// population in San Francisco and across U.S. counties.
//
// Six CSV files are loaded per render pass by package dataset. Package
// analysis derives the plotted series and scatter fits from them, using
// linear, metrics and preprocessing. Package dashboard turns the results
// into pages of panels holding backend-neutral chart descriptions, which
// package chart draws as ECharts HTML or PNG images.
//
// # Packages
//
//   - dataset: CSV loading and typed tables
//   - preprocessing: forward fill, latest value and subsampling of series
//   - linear: least-squares fits (Polyfit1, LinearRegression)
//   - metrics: Pearson correlation and R²
//   - analysis: the series and scatter data behind each panel
//   - chart: chart model with ECharts and gonum/plot renderers
//   - dashboard: housing and ML template pages, region selector
//   - report: xlsx export of the scatter and construction datasets
//   - server: chi HTTP server with Prometheus metrics
//   - pkg/config, pkg/log, pkg/errors: configuration, logging and errors
//
// # Usage
//
//	sfhousing serve --data-dir ./data
//	sfhousing render --out ./out --state CA --county "San Francisco County"
//	sfhousing export --out ./out/sfhousing.xlsx
package sfhousing
