// Standard attribute keys for dataset loading and render passes.
//
// Keys follow a hierarchical naming convention (e.g. "dataset.name",
// "render.id") so log lines can be filtered per concern.

package log

// Component and operation context.
const (
	// ComponentKey identifies which package emitted the record.
	// Examples: "dataset", "dashboard", "server"
	ComponentKey = "component"

	// OperationKey names the operation being performed.
	OperationKey = "operation"
)

// Dataset context.
const (
	// DatasetKey is the logical dataset name, e.g. "prices" or "corr".
	DatasetKey = "dataset.name"

	// PathKey is the file a dataset was read from.
	PathKey = "dataset.path"

	// RowsKey and ColumnsKey describe the loaded frame.
	RowsKey    = "data.rows"
	ColumnsKey = "data.columns"

	// PointsKey counts points in a series or scatter after filtering.
	PointsKey = "data.points"

	// SkippedKey counts records dropped by a filter.
	SkippedKey = "data.skipped"
)

// Render pass context.
const (
	// RenderIDKey uniquely identifies one load-compute-draw-display pass.
	RenderIDKey = "render.id"

	// PanelKey identifies a dashboard panel.
	// Examples: "sf", "counties", "correlation", "density", "construction"
	PanelKey = "render.panel"

	// PageKey identifies the dashboard page ("housing" or "ml").
	PageKey = "render.page"

	// StateKey and CountyKey record the active selection.
	StateKey  = "selection.state"
	CountyKey = "selection.county"

	// ArtifactKey is the path of a file written as a side effect of rendering.
	ArtifactKey = "render.artifact"
)

// Statistics.
const (
	// PearsonKey records a computed correlation coefficient.
	PearsonKey = "stats.pearson"

	// SlopeKey and InterceptKey record a fitted line.
	SlopeKey     = "stats.slope"
	InterceptKey = "stats.intercept"

	// R2ScoreKey records the coefficient of determination of a fitted line.
	R2ScoreKey = "stats.r2_score"
)

// Performance.
const (
	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"
)

// Error context.
const (
	// ErrorCodeKey provides a structured error code for programmatic handling.
	ErrorCodeKey = "error.code"

	// StatusKey records the HTTP status chosen for a failed render.
	StatusKey = "http.status"
)

// Standard attribute values.
const (
	OperationLoad      = "load"
	OperationRecompute = "recompute"
	OperationAggregate = "aggregate"
	OperationDraw      = "draw"
	OperationExport    = "export"

	ErrorDataUnavailable  = "DATA_UNAVAILABLE"
	ErrorInsufficientData = "INSUFFICIENT_DATA"
	ErrorNoValidData      = "NO_VALID_DATA"
	ErrorInvalidInput     = "INVALID_INPUT"
	ErrorInternal         = "INTERNAL"
)
