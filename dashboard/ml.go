package dashboard

import (
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/YuminosukeSato/sfhousing/pkg/errors"
)

// MLTitle is the header of the ML template page.
const MLTitle = "Welcome to the Awesome project!"

// Hyperparameter ranges of the model training panel.
const (
	MaxDepthMin  = 10
	MaxDepthMax  = 100
	MaxDepthStep = 10

	// NoTreeLimit is the Trees value of the "No limit" option.
	NoTreeLimit = 0
)

// TreeChoices are the selectable tree counts in display order.
var TreeChoices = []int{100, 200, 300, NoTreeLimit}

// Hyperparameters holds the widget values of the ML template page.
type Hyperparameters struct {
	MaxDepth     int    `validate:"min=10,max=100,step10"`
	Trees        int    `validate:"oneof=0 100 200 300"`
	InputFeature string `validate:"required,max=64"`
}

// DefaultHyperparameters returns the initial widget values.
func DefaultHyperparameters() Hyperparameters {
	return Hyperparameters{MaxDepth: 20, Trees: 100, InputFeature: "PULocationID"}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("step10", func(fl validator.FieldLevel) bool {
		return fl.Field().Int()%MaxDepthStep == 0
	})
	return v
}

// Validate checks h against the widget ranges.
func (h Hyperparameters) Validate() error {
	if err := validate.Struct(h); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return errors.NewValidationError(fe.Field(), "failed on '"+fe.Tag()+"' rule", fe.Value())
		}
		return errors.Wrap(err, "hyperparameter validation failed")
	}
	return nil
}

// TreesLabel returns the display label of a tree count.
func TreesLabel(n int) string {
	if n == NoTreeLimit {
		return "No limit"
	}
	return strconv.Itoa(n)
}

// ParseHyperparameters reads raw widget values. Empty values keep their
// defaults; trees accepts "No limit" for NoTreeLimit.
func ParseHyperparameters(maxDepth, trees, feature string) (Hyperparameters, error) {
	h := DefaultHyperparameters()
	if maxDepth != "" {
		v, err := strconv.Atoi(maxDepth)
		if err != nil {
			return h, errors.NewValidationError("MaxDepth", "not an integer", maxDepth)
		}
		h.MaxDepth = v
	}
	switch t := strings.TrimSpace(trees); {
	case t == "":
	case strings.EqualFold(t, "no limit"):
		h.Trees = NoTreeLimit
	default:
		v, err := strconv.Atoi(t)
		if err != nil {
			return h, errors.NewValidationError("Trees", "not an integer", trees)
		}
		h.Trees = v
	}
	if feature != "" {
		h.InputFeature = feature
	}
	return h, h.Validate()
}

// MLTemplate builds the ML exploration page. It has no training logic; the
// hyperparameters are only echoed back into their widgets.
func MLTemplate(h Hyperparameters) (*Page, error) {
	if err := h.Validate(); err != nil {
		return nil, err
	}

	trees := make([]Option, len(TreeChoices))
	for i, n := range TreeChoices {
		trees[i] = Option{Value: strconv.Itoa(n), Label: TreesLabel(n)}
	}

	return &Page{
		Title: MLTitle,
		Intro: []string{"In this project I look into ... And I try ... I worked with the dataset from ..."},
		Panels: []Panel{
			{
				ID:         "dataset",
				Heading:    "Dataset: Iris flower dataset",
				Paragraphs: []string{"I found this dataset at... I decided to work with it because ..."},
			},
			{
				ID:         "features",
				Heading:    "New features I came up with",
				Paragraphs: []string{"Let's take a look into the features I generated."},
			},
			{
				ID:         "training",
				Heading:    "Model training",
				Paragraphs: []string{"In this section you can select the hyperparameters!"},
				Controls: []Control{
					{
						Name: "max_depth", Label: "What should be the max_depth of the model?", Kind: ControlSlider,
						Value: strconv.Itoa(h.MaxDepth), Min: MaxDepthMin, Max: MaxDepthMax, Step: MaxDepthStep,
					},
					{
						Name: "trees", Label: "How many trees should there be?", Kind: ControlSelect,
						Options: trees, Value: strconv.Itoa(h.Trees),
					},
					{
						Name: "feature", Label: "Which feature would you like to input to the model?", Kind: ControlText,
						Value: h.InputFeature,
					},
				},
				Epilogue: []string{"Here is a list of features: "},
			},
		},
	}, nil
}
