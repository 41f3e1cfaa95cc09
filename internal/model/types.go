package model

const (
	LayoutNHWC = "NHWC"
	LayoutNCHW = "NCHW"
)

type Metadata struct {
	InputShape  []int64  `json:"input_shape"`
	OutputShape []int64  `json:"output_shape"`
	Classes     []string `json:"classes"`
	ImageSize   int      `json:"image_size"`
	Layout      string   `json:"layout"`
	Scale       float32  `json:"scale"`
	InputName   string   `json:"input_name"`
	OutputName  string   `json:"output_name"`
}

// InputSize is the number of values a single inference consumes.
func (m Metadata) InputSize() int {
	return shapeSize(m.InputShape)
}

func shapeSize(shape []int64) int {
	if len(shape) == 0 {
		return 0
	}
	n := 1
	for _, dim := range shape {
		n *= int(dim)
	}
	return n
}

type Prediction struct {
	Model       string             `json:"model"`
	Class       string             `json:"class"`
	Confidence  float32            `json:"confidence"`
	Predictions map[string]float32 `json:"predictions"`
}

// YieldInput carries the crop yield form. Field order matches the
// regressor's feature vector.
type YieldInput struct {
	Crop           string  `json:"crop" mapstructure:"crop"`
	CropYear       int     `json:"crop_year" mapstructure:"crop_year"`
	Season         string  `json:"season" mapstructure:"season"`
	State          string  `json:"state" mapstructure:"state"`
	Area           float64 `json:"area" mapstructure:"area"`
	Production     float64 `json:"production" mapstructure:"production"`
	AnnualRainfall float64 `json:"annual_rainfall" mapstructure:"annual_rainfall"`
	Fertilizer     float64 `json:"fertilizer" mapstructure:"fertilizer"`
	Pesticide      float64 `json:"pesticide" mapstructure:"pesticide"`
}

type YieldPrediction struct {
	Yield    float32   `json:"yield"`
	Features []float32 `json:"features"`
}

var DiseaseClasses = []string{"Healthy", "Powdery", "Rust"}

var SpeciesClasses = []string{
	"aloevera", "banana", "bilimbi", "cantaloupe", "cassava", "coconut", "corn",
	"cucumber", "curcuma", "eggplant", "galangal", "ginger", "guava", "kale",
	"longbeans", "mango", "melon", "orange", "paddy", "papaya", "peperchili",
	"pineapple", "pomelo", "shallot", "soybeans", "spinach", "sweetpotatoes",
	"tobacco", "waterapple", "watermelon",
}

type TensorRequest struct {
	Image []float32 `json:"image"`
}
