package experiment

import (
	"encoding/csv"
	"fmt"
	"os"
	"time"

	"gonum.org/v1/gonum/mat"
	"gopkg.in/yaml.v3"

	"github.com/Benxzz/ESL/internal/data"
	"github.com/Benxzz/ESL/internal/evaluation"
	"github.com/Benxzz/ESL/internal/models"
	"github.com/Benxzz/ESL/internal/preprocessing"
)

// Runner fits every configured algorithm under every preprocessing and
// split combination and collects held-out metrics. There is no
// hyperparameter search: the three classifiers take none.
type Runner struct {
	Config *Config
}

type Config struct {
	Experiment struct {
		Preprocessing   []string  `yaml:"preprocessing"`
		TrainTestSplits []float64 `yaml:"train_test_splits"`
		Algorithms      []string  `yaml:"algorithms"`
		Seed            int64     `yaml:"seed"`
	} `yaml:"experiment"`
}

type Result struct {
	Dataset        string
	Algorithm      string
	Preprocessing  string
	TrainTestSplit string
	Accuracy       float64
	ErrorRate      float64
	Precision      float64
	Recall         float64
	F1Score        float64
	TrainingTimeMs int64
	FitError       string
}

func NewRunner(configFile string) *Runner {
	config := &Config{}

	raw, err := os.ReadFile(configFile)
	if err == nil {
		yaml.Unmarshal(raw, config)
	}

	if len(config.Experiment.Preprocessing) == 0 {
		config.Experiment.Preprocessing = []string{"raw"}
	}
	if len(config.Experiment.TrainTestSplits) == 0 {
		config.Experiment.TrainTestSplits = []float64{0.2}
	}
	if len(config.Experiment.Algorithms) == 0 {
		config.Experiment.Algorithms = models.Algorithms()
	}
	if config.Experiment.Seed == 0 {
		config.Experiment.Seed = time.Now().UnixNano()
	}

	return &Runner{Config: config}
}

func (r *Runner) RunAllExperiments(dataFile string) ([]Result, error) {
	reader, err := data.NewCSVReader(dataFile)
	if err != nil {
		return nil, err
	}
	X, y, _, _, err := reader.LoadData()
	if err != nil {
		return nil, err
	}

	var results []Result

	for _, prepMethod := range r.Config.Experiment.Preprocessing {
		XProcessed := r.preprocess(X, prepMethod)

		for _, testSize := range r.Config.Experiment.TrainTestSplits {
			for _, algorithm := range r.Config.Experiment.Algorithms {
				result := r.evaluate(algorithm, XProcessed, y, prepMethod, testSize, dataFile)
				results = append(results, result)
			}
		}
	}

	return results, nil
}

func (r *Runner) preprocess(X *mat.Dense, method string) *mat.Dense {
	switch method {
	case "normalized", "minmax":
		scaler := preprocessing.NewScaler("minmax")
		result, err := scaler.FitTransform(X)
		if err != nil {
			return X
		}
		return result
	case "standardized", "standard":
		scaler := preprocessing.NewScaler("standard")
		result, err := scaler.FitTransform(X)
		if err != nil {
			return X
		}
		return result
	default:
		return X
	}
}

func (r *Runner) evaluate(algorithm string, X *mat.Dense, y []int, prep string, testSize float64, dataset string) Result {
	result := Result{
		Dataset:        dataset,
		Algorithm:      algorithm,
		Preprocessing:  prep,
		TrainTestSplit: fmt.Sprintf("%.0f-%.0f", (1-testSize)*100, testSize*100),
	}

	model, err := models.CreateModel(models.ModelConfig{Algorithm: algorithm})
	if err != nil {
		result.FitError = err.Error()
		return result
	}

	splitter := evaluation.NewTrainTestSplitter(testSize, r.Config.Experiment.Seed, true)
	XTrain, XTest, yTrain, yTest, err := splitter.StratifiedSplit(X, y)
	if err != nil {
		result.FitError = err.Error()
		return result
	}

	startTime := time.Now()
	if err := model.Fit(XTrain, yTrain); err != nil {
		result.FitError = err.Error()
		return result
	}
	result.TrainingTimeMs = time.Since(startTime).Milliseconds()

	predictions, err := model.Predict(XTest)
	if err != nil {
		result.FitError = err.Error()
		return result
	}

	classes := models.ExtractClasses(y)
	metrics := evaluation.CalculateMetrics(yTest, predictions, classes)

	result.Accuracy = metrics.Accuracy
	result.ErrorRate = metrics.ErrorRate
	result.Precision = metrics.MacroPrecision
	result.Recall = metrics.MacroRecall
	result.F1Score = metrics.MacroF1

	return result
}

func (r *Runner) ExportResults(results []Result, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	writer.Write([]string{
		"Dataset", "Algorithm", "Preprocessing", "TrainTestSplit",
		"Accuracy", "ErrorRate", "Precision", "Recall", "F1Score",
		"TrainingTimeMs", "FitError",
	})

	for _, result := range results {
		writer.Write([]string{
			result.Dataset,
			result.Algorithm,
			result.Preprocessing,
			result.TrainTestSplit,
			fmt.Sprintf("%.4f", result.Accuracy),
			fmt.Sprintf("%.4f", result.ErrorRate),
			fmt.Sprintf("%.4f", result.Precision),
			fmt.Sprintf("%.4f", result.Recall),
			fmt.Sprintf("%.4f", result.F1Score),
			fmt.Sprintf("%d", result.TrainingTimeMs),
			result.FitError,
		})
	}

	return nil
}
