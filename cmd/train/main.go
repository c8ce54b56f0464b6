package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/Benxzz/ESL/internal/data"
	"github.com/Benxzz/ESL/internal/evaluation"
	"github.com/Benxzz/ESL/internal/experiment"
	"github.com/Benxzz/ESL/internal/models"
	"github.com/Benxzz/ESL/internal/persistence"
	"github.com/Benxzz/ESL/internal/preprocessing"
)

func main() {
	dataFile := flag.String("data", "", "Path to training data CSV file")
	algorithm := flag.String("algorithm", "lda", "Algorithm to use (lsq|lda|qda)")
	configFile := flag.String("config", "config/config.yaml", "Path to experiment configuration file")
	outputDir := flag.String("output", "models", "Output directory for trained models")
	preprocess := flag.String("preprocess", "raw", "Preprocessing method (raw|normalized|standardized)")
	runExp := flag.Bool("experiment", false, "Run full experiment with config")
	testSize := flag.Float64("test-size", 0.2, "Test set size (0.0-1.0)")
	seed := flag.Int64("seed", 0, "Random seed for the train/test split (0 = time-based)")

	flag.Parse()

	if *dataFile == "" {
		fmt.Println("Usage:")
		fmt.Println("  Simple training: go run cmd/train/main.go -data data/train/vowel.csv -algorithm lda")
		fmt.Println("  Full experiment: go run cmd/train/main.go -experiment -config config/config.yaml -data data/train/vowel.csv")
		fmt.Println("\nOptions:")
		flag.PrintDefaults()
		os.Exit(1)
	}

	if *runExp {
		runExperiment(*configFile, *dataFile, *outputDir)
	} else {
		runSingleTraining(*dataFile, *algorithm, *preprocess, *outputDir, *testSize, *seed)
	}
}

func runExperiment(configFile, dataFile, outputDir string) {
	fmt.Println("Running full experiment...")

	runner := experiment.NewRunner(configFile)
	results, err := runner.RunAllExperiments(dataFile)
	if err != nil {
		log.Fatalf("Experiment failed: %v", err)
	}

	timestamp := time.Now().Format("20060102_150405")
	expDir := filepath.Join(outputDir, fmt.Sprintf("experiment_%s", timestamp))
	os.MkdirAll(expDir, 0755)

	resultsFile := filepath.Join(expDir, "experiment_results.csv")
	if err := runner.ExportResults(results, resultsFile); err != nil {
		log.Printf("Failed to export results: %v", err)
	} else {
		fmt.Printf("Experiment results saved to: %s\n", resultsFile)
	}

	fmt.Printf("\nExperiment Summary:\n")
	fmt.Printf("Total experiments: %d\n", len(results))

	var best *experiment.Result
	for i := range results {
		if results[i].FitError != "" {
			continue
		}
		if best == nil || results[i].Accuracy > best.Accuracy {
			best = &results[i]
		}
	}
	if best != nil {
		fmt.Printf("Best accuracy: %.4f (%s with %s preprocessing)\n",
			best.Accuracy, best.Algorithm, best.Preprocessing)
	}
}

func runSingleTraining(dataFile, algorithm, preprocessMethod, outputDir string, testSize float64, seed int64) {
	fmt.Printf("Training %s model on %s...\n", algorithm, dataFile)

	fmt.Println("Loading dataset...")
	reader, err := data.NewCSVReader(dataFile)
	if err != nil {
		log.Fatalf("Failed to create CSV reader: %v", err)
	}

	X, y, headers, encoder, err := reader.LoadData()
	if err != nil {
		log.Fatalf("Failed to load data: %v", err)
	}

	rows, _ := X.Dims()
	fmt.Printf("Loaded %d samples with %d features\n", rows, len(headers))

	validator := data.NewDataValidator()
	if err := validator.ValidateDataset(X, y); err != nil {
		log.Fatalf("Data validation failed: %v", err)
	}
	if err := validator.ValidateLabels(y); err != nil {
		log.Fatalf("Label validation failed: %v", err)
	}

	fmt.Printf("Applying %s preprocessing...\n", preprocessMethod)
	XProcessed := X
	var scaler *preprocessing.Scaler
	if preprocessMethod != "raw" && preprocessMethod != "none" {
		scaler = preprocessing.NewScaler(preprocessMethod)
		XProcessed, err = scaler.FitTransform(X)
		if err != nil {
			log.Fatalf("Preprocessing failed: %v", err)
		}
	}

	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	fmt.Printf("Splitting data (test size: %.1f%%)...\n", testSize*100)
	splitter := evaluation.NewTrainTestSplitter(testSize, seed, true)
	XTrain, XTest, yTrain, yTest, err := splitter.StratifiedSplit(XProcessed, y)
	if err != nil {
		log.Fatalf("Failed to split data: %v", err)
	}

	model, err := models.CreateModel(models.ModelConfig{Algorithm: algorithm})
	if err != nil {
		log.Fatalf("Failed to create model: %v", err)
	}

	fmt.Printf("Training %s model...\n", model.GetName())
	startTime := time.Now()
	if err := model.Fit(XTrain, yTrain); err != nil {
		log.Fatalf("Training failed: %v", err)
	}
	trainingTime := time.Since(startTime)

	fmt.Println("Evaluating model...")
	predictions, err := model.Predict(XTest)
	if err != nil {
		log.Fatalf("Evaluation failed: %v", err)
	}
	classes := models.ExtractClasses(y)
	metrics := evaluation.CalculateMetrics(yTest, predictions, classes)

	trainErrorRate, err := evaluation.ErrorRate(model, XTrain, yTrain)
	if err != nil {
		log.Fatalf("Evaluation failed: %v", err)
	}

	fmt.Printf("\nTraining Results:\n")
	fmt.Printf("Training time: %v\n", trainingTime)
	fmt.Printf("Training error rate: %.4f\n", trainErrorRate)
	fmt.Printf("Test error rate: %.4f\n", metrics.ErrorRate)
	fmt.Printf("Test accuracy: %.4f\n", metrics.Accuracy)
	fmt.Printf("Precision: %.4f\n", metrics.MacroPrecision)
	fmt.Printf("Recall: %.4f\n", metrics.MacroRecall)
	fmt.Printf("F1-score: %.4f\n", metrics.MacroF1)

	fmt.Println("Saving model...")
	os.MkdirAll(outputDir, 0755)
	timestamp := time.Now().Format("20060102_150405")
	base := filepath.Base(dataFile)
	if ext := filepath.Ext(base); ext != "" {
		base = base[:len(base)-len(ext)]
	}
	filename := fmt.Sprintf("%s_%s_%s_%s.model", algorithm, base, preprocessMethod, timestamp)
	modelPath := filepath.Join(outputDir, filename)

	bundle := persistence.NewModelBundle(model)
	bundle.Scaler = scaler
	bundle.LabelEncoder = encoder
	bundle.Metadata.Dataset = dataFile
	bundle.Metadata.Accuracy = metrics.Accuracy
	bundle.Metadata.ErrorRate = metrics.ErrorRate
	bundle.Metadata.Precision = metrics.MacroPrecision
	bundle.Metadata.Recall = metrics.MacroRecall
	bundle.Metadata.F1Score = metrics.MacroF1
	bundle.Metadata.TrainingTime = trainingTime
	bundle.Metadata.Features = headers
	bundle.Metadata.Classes = encoder.Labels()

	if err := bundle.Save(modelPath); err != nil {
		log.Printf("Failed to save model: %v", err)
	} else {
		fmt.Printf("Model saved to: %s\n", modelPath)
	}

	fmt.Println("\nTraining completed successfully!")
}
