package commander

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/mat"

	"github.com/Benxzz/ESL/internal/data"
	"github.com/Benxzz/ESL/internal/evaluation"
	"github.com/Benxzz/ESL/internal/jobs"
	"github.com/Benxzz/ESL/internal/models"
	"github.com/Benxzz/ESL/internal/persistence"
	"github.com/Benxzz/ESL/internal/preprocessing"
)

type Commander struct {
	currentModel     models.Model
	modelBundle      *persistence.ModelBundle
	currentModelPath string
	loadedData       *DataSet
	jobManager       *jobs.Manager

	green  func(a ...any) string
	red    func(a ...any) string
	yellow func(a ...any) string
	cyan   func(a ...any) string
	blue   func(a ...any) string
}

type DataSet struct {
	X          *mat.Dense
	y          []int
	Features   []string
	Encoder    *preprocessing.LabelEncoder
	SourceFile string
}

func NewCommander() *Commander {
	return &Commander{
		jobManager: jobs.NewManager(),
		green:      color.New(color.FgGreen).SprintFunc(),
		red:        color.New(color.FgRed).SprintFunc(),
		yellow:     color.New(color.FgYellow).SprintFunc(),
		cyan:       color.New(color.FgCyan).SprintFunc(),
		blue:       color.New(color.FgBlue).SprintFunc(),
	}
}

func (c *Commander) Start() {
	c.printWelcome()
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print(c.yellow("\nesl> "))
		if !scanner.Scan() {
			if scanner.Err() != nil {
				fmt.Printf("\n%s Scanner error: %v\n", c.red("✗"), scanner.Err())
			}
			break
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}

		parts := strings.Fields(input)
		command := strings.ToLower(parts[0])
		args := parts[1:]

		c.ExecuteCommand(command, args)
	}
}

func (c *Commander) ExecuteCommand(command string, args []string) {
	switch command {
	case "help", "h":
		c.showHelp()
	case "load":
		if len(args) > 0 {
			c.loadData(args[0])
		} else {
			fmt.Println(c.red("Usage: load <filename>"))
		}
	case "info":
		c.showDataInfo()
	case "train":
		if len(args) > 0 {
			c.trainModel(args[0], args[1:])
		} else {
			fmt.Println(c.red("Usage: train <lsq|lda|qda> [preprocess]"))
		}
	case "train-bg":
		if len(args) > 0 {
			c.trainModelBackground(args[0], args[1:])
		} else {
			fmt.Println(c.red("Usage: train-bg <lsq|lda|qda> [preprocess]"))
		}
	case "evaluate":
		c.evaluate()
	case "predict":
		c.predict(args)
	case "batch":
		if len(args) > 0 {
			c.batchPredict(args[0])
		} else {
			fmt.Println(c.red("Usage: batch <filename>"))
		}
	case "compare":
		c.compareModels()
	case "list":
		c.listModels()
	case "loadmodel":
		if len(args) > 0 {
			c.loadModel(args[0])
		} else {
			fmt.Println(c.red("Usage: loadmodel <filename>"))
		}
	case "current":
		c.showCurrentModel()
	case "experiment":
		configFile := "config/config.yaml"
		if len(args) > 0 {
			configFile = args[0]
		}
		c.runExperimentBackground(configFile)
	case "job-status":
		if len(args) > 0 {
			c.showJobStatus(args[0])
		} else {
			c.listAllJobs()
		}
	case "job-cancel":
		if len(args) > 0 {
			c.cancelJob(args[0])
		} else {
			fmt.Println(c.red("Usage: job-cancel <job-id>"))
		}
	case "job-logs":
		if len(args) > 0 {
			c.showJobLogs(args[0])
		} else {
			fmt.Println(c.red("Usage: job-logs <job-id>"))
		}
	case "clear":
		fmt.Print("\033[2J\033[H")
	case "quit", "exit", "q":
		fmt.Println(c.green("Goodbye!"))
		os.Exit(0)
	default:
		fmt.Printf("%s Unknown command: %s\n", c.red("✗"), command)
		fmt.Println("Type 'help' for available commands")
	}
}

func (c *Commander) printWelcome() {
	fmt.Println(c.cyan("╔══════════════════════════════════════════╗"))
	fmt.Println(c.cyan("║     Discriminant Classifier Commander    ║"))
	fmt.Println(c.cyan("║      least squares · LDA · QDA           ║"))
	fmt.Println(c.cyan("╚══════════════════════════════════════════╝"))
	fmt.Println()
	fmt.Println("Type 'help' for available commands")
}

func (c *Commander) showHelp() {
	fmt.Println(c.blue("\nAvailable Commands:"))

	fmt.Println("\n" + c.cyan("Data Management:"))
	fmt.Println("  load <file>            - Load dataset from CSV")
	fmt.Println("  info                   - Show loaded data information")

	fmt.Println("\n" + c.cyan("Model Training:"))
	fmt.Println("  train <algo>           - Train a model (lsq, lda, qda)")
	fmt.Println("                           optional second arg: raw|normalized|standardized")
	fmt.Println("  train-bg <algo>        - Train model in background")
	fmt.Println("  evaluate               - Evaluate current model on loaded data")
	fmt.Println("  compare                - Train and compare all three classifiers")

	fmt.Println("\n" + c.cyan("Model Management:"))
	fmt.Println("  list                   - List all saved models")
	fmt.Println("  loadmodel <file>       - Load a saved model")
	fmt.Println("  current                - Show current active model info")

	fmt.Println("\n" + c.cyan("Predictions:"))
	fmt.Println("  predict <v1,v2,...>    - Classify one feature vector")
	fmt.Println("  batch <file>           - Batch predictions from CSV")

	fmt.Println("\n" + c.cyan("Experiments & Jobs:"))
	fmt.Println("  experiment [config]    - Run experiment sweep in background")
	fmt.Println("  job-status [job-id]    - Show job status or list all jobs")
	fmt.Println("  job-cancel <job-id>    - Cancel a running job")
	fmt.Println("  job-logs <job-id>      - View job logs")

	fmt.Println("\n" + c.cyan("System:"))
	fmt.Println("  help                   - Show this help message")
	fmt.Println("  clear                  - Clear screen")
	fmt.Println("  quit                   - Exit program")
}

func (c *Commander) loadData(filename string) {
	startTime := time.Now()
	fmt.Printf("Loading data from %s...\n", filename)

	reader, err := data.NewCSVReader(filename)
	if err != nil {
		fmt.Printf("%s Error: %v\n", c.red("✗"), err)
		return
	}

	X, y, headers, encoder, err := reader.LoadData()
	if err != nil {
		fmt.Printf("%s Error reading CSV: %v\n", c.red("✗"), err)
		return
	}

	validator := data.NewDataValidator()
	if err := validator.ValidateDataset(X, y); err != nil {
		fmt.Printf("%s Data validation failed: %v\n", c.red("✗"), err)
		return
	}

	c.loadedData = &DataSet{
		X:          X,
		y:          y,
		Features:   headers,
		Encoder:    encoder,
		SourceFile: filename,
	}

	n, p := X.Dims()
	fmt.Printf("%s Loaded %d samples, %d features, %d classes in %v\n",
		c.green("✓"), n, p, len(encoder.Labels()), time.Since(startTime).Round(time.Millisecond))
}

func (c *Commander) showDataInfo() {
	if c.loadedData == nil {
		fmt.Println(c.red("No data loaded. Use 'load <filename>' first."))
		return
	}

	validator := data.NewDataValidator()
	stats := validator.GetDatasetStats(c.loadedData.X, c.loadedData.y)

	fmt.Println(c.blue("\nDataset Information:"))
	fmt.Printf("  Source: %s\n", c.loadedData.SourceFile)
	fmt.Printf("  Samples: %v\n", stats["samples"])
	fmt.Printf("  Features: %v (%s)\n", stats["features"], strings.Join(c.loadedData.Features, ", "))
	fmt.Printf("  Classes: %v\n", stats["classes"])

	fmt.Println(c.cyan("  Class distribution:"))
	dist := stats["class_distribution"].(map[int]int)
	for _, class := range models.ExtractClasses(c.loadedData.y) {
		label, _ := c.loadedData.Encoder.InverseTransform([]int{class})
		fmt.Printf("    %s: %d\n", label[0], dist[class])
	}

	fmt.Println(c.cyan("  Feature stats (exact):"))
	featureStats := stats["feature_stats"].([]map[string]decimal.Decimal)
	for j, fs := range featureStats {
		fmt.Printf("    %-12s min=%s max=%s mean=%s\n",
			c.loadedData.Features[j], fs["min"], fs["max"], fs["mean"].Round(4))
	}
}

func (c *Commander) trainModel(algorithm string, args []string) {
	if c.loadedData == nil {
		fmt.Println(c.red("No data loaded. Use 'load <filename>' first."))
		return
	}

	preprocessMethod := "raw"
	if len(args) > 0 {
		preprocessMethod = args[0]
	}

	model, bundle, metrics, err := c.fitAndEvaluate(context.Background(), algorithm, preprocessMethod, nil)
	if err != nil {
		fmt.Printf("%s Training failed: %v\n", c.red("✗"), err)
		return
	}

	c.currentModel = model
	c.modelBundle = bundle

	fmt.Printf("%s Trained %s (preprocess: %s)\n", c.green("✓"), model.GetName(), preprocessMethod)
	fmt.Print(metrics.FormatMetrics())

	c.saveCurrentModel(algorithm, preprocessMethod)
}

// fitAndEvaluate is the one fit path shared by foreground and background
// training: scale, stratified split, fit, held-out metrics. The progress
// callback is optional. Cancelling the context stops the run at the next
// stage boundary.
func (c *Commander) fitAndEvaluate(ctx context.Context, algorithm, preprocessMethod string, progress func(float64, string)) (models.Model, *persistence.ModelBundle, *evaluation.ClassificationMetrics, error) {
	report := func(p float64, msg string) {
		if progress != nil {
			progress(p, msg)
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, nil, nil, err
	}

	model, err := models.CreateModel(models.ModelConfig{Algorithm: algorithm})
	if err != nil {
		return nil, nil, nil, err
	}

	X := c.loadedData.X
	var scaler *preprocessing.Scaler
	if preprocessMethod != "raw" && preprocessMethod != "none" {
		scaler = preprocessing.NewScaler(preprocessMethod)
		X, err = scaler.FitTransform(X)
		if err != nil {
			return nil, nil, nil, err
		}
	}
	report(0.2, "preprocessing done")

	splitter := evaluation.DefaultTrainTestSplitter()
	XTrain, XTest, yTrain, yTest, err := splitter.StratifiedSplit(X, c.loadedData.y)
	if err != nil {
		return nil, nil, nil, err
	}
	report(0.3, "data split")

	if err := ctx.Err(); err != nil {
		return nil, nil, nil, err
	}

	startTime := time.Now()
	if err := model.Fit(XTrain, yTrain); err != nil {
		return nil, nil, nil, err
	}
	trainingTime := time.Since(startTime)
	report(0.7, "model fitted")

	if err := ctx.Err(); err != nil {
		return nil, nil, nil, err
	}

	predictions, err := c.predictWithProgress(model, XTest, report)
	if err != nil {
		return nil, nil, nil, err
	}
	metrics := evaluation.CalculateMetrics(yTest, predictions, models.ExtractClasses(c.loadedData.y))
	report(1.0, "evaluation done")

	bundle := persistence.NewModelBundle(model)
	bundle.Scaler = scaler
	bundle.LabelEncoder = c.loadedData.Encoder
	bundle.Metadata.Dataset = c.loadedData.SourceFile
	bundle.Metadata.Accuracy = metrics.Accuracy
	bundle.Metadata.ErrorRate = metrics.ErrorRate
	bundle.Metadata.Precision = metrics.MacroPrecision
	bundle.Metadata.Recall = metrics.MacroRecall
	bundle.Metadata.F1Score = metrics.MacroF1
	bundle.Metadata.TrainingTime = trainingTime
	bundle.Metadata.Features = c.loadedData.Features
	bundle.Metadata.Classes = c.loadedData.Encoder.Labels()

	return model, bundle, metrics, nil
}

func (c *Commander) saveCurrentModel(algorithm, preprocessMethod string) {
	os.MkdirAll("models", 0755)
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("%s_%s_%s.model", algorithm, preprocessMethod, timestamp)
	modelPath := filepath.Join("models", filename)

	if err := c.modelBundle.Save(modelPath); err != nil {
		fmt.Printf("%s Failed to save model: %v\n", c.yellow("⚠"), err)
		return
	}
	c.currentModelPath = modelPath
	fmt.Printf("%s Model saved to %s\n", c.green("✓"), modelPath)
}

func (c *Commander) evaluate() {
	if c.currentModel == nil {
		fmt.Println(c.red("No model trained or loaded."))
		return
	}
	if c.loadedData == nil {
		fmt.Println(c.red("No data loaded. Use 'load <filename>' first."))
		return
	}

	X := c.loadedData.X
	if c.modelBundle != nil && c.modelBundle.Scaler != nil {
		scaled, err := c.modelBundle.Scaler.Transform(X)
		if err != nil {
			fmt.Printf("%s Scaling failed: %v\n", c.red("✗"), err)
			return
		}
		X = scaled
	}

	errorRate, err := evaluation.ErrorRate(c.currentModel, X, c.loadedData.y)
	if err != nil {
		fmt.Printf("%s Evaluation failed: %v\n", c.red("✗"), err)
		return
	}

	predictions, err := c.currentModel.Predict(X)
	if err != nil {
		fmt.Printf("%s Evaluation failed: %v\n", c.red("✗"), err)
		return
	}
	metrics := evaluation.CalculateMetrics(c.loadedData.y, predictions, models.ExtractClasses(c.loadedData.y))

	fmt.Printf("%s Evaluated %s on %s\n", c.green("✓"), c.currentModel.GetName(), c.loadedData.SourceFile)
	fmt.Printf("Error rate: %.4f\n", errorRate)
	fmt.Print(metrics.FormatMetrics())
}

func (c *Commander) predict(args []string) {
	if c.currentModel == nil {
		fmt.Println(c.red("No model trained or loaded."))
		return
	}
	if len(args) == 0 {
		fmt.Println(c.red("Usage: predict <v1,v2,...>"))
		return
	}

	cells := strings.Split(strings.Join(args, ""), ",")
	values := make([]float64, len(cells))
	for i, cell := range cells {
		dec, err := decimal.NewFromString(strings.TrimSpace(cell))
		if err != nil {
			fmt.Printf("%s Non-numeric value %q\n", c.red("✗"), cell)
			return
		}
		values[i], _ = dec.Float64()
	}

	X := mat.NewDense(1, len(values), values)
	if c.modelBundle != nil && c.modelBundle.Scaler != nil {
		scaled, err := c.modelBundle.Scaler.Transform(X)
		if err != nil {
			fmt.Printf("%s Scaling failed: %v\n", c.red("✗"), err)
			return
		}
		X = scaled
	}

	predictions, err := c.currentModel.Predict(X)
	if err != nil {
		fmt.Printf("%s Prediction failed: %v\n", c.red("✗"), err)
		return
	}

	label := fmt.Sprintf("%d", predictions[0])
	if enc := c.labelEncoder(); enc != nil {
		if decoded, err := enc.InverseTransform(predictions); err == nil {
			label = decoded[0]
		}
	}
	fmt.Printf("%s Predicted class: %s\n", c.green("✓"), c.cyan(label))

	if proba, err := c.currentModel.PredictProba(X); err == nil {
		fmt.Println("  Class probabilities:")
		for j, class := range c.currentModel.GetClasses() {
			name := fmt.Sprintf("%d", class)
			if enc := c.labelEncoder(); enc != nil {
				if decoded, err := enc.InverseTransform([]int{class}); err == nil {
					name = decoded[0]
				}
			}
			fmt.Printf("    %-12s %.4f\n", name, proba.At(0, j))
		}
	}
}

func (c *Commander) labelEncoder() *preprocessing.LabelEncoder {
	if c.modelBundle != nil && c.modelBundle.LabelEncoder != nil {
		return c.modelBundle.LabelEncoder
	}
	if c.loadedData != nil {
		return c.loadedData.Encoder
	}
	return nil
}

func (c *Commander) compareModels() {
	if c.loadedData == nil {
		fmt.Println(c.red("No data loaded. Use 'load <filename>' first."))
		return
	}

	fmt.Println(c.blue("\nComparing classifiers on the loaded dataset:"))
	fmt.Printf("%-22s %-10s %-10s %-10s\n", "Model", "ErrorRate", "Accuracy", "MacroF1")

	for _, algorithm := range models.Algorithms() {
		model, _, metrics, err := c.fitAndEvaluate(context.Background(), algorithm, "raw", nil)
		if err != nil {
			fmt.Printf("%-22s %s\n", algorithm, c.red(err.Error()))
			continue
		}
		fmt.Printf("%-22s %-10.4f %-10.4f %-10.4f\n",
			model.GetName(), metrics.ErrorRate, metrics.Accuracy, metrics.MacroF1)
	}
}

func (c *Commander) listModels() {
	entries, err := os.ReadDir("models")
	if err != nil {
		fmt.Println(c.yellow("No models directory found."))
		return
	}

	fmt.Println(c.blue("\nSaved models:"))
	found := false
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".model") {
			continue
		}
		found = true
		marker := " "
		if filepath.Join("models", entry.Name()) == c.currentModelPath {
			marker = c.green("*")
		}
		fmt.Printf("  %s %s\n", marker, entry.Name())
	}
	if !found {
		fmt.Println("  (none)")
	}
}

func (c *Commander) loadModel(filename string) {
	bundle, err := persistence.LoadModelBundle(filename)
	if err != nil {
		fmt.Printf("%s Failed to load model: %v\n", c.red("✗"), err)
		return
	}

	c.currentModel = bundle.Model
	c.modelBundle = bundle
	c.currentModelPath = filename

	fmt.Printf("%s Loaded %s (trained on %s, accuracy %.4f)\n",
		c.green("✓"), bundle.Metadata.ModelName, bundle.Metadata.Dataset, bundle.Metadata.Accuracy)
}

func (c *Commander) showCurrentModel() {
	if c.currentModel == nil {
		fmt.Println(c.red("No model trained or loaded."))
		return
	}

	fmt.Println(c.blue("\nCurrent model:"))
	fmt.Printf("  Type: %s\n", c.currentModel.GetName())
	if c.modelBundle != nil {
		md := c.modelBundle.Metadata
		fmt.Printf("  Dataset: %s\n", md.Dataset)
		fmt.Printf("  Features: %s\n", strings.Join(md.Features, ", "))
		fmt.Printf("  Classes: %s\n", strings.Join(md.Classes, ", "))
		fmt.Printf("  Accuracy: %.4f  Error rate: %.4f\n", md.Accuracy, md.ErrorRate)
		fmt.Printf("  Training time: %v\n", md.TrainingTime)
		fmt.Printf("  Created: %s\n", c.modelBundle.CreatedAt.Format("2006-01-02 15:04:05"))
	}
	if c.currentModelPath != "" {
		fmt.Printf("  Path: %s\n", c.currentModelPath)
	}
}
