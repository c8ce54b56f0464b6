package commander

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/Benxzz/ESL/internal/data"
	"github.com/Benxzz/ESL/internal/experiment"
	"github.com/Benxzz/ESL/internal/jobs"
	"github.com/Benxzz/ESL/internal/models"
)

// predictWithProgress predicts in row batches so long prediction runs can
// report progress to a job log.
func (c *Commander) predictWithProgress(model models.Model, X *mat.Dense, report func(float64, string)) ([]int, error) {
	n, _ := X.Dims()
	predictions := make([]int, 0, n)

	processor := data.NewBatchProcessor(256)
	err := processor.ProcessBatches(X, nil, func(batchX *mat.Dense, _ []int, start int) error {
		batchPred, err := model.Predict(batchX)
		if err != nil {
			return err
		}
		predictions = append(predictions, batchPred...)
		if report != nil {
			done := float64(start+len(batchPred)) / float64(n)
			report(0.7+0.3*done, fmt.Sprintf("predicted %d/%d rows", start+len(batchPred), n))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return predictions, nil
}

func (c *Commander) trainModelBackground(algorithm string, args []string) {
	if c.loadedData == nil {
		fmt.Println(c.red("No data loaded. Use 'load <filename>' first."))
		return
	}

	preprocessMethod := "raw"
	if len(args) > 0 {
		preprocessMethod = args[0]
	}

	job := c.jobManager.CreateJob("train", fmt.Sprintf("train %s (%s) on %s", algorithm, preprocessMethod, c.loadedData.SourceFile))
	ctx, cancel := context.WithCancel(context.Background())
	job.SetCancelFunc(cancel)
	job.SetStatus(jobs.JobRunning)
	fmt.Printf("%s Started background training: %s\n", c.green("✓"), job.ID)
	fmt.Println("Use 'job-status " + job.ID + "' to check progress")

	go func() {
		defer cancel()
		job.AddLog(fmt.Sprintf("training %s with %s preprocessing", algorithm, preprocessMethod))

		model, bundle, metrics, err := c.fitAndEvaluate(ctx, algorithm, preprocessMethod, func(progress float64, msg string) {
			job.SetProgress(progress)
			job.AddLog(msg)
		})
		if err != nil {
			if ctx.Err() != nil {
				job.AddLog("training cancelled")
				return
			}
			job.AddLog("training failed: " + err.Error())
			job.SetError(err)
			return
		}
		if ctx.Err() != nil {
			job.AddLog("training cancelled")
			return
		}

		c.currentModel = model
		c.modelBundle = bundle

		os.MkdirAll("models", 0755)
		timestamp := time.Now().Format("20060102_150405")
		modelPath := filepath.Join("models", fmt.Sprintf("%s_%s_%s.model", algorithm, preprocessMethod, timestamp))
		if err := bundle.Save(modelPath); err != nil {
			job.AddLog("failed to save model: " + err.Error())
		} else {
			c.currentModelPath = modelPath
			job.AddLog("model saved to " + modelPath)
		}

		job.SetResult(metrics)
		job.AddLog(fmt.Sprintf("done: error rate %.4f, accuracy %.4f", metrics.ErrorRate, metrics.Accuracy))
		job.SetStatus(jobs.JobCompleted)
	}()
}

func (c *Commander) runExperimentBackground(configFile string) {
	if c.loadedData == nil {
		fmt.Println(c.red("No data loaded. Use 'load <filename>' first."))
		return
	}

	dataFile := c.loadedData.SourceFile
	job := c.jobManager.CreateJob("experiment", "experiment sweep on "+dataFile)
	ctx, cancel := context.WithCancel(context.Background())
	job.SetCancelFunc(cancel)
	job.SetStatus(jobs.JobRunning)
	fmt.Printf("%s Started background experiment: %s\n", c.green("✓"), job.ID)

	go func() {
		defer cancel()
		runner := experiment.NewRunner(configFile)
		job.AddLog(fmt.Sprintf("algorithms: %s", strings.Join(runner.Config.Experiment.Algorithms, ", ")))

		results, err := runner.RunAllExperiments(dataFile)
		if err != nil {
			if ctx.Err() != nil {
				job.AddLog("experiment cancelled")
				return
			}
			job.SetError(err)
			return
		}
		if ctx.Err() != nil {
			job.AddLog("experiment cancelled")
			return
		}
		job.SetProgress(0.9)

		os.MkdirAll("models", 0755)
		timestamp := time.Now().Format("20060102_150405")
		resultsFile := filepath.Join("models", fmt.Sprintf("experiment_%s.csv", timestamp))
		if err := runner.ExportResults(results, resultsFile); err != nil {
			job.AddLog("failed to export results: " + err.Error())
		} else {
			job.AddLog("results saved to " + resultsFile)
		}

		job.SetResult(results)
		job.AddLog(fmt.Sprintf("done: %d experiments", len(results)))
		job.SetStatus(jobs.JobCompleted)
	}()
}

func (c *Commander) batchPredict(filename string) {
	if c.currentModel == nil {
		fmt.Println(c.red("No model trained or loaded."))
		return
	}

	outFile := strings.TrimSuffix(filename, filepath.Ext(filename)) + "_predictions.csv"
	out, err := os.Create(outFile)
	if err != nil {
		fmt.Printf("%s Cannot create output file: %v\n", c.red("✗"), err)
		return
	}
	defer out.Close()

	writer := csv.NewWriter(out)
	defer writer.Flush()
	writer.Write([]string{"row", "predicted"})

	rowNum := 0
	err = data.ProcessLargeFile(filename, 1000, func(batch *data.DataBatch) error {
		X := batch.X
		if c.modelBundle != nil && c.modelBundle.Scaler != nil {
			scaled, err := c.modelBundle.Scaler.Transform(X)
			if err != nil {
				return err
			}
			X = scaled
		}

		predictions, err := c.currentModel.Predict(X)
		if err != nil {
			return err
		}

		labels := make([]string, len(predictions))
		if enc := c.labelEncoder(); enc != nil {
			if decoded, err := enc.InverseTransform(predictions); err == nil {
				labels = decoded
			}
		}
		for i, pred := range predictions {
			if labels[i] == "" {
				labels[i] = fmt.Sprintf("%d", pred)
			}
			writer.Write([]string{fmt.Sprintf("%d", rowNum), labels[i]})
			rowNum++
		}
		return nil
	})
	if err != nil {
		fmt.Printf("%s Batch prediction failed: %v\n", c.red("✗"), err)
		return
	}

	fmt.Printf("%s Predicted %d rows, written to %s\n", c.green("✓"), rowNum, outFile)
}

func (c *Commander) listAllJobs() {
	jobList := c.jobManager.ListJobs()
	if len(jobList) == 0 {
		fmt.Println(c.yellow("No jobs."))
		return
	}

	fmt.Println(c.blue("\nJobs:"))
	for _, job := range jobList {
		status := string(job.GetStatus())
		switch job.GetStatus() {
		case jobs.JobCompleted:
			status = c.green(status)
		case jobs.JobFailed, jobs.JobCancelled:
			status = c.red(status)
		case jobs.JobRunning:
			status = c.yellow(status)
		}
		fmt.Printf("  %-40s %-12s %3.0f%%  %s\n", job.ID, status, job.GetProgress()*100, job.Description)
	}
}

func (c *Commander) showJobStatus(jobID string) {
	job, exists := c.jobManager.GetJob(jobID)
	if !exists {
		fmt.Printf("%s Job not found: %s\n", c.red("✗"), jobID)
		return
	}

	fmt.Println(c.blue("\nJob " + job.ID))
	fmt.Printf("  Type: %s\n", job.Type)
	fmt.Printf("  Status: %s\n", job.GetStatus())
	fmt.Printf("  Progress: %.0f%%\n", job.GetProgress()*100)
	fmt.Printf("  Started: %s\n", job.StartTime.Format("15:04:05"))
	if job.EndTime != nil {
		fmt.Printf("  Finished: %s\n", job.EndTime.Format("15:04:05"))
	}
	if job.Error != nil {
		fmt.Printf("  Error: %s\n", c.red(job.Error.Error()))
	}
}

func (c *Commander) cancelJob(jobID string) {
	if err := c.jobManager.CancelJob(jobID); err != nil {
		fmt.Printf("%s %v\n", c.red("✗"), err)
		return
	}
	fmt.Printf("%s Job cancelled: %s\n", c.green("✓"), jobID)
}

func (c *Commander) showJobLogs(jobID string) {
	job, exists := c.jobManager.GetJob(jobID)
	if !exists {
		fmt.Printf("%s Job not found: %s\n", c.red("✗"), jobID)
		return
	}

	logs := job.GetLogs()
	if len(logs) == 0 {
		fmt.Println(c.yellow("No logs yet."))
		return
	}
	for _, line := range logs {
		fmt.Println("  " + line)
	}
}
