package preflight

import (
	"glassinv/internal/services"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name    string
	Passed  bool
	Missing bool
	Detail  string
}

// Export returns the checks that must pass before a workbook is exported.
func Export(source, output string) []Result {
	return []Result{
		CheckFileReadable("Workbook", source),
		CheckOutputDirectory("Output directory", output),
	}
}

// Reconcile returns the checks that must pass before an HTML table is merged
// into the JSON inventory. Both inputs must exist; a missing inventory is not
// silently treated as empty because the backup step needs the original.
func Reconcile(htmlPath, jsonPath, outputPath string) []Result {
	results := []Result{
		CheckFileReadable("HTML table", htmlPath),
		CheckFileReadable("JSON inventory", jsonPath),
		CheckOutputDirectory("Backup directory", jsonPath),
	}
	if outputPath != "" && outputPath != jsonPath {
		results = append(results, CheckOutputDirectory("Output directory", outputPath))
	}
	return results
}

// Err converts the first failed result into a classified error. Missing paths
// map to ErrNotFound; anything else is a configuration problem.
func Err(stage string, results []Result) error {
	for _, result := range results {
		if result.Passed {
			continue
		}
		marker := services.ErrConfiguration
		if result.Missing {
			marker = services.ErrNotFound
		}
		return services.Wrap(marker, stage, "preflight", result.Name+": "+result.Detail, nil)
	}
	return nil
}
