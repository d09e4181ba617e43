package batch

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Item statuses.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// failurePrefix marks a script-level failure such as a task that was not
// found. The script still exits cleanly in that case.
const failurePrefix = "❌"

// Result is the outcome for one task in a batch.
type Result struct {
	Task   string `json:"task"`
	Status string `json:"status"`
	Output string `json:"output,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Summary aggregates the results of a batch.
type Summary struct {
	Total      int      `json:"total"`
	Successful int      `json:"successful"`
	Failed     int      `json:"failed"`
	Results    []Result `json:"results"`
}

// Titles reads a parameter holding either one task title or an array of
// titles. many reports whether an array was given, even with one element.
func Titles(param interface{}, paramName string) (titles []string, many bool, err error) {
	switch v := param.(type) {
	case nil:
		return nil, false, fmt.Errorf("%s is required", paramName)
	case string:
		if strings.TrimSpace(v) == "" {
			return nil, false, fmt.Errorf("%s is required", paramName)
		}
		return []string{v}, false, nil
	case []interface{}:
		if len(v) == 0 {
			return nil, true, fmt.Errorf("%s cannot be empty", paramName)
		}
		for i, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, true, fmt.Errorf("%s[%d] must be a string", paramName, i)
			}
			if strings.TrimSpace(s) == "" {
				return nil, true, fmt.Errorf("%s[%d] cannot be empty", paramName, i)
			}
			titles = append(titles, s)
		}
		return titles, true, nil
	case []string:
		if len(v) == 0 {
			return nil, true, fmt.Errorf("%s cannot be empty", paramName)
		}
		return v, true, nil
	default:
		return nil, false, fmt.Errorf("%s must be a string or array of strings", paramName)
	}
}

// Process runs fn for each title in order and collects the results. It
// stops early, marking the remaining titles as failed, when ctx is done.
func Process(ctx context.Context, titles []string, fn func(ctx context.Context, title string) (string, error)) []Result {
	results := make([]Result, 0, len(titles))
	for _, title := range titles {
		if err := ctx.Err(); err != nil {
			results = append(results, NewErrorResult(title, err))
			continue
		}
		out, err := fn(ctx, title)
		switch {
		case err != nil:
			results = append(results, NewErrorResult(title, err))
		case strings.HasPrefix(out, failurePrefix):
			results = append(results, Result{Task: title, Status: StatusError, Output: out})
		default:
			results = append(results, NewSuccessResult(title, out))
		}
	}
	return results
}

// Summarize counts successes and failures.
func Summarize(results []Result) Summary {
	s := Summary{Total: len(results), Results: results}
	for _, r := range results {
		if r.Status == StatusSuccess {
			s.Successful++
		} else {
			s.Failed++
		}
	}
	return s
}

// FormatResults renders the summary of results as indented JSON.
func FormatResults(results []Result) string {
	out, _ := json.MarshalIndent(Summarize(results), "", "  ")
	return string(out)
}

// NewSuccessResult creates a success result.
func NewSuccessResult(title, output string) Result {
	return Result{Task: title, Status: StatusSuccess, Output: output}
}

// NewErrorResult creates an error result.
func NewErrorResult(title string, err error) Result {
	return Result{Task: title, Status: StatusError, Error: err.Error()}
}
