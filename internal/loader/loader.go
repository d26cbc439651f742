package loader

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"apollonode/internal/types"
)

// LoadJob reads and parses a single job file. Files ending in .json are
// decoded as JSON; everything else as YAML.
func LoadJob(path string) (*types.JobDef, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading job file %s: %w", path, err)
	}

	job, err := ParseJob(data, strings.EqualFold(filepath.Ext(path), ".json"))
	if err != nil {
		return nil, fmt.Errorf("job file %s: %w", path, err)
	}
	if job.Name == "" {
		job.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return job, nil
}

// ParseJob decodes a job document.
func ParseJob(data []byte, isJSON bool) (*types.JobDef, error) {
	var job types.JobDef
	if isJSON {
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		dec.DisallowUnknownFields()
		if err := dec.Decode(&job); err != nil {
			return nil, fmt.Errorf("parsing JSON: %w", err)
		}
	} else {
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&job); err != nil {
			return nil, fmt.Errorf("parsing YAML: %w", err)
		}
	}

	if job.Resource == "" {
		return nil, fmt.Errorf("missing required field 'resource'")
	}
	if job.Operation == "" {
		return nil, fmt.Errorf("missing required field 'operation'")
	}
	return &job, nil
}

// LoadItems reads a JSON array of input items, or a JSON object taken as a single item.
func LoadItems(path string) ([]map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading items file %s: %w", path, err)
	}
	items, err := ParseItems(data)
	if err != nil {
		return nil, fmt.Errorf("items file %s: %w", path, err)
	}
	return items, nil
}

// ParseItems decodes a JSON array of objects, or a single object.
func ParseItems(data []byte) ([]map[string]any, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil
	}
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()
	if trimmed[0] == '{' {
		var item map[string]any
		if err := dec.Decode(&item); err != nil {
			return nil, fmt.Errorf("parsing item: %w", err)
		}
		return []map[string]any{item}, nil
	}
	var items []map[string]any
	if err := dec.Decode(&items); err != nil {
		return nil, fmt.Errorf("parsing items: %w", err)
	}
	return items, nil
}

// LoadJobs reads every job file (.yaml, .yml, .json) under dir, recursively.
func LoadJobs(dir string) (map[string]*types.JobDef, error) {
	jobs := make(map[string]*types.JobDef)

	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(d.Name())) {
		case ".yaml", ".yml", ".json":
		default:
			return nil
		}

		job, err := LoadJob(path)
		if err != nil {
			return err
		}
		if _, exists := jobs[job.Name]; exists {
			return fmt.Errorf("duplicate job name %q in %s", job.Name, path)
		}
		jobs[job.Name] = job
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("loading jobs from %s: %w", dir, err)
	}

	return jobs, nil
}
