package testing

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ShayHill/todoist-bot/internal/hierarchy"
)

// LoadScenarios loads scenarios from a YAML file or from every .yaml/.yml file
// under a directory. Scenarios are returned sorted by name.
func LoadScenarios(path string) ([]Scenario, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat scenario path: %w", err)
	}

	if !info.IsDir() {
		scenario, err := loadScenarioFromFile(path)
		if err != nil {
			return nil, err
		}
		return []Scenario{scenario}, nil
	}

	var scenarios []Scenario
	seen := make(map[string]string)
	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isYAML(p) {
			return nil
		}
		scenario, err := loadScenarioFromFile(p)
		if err != nil {
			return err
		}
		if prev, dup := seen[scenario.Name]; dup {
			return fmt.Errorf("duplicate scenario name %q in %s and %s", scenario.Name, prev, p)
		}
		seen[scenario.Name] = p
		scenarios = append(scenarios, scenario)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load scenarios from directory: %w", err)
	}

	sort.Slice(scenarios, func(i, j int) bool { return scenarios[i].Name < scenarios[j].Name })
	return scenarios, nil
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

func loadScenarioFromFile(path string) (Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Scenario{}, fmt.Errorf("failed to read scenario file %s: %w", path, err)
	}

	var scenario Scenario
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&scenario); err != nil {
		return Scenario{}, fmt.Errorf("failed to parse scenario file %s: %w", path, err)
	}
	if err := validateScenario(scenario); err != nil {
		return Scenario{}, fmt.Errorf("invalid scenario in %s: %w", path, err)
	}
	return scenario, nil
}

func validateScenario(s Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("scenario name is required")
	}
	if len(s.Markers) == 0 {
		return fmt.Errorf("scenario %s: at least one marker is required", s.Name)
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("scenario %s: at least one step is required", s.Name)
	}
	if _, err := hierarchy.Build(s.Account.Snapshot()); err != nil {
		return fmt.Errorf("scenario %s: %w", s.Name, err)
	}
	return nil
}

// Snapshot flattens the account tree into API-style records. Order fields
// follow the position in the file.
func (a Account) Snapshot() hierarchy.Snapshot {
	snap := hierarchy.Snapshot{Labels: append([]string(nil), a.Labels...)}
	order := 0
	next := func() int {
		order++
		return order
	}

	var addTasks func(tasks []TaskSpec, projectID, sectionID, parentID string)
	addTasks = func(tasks []TaskSpec, projectID, sectionID, parentID string) {
		for _, t := range tasks {
			snap.Tasks = append(snap.Tasks, hierarchy.TaskRecord{
				ID:        t.ID,
				Content:   t.Content,
				ProjectID: projectID,
				SectionID: sectionID,
				ParentID:  parentID,
				Order:     next(),
				Labels:    append([]string(nil), t.Labels...),
				Completed: t.Completed,
			})
			addTasks(t.Tasks, projectID, sectionID, t.ID)
		}
	}

	var addProjects func(projects []ProjectSpec, parentID string)
	addProjects = func(projects []ProjectSpec, parentID string) {
		for _, p := range projects {
			snap.Projects = append(snap.Projects, hierarchy.ProjectRecord{ID: p.ID, Name: p.Name, ParentID: parentID, Order: next()})
			addTasks(p.Tasks, p.ID, "", "")
			for _, sec := range p.Sections {
				snap.Sections = append(snap.Sections, hierarchy.SectionRecord{ID: sec.ID, Name: sec.Name, ProjectID: p.ID, Order: next()})
				addTasks(sec.Tasks, p.ID, sec.ID, "")
			}
			addProjects(p.Projects, p.ID)
		}
	}

	addProjects(a.Projects, "")
	return snap
}
