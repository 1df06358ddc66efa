// Package course loads YAML course definitions and builds concept graphs
// from them through the graph store primitives.
package course

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"cee/internal/errors"
	"cee/internal/graph"
)

// Defaults for freshly imported prerequisite edges, before any traversal
// outcome has been observed.
const (
	defaultEdgeWeight   = 0.5
	defaultEdgeTransfer = 0.7
	relatedEdgeWeight   = 0.3
)

// Course is the root of a YAML course definition.
type Course struct {
	ID       string    `yaml:"id"`
	Title    string    `yaml:"title"`
	Sections []Section `yaml:"sections"`
}

// Section groups chapters.
type Section struct {
	ID       string    `yaml:"id"`
	Title    string    `yaml:"title"`
	Chapters []Chapter `yaml:"chapters"`
}

// Chapter groups concepts.
type Chapter struct {
	ID       string    `yaml:"id"`
	Title    string    `yaml:"title"`
	Concepts []Concept `yaml:"concepts"`
}

// Concept is one curriculum unit as authored.
type Concept struct {
	ID          string   `yaml:"id"`
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Order       int      `yaml:"order"`
	Difficulty  int      `yaml:"difficulty"`
	XP          int      `yaml:"xp"`
	Skills      []string `yaml:"skills"`
	Requires    []string `yaml:"requires"`
	Related     []string `yaml:"related"`
}

// Load parses a course definition file.
func Load(path string) (*Course, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read course file: %w", err)
	}
	return Parse(data)
}

// Parse parses and validates course YAML.
func Parse(data []byte) (*Course, error) {
	var c Course
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse course yaml: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks the course for structural problems. All problems are
// collected and reported together rather than one at a time.
func (c *Course) Validate() error {
	var problems []string
	if c.ID == "" {
		problems = append(problems, "course id is required")
	}

	seen := make(map[string]bool)
	for _, concept := range c.AllConcepts() {
		switch {
		case concept.ID == "":
			problems = append(problems, "concept with empty id")
		case seen[concept.ID]:
			problems = append(problems, fmt.Sprintf("duplicate concept id %q", concept.ID))
		default:
			seen[concept.ID] = true
		}
		if concept.Difficulty < 0 || concept.Difficulty > 100 {
			problems = append(problems, fmt.Sprintf("concept %q: difficulty %d out of range 0-100", concept.ID, concept.Difficulty))
		}
	}

	for _, concept := range c.AllConcepts() {
		for _, req := range concept.Requires {
			if !seen[req] {
				problems = append(problems, fmt.Sprintf("concept %q requires unknown concept %q", concept.ID, req))
			}
			if req == concept.ID {
				problems = append(problems, fmt.Sprintf("concept %q requires itself", concept.ID))
			}
		}
		for _, rel := range concept.Related {
			if !seen[rel] {
				problems = append(problems, fmt.Sprintf("concept %q relates to unknown concept %q", concept.ID, rel))
			}
		}
	}

	if len(problems) > 0 {
		sort.Strings(problems)
		return errors.New(errors.CourseInvalid,
			fmt.Sprintf("invalid course definition:\n  %s", strings.Join(problems, "\n  ")),
			nil).WithDetails(problems)
	}
	return nil
}

// AllConcepts flattens the section/chapter hierarchy in authoring order.
func (c *Course) AllConcepts() []Concept {
	var out []Concept
	for _, s := range c.Sections {
		for _, ch := range s.Chapters {
			out = append(out, ch.Concepts...)
		}
	}
	return out
}

// BuildGraph constructs a fresh entanglement graph for a learner from the
// course definition. Nodes go in first so every prerequisite edge can mirror
// into both endpoints.
func (c *Course) BuildGraph(userID string) *graph.Graph {
	g := graph.New(c.ID, userID)

	for _, s := range c.Sections {
		for _, ch := range s.Chapters {
			for _, concept := range ch.Concepts {
				g.AddNode(graph.ConceptNode{
					ID:          concept.ID,
					Title:       concept.Title,
					Description: concept.Description,
					SectionID:   s.ID,
					ChapterID:   ch.ID,
					CourseID:    c.ID,
					Order:       concept.Order,
					Difficulty:  concept.Difficulty,
					XPReward:    concept.XP,
					Skills:      concept.Skills,
					Related:     append([]string(nil), concept.Related...),
				})
			}
		}
	}

	for _, concept := range c.AllConcepts() {
		for _, req := range concept.Requires {
			g.AddEdge(graph.ConceptEdge{
				From:                req,
				To:                  concept.ID,
				Kind:                graph.EdgePrerequisite,
				Weight:              defaultEdgeWeight,
				TransferCoefficient: defaultEdgeTransfer,
			})
		}
		for _, rel := range concept.Related {
			g.AddEdge(graph.ConceptEdge{
				From:                concept.ID,
				To:                  rel,
				Kind:                graph.EdgeRelated,
				Weight:              relatedEdgeWeight,
				TransferCoefficient: defaultEdgeTransfer,
			})
		}
	}
	return g
}
