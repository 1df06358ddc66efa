// Package graph defines the concept entanglement graph: curriculum concepts,
// typed relationships between them, and the per-learner comprehension state
// attached to each concept. All engine operations consume and produce values
// of these types.
package graph

import (
	"time"
)

// EntanglementState classifies a learner's grasp of a single concept.
type EntanglementState string

const (
	// StateUnknown means there is not enough signal to judge the concept.
	StateUnknown EntanglementState = "unknown"
	// StateMastered means the concept is solidly understood.
	StateMastered EntanglementState = "mastered"
	// StateStable means the concept is understood but not yet mastered.
	StateStable EntanglementState = "stable"
	// StateUnstable means comprehension is borderline and may regress.
	StateUnstable EntanglementState = "unstable"
	// StateStruggling means the learner is actively having difficulty.
	StateStruggling EntanglementState = "struggling"
	// StateCollapsed means comprehension has broken down, either from a very
	// low score or from repeated downstream cascade failures.
	StateCollapsed EntanglementState = "collapsed"
)

// EdgeKind is the type of a relationship between two concepts.
type EdgeKind string

const (
	// EdgePrerequisite means From must be understood before To. Only
	// prerequisite edges participate in root-cause and forward-impact
	// traversal and in keystone computation.
	EdgePrerequisite EdgeKind = "prerequisite"
	// EdgeReinforces means practicing From strengthens To.
	EdgeReinforces EdgeKind = "reinforces"
	// EdgeRelated marks a thematic association with no direction of study.
	EdgeRelated EdgeKind = "related"
	// EdgeBuildsUpon marks a looser forward dependency than prerequisite.
	EdgeBuildsUpon EdgeKind = "builds-upon"
)

// ConceptNode is one curriculum unit.
//
// Prerequisites and Dependents are a denormalized mirror of prerequisite
// edges: if a prerequisite edge A->B exists, then A appears in
// B.Prerequisites and B appears in A.Dependents. Graph.AddEdge is the only
// writer of these two fields.
type ConceptNode struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	SectionID   string   `json:"sectionId,omitempty"`
	ChapterID   string   `json:"chapterId,omitempty"`
	CourseID    string   `json:"courseId,omitempty"`
	Order       int      `json:"order"`
	Difficulty  int      `json:"difficulty"` // 0-100
	XPReward    int      `json:"xpReward,omitempty"`
	Skills      []string `json:"skills,omitempty"`

	Prerequisites []string `json:"prerequisites,omitempty"`
	Dependents    []string `json:"dependents,omitempty"`
	Related       []string `json:"related,omitempty"`
}

// ConceptEdge is a typed relationship between two concepts. The ID is
// deterministic ("from-to-kind") so re-importing a course cannot duplicate
// edges.
type ConceptEdge struct {
	ID   string   `json:"id"`
	From string   `json:"from"`
	To   string   `json:"to"`
	Kind EdgeKind `json:"kind"`

	// Weight and TransferCoefficient are both in [0,1].
	// TransferCoefficient estimates how well mastery of From predicts
	// mastery of To; Weight is the edge's overall strength.
	Weight              float64 `json:"weight"`
	TransferCoefficient float64 `json:"transferCoefficient"`

	// Traversal counters are monotonically non-decreasing.
	SuccessfulTraversals int `json:"successfulTraversals"`
	DifficultTraversals  int `json:"difficultTraversals"`

	Label string `json:"label,omitempty"`
}

// SignalKind identifies one of the six behavior signal variants.
type SignalKind string

const (
	SignalQuiz         SignalKind = "quiz"
	SignalPlayground   SignalKind = "playground"
	SignalSectionTime  SignalKind = "sectionTime"
	SignalErrorPattern SignalKind = "errorPattern"
	SignalVideo        SignalKind = "video"
	SignalNavigation   SignalKind = "navigation"
)

// BehaviorSignal is one observed learner interaction. Exactly one payload
// pointer matching Kind is set. Signals are immutable once recorded.
type BehaviorSignal struct {
	Kind      SignalKind `json:"kind"`
	Timestamp time.Time  `json:"timestamp"`

	Quiz         *QuizSignal         `json:"quiz,omitempty"`
	Playground   *PlaygroundSignal   `json:"playground,omitempty"`
	SectionTime  *SectionTimeSignal  `json:"sectionTime,omitempty"`
	ErrorPattern *ErrorPatternSignal `json:"errorPattern,omitempty"`
	Video        *VideoSignal        `json:"video,omitempty"`
	Navigation   *NavigationSignal   `json:"navigation,omitempty"`
}

// TimeSpentMs returns the active-time contribution of the signal, zero for
// kinds that do not carry a duration.
func (s BehaviorSignal) TimeSpentMs() int64 {
	switch {
	case s.Quiz != nil:
		return s.Quiz.TimeSpentMs
	case s.Playground != nil:
		return s.Playground.TimeSpentMs
	case s.SectionTime != nil:
		return s.SectionTime.TimeSpentMs
	}
	return 0
}

// QuizSignal records the outcome of a quiz attempt.
type QuizSignal struct {
	CorrectAnswers int   `json:"correctAnswers"`
	TotalQuestions int   `json:"totalQuestions"`
	AttemptsUsed   int   `json:"attemptsUsed"`
	TimeSpentMs    int64 `json:"timeSpentMs"`
}

// PlaygroundSignal records activity in an interactive code playground.
type PlaygroundSignal struct {
	RunCount           int   `json:"runCount"`
	SuccessfulRuns     int   `json:"successfulRuns"`
	ErrorCount         int   `json:"errorCount"`
	ModificationsCount int   `json:"modificationsCount"`
	TimeSpentMs        int64 `json:"timeSpentMs"`
}

// SectionTimeSignal records reading progress through a content section.
type SectionTimeSignal struct {
	CompletionPercentage float64 `json:"completionPercentage"`
	RevisitCount         int     `json:"revisitCount"`
	TimeSpentMs          int64   `json:"timeSpentMs"`
}

// ErrorPatternSignal records a repeated error the learner keeps hitting.
type ErrorPatternSignal struct {
	RepeatedCount int `json:"repeatedCount"`
}

// VideoSignal records video watch behavior.
type VideoSignal struct {
	WatchedPercentage float64 `json:"watchedPercentage"`
	RewindCount       int     `json:"rewindCount"`
}

// NavigationSignal records a navigation event; backward navigation is a weak
// indicator of confusion.
type NavigationSignal struct {
	IsBackward bool `json:"isBackward"`
}

// MaxSignals caps the per-concept signal history; older signals are dropped.
const MaxSignals = 50

// Entanglement is the per-learner, per-concept mutable comprehension state.
// State is derived exclusively by the scoring package's decision table and
// never assigned elsewhere.
type Entanglement struct {
	ConceptID          string            `json:"conceptId"`
	State              EntanglementState `json:"state"`
	ComprehensionScore float64           `json:"comprehensionScore"` // 0-100
	Confidence         float64           `json:"confidence"`         // 0-1
	Attempts           int               `json:"attempts"`
	TimeSpentMs        int64             `json:"timeSpentMs"`
	Signals            []BehaviorSignal  `json:"signals,omitempty"` // most recent MaxSignals
	LastInteraction    time.Time         `json:"lastInteraction"`

	// Cascade counters attribute downstream traversal outcomes to this
	// concept. They are updated only by edge adaptation, never by signal
	// ingestion.
	CascadeFailures  int `json:"cascadeFailures"`
	CascadeSuccesses int `json:"cascadeSuccesses"`
}

// TransferPattern is the observed learning transfer between two concepts,
// averaged over recorded observations.
type TransferPattern struct {
	From         string  `json:"from"`
	To           string  `json:"to"`
	TransferRate float64 `json:"transferRate"` // 0-1 running average
	SampleSize   int     `json:"sampleSize"`
}

// StepPriority marks how strongly a repair step is advised.
type StepPriority string

const (
	PriorityRequired    StepPriority = "required"
	PriorityRecommended StepPriority = "recommended"
)

// RepairStep is one remediation action inside a RepairPath.
type RepairStep struct {
	ConceptID            string       `json:"conceptId"`
	Priority             StepPriority `json:"priority"`
	EstimatedTimeMinutes int          `json:"estimatedTimeMinutes"`
	Activities           []string     `json:"activities"`
	Reason               string       `json:"reason,omitempty"`
}

// RepairPathStatus tracks the lifecycle of a repair path inside the graph.
type RepairPathStatus string

const (
	RepairActive    RepairPathStatus = "active"
	RepairCompleted RepairPathStatus = "completed"
	RepairDismissed RepairPathStatus = "dismissed"
)

// RepairPath is an ordered remediation plan targeting one concept. Active
// paths live in Graph.ActiveRepairPaths until completed or dismissed.
type RepairPath struct {
	ID                        string           `json:"id"`
	TargetConceptID           string           `json:"targetConceptId"`
	Steps                     []RepairStep     `json:"steps"`
	TotalEstimatedTimeMinutes int              `json:"totalEstimatedTimeMinutes"`
	ExpectedImprovement       float64          `json:"expectedImprovement"`
	Status                    RepairPathStatus `json:"status"`
	CreatedAt                 time.Time        `json:"createdAt"`
}

// Metadata identifies the graph's course and learner and tracks persistence
// versioning.
type Metadata struct {
	CourseID    string    `json:"courseId"`
	UserID      string    `json:"userId,omitempty"`
	LastUpdated time.Time `json:"lastUpdated"`
	Version     int       `json:"version"`
}

// SnapshotVersion is the current serialized-graph schema version.
const SnapshotVersion = 1

// Graph is the aggregate root: all nodes, edges, per-learner state, and
// analysis artifacts for one (course, learner) pair.
//
// A Graph is owned by a single controller. Operations mutate it in place and
// are not safe for concurrent use; callers that accept interleaved updates
// must serialize them (typically behind a single update queue).
type Graph struct {
	Nodes             map[string]*ConceptNode  `json:"nodes"`
	Entanglements     map[string]*Entanglement `json:"entanglements"`
	Edges             []*ConceptEdge           `json:"edges"`
	TransferPatterns  []*TransferPattern       `json:"transferPatterns,omitempty"`
	ActiveRepairPaths []*RepairPath            `json:"activeRepairPaths,omitempty"`
	Metadata          Metadata                 `json:"metadata"`
}
