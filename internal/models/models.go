package models

import (
	"encoding/json"
	"time"
)

// EntityKind classifies a declared entity
type EntityKind string

const (
	EntityFunction EntityKind = "function"
	EntityType     EntityKind = "type"
)

// RelationshipLaunches marks a task launched from the enclosing construct
const RelationshipLaunches = "launches"

// PatternTag is an identifier from a fixed pattern vocabulary
type PatternTag string

// Structural pattern vocabulary
const (
	PatternChannelUsage    PatternTag = "channel_usage"
	PatternGoroutineLaunch PatternTag = "goroutine_launch"
	PatternSelect          PatternTag = "select_pattern"
	PatternWaitGroup       PatternTag = "wait_group_pattern"
	PatternContext         PatternTag = "context_pattern"
)

// Language-specific pattern vocabulary
const (
	PatternAsyncFunction       PatternTag = "async_function"
	PatternAwaitUsage          PatternTag = "await_usage"
	PatternDecoratorUsage      PatternTag = "decorator_usage"
	PatternGenerator           PatternTag = "generator_pattern"
	PatternGenericsUsage       PatternTag = "generics_usage"
	PatternInterfaceDefinition PatternTag = "interface_definition"
	PatternDeferUsage          PatternTag = "defer_usage"
	PatternPanicRecovery       PatternTag = "panic_recovery"
)

// Design pattern vocabulary (disjoint from the structural one)
const (
	DesignWorkerPool       PatternTag = "worker_pool"
	DesignPipeline         PatternTag = "pipeline"
	DesignProducerConsumer PatternTag = "producer_consumer"
	DesignSingleton        PatternTag = "singleton"
)

// Analysis type markers carried on serialized results
const (
	AnalysisTypeStructure     = "structure_analysis"
	AnalysisTypeDesign        = "design_patterns"
	AnalysisTypeComprehensive = "comprehensive_report"
)

// Entity is a detected function or type declaration
type Entity struct {
	Kind EntityKind `json:"kind" yaml:"kind"`
	Name string     `json:"name" yaml:"name"`
	Line int        `json:"line" yaml:"line"`
}

// Relationship is a directed edge between a construct and a target it spawns
type Relationship struct {
	Kind   string `json:"kind" yaml:"kind"`
	Source string `json:"source" yaml:"source"`
	Target string `json:"target" yaml:"target"`
	Line   int    `json:"line" yaml:"line"`
}

// AnalysisResult is the output of a structural scan, optionally specialized
// for a language. Patterns and LanguagePatterns are sets serialized in sorted order.
type AnalysisResult struct {
	EntitiesCount      int            `json:"entities_count" yaml:"entities_count"`
	RelationshipsCount int            `json:"relationships_count" yaml:"relationships_count"`
	Entities           []Entity       `json:"entities" yaml:"entities"`
	Relationships      []Relationship `json:"relationships" yaml:"relationships"`
	Patterns           []PatternTag   `json:"patterns" yaml:"patterns"`
	Language           string         `json:"language,omitempty" yaml:"language,omitempty"`
	LanguagePatterns   []PatternTag   `json:"language_patterns,omitempty" yaml:"language_patterns,omitempty"`
	AnalysisType       string         `json:"analysis_type" yaml:"analysis_type"`
}

// Clone returns a deep copy. Derived results never share slices with r.
func (r *AnalysisResult) Clone() *AnalysisResult {
	if r == nil {
		return nil
	}
	out := *r
	out.Entities = append([]Entity(nil), r.Entities...)
	out.Relationships = append([]Relationship(nil), r.Relationships...)
	out.Patterns = append([]PatternTag(nil), r.Patterns...)
	out.LanguagePatterns = append([]PatternTag(nil), r.LanguagePatterns...)
	if out.Entities == nil {
		out.Entities = []Entity{}
	}
	if out.Relationships == nil {
		out.Relationships = []Relationship{}
	}
	if out.Patterns == nil {
		out.Patterns = []PatternTag{}
	}
	if len(out.LanguagePatterns) == 0 {
		out.LanguagePatterns = nil
	}
	return &out
}

// DesignPatternResult holds higher-order design pattern tags
type DesignPatternResult struct {
	Patterns     []PatternTag `json:"patterns" yaml:"patterns"`
	Count        int          `json:"count" yaml:"count"`
	AnalysisType string       `json:"analysis_type" yaml:"analysis_type"`
}

// InsightReport compares the pattern sets of two analyses
type InsightReport struct {
	Insights        []string     `json:"insights" yaml:"insights"`
	CommonPatterns  []PatternTag `json:"common_patterns" yaml:"common_patterns"`
	UniqueToA       []PatternTag `json:"unique_to_A" yaml:"unique_to_A"`
	UniqueToB       []PatternTag `json:"unique_to_B" yaml:"unique_to_B"`
	SimilarityScore float64      `json:"similarity_score" yaml:"similarity_score"`
}

// ReportSummary is the merged view of a structure and design analysis
type ReportSummary struct {
	TotalEntities      int     `json:"total_entities" yaml:"total_entities"`
	TotalRelationships int     `json:"total_relationships" yaml:"total_relationships"`
	DesignPatternCount int     `json:"design_pattern_count" yaml:"design_pattern_count"`
	ComplexityScore    float64 `json:"complexity_score" yaml:"complexity_score"`
}

// Report is a comprehensive analysis report
type Report struct {
	Structure    *AnalysisResult      `json:"structure" yaml:"structure"`
	Patterns     *DesignPatternResult `json:"patterns" yaml:"patterns"`
	Summary      ReportSummary        `json:"summary" yaml:"summary"`
	AnalysisType string               `json:"analysis_type" yaml:"analysis_type"`
}

// SyncStatusSuccess marks a completed local/peer comparison
const SyncStatusSuccess = "success"

// SyncResult is a local analysis compared against the peer's analysis of the
// same text
type SyncResult struct {
	LocalAnalysis         *AnalysisResult `json:"local_analysis" yaml:"local_analysis"`
	PeerAnalysis          *AnalysisResult `json:"peer_analysis" yaml:"peer_analysis"`
	CrossLanguageInsights *InsightReport  `json:"cross_language_insights" yaml:"cross_language_insights"`
	SynchronizationStatus string          `json:"synchronization_status" yaml:"synchronization_status"`
}

// JobStatus is the lifecycle state of a processing job
type JobStatus string

const (
	JobPending   JobStatus = "pending"
	JobCompleted JobStatus = "completed"
	JobFailed    JobStatus = "failed"
)

// Job is a processing request tracked by the job store
type Job struct {
	ID        string          `json:"id"`
	Action    string          `json:"action"`
	Data      string          `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
	Status    JobStatus       `json:"status"`
	Result    json.RawMessage `json:"result,omitempty"`
	Error     string          `json:"error,omitempty"`
}

// AnalysisRecord is the persisted summary of a language-specific analysis
type AnalysisRecord struct {
	JobID              string       `json:"job_id"`
	EntitiesFound      int          `json:"entities_found"`
	RelationshipsFound int          `json:"relationships_found"`
	Language           string       `json:"language"`
	ProcessingTime     float64      `json:"processing_time"`
	Patterns           []PatternTag `json:"patterns"`
	CreatedAt          time.Time    `json:"created_at"`
}

// PatternStrings converts a tag slice into plain strings
func PatternStrings(tags []PatternTag) []string {
	out := make([]string, len(tags))
	for i, t := range tags {
		out[i] = string(t)
	}
	return out
}

// PatternTags converts plain strings into tags
func PatternTags(values []string) []PatternTag {
	out := make([]PatternTag, len(values))
	for i, v := range values {
		out[i] = PatternTag(v)
	}
	return out
}
