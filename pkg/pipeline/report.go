package pipeline

import (
	"time"

	"github.com/umputun/perspectives/pkg/domain"
)

// report file names under the data directory
const (
	FetchReportFile    = "fetch-metadata.json"
	ClassifyReportFile = "classification-metadata.json"
	DedupReportFile    = "deduplication-report.json"
	CleanupReportFile  = "cleanup-report.json"
)

// IngestReport summarizes an ingestion run
type IngestReport struct {
	RunID            string                  `json:"runId"`
	LastFetch        time.Time               `json:"lastFetch"`
	TotalNewArticles int                     `json:"totalNewArticles"`
	FailedSources    int                     `json:"failedSources"`
	NextFetch        time.Time               `json:"nextFetch"`
	Categories       map[domain.Category]int `json:"categories"`
}

// ClassifyReport summarizes a classification pass
type ClassifyReport struct {
	RunID              string          `json:"runId"`
	LastClassification time.Time       `json:"lastClassification"`
	TotalClassified    int             `json:"totalClassified"`
	TotalMoved         int             `json:"totalMoved"`
	APIProviders       map[string]bool `json:"apiProviders"`
}

// DedupReport summarizes a deduplication pass
type DedupReport struct {
	RunID                  string           `json:"runId"`
	Timestamp              time.Time        `json:"timestamp"`
	TotalArticlesProcessed int              `json:"totalArticlesProcessed"`
	DuplicateGroupsFound   int              `json:"duplicateGroupsFound"`
	ArticlesRemoved        int              `json:"articlesRemoved"`
	ArticlesRemaining      int              `json:"articlesRemaining"`
	DuplicateGroups        []DuplicateGroup `json:"duplicateGroups"`
}

// DuplicateGroup lists the kept record and the removed ones
type DuplicateGroup struct {
	Kept    RecordRef   `json:"kept"`
	Removed []RecordRef `json:"removed"`
}

// RecordRef identifies a record in reports
type RecordRef struct {
	Title  string `json:"title"`
	Source string `json:"source"`
	ID     string `json:"id"`
}

// CleanupReport summarizes a retention sweep
type CleanupReport struct {
	RunID          string                              `json:"runId"`
	Timestamp      time.Time                           `json:"timestamp"`
	Categories     map[domain.Category]CategoryCleanup `json:"categories"`
	TotalRemoved   int                                 `json:"totalRemoved"`
	TotalRemaining int                                 `json:"totalRemaining"`
}

// CategoryCleanup is per-category part of the cleanup report
type CategoryCleanup struct {
	TotalArticles   int `json:"totalArticles"`
	ArticlesRemoved int `json:"articlesRemoved"`
}

func refOf(r domain.Record) RecordRef {
	return RecordRef{Title: r.Title, Source: r.Source, ID: r.ID}
}
