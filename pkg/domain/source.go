package domain

import "time"

// Source is a configured feed belonging to a category
type Source struct {
	Name        string  `yaml:"name" json:"name"`
	RSS         string  `yaml:"rss" json:"rss"`
	Credibility float64 `yaml:"credibility" json:"credibility"`
	Active      bool    `yaml:"active" json:"active"`
}

// PullKey builds the ledger key from source name and url
func PullKey(name, url string) string {
	return name + "|" + url
}

// PullEntry tracks how many records were pulled from a source
type PullEntry struct {
	Name      string    `json:"name"`
	URL       string    `json:"url"`
	PullCount int       `json:"pullCount"`
	FirstSeen time.Time `json:"firstSeen"`
	LastPull  time.Time `json:"lastPull"`
}

// PullLog is the persisted source ledger
type PullLog struct {
	Sources     map[string]PullEntry `json:"sources"`
	LastUpdated time.Time            `json:"lastUpdated"`
	TotalPulls  int                  `json:"totalPulls"`
}
