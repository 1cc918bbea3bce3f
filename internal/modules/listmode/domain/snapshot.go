package domain

import (
	"fmt"
	"strings"
	"time"
)

// IngestionStats is computed by the URL List service; the client never derives it.
type IngestionStats struct {
	ValidCount    int `json:"valid_count"`
	InvalidCount  int `json:"invalid_count"`
	UniqueDomains int `json:"unique_domains"`
}

type UploadedFile struct {
	Name string `json:"name"`
}

// Classification is one server verdict over a batch of raw input.
type Classification struct {
	Valid         []string
	Invalid       []string
	UniqueDomains int
}

// Snapshot is the whole list-mode state at one instant. Values are never
// mutated in place; reducers return a modified clone.
type Snapshot struct {
	Mode                CrawlMode      `json:"mode"`
	Tab                 ListTab        `json:"tab"`
	SeedURL             string         `json:"seed_url"`
	PasteText           string         `json:"paste_text"`
	Valid               []string       `json:"valid"`
	Invalid             []string       `json:"invalid"`
	Stats               IngestionStats `json:"stats"`
	StatsVisible        bool           `json:"stats_visible"`
	InvalidBadgeVisible bool           `json:"invalid_badge_visible"`
	File                *UploadedFile  `json:"file,omitempty"`
	FileInfoVisible     bool           `json:"file_info_visible"`
	Collapsed           bool           `json:"collapsed"`
	CollapseLabel       string         `json:"collapse_label"`
	Revision            uint64         `json:"revision"`
	UpdatedAt           time.Time      `json:"updated_at"`
}

func Initial() Snapshot {
	return Snapshot{
		Mode:    CrawlModeStandard,
		Tab:     ListTabPaste,
		Valid:   []string{},
		Invalid: []string{},
	}
}

func (s Snapshot) StandardPanelVisible() bool { return s.Mode == CrawlModeStandard }
func (s Snapshot) ListPanelVisible() bool     { return s.Mode != CrawlModeStandard }
func (s Snapshot) PastePanelVisible() bool    { return s.Tab == ListTabPaste }
func (s Snapshot) UploadPanelVisible() bool   { return s.Tab != ListTabPaste }

func (s Snapshot) Clone() Snapshot {
	out := s
	out.Valid = append([]string{}, s.Valid...)
	out.Invalid = append([]string{}, s.Invalid...)
	if s.File != nil {
		f := *s.File
		out.File = &f
	}
	return out
}

// CollapseLabel renders the collapsed-header summary. Zero valid URLs render
// as an empty label so "nothing ingested yet" reads differently from a count.
func CollapseLabel(validCount int) string {
	if validCount <= 0 {
		return ""
	}
	return fmt.Sprintf("%d URLs", validCount)
}

// JoinURLs is the shared textarea representation of a URL list.
func JoinURLs(urls []string) string {
	return strings.Join(urls, "\n")
}

// ─── reducers ────────────────────────────────────────────────────────────────

type Reducer func(Snapshot) Snapshot

func WithMode(mode CrawlMode) Reducer {
	return func(s Snapshot) Snapshot {
		s.Mode = mode
		return s
	}
}

func WithTab(tab ListTab) Reducer {
	return func(s Snapshot) Snapshot {
		s.Tab = tab
		return s
	}
}

func WithSeedURL(seed string) Reducer {
	return func(s Snapshot) Snapshot {
		s.SeedURL = strings.TrimSpace(seed)
		return s
	}
}

func WithPasteText(text string) Reducer {
	return func(s Snapshot) Snapshot {
		s.PasteText = text
		return s
	}
}

func WithStatsHidden() Reducer {
	return func(s Snapshot) Snapshot {
		s.StatsVisible = false
		return s
	}
}

// WithLists replaces both URL lists as one pair.
func WithLists(valid, invalid []string) Reducer {
	return func(s Snapshot) Snapshot {
		s.Valid = append([]string{}, valid...)
		s.Invalid = append([]string{}, invalid...)
		return s
	}
}

// WithClassification applies a paste validation verdict: lists, counts,
// stats panel and the invalid badge all move together.
func WithClassification(c Classification) Reducer {
	return func(s Snapshot) Snapshot {
		s = WithLists(c.Valid, c.Invalid)(s)
		s.Stats = IngestionStats{
			ValidCount:    len(s.Valid),
			InvalidCount:  len(s.Invalid),
			UniqueDomains: c.UniqueDomains,
		}
		s.StatsVisible = true
		s.InvalidBadgeVisible = len(s.Invalid) > 0
		return s
	}
}

func WithFile(name string) Reducer {
	return func(s Snapshot) Snapshot {
		s.File = &UploadedFile{Name: name}
		s.FileInfoVisible = true
		return s
	}
}

// WithFileCleared drops the file and empties both lists. Stats and paste text
// are left as they were.
func WithFileCleared() Reducer {
	return func(s Snapshot) Snapshot {
		s.File = nil
		s.FileInfoVisible = false
		s.Valid = []string{}
		s.Invalid = []string{}
		return s
	}
}

func WithCollapsed(collapsed bool) Reducer {
	return func(s Snapshot) Snapshot {
		s.Collapsed = collapsed
		return s
	}
}

func WithCountRefreshed() Reducer {
	return func(s Snapshot) Snapshot {
		s.CollapseLabel = CollapseLabel(len(s.Valid))
		return s
	}
}

// Chain applies reducers left to right.
func Chain(reducers ...Reducer) Reducer {
	return func(s Snapshot) Snapshot {
		for _, r := range reducers {
			s = r(s)
		}
		return s
	}
}
