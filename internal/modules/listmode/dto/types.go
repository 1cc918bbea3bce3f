package dto

import "time"

type SwitchModeInput struct {
	Mode string
}

type SwitchTabInput struct {
	Tab string
}

type SetSeedInput struct {
	URL string
}

type SetPasteTextInput struct {
	Text string
}

type UploadFileInput struct {
	Path string
}

type StatsOutput struct {
	ValidCount    int
	InvalidCount  int
	UniqueDomains int
}

type SnapshotOutput struct {
	Mode                 string
	Tab                  string
	SeedURL              string
	PasteText            string
	ValidURLs            []string
	InvalidURLs          []string
	Stats                StatsOutput
	StatsVisible         bool
	InvalidBadgeVisible  bool
	FileName             string
	FileInfoVisible      bool
	Collapsed            bool
	CollapseLabel        string
	StandardPanelVisible bool
	ListPanelVisible     bool
	PastePanelVisible    bool
	UploadPanelVisible   bool
	Revision             uint64
}

// ValidateOutput reports what a paste validation did. Skipped means the text
// was blank and no request was sent; Applied means the verdict replaced state.
type ValidateOutput struct {
	Skipped  bool
	Applied  bool
	Stale    bool
	Err      error
	Snapshot SnapshotOutput
}

type UploadOutput struct {
	NoFile       bool
	Applied      bool
	Stale        bool
	Notification string
	Err          error
	Snapshot     SnapshotOutput
}

type HistoryEntryOutput struct {
	ID            string
	Source        string
	FileName      string
	ValidCount    int
	InvalidCount  int
	UniqueDomains int
	CreatedAt     time.Time
}
