package domain

import (
	"errors"
	"strings"
)

var (
	ErrStaleResponse   = errors.New("response superseded by a newer request")
	ErrServiceRejected = errors.New("url list service rejected the request")
)

type CrawlMode string

const (
	CrawlModeStandard CrawlMode = "standard"
	CrawlModeList     CrawlMode = "list"
)

// ParseCrawlMode never fails: anything that is not "standard" selects list mode.
func ParseCrawlMode(raw string) CrawlMode {
	if strings.EqualFold(strings.TrimSpace(raw), string(CrawlModeStandard)) {
		return CrawlModeStandard
	}
	return CrawlModeList
}

type ListTab string

const (
	ListTabPaste  ListTab = "paste"
	ListTabUpload ListTab = "upload"
)

// ParseListTab mirrors ParseCrawlMode: anything that is not "paste" is upload.
func ParseListTab(raw string) ListTab {
	if strings.EqualFold(strings.TrimSpace(raw), string(ListTabPaste)) {
		return ListTabPaste
	}
	return ListTabUpload
}

type IngestionSource string

const (
	SourcePaste  IngestionSource = "paste"
	SourceUpload IngestionSource = "upload"
)

type NotificationKind string

const (
	NotifySuccess NotificationKind = "success"
	NotifyError   NotificationKind = "error"
)
