package telemetry

import (
	"fmt"
	"log/slog"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkCliquesFormed BookmarkType = "cliques_formed"
	BookmarkDispersal     BookmarkType = "dispersal"
	BookmarkStandstill    BookmarkType = "standstill"
	BookmarkSettled       BookmarkType = "settled"
)

// Bookmark thresholds.
const (
	bookmarkShiftFactor   = 2.0  // neighbor distance change against the rolling average
	standstillStayRate    = 0.9  // stay share that counts as a standstill window
	standstillWindows     = 3    // consecutive standstill windows before triggering
	settledCV2            = 0.01 // squared coefficient of variation of neighbor p50
	settledWindows        = 5
	settledHistoryWindows = 4
	bookmarkMinHistory    = 3
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type"`
	Tick        int32        `csv:"tick"`
	Description string       `csv:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"tick", b.Tick,
		"description", b.Description,
	)
}

// BookmarkDetector detects interesting moments in the simulation.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	standstillCount int // consecutive windows above standstillStayRate
	settledCount    int // consecutive windows with steady neighbor distances
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < settledWindows {
		historySize = settledWindows
	}
	return &BookmarkDetector{
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	// Neighbor distance far below or above its rolling average
	if b := bd.checkNeighborShift(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	// Almost nobody moves for several windows
	if b := bd.checkStandstill(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	// Neighborhoods keep the same spacing over several windows
	if b := bd.checkSettled(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	bd.addToHistory(stats)
	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

// getHistory returns the stored windows oldest first.
func (bd *BookmarkDetector) getHistory() []WindowStats {
	if !bd.historyFull {
		return bd.history[:bd.historyIdx]
	}
	out := make([]WindowStats, 0, bd.historySize)
	out = append(out, bd.history[bd.historyIdx:]...)
	return append(out, bd.history[:bd.historyIdx]...)
}

func (bd *BookmarkDetector) checkNeighborShift(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < bookmarkMinHistory || stats.NeighborP50 <= 0 {
		return nil
	}

	var total float64
	for _, h := range history {
		total += h.NeighborP50
	}
	avg := total / float64(len(history))
	if avg == 0 {
		return nil
	}

	switch {
	case stats.NeighborP50*bookmarkShiftFactor < avg:
		return &Bookmark{
			Type:        BookmarkCliquesFormed,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Median neighbor distance %.0f is %.1fx below average (%.0f)", stats.NeighborP50, avg/stats.NeighborP50, avg),
		}
	case stats.NeighborP50 > avg*bookmarkShiftFactor:
		return &Bookmark{
			Type:        BookmarkDispersal,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Median neighbor distance %.0f is %.1fx above average (%.0f)", stats.NeighborP50, stats.NeighborP50/avg, avg),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkStandstill(stats WindowStats) *Bookmark {
	if stats.StayRate < standstillStayRate {
		bd.standstillCount = 0
		return nil
	}
	bd.standstillCount++

	if bd.standstillCount == standstillWindows { // trigger exactly once per streak
		return &Bookmark{
			Type:        BookmarkStandstill,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Stay rate at or above %.0f%% for %d windows", standstillStayRate*100, standstillWindows),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkSettled(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < settledHistoryWindows-1 {
		return nil
	}

	// Recent windows plus the current one
	recent := append(append([]WindowStats(nil), history[len(history)-(settledHistoryWindows-1):]...), stats)
	var sum float64
	for _, h := range recent {
		sum += h.NeighborP50
	}
	mean := sum / float64(len(recent))
	if mean <= 0 {
		bd.settledCount = 0
		return nil
	}

	var variance float64
	for _, h := range recent {
		d := h.NeighborP50 - mean
		variance += d * d
	}
	variance /= float64(len(recent))

	if variance/(mean*mean) < settledCV2 {
		bd.settledCount++
	} else {
		bd.settledCount = 0
	}

	if bd.settledCount == settledWindows { // trigger exactly once per streak
		return &Bookmark{
			Type:        BookmarkSettled,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Median neighbor distance steady near %.0f over %d windows", mean, settledWindows),
		}
	}
	return nil
}
