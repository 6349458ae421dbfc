package ui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/walkerbrain/internal/tasks"
)

var _ list.Item = checkItem{}

// checkItem wraps a [tasks.SectionResult] to implement [list.Item].
type checkItem struct {
	result tasks.SectionResult
}

func (i checkItem) FilterValue() string { return i.result.Name }

func (i checkItem) Title() string { return styles.mark(i.result.Name, i.result.Err) }

func (i checkItem) Description() string {
	took := i.result.Duration.Round(time.Millisecond)
	if i.result.Err != nil {
		return fmt.Sprintf("%v (%s)", i.result.Err, took)
	}
	return fmt.Sprintf("ok (%s)", took)
}

func checkItems(result *tasks.Result) []list.Item {
	if result == nil {
		return nil
	}
	items := make([]list.Item, len(result.Sections))
	for i, s := range result.Sections {
		items[i] = checkItem{result: s}
	}
	return items
}
