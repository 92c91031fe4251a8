package help

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nhle/studytrack/internal/keys"
	"github.com/nhle/studytrack/internal/model"
)

func TestViewListsSectionsAndLegend(t *testing.T) {
	out := New(keys.DefaultKeyMap(), 120, 60).View()

	for _, title := range []string{"Task list", "Task detail", "Categories", "Forms", "Anywhere", "Legend"} {
		assert.Contains(t, out, title)
	}
	assert.Contains(t, out, "toggle item")
	assert.Contains(t, out, "command palette")
	assert.Contains(t, out, model.UncategorizedName)
}

func TestSectionsCoverChecklistKeys(t *testing.T) {
	k := keys.DefaultKeyMap()
	var detail section
	for _, s := range sections(k) {
		if s.title == "Task detail" {
			detail = s
		}
	}
	assert.Len(t, detail.bindings, 7)
}
