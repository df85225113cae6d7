package views

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HamStudy/vlist/internal/catalog"
	"github.com/HamStudy/vlist/internal/components/style"
	"github.com/HamStudy/vlist/internal/template"
)

func newEngine(t *testing.T) *template.Engine {
	t.Helper()
	engine := template.NewEngine()
	require.NoError(t, engine.LoadDefaults(nil))
	return engine
}

func sampleEntry() catalog.Entry {
	return catalog.Entry{
		ID:          "01HZY0000000000000000000AA",
		Name:        "resnet-50",
		Description: "Image classification backbone trained on ImageNet.",
		ModelType:   catalog.ModelONNX,
		Version:     "1.2.0",
		AccessType:  catalog.AccessPaid,
		PriceWei:    2_000_000_000,
		Tags:        []string{"vision", "classification"},
		SizeBytes:   98 * 1024 * 1024,
		Rating:      4.5,
		UpdatedAt:   time.Now().Add(-48 * time.Hour),
	}
}

func TestCardHeightFollowsWidth(t *testing.T) {
	d := NewEntryDelegate(newEngine(t), style.NewManager())
	entry := sampleEntry()

	// Title, meta, one description line, separator
	assert.Equal(t, 4, d.Height(entry, 200))

	narrow := d.Height(entry, 20)
	assert.Greater(t, narrow, 4)

	lines := d.Render(entry, 0, 20, false)
	assert.Len(t, lines, narrow, "rendered rows match the reported height")
	assert.Equal(t, "", lines[len(lines)-1], "cards end with a separator")
}

func TestCardDescriptionIsCapped(t *testing.T) {
	d := NewEntryDelegate(newEngine(t), style.NewManager())
	entry := sampleEntry()
	entry.Description = strings.Repeat("lorem ipsum dolor sit amet ", 40)

	assert.Equal(t, 2+maxDescriptionLines+1, d.Height(entry, 30))
	lines := d.descriptionLines(entry, 30)
	require.Len(t, lines, maxDescriptionLines)
	assert.True(t, strings.HasSuffix(lines[maxDescriptionLines-1], "…"))
	for _, line := range lines {
		assert.LessOrEqual(t, lipgloss.Width(line), 28)
	}

	d.SetWrapDescriptions(false)
	assert.False(t, d.WrapDescriptions())
	assert.Equal(t, 4, d.Height(entry, 30))
	lines = d.descriptionLines(entry, 30)
	require.Len(t, lines, 1)
	assert.Equal(t, 28, lipgloss.Width(lines[0]))
}

func TestEmptyDescription(t *testing.T) {
	d := NewEntryDelegate(newEngine(t), style.NewManager())
	entry := sampleEntry()
	entry.Description = "   "

	assert.Equal(t, 3, d.Height(entry, 80))
}

func TestCardRender(t *testing.T) {
	d := NewEntryDelegate(newEngine(t), style.NewManager())
	entry := sampleEntry()

	lines := d.Render(entry, 0, 80, true)
	require.GreaterOrEqual(t, len(lines), 3)
	assert.Contains(t, lines[0], "▌")
	assert.Contains(t, lines[0], "resnet-50")
	assert.Contains(t, lines[1], "onnx")
	assert.Contains(t, lines[1], "2 gwei")

	lines = d.Render(entry, 0, 80, false)
	assert.NotContains(t, lines[0], "▌")
	assert.True(t, strings.HasPrefix(lines[0], "  "))
}

func TestCompactRows(t *testing.T) {
	d := NewEntryDelegate(newEngine(t), style.NewManager())
	d.SetCompact(true)
	assert.True(t, d.Compact())

	header := d.Header(100)
	assert.Contains(t, header, "Name")
	assert.Contains(t, header, "Price")
	assert.Equal(t, 100, lipgloss.Width(header))

	lines := d.Render(sampleEntry(), 3, 100, false)
	require.NotEmpty(t, lines)
	assert.Equal(t, 100, lipgloss.Width(lines[0]))
	assert.Contains(t, lines[0], "resnet-50")
	assert.Contains(t, lines[0], "98 MiB")
	assert.Contains(t, lines[0], "2 gwei")
	assert.NotEqual(t, "", lines[len(lines)-1], "compact rows have no separator")

	d.SetCompact(false)
	assert.Equal(t, "", d.Header(100))
}

func TestEntryCells(t *testing.T) {
	entry := sampleEntry()
	entry.PriceWei = 0
	cells := EntryCells(entry)
	require.Len(t, cells, len(EntryColumns()))
	assert.Equal(t, "free", cells[3])
	assert.Equal(t, "4.5", cells[5])
	assert.Equal(t, "2 days ago", cells[6])
}

func TestDetailView(t *testing.T) {
	v := NewDetailView(newEngine(t))
	v.SetGlamourStyle("notty")
	assert.Equal(t, "", v.View(), "no size renders nothing")

	v.SetSize(60, 20)
	assert.Contains(t, v.View(), "Nothing selected")

	entry := sampleEntry()
	v.SetEntry(&entry)
	require.NotNil(t, v.Entry())
	view := v.View()
	assert.Contains(t, view, "resnet-50")
	assert.Contains(t, view, "vision, classification")
	for _, line := range strings.Split(view, "\n") {
		assert.LessOrEqual(t, lipgloss.Width(line), 60)
	}

	md := v.Markdown()
	assert.True(t, strings.HasPrefix(md, "# resnet-50"))

	v.SetEntry(nil)
	assert.Contains(t, v.View(), "Nothing selected")
}

func TestHelpView(t *testing.T) {
	v := NewHelpView(style.NewManager(), []HelpSection{
		{Title: "Navigation", Bindings: []key.Binding{
			key.NewBinding(key.WithKeys("j"), key.WithHelp("j", "move down")),
		}},
		{Title: "General", Bindings: []key.Binding{
			key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		}},
	})
	v.SetSize(80, 24)

	view := v.View()
	assert.Contains(t, view, "Navigation")
	assert.Contains(t, view, "move down")
	assert.Contains(t, view, "quit")
	assert.Len(t, strings.Split(view, "\n"), 24)
}
