package template

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	Name        string
	Version     string
	Description string
	ModelType   string
	AccessType  string
	PriceWei    uint64
	SizeBytes   uint64
	Rating      float64
	Tags        []string
	UpdatedAt   time.Time
	ID          string
}

func sampleRow() row {
	return row{
		Name:        "Vision Pro",
		Version:     "2.0.1",
		Description: "Object detector.",
		ModelType:   "pytorch",
		AccessType:  "paid",
		PriceWei:    2_500_000_000_000_000,
		SizeBytes:   1536 << 20,
		Rating:      4.8,
		Tags:        []string{"vision", "gpu"},
		UpdatedAt:   time.Date(2025, 2, 11, 8, 0, 0, 0, time.UTC),
		ID:          "01JGKZ9R1B3X4W5Y6Z7A8B9C0D",
	}
}

func TestEngine_Formatting(t *testing.T) {
	engine := NewEngine()

	tests := []struct {
		name     string
		template string
		data     interface{}
		want     string
	}{
		{"free price", `{{ wei .PriceWei }}`, row{}, "free"},
		{"small price", `{{ wei .PriceWei }}`, row{PriceWei: 1500}, "1,500 wei"},
		{"gwei price", `{{ wei .PriceWei }}`, row{PriceWei: 2_500_000_000}, "2.5 gwei"},
		{"token price", `{{ wei .PriceWei }}`, sampleRow(), "0.0025 LAT"},
		{"bytes", `{{ bytes .SizeBytes }}`, sampleRow(), "1.5 GiB"},
		{"comma", `{{ comma 1234567 }}`, nil, "1,234,567"},
		{"stars", `{{ stars .Rating }}`, sampleRow(), "★★★★★ 4.8"},
		{"stars low", `{{ stars 2.2 }}`, nil, "★★☆☆☆ 2.2"},
		{"stars clamp", `{{ stars 9.0 }}`, nil, "★★★★★ 5.0"},
		{"timestamp", `{{ timestamp .UpdatedAt }}`, sampleRow(), "2025-02-11 08:00"},
		{"timestamp zero", `{{ timestamp .UpdatedAt }}`, row{}, "unknown"},
		{"join", `{{ join .Tags ", " }}`, sampleRow(), "vision, gpu"},
		{"default", `{{ default "none" .Description }}`, row{}, "none"},
		{"upper", `{{ upper .ModelType }}`, sampleRow(), "PYTORCH"},
		{"pad", `[{{ pad 6 "ab" }}]`, nil, "[ab    ]"},
		{"truncate", `{{ truncate 5 "abcdefghij" }}`, nil, "abcd…"},
		{"truncate fits", `{{ truncate 20 "short" }}`, nil, "short"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := engine.Execute(tt.template, tt.data)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEngine_StylingKeepsText(t *testing.T) {
	engine := NewEngine()

	for _, tmpl := range []string{
		`{{ color "red" "hello" }}`,
		`{{ bold "hello" }}`,
		`{{ italic "hello" }}`,
		`{{ dim "hello" }}`,
		`{{ bg "blue" "hello" }}`,
		`{{ colorIf true "red" "green" "hello" }}`,
		`{{ access "paid" | printf "%s" }}`,
	} {
		got, err := engine.Execute(tmpl, nil)
		require.NoError(t, err, tmpl)
		if strings.Contains(tmpl, "access") {
			assert.Contains(t, got, "paid")
			continue
		}
		assert.Contains(t, got, "hello", tmpl)
	}

	got, err := engine.Execute(`{{ color "red" "" }}`, nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestEngine_Ago(t *testing.T) {
	engine := NewEngine()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	engine.now = func() time.Time { return now }

	got, err := engine.Execute(`{{ ago .UpdatedAt }}`, row{UpdatedAt: now.Add(-3 * time.Hour)})
	require.NoError(t, err)
	assert.Equal(t, "3 hours ago", got)

	got, err = engine.Execute(`{{ ago "not a time" }}`, nil)
	require.NoError(t, err)
	assert.Equal(t, "unknown", got)
}

func TestEngine_Errors(t *testing.T) {
	engine := NewEngine()

	_, err := engine.Execute(`{{ .Name `, nil)
	assert.Error(t, err)

	assert.Error(t, engine.Validate(`{{ nosuchfunc }}`))
	assert.NoError(t, engine.Validate(`{{ wei 1 }}`))

	_, err = engine.ExecuteNamed("missing", nil)
	assert.Error(t, err)

	assert.Error(t, engine.LoadTemplate("broken", `{{ if }}`))
}

func TestEngine_Defaults(t *testing.T) {
	engine := NewEngine()
	require.NoError(t, engine.LoadDefaults(map[string]string{
		TitleTemplate: `{{ .Name }}!`,
		"extra":       `{{ .ID }}`,
	}))

	data := sampleRow()

	title, err := engine.ExecuteNamed(TitleTemplate, data)
	require.NoError(t, err)
	assert.Equal(t, "Vision Pro!", title)

	meta, err := engine.ExecuteNamed(MetaTemplate, data)
	require.NoError(t, err)
	assert.Contains(t, meta, "pytorch")
	assert.Contains(t, meta, "0.0025 LAT")
	assert.Contains(t, meta, "1.5 GiB")

	detail, err := engine.ExecuteNamed(DetailTemplate, data)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(detail, "# Vision Pro"))
	assert.Contains(t, detail, "Tags: vision, gpu")
	assert.Contains(t, detail, data.ID)

	extra, err := engine.ExecuteNamed("extra", data)
	require.NoError(t, err)
	assert.Equal(t, data.ID, extra)

	assert.True(t, IsDefaultTemplate(MetaTemplate))
	assert.False(t, IsDefaultTemplate("extra"))
	body, ok := GetDefaultTemplate(TitleTemplate)
	assert.True(t, ok)
	assert.NotEmpty(t, body)
}

func TestEngine_NamedResultsAreCached(t *testing.T) {
	engine := NewEngine()
	require.NoError(t, engine.LoadTemplate("name", `{{ .Name }}`))

	_, err := engine.ExecuteNamed("name", row{Name: "a"})
	require.NoError(t, err)
	_, err = engine.ExecuteNamed("name", row{Name: "a"})
	require.NoError(t, err)
	assert.Equal(t, 1, engine.cache.Len())

	// Reloading a template drops stale results
	require.NoError(t, engine.LoadTemplate("name", `<{{ .Name }}>`))
	assert.Zero(t, engine.cache.Len())
	got, err := engine.ExecuteNamed("name", row{Name: "a"})
	require.NoError(t, err)
	assert.Equal(t, "<a>", got)
}

func TestTruncateKeepsDisplayWidth(t *testing.T) {
	engine := NewEngine()
	styled := engine.boldFunc("abcdefghij")
	got := engine.truncateFunc(4, styled)
	assert.LessOrEqual(t, lipgloss.Width(got), 4)
	assert.Empty(t, engine.truncateFunc(0, "abc"))
}
