package template

import (
	"bytes"
	"fmt"
	"math"
	"math/big"
	"strings"
	"sync"
	"text/template"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/truncate"
)

// weiPerToken is the number of wei in one whole token
const weiPerToken = 1e18

// Engine provides template execution with formatting functions for catalog rows
type Engine struct {
	funcMap   template.FuncMap
	templates map[string]*template.Template
	cache     *Cache
	now       func() time.Time
	mu        sync.RWMutex
}

// NewEngine creates a new template engine
func NewEngine() *Engine {
	e := &Engine{
		funcMap:   make(template.FuncMap),
		templates: make(map[string]*template.Template),
		cache:     NewCache(1000), // Cache last 1000 results
		now:       time.Now,
	}
	e.registerBuiltinFuncs()
	return e
}

// registerBuiltinFuncs adds all custom functions to the engine
func (e *Engine) registerBuiltinFuncs() {
	// Color and styling functions
	e.funcMap["color"] = e.colorFunc
	e.funcMap["bg"] = e.bgFunc
	e.funcMap["bold"] = e.boldFunc
	e.funcMap["italic"] = e.italicFunc
	e.funcMap["dim"] = e.dimFunc
	e.funcMap["colorIf"] = e.colorIfFunc

	// Catalog formatting
	e.funcMap["wei"] = e.weiFunc
	e.funcMap["bytes"] = e.bytesFunc
	e.funcMap["comma"] = e.commaFunc
	e.funcMap["stars"] = e.starsFunc
	e.funcMap["access"] = e.accessFunc
	e.funcMap["ago"] = e.agoFunc
	e.funcMap["timestamp"] = e.timestampFunc

	// String operations
	e.funcMap["join"] = strings.Join
	e.funcMap["upper"] = strings.ToUpper
	e.funcMap["lower"] = strings.ToLower
	e.funcMap["trim"] = strings.TrimSpace
	e.funcMap["truncate"] = e.truncateFunc
	e.funcMap["pad"] = e.padFunc
	e.funcMap["default"] = e.defaultFunc
}

// Execute runs a template with the given data
func (e *Engine) Execute(tmplStr string, data interface{}) (string, error) {
	if cached, ok := e.cache.Get(tmplStr, data); ok {
		return cached, nil
	}

	tmpl, err := e.getOrParseTemplate(tmplStr)
	if err != nil {
		return "", fmt.Errorf("template parse error: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("template execution error: %w", err)
	}

	result := buf.String()
	e.cache.Set(tmplStr, data, result)
	return result, nil
}

// getOrParseTemplate retrieves or creates a template
func (e *Engine) getOrParseTemplate(tmplStr string) (*template.Template, error) {
	e.mu.RLock()
	if tmpl, ok := e.templates[tmplStr]; ok {
		e.mu.RUnlock()
		return tmpl, nil
	}
	e.mu.RUnlock()

	tmpl, err := template.New("").Funcs(e.funcMap).Parse(tmplStr)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	e.templates[tmplStr] = tmpl
	e.mu.Unlock()

	return tmpl, nil
}

// Validate checks if a template is valid
func (e *Engine) Validate(tmplStr string) error {
	_, err := template.New("validate").Funcs(e.funcMap).Parse(tmplStr)
	return err
}

// LoadTemplate loads a named template
func (e *Engine) LoadTemplate(name, tmplStr string) error {
	tmpl, err := template.New(name).Funcs(e.funcMap).Parse(tmplStr)
	if err != nil {
		return fmt.Errorf("template %s: %w", name, err)
	}

	e.mu.Lock()
	e.templates[name] = tmpl
	e.mu.Unlock()

	// Results cached under the old body are stale
	e.cache.Clear()
	return nil
}

// ExecuteNamed executes a named template, caching the result like Execute
func (e *Engine) ExecuteNamed(name string, data interface{}) (string, error) {
	key := namedKey(name)
	if cached, ok := e.cache.Get(key, data); ok {
		return cached, nil
	}

	e.mu.RLock()
	tmpl, ok := e.templates[name]
	e.mu.RUnlock()

	if !ok {
		return "", fmt.Errorf("template %s not found", name)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("template %s: %w", name, err)
	}

	result := buf.String()
	e.cache.Set(key, data, result)
	return result, nil
}

// namedKey keeps named results apart from inline templates with the same text
func namedKey(name string) string {
	return "\x00named:" + name
}

// ClearCache drops cached results, e.g. after templates change
func (e *Engine) ClearCache() {
	e.cache.Clear()
}

// Color functions
func (e *Engine) colorFunc(color, text string) string {
	if text == "" {
		return ""
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(text)
}

func (e *Engine) bgFunc(color, text string) string {
	return lipgloss.NewStyle().Background(lipgloss.Color(color)).Render(text)
}

func (e *Engine) boldFunc(text string) string {
	return lipgloss.NewStyle().Bold(true).Render(text)
}

func (e *Engine) italicFunc(text string) string {
	return lipgloss.NewStyle().Italic(true).Render(text)
}

func (e *Engine) dimFunc(text string) string {
	return lipgloss.NewStyle().Faint(true).Render(text)
}

func (e *Engine) colorIfFunc(condition bool, trueColor, falseColor, text string) string {
	if condition {
		return e.colorFunc(trueColor, text)
	}
	return e.colorFunc(falseColor, text)
}

// Catalog formatting functions

func (e *Engine) weiFunc(v interface{}) string {
	wei, ok := toUint64(v)
	if !ok {
		return "?"
	}
	return FormatWei(wei)
}

// FormatWei renders a wei amount in the largest sensible unit, "free" for zero
func FormatWei(wei uint64) string {
	if wei == 0 {
		return "free"
	}
	if wei < 1e9 {
		return humanize.Comma(int64(wei)) + " wei"
	}
	if wei < 1e13 {
		return humanize.FtoaWithDigits(float64(wei)/1e9, 2) + " gwei"
	}
	tokens := new(big.Float).Quo(new(big.Float).SetUint64(wei), big.NewFloat(weiPerToken))
	f, _ := tokens.Float64()
	return humanize.FtoaWithDigits(f, 6) + " LAT"
}

func (e *Engine) bytesFunc(v interface{}) string {
	b, ok := toUint64(v)
	if !ok {
		return "?"
	}
	return humanize.IBytes(b)
}

func (e *Engine) commaFunc(v interface{}) string {
	n, ok := toUint64(v)
	if !ok {
		return "?"
	}
	return humanize.Comma(int64(n))
}

func (e *Engine) starsFunc(rating float64) string {
	return FormatStars(rating)
}

// FormatStars renders a 0-5 rating as five stars plus the number
func FormatStars(rating float64) string {
	if math.IsNaN(rating) || rating < 0 {
		rating = 0
	}
	if rating > 5 {
		rating = 5
	}
	full := int(math.Round(rating))
	return strings.Repeat("★", full) + strings.Repeat("☆", 5-full) + fmt.Sprintf(" %.1f", rating)
}

func (e *Engine) accessFunc(v interface{}) string {
	access := fmt.Sprintf("%v", v)
	switch access {
	case "public":
		return e.colorFunc("42", access)
	case "paid":
		return e.colorFunc("214", access)
	case "private":
		return e.colorFunc("196", access)
	case "whitelist":
		return e.colorFunc("33", access)
	default:
		return access
	}
}

// Time functions
func (e *Engine) agoFunc(t interface{}) string {
	ts, ok := toTime(t)
	if !ok {
		return "unknown"
	}
	return humanize.RelTime(ts, e.now(), "ago", "from now")
}

func (e *Engine) timestampFunc(t interface{}) string {
	ts, ok := toTime(t)
	if !ok {
		return "unknown"
	}
	return ts.Format("2006-01-02 15:04")
}

// String functions

// truncateFunc cuts text to width display cells, ANSI sequences included
func (e *Engine) truncateFunc(width int, text string) string {
	if width <= 0 {
		return ""
	}
	if lipgloss.Width(text) <= width {
		return text
	}
	return truncate.StringWithTail(text, uint(width), "…")
}

// padFunc right-pads text to width display cells
func (e *Engine) padFunc(width int, text string) string {
	return runewidth.FillRight(text, width)
}

func (e *Engine) defaultFunc(defaultVal, val interface{}) interface{} {
	if val == nil {
		return defaultVal
	}
	switch v := val.(type) {
	case string:
		if v == "" {
			return defaultVal
		}
	case []string:
		if len(v) == 0 {
			return defaultVal
		}
	case int:
		if v == 0 {
			return defaultVal
		}
	case uint64:
		if v == 0 {
			return defaultVal
		}
	case float64:
		if v == 0 {
			return defaultVal
		}
	}
	return val
}

func toUint64(v interface{}) (uint64, bool) {
	switch val := v.(type) {
	case uint64:
		return val, true
	case int:
		if val < 0 {
			return 0, false
		}
		return uint64(val), true
	case int64:
		if val < 0 {
			return 0, false
		}
		return uint64(val), true
	case float64:
		if val < 0 || math.IsNaN(val) {
			return 0, false
		}
		return uint64(val), true
	default:
		return 0, false
	}
}

func toTime(v interface{}) (time.Time, bool) {
	switch val := v.(type) {
	case time.Time:
		return val, !val.IsZero()
	case string:
		parsed, err := time.Parse(time.RFC3339, val)
		if err != nil {
			return time.Time{}, false
		}
		return parsed, true
	default:
		return time.Time{}, false
	}
}
