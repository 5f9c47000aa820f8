package prompts

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"text/template"
)

//go:embed templates
var builtinFS embed.FS

// Manager handles loading and rendering of prompt templates.
//
// Templates ship embedded in the binary. An optional override directory lets
// users retune prompts without rebuilding: any .tmpl file found there replaces
// the embedded template of the same name.
type Manager struct {
	root *template.Template
}

// NewManager creates a new prompt manager. overrideDir may be empty.
func NewManager(overrideDir string) (*Manager, error) {
	m := &Manager{}
	m.root = template.New("root").Funcs(template.FuncMap{
		"pack":  m.packFunc,
		"focus": focusFunc,
		"maybe": maybeFunc,
		"pick":  pickFunc,
	})

	sub, err := fs.Sub(builtinFS, "templates")
	if err != nil {
		return nil, fmt.Errorf("opening embedded templates: %w", err)
	}
	if err := m.loadFS(sub); err != nil {
		return nil, fmt.Errorf("loading embedded templates: %w", err)
	}

	if overrideDir != "" {
		if err := m.loadFS(os.DirFS(overrideDir)); err != nil {
			return nil, fmt.Errorf("loading override templates: %w", err)
		}
	}

	return m, nil
}

func (m *Manager) loadFS(fsys fs.FS) error {
	return fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}

		if d.IsDir() || !strings.HasSuffix(path, ".tmpl") {
			return nil
		}

		content, err := fs.ReadFile(fsys, path)
		if err != nil {
			return err
		}

		name := filepath.ToSlash(path)
		if _, err = m.root.New(name).Parse(string(content)); err != nil {
			return fmt.Errorf("parsing %s: %w", path, err)
		}
		return nil
	})
}

// Render executes the named template with the provided data.
func (m *Manager) Render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := m.root.ExecuteTemplate(&buf, name, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// packFunc renders the style fragment for a cut pack, if one exists.
// Usage: {{pack .Pack.ID .}}
func (m *Manager) packFunc(id string, data any) (string, error) {
	if id == "" {
		return "", nil
	}

	tmplName := "pack/" + strings.ToLower(id) + ".tmpl"
	t := m.root.Lookup(tmplName)
	if t == nil {
		// Silently ignore missing pack fragments
		return "", nil
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// focusFunc shuffles the selected focus tags and returns them comma-separated.
// Shuffling keeps repeated premieres from always leading with the same tag.
func focusFunc(focus []string) string {
	if len(focus) == 0 {
		return ""
	}
	shuffled := make([]string, len(focus))
	copy(shuffled, focus)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return strings.Join(shuffled, ", ")
}

// maybeFunc includes content with a given probability (0-100).
// Usage: {{maybe 50 "This text appears 50% of the time"}}
// Re-rolls on each template render.
func maybeFunc(percent int, content string) string {
	if percent <= 0 {
		return ""
	}
	if percent >= 100 {
		return content
	}
	if rand.Intn(100) < percent {
		return content
	}
	return ""
}

// pickFunc selects one random option from a list separated by "|||".
// Usage: {{pick "Option A|||Option B|||Option C"}}
// Re-rolls on each template render.
func pickFunc(options string) string {
	parts := strings.Split(options, "|||")
	if len(parts) == 0 {
		return ""
	}
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts[rand.Intn(len(parts))]
}
