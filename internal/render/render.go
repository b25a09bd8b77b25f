package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"
	"time"

	"wmsconsole/internal/models"
	"wmsconsole/internal/services"
	"wmsconsole/internal/session"

	"github.com/labstack/echo/v4"
)

//go:embed templates/*.html
var templateFS embed.FS

const layoutFile = "templates/layout.html"

// Page is the data every template receives
type Page struct {
	Title       string
	Flash       string
	Error       string
	FieldErrors map[string][]string
	Data        any
}

// Renderer renders the embedded page templates inside the shared layout.
// Each page is parsed once; a clone gets the request's session helpers.
type Renderer struct {
	pages map[string]*template.Template
	rbac  services.RBACService
}

// NewRenderer parses every page template against the layout
func NewRenderer(rbac services.RBACService) (*Renderer, error) {
	files, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	r := &Renderer{pages: map[string]*template.Template{}, rbac: rbac}
	for _, file := range files {
		if file == layoutFile {
			continue
		}
		t, err := template.New("layout").Funcs(baseFuncs()).Funcs(sessionFuncs(nil, rbac)).ParseFS(templateFS, layoutFile, file)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", file, err)
		}
		r.pages[strings.TrimSuffix(path.Base(file), ".html")] = t
	}
	return r, nil
}

// Render implements echo.Renderer. name is the page name without extension.
func (r *Renderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	page, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}
	t, err := page.Clone()
	if err != nil {
		return err
	}
	t.Funcs(sessionFuncs(session.FromEcho(c), r.rbac))
	return t.ExecuteTemplate(w, "layout", data)
}

func sessionFuncs(sc *session.Context, rbac services.RBACService) template.FuncMap {
	return template.FuncMap{
		"loggedIn": func() bool { return sc.LoggedIn() },
		"username": func() string { return sc.Username() },
		"role":     func() models.Role { return sc.Role() },
		"can": func(capability string) bool {
			return sc.LoggedIn() && rbac.Can(sc.Role(), capability)
		},
	}
}

func baseFuncs() template.FuncMap {
	return template.FuncMap{
		"datetime": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Local().Format("2006-01-02 15:04")
		},
		"fieldError": func(errs map[string][]string, field string) string {
			return strings.Join(errs[field], " ")
		},
		"productName": func(products []models.Product, id int) string {
			if p := models.FindProductByID(products, id); p != nil {
				return p.Name
			}
			return fmt.Sprintf("#%d", id)
		},
		"percent": func(value, max int) int {
			if max <= 0 {
				return 0
			}
			return value * 100 / max
		},
		"year": func() int { return time.Now().Year() },
	}
}
