package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/thesrcielos/PokeMemory/internal/game"
	"github.com/thesrcielos/PokeMemory/internal/stats"
	"github.com/thesrcielos/PokeMemory/internal/trophy"
	"github.com/thesrcielos/PokeMemory/internal/user"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

const (
	LoginPage      = "login.html"
	RegisterPage   = "register.html"
	DifficultyPage = "difficulty.html"
	GamePage       = "game.html"
	ProfilePage    = "profile.html"
)

type LoginData struct {
	Error string
	Email string
}

type RegisterData struct {
	Error    string
	Username string
	Email    string
}

type DifficultyOption struct {
	Difficulty trophy.Difficulty
	Rules      trophy.Rules
}

type DifficultyData struct {
	User         *user.User
	Options      []DifficultyOption
	Leaderboard  []stats.Position
	FeedEndpoint string
}

type GameData struct {
	User       *user.User
	Difficulty trophy.Difficulty
	Rules      trophy.Rules
}

type ProfileData struct {
	*game.ProfileView
}

func DifficultyOptions() []DifficultyOption {
	options := make([]DifficultyOption, 0, len(trophy.Difficulties))
	for _, d := range trophy.Difficulties {
		r, err := trophy.RulesFor(d)
		if err != nil {
			continue
		}
		options = append(options, DifficultyOption{Difficulty: d, Rules: r})
	}
	return options
}

var funcMap = template.FuncMap{
	"calcLevel": stats.ExperienceLevel,
	"formatDate": func(t time.Time) string {
		return t.Format("Jan 2, 2006 15:04")
	},
	"formatSeconds": func(s float64) string {
		total := int(s)
		return fmt.Sprintf("%d:%02d", total/60, total%60)
	},
}

// Renderer serves the embedded html/template pages through echo.
type Renderer struct {
	templates *template.Template
}

func NewRenderer() (*Renderer, error) {
	tmpl, err := template.New("").Funcs(funcMap).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return &Renderer{templates: tmpl}, nil
}

func (r *Renderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	if r.templates.Lookup(name) == nil {
		return fmt.Errorf("template %s not found", name)
	}
	return r.templates.ExecuteTemplate(w, name, data)
}

// Static exposes the embedded css and js assets.
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
