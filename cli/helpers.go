package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/adonese/hrportal/hr_fields"
	"github.com/adonese/hrportal/store"
	"github.com/gofiber/fiber/v2"
	"github.com/goccy/go-json"
)

// commands run instead of the server when named as the first argument.
var commands = map[string]string{
	"render-config": "print the effective configuration with secrets redacted",
	"routes":        "list the HTTP routes",
	"migrate":       "apply database migrations and exit",
}

func command() string {
	if len(os.Args) > 1 {
		if _, ok := commands[os.Args[1]]; ok {
			return os.Args[1]
		}
	}
	return ""
}

func runCommand(name string, w io.Writer) error {
	switch name {
	case "render-config":
		return renderConfig(w)
	case "routes":
		for _, r := range listRoutes(GetMainEngine(&portal{Logger: logrusLogger, DB: &store.DB{}, Registry: newRegistry()})) {
			fmt.Fprintf(w, "%-7s %s\n", r.Method, r.Path)
		}
		return nil
	case "migrate":
		cfg, err := decodeConfig()
		if err != nil {
			return err
		}
		p, err := openPortal(context.Background(), cfg, logrusLogger)
		if err != nil {
			return err
		}
		return p.Close()
	}
	return fmt.Errorf("unknown command %q", name)
}

func decodeConfig() (cfg hr_fields.PortalConfig, err error) {
	raw, err := loadConfig()
	if err != nil {
		return cfg, err
	}
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("decode config: %w", err)
	}
	cfg.Defaults()
	return cfg, nil
}

type routeInfo struct {
	Method string
	Path   string
}

// listRoutes returns the app's handler routes sorted by path. Middleware
// mounts and the HEAD twins fiber adds for GETs are left out.
func listRoutes(app *fiber.App) []routeInfo {
	var out []routeInfo
	for _, r := range app.GetRoutes(true) {
		if r.Method == fiber.MethodHead {
			continue
		}
		path := r.Path
		if len(path) > 1 {
			path = strings.TrimSuffix(path, "/")
		}
		out = append(out, routeInfo{Method: r.Method, Path: path})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Path == out[j].Path {
			return out[i].Method < out[j].Method
		}
		return out[i].Path < out[j].Path
	})
	return out
}
