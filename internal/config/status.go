package config

import (
	"os"
	"strings"

	"github.com/dustin/go-humanize"
)

// FontSource represents where a font face comes from.
type FontSource string

const (
	FontSourceEnv      FontSource = "env"
	FontSourceConfig   FontSource = "config"
	FontSourceEmbedded FontSource = "embedded"
)

// FontStatus represents the status of one configured font face.
type FontStatus struct {
	Face   string     `json:"face"`
	Path   string     `json:"path,omitempty"`
	Source FontSource `json:"source"`
	Exists bool       `json:"exists"`
	Size   string     `json:"size,omitempty"` // e.g., "412 kB"
}

// OK reports whether the face can be used: either embedded or present on disk.
func (s FontStatus) OK() bool {
	return s.Source == FontSourceEmbedded || s.Exists
}

// CheckFonts returns the status of every font face.
func CheckFonts(cfg *Config) []FontStatus {
	return []FontStatus{
		checkFont("regular", cfg.Fonts.Regular, "FONTS_REGULAR"),
		checkFont("bold", cfg.Fonts.Bold, "FONTS_BOLD"),
		checkFont("italic", cfg.Fonts.Italic, "FONTS_ITALIC"),
		checkFont("bold_italic", cfg.Fonts.BoldItalic, "FONTS_BOLD_ITALIC"),
	}
}

// checkFont checks if a face is configured, where it came from and whether
// the file is there.
func checkFont(face, path, envKey string) FontStatus {
	status := FontStatus{Face: face, Path: path}
	if path == "" {
		status.Source = FontSourceEmbedded
		return status
	}

	if os.Getenv(EnvPrefix+"_"+envKey) != "" {
		status.Source = FontSourceEnv
	} else {
		status.Source = FontSourceConfig
	}
	if fi, err := os.Stat(path); err == nil && !fi.IsDir() {
		status.Exists = true
		status.Size = humanize.Bytes(uint64(fi.Size()))
	}
	return status
}

// Summary renders the effective configuration as "key = value" lines.
func Summary(cfg *Config) string {
	var sb strings.Builder
	line := func(k, v string) { sb.WriteString(k + " = " + v + "\n") }
	line("output.dir", cfg.Output.Dir)
	line("output.html", boolString(cfg.Output.HTML))
	line("page.size", cfg.Page.Size)
	line("page.margins_cm", humanize.Ftoa(cfg.Page.MarginTop)+" / "+humanize.Ftoa(cfg.Page.MarginRight)+
		" / "+humanize.Ftoa(cfg.Page.MarginBottom)+" / "+humanize.Ftoa(cfg.Page.MarginLeft))
	line("fonts.family", cfg.Fonts.Family)
	line("charts.dpi", humanize.Comma(int64(cfg.Charts.DPI)))
	line("render.jobs", humanize.Comma(int64(cfg.Render.Jobs)))
	line("logging.level", cfg.Logging.Level)
	line("logging.format", cfg.Logging.Format)
	return sb.String()
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
