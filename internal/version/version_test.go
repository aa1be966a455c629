package version

import (
	"regexp"
	"strings"
	"testing"

	"github.com/fatih/color"
)

var ansiSeq = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func plain(s string) string {
	return ansiSeq.ReplaceAllString(s, "")
}

func TestVersionDefault(t *testing.T) {
	got := plain(Version)
	if got != "0.1.0-dev" {
		t.Errorf("Version = %q, want %q", got, "0.1.0-dev")
	}
}

func TestVersionColorizesComponents(t *testing.T) {
	prev := color.NoColor
	color.NoColor = false
	defer func() { color.NoColor = prev }()

	banner := versionMajorColor.Sprint("0") + "." + versionMinorColor.Sprint("1") + "." + versionPatchColor.Sprint("0") + "-dev"
	if !strings.Contains(banner, "\x1b[") {
		t.Error("expected ANSI escapes in colored version banner")
	}
	if plain(banner) != "0.1.0-dev" {
		t.Errorf("stripped banner = %q, want %q", plain(banner), "0.1.0-dev")
	}
}

func TestOptionalFieldsDefaultEmpty(t *testing.T) {
	// GitCommit, GitMessage and BuildDate are only populated via -ldflags.
	if GitCommit != "" {
		t.Errorf("GitCommit = %q, want empty", GitCommit)
	}
	if GitMessage != "" {
		t.Errorf("GitMessage = %q, want empty", GitMessage)
	}
	if BuildDate != "" {
		t.Errorf("BuildDate = %q, want empty", BuildDate)
	}
}

func TestVersionCanBeOverridden(t *testing.T) {
	orig := Version
	defer func() { Version = orig }()

	Version = "2.0.0"
	if Version != "2.0.0" {
		t.Errorf("Version = %q, want %q", Version, "2.0.0")
	}
}
