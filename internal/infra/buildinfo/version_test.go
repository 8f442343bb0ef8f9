package buildinfo

import (
	"runtime"
	"strings"
	"testing"
)

func TestGet(t *testing.T) {
	info := Get()

	if info.Version == "" || info.Commit == "" || info.BuildTime == "" {
		t.Errorf("fields should default to non-empty values: %+v", info)
	}
	if info.GoVersion != runtime.Version() {
		t.Errorf("GoVersion = %q, want %q", info.GoVersion, runtime.Version())
	}
	if info.Platform != runtime.GOOS+"/"+runtime.GOARCH {
		t.Errorf("Platform = %q", info.Platform)
	}
}

func TestGet_InjectedCommit(t *testing.T) {
	saved := Commit
	defer func() { Commit = saved }()

	Commit = "abc1234"
	if got := Get().Commit; got != "abc1234" {
		t.Errorf("Commit = %q, want injected value", got)
	}
}

func TestString(t *testing.T) {
	s := String()
	if !strings.HasPrefix(s, Version+" (commit: ") || !strings.Contains(s, "built: "+BuildTime) {
		t.Errorf("String() = %q", s)
	}
}

func TestUserAgent(t *testing.T) {
	saved := Version
	defer func() { Version = saved }()

	Version = "v1.2.3"
	if got := UserAgent(); got != "shiptrack-cli/v1.2.3" {
		t.Errorf("UserAgent() = %q", got)
	}
}
