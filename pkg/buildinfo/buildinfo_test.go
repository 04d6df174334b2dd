package buildinfo

import (
	"fmt"
	"runtime/debug"
	"testing"

	"github.com/paiml/ruchy-sub012/pkg/tt"

	. "github.com/paiml/ruchy-sub012/pkg/prog/progtest"
)

func TestProgram(t *testing.T) {
	Test(t, Program{},
		ThatRuchy("-version").WritesStdout(Value.Version+"\n"),
		ThatRuchy("-version", "-json").WritesStdout(mustToJSON(Value.Version)+"\n"),

		ThatRuchy("-buildinfo").WritesStdout(
			fmt.Sprintf(
				"Version: %v\nGo version: %v\n", Value.Version, Value.GoVersion)),
		ThatRuchy("-buildinfo", "-json").WritesStdout(mustToJSON(Value)+"\n"),

		ThatRuchy().ExitsWith(2).WritesStderr("internal error: no suitable subprogram\n"),
	)
}

func vcsSettings(modified, time string) *debug.BuildInfo {
	return &debug.BuildInfo{Settings: []debug.BuildSetting{
		{Key: "vcs.revision", Value: "fedcba9876543210"},
		{Key: "vcs.time", Value: time},
		{Key: "vcs.modified", Value: modified},
	}}
}

// Turns a fixed *debug.BuildInfo into a replacement for debug.ReadBuildInfo.
func reader(bi *debug.BuildInfo) func() (*debug.BuildInfo, bool) {
	return func() (*debug.BuildInfo, bool) { return bi, bi != nil }
}

func TestDevVersion(t *testing.T) {
	const next = "0.3.0"
	tt.Test(t, tt.Fn("devVersion", devVersion).ArgsFmt("(%q, %q, %p)"), tt.Table{
		tt.Args(next, "", reader(nil)).Rets("0.3.0-dev.unknown"),
		tt.Args(next, "", reader(&debug.BuildInfo{Main: debug.Module{Version: "(devel)"}})).
			Rets("0.3.0-dev.unknown"),
		// A version set by "go install module@version" is kept.
		tt.Args(next, "", reader(&debug.BuildInfo{Main: debug.Module{Version: "v0.3.0-dev.abc"}})).
			Rets("0.3.0-dev.abc"),
		tt.Args(next, "", reader(vcsSettings("false", "2026-03-14T01:59:26Z"))).
			Rets("0.3.0-dev.0.20260314015926-fedcba987654"),
		tt.Args(next, "", reader(vcsSettings("true", "2026-03-14T01:59:26Z"))).
			Rets("0.3.0-dev.0.20260314015926-fedcba987654-dirty"),
		tt.Args(next, "", reader(vcsSettings("false", "Pi Day"))).
			Rets("0.3.0-dev.unknown"),
		tt.Args(next, "20260314015926-fedcba987654", reader(nil)).
			Rets("0.3.0-dev.0.20260314015926-fedcba987654"),
	})
}
