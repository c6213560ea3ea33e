package commands

import (
	"encoding/json"
	"io"
	"runtime"
)

// Version prints the build and toolchain versions as JSON.
func Version(out io.Writer, build string) error {
	return json.NewEncoder(out).Encode(map[string]string{
		"version": build,
		"go":      runtime.Version(),
	})
}
