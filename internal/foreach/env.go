package foreach

import "strings"

// Variables exposed to every command.
const (
	EnvPath     = "path"
	EnvToplevel = "toplevel"
)

// childEnv returns base with any existing path/toplevel entries replaced by
// the given values. base is not modified.
func childEnv(base []string, rel, root string) []string {
	env := make([]string, 0, len(base)+2)
	for _, kv := range base {
		key, _, _ := strings.Cut(kv, "=")
		if key == EnvPath || key == EnvToplevel {
			continue
		}
		env = append(env, kv)
	}
	return append(env, EnvPath+"="+rel, EnvToplevel+"="+root)
}
