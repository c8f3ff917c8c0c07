package settings

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Path roots whose changes move the camera.
var poseRoots = []string{"positions", "standing_movement"}

// AffectsPose reports whether a change at keyPath requires the camera to be
// re-snapped to its authored pose.
func AffectsPose(keyPath string) bool {
	for _, root := range poseRoots {
		if keyPath == root || strings.HasPrefix(keyPath, root+".") {
			return true
		}
	}
	return false
}

// Flatten returns every leaf of s keyed by dotted path, e.g.
// "positions.standing.position.z". Durations are rendered as strings.
func Flatten(s Settings) (map[string]any, error) {
	raw, err := yaml.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshal settings: %w", err)
	}
	var tree map[string]any
	if err := yaml.Unmarshal(raw, &tree); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	out := make(map[string]any)
	flattenInto("", tree, out)
	return out, nil
}

func flattenInto(prefix string, node map[string]any, out map[string]any) {
	for k, v := range node {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if child, ok := v.(map[string]any); ok {
			flattenInto(key, child, out)
			continue
		}
		out[key] = v
	}
}

// Diff returns the sorted key paths whose values differ between a and b.
func Diff(a, b map[string]any) []string {
	var changed []string
	for k, av := range a {
		if bv, ok := b[k]; !ok || !reflect.DeepEqual(av, bv) {
			changed = append(changed, k)
		}
	}
	for k := range b {
		if _, ok := a[k]; !ok {
			changed = append(changed, k)
		}
	}
	sort.Strings(changed)
	return changed
}
