package launcher

import (
	"sort"
	"strings"
)

// MergeEnvironment 用overrides覆盖base中的环境变量
// overrides中值为nil的变量会被删除
func MergeEnvironment(base []string, overrides map[string]*string) []string {
	if len(overrides) == 0 {
		return base
	}
	merged := make([]string, 0, len(base)+len(overrides))
	for _, kv := range base {
		key := kv
		if i := strings.IndexByte(kv, '='); i >= 0 {
			key = kv[:i]
		}
		if _, ok := overrides[key]; ok {
			continue
		}
		merged = append(merged, kv)
	}
	keys := make([]string, 0, len(overrides))
	for key := range overrides {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if value := overrides[key]; value != nil {
			merged = append(merged, key+"="+*value)
		}
	}
	return merged
}
