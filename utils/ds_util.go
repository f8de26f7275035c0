package utils

import (
	"github.com/emirpasic/gods/sets"
	"github.com/emirpasic/gods/sets/hashset"
)

// List2set 转换为set，元素统一存为string，查找时直接使用原始字符串
func List2set[T ~string](list []T) sets.Set {
	set := hashset.New()
	for _, value := range list {
		set.Add(string(value))
	}
	return set
}
