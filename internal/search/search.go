// 包 search：村名子串搜索
package search

import (
	"strings"

	"rotational-map/internal/region"
)

// MaxResults：单次搜索返回的最大条目数
const MaxResults = 5

// Search：区分大小写的子串匹配，保持区域库顺序，最多返回 5 条
// 约束：空查询返回空结果，而非全部区域
func Search(query string, regions []region.Region) []region.Region {
	out := []region.Region{}
	if query == "" {
		return out
	}
	for _, r := range regions {
		if strings.Contains(r.Name, query) {
			out = append(out, r)
			if len(out) == MaxResults {
				break
			}
		}
	}
	return out
}

// Names：提取结果名称
func Names(rs []region.Region) []string {
	out := make([]string, 0, len(rs))
	for _, r := range rs {
		out = append(out, r.Name)
	}
	return out
}
