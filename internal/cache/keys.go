package cache

import (
	"strconv"

	"rotational-map/internal/analytics"

	"github.com/cespare/xxhash/v2"
)

// IDsKey：按筛选与可见 ID 序列生成键
// 约束：保留 ID 顺序；作物并列顺序依赖输入顺序，不同顺序不能共用结果。
// 边界查询同样以查询结果的 ID 序列为键，键与参与统计的地块集合一一对应
func IDsKey(f analytics.Filter, ids []string) string {
	d := xxhash.New()
	for _, id := range ids {
		_, _ = d.WriteString(id)
		_, _ = d.Write([]byte{0})
	}
	return string(f) + "|ids:" + strconv.Itoa(len(ids)) + ":" + strconv.FormatUint(d.Sum64(), 16)
}
