package parcel

import "github.com/paulmach/orb"

// 文档注释：地块代表点 KD-Tree（二维经纬）
// 背景：视口停止移动时按可见范围取地块，避免每次全量扫描。
// 约束：按经度/纬度交替分割；仅支持矩形范围查询；构建后只读。
type kdNode struct {
	idx int
	pt  orb.Point
	ax  int // 0:lng,1:lat
	l   *kdNode
	r   *kdNode
}

type indexed struct {
	idx int
	pt  orb.Point
}

func buildKD(items []indexed, depth int) *kdNode {
	if len(items) == 0 {
		return nil
	}
	ax := depth % 2
	mid := len(items) / 2
	selectNth(items, mid, ax)
	node := &kdNode{idx: items[mid].idx, pt: items[mid].pt, ax: ax}
	node.l = buildKD(items[:mid], depth+1)
	node.r = buildKD(items[mid+1:], depth+1)
	return node
}

// 原地 nth 元素选择
func selectNth(a []indexed, n int, ax int) {
	lo, hi := 0, len(a)-1
	for lo < hi {
		p := partition(a, lo, hi, (lo+hi)/2, ax)
		if p == n {
			return
		}
		if n < p {
			hi = p - 1
		} else {
			lo = p + 1
		}
	}
}

func partition(a []indexed, lo, hi, pivot, ax int) int {
	pv := a[pivot]
	a[pivot], a[hi] = a[hi], a[pivot]
	i := lo
	for j := lo; j < hi; j++ {
		if a[j].pt[ax] < pv.pt[ax] {
			a[i], a[j] = a[j], a[i]
			i++
		}
	}
	a[i], a[hi] = a[hi], a[i]
	return i
}

// rangeQuery：收集落在包围盒内（含边界）的地块下标
func rangeQuery(n *kdNode, b orb.Bound, out *[]int) {
	if n == nil {
		return
	}
	if b.Contains(n.pt) {
		*out = append(*out, n.idx)
	}
	key := n.pt[n.ax]
	if b.Min[n.ax] <= key {
		rangeQuery(n.l, b, out)
	}
	if b.Max[n.ax] >= key {
		rangeQuery(n.r, b, out)
	}
}
