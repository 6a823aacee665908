package parcel

import (
	"sort"

	"github.com/paulmach/orb"
)

// Store：只读地块库
// 约束：构建后不再修改，多个会话可无锁并发读取；ID 重复时保留首次出现的记录
type Store struct {
	items []Parcel
	byID  map[string]int
	kd    *kdNode
	bound orb.Bound
}

// NewStore：按输入顺序构建地块库与代表点索引
func NewStore(ps []Parcel) *Store {
	s := &Store{byID: make(map[string]int, len(ps))}
	for _, p := range ps {
		if _, dup := s.byID[p.ID]; dup {
			continue
		}
		s.byID[p.ID] = len(s.items)
		s.items = append(s.items, normalize(p))
	}
	idx := make([]indexed, len(s.items))
	for i, p := range s.items {
		idx[i] = indexed{idx: i, pt: p.Anchor}
		if i == 0 {
			s.bound = orb.Bound{Min: p.Anchor, Max: p.Anchor}
		} else {
			s.bound = s.bound.Extend(p.Anchor)
		}
	}
	s.kd = buildKD(idx, 0)
	return s
}

func (s *Store) Len() int { return len(s.items) }

// All：返回全部地块（加载顺序）；调用方不得修改返回切片
func (s *Store) All() []Parcel { return s.items }

// Get：按 ID 查找地块
func (s *Store) Get(id string) (Parcel, bool) {
	i, ok := s.byID[id]
	if !ok {
		return Parcel{}, false
	}
	return s.items[i], true
}

// Lookup：按渲染方上报的要素 ID 序列取地块
// 约束：保持输入顺序；未知 ID 静默跳过
func (s *Store) Lookup(ids []string) []Parcel {
	out := make([]Parcel, 0, len(ids))
	for _, id := range ids {
		if i, ok := s.byID[id]; ok {
			out = append(out, s.items[i])
		}
	}
	return out
}

// InBounds：返回代表点落在包围盒内的地块，按加载顺序排列
func (s *Store) InBounds(b orb.Bound) []Parcel {
	var hits []int
	rangeQuery(s.kd, b, &hits)
	sort.Ints(hits)
	out := make([]Parcel, 0, len(hits))
	for _, i := range hits {
		out = append(out, s.items[i])
	}
	return out
}

// Bound：全部代表点的包围盒；空库返回零值
func (s *Store) Bound() orb.Bound { return s.bound }
