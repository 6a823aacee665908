package region

import "github.com/paulmach/orb"

// Store：只读区域库，保留加载顺序（搜索结果依赖此顺序）
type Store struct {
	items  []Region
	byName map[string]int
	bounds []orb.Bound
}

// NewStore：构建区域库；名称重复时保留首次出现
func NewStore(rs []Region) *Store {
	s := &Store{byName: make(map[string]int, len(rs))}
	for _, r := range rs {
		if _, dup := s.byName[r.Name]; dup {
			continue
		}
		s.byName[r.Name] = len(s.items)
		s.items = append(s.items, r)
		s.bounds = append(s.bounds, r.Ring.Bound())
	}
	return s
}

func (s *Store) Len() int { return len(s.items) }

// All：加载顺序的全部区域；调用方不得修改
func (s *Store) All() []Region { return s.items }

func (s *Store) Get(name string) (Region, bool) {
	i, ok := s.byName[name]
	if !ok {
		return Region{}, false
	}
	return s.items[i], true
}

// Center：按名称解析飞行定位中心；未找到或无顶点返回 false
func (s *Store) Center(name string) (orb.Point, bool) {
	r, ok := s.Get(name)
	if !ok {
		return orb.Point{}, false
	}
	return r.Centroid()
}

// At：返回包含该点的第一个区域（加载顺序）
// 约束：先包围盒过滤，再做点入环判定
func (s *Store) At(pt orb.Point) (Region, bool) {
	for i := range s.items {
		if !s.bounds[i].Contains(pt) {
			continue
		}
		if s.items[i].Contains(pt) {
			return s.items[i], true
		}
	}
	return Region{}, false
}
