package tour

import "time"

// Timer：可取消的单次延时回调
type Timer interface {
	Stop() bool
}

// Scheduler：延时回调来源；生产环境使用 time.AfterFunc，测试注入手动时钟
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// RealScheduler：基于 time.AfterFunc 的调度器
type RealScheduler struct{}

func (RealScheduler) AfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }
