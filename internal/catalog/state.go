package catalog

import (
	"errors"
	"fmt"

	"github.com/John-Robertt/moviecat/internal/domain"
)

// LoadState 是数据集加载阶段。
type LoadState int

const (
	Loading LoadState = iota
	Loaded
	Failed
)

func (s LoadState) String() string {
	switch s {
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("LoadState(%d)", int(s))
	}
}

// ViewState 是互斥的渲染状态。
type ViewState int

const (
	ViewLoading ViewState = iota
	ViewError
	ViewEmpty
	ViewGrid
)

func (v ViewState) String() string {
	switch v {
	case ViewLoading:
		return "loading"
	case ViewError:
		return "error"
	case ViewEmpty:
		return "empty"
	case ViewGrid:
		return "grid"
	default:
		return fmt.Sprintf("ViewState(%d)", int(v))
	}
}

var (
	// ErrUnknownOption 表示过滤值既不是“未选择”也不在该维度的选项集合中。
	ErrUnknownOption = errors.New("catalog: value not in option set")
	// ErrLoadSettled 表示加载结果事件到达时状态已不再是 Loading（加载只发生一次）。
	ErrLoadSettled = errors.New("catalog: load already settled")
)

// State 是目录视图的不可变快照。
//
// 约束：
// - Options 只在 LoadSucceeded 时计算一次
// - Visible 始终等于 Visible(Records, Filters)
// - 快照内的切片由所有持有者共享，任何人都不得原地修改
type State struct {
	Records []domain.Movie
	Options Options
	Filters Filters
	Visible []domain.Movie
	Load    LoadState
	Err     error
}

// NewState 返回初始快照：Loading，无记录，无选择。
func NewState() State {
	return State{
		Records: []domain.Movie{},
		Visible: []domain.Movie{},
		Load:    Loading,
	}
}

// Event 是驱动状态变化的事件（封闭集合）。
type Event interface {
	isEvent()
}

// LoadSucceeded 携带加载得到的完整记录列表。
type LoadSucceeded struct {
	Records []domain.Movie
}

// LoadFailed 携带加载失败原因（网络/解析错误）。
type LoadFailed struct {
	Err error
}

// FilterChanged 把一个维度的选择改为 Value（空串 = 未选择）。
type FilterChanged struct {
	Dim   Dimension
	Value string
}

func (LoadSucceeded) isEvent() {}
func (LoadFailed) isEvent()    {}
func (FilterChanged) isEvent() {}

// Reduce 是唯一的状态转移函数：给定旧快照与事件，返回新快照。
// 事件被拒绝时返回原快照与错误。
func Reduce(s State, ev Event) (State, error) {
	switch e := ev.(type) {
	case LoadSucceeded:
		if s.Load != Loading {
			return s, ErrLoadSettled
		}
		records := make([]domain.Movie, len(e.Records))
		for i := range e.Records {
			records[i] = e.Records[i].Normalize()
		}
		s.Records = records
		s.Options = DeriveOptions(records)
		s.Load = Loaded
		s.Err = nil
		s.Visible = Visible(records, s.Filters)
		return s, nil

	case LoadFailed:
		if s.Load != Loading {
			return s, ErrLoadSettled
		}
		err := e.Err
		if err == nil {
			err = errors.New("dataset load failed")
		}
		s.Load = Failed
		s.Err = err
		return s, nil

	case FilterChanged:
		if _, err := ParseDimension(string(e.Dim)); err != nil {
			return s, err
		}
		if e.Value != "" && !s.Options.Contains(e.Dim, e.Value) {
			return s, fmt.Errorf("%w: %s=%q", ErrUnknownOption, e.Dim, e.Value)
		}
		s.Filters = s.Filters.With(e.Dim, e.Value)
		s.Visible = Visible(s.Records, s.Filters)
		return s, nil

	default:
		return s, fmt.Errorf("catalog: unsupported event %T", ev)
	}
}

// Apply 依次应用多个过滤选择；任一被拒绝则返回原快照与错误。
func Apply(s State, f Filters) (State, error) {
	next := s
	for _, d := range dimensions {
		var err error
		next, err = Reduce(next, FilterChanged{Dim: d, Value: f.Get(d)})
		if err != nil {
			return s, err
		}
	}
	return next, nil
}

// View 判定当前应渲染的状态。
func (s State) View() ViewState {
	switch s.Load {
	case Loading:
		return ViewLoading
	case Failed:
		return ViewError
	}
	if len(s.Visible) == 0 {
		return ViewEmpty
	}
	return ViewGrid
}
